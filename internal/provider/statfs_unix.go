//go:build linux || darwin

package provider

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func statfs(path string) (DiskSpace, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return DiskSpace{}, fmt.Errorf("statfs %q: %w", path, err)
	}
	bsize := uint64(st.Bsize)
	return DiskSpace{
		Total:  uint64(st.Blocks) * bsize,
		Usable: uint64(st.Bavail) * bsize,
	}, nil
}
