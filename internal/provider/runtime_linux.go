//go:build linux

package provider

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// siLoadShift is the fixed-point shift the kernel applies to sysinfo loads.
const siLoadShift = 16

func loadAverage() (float64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	return float64(info.Loads[0]) / float64(1<<siLoadShift), nil
}
