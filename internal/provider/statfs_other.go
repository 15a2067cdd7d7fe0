//go:build !linux && !darwin

package provider

func statfs(_ string) (DiskSpace, error) {
	return DiskSpace{}, ErrUnavailable
}
