//go:build !linux

package provider

func loadAverage() (float64, error) {
	return 0, ErrUnavailable
}
