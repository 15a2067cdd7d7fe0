package collector

import (
	"context"
	"fmt"

	"github.com/HerbHall/hostwatch/internal/provider"
	"github.com/HerbHall/hostwatch/pkg/models"
)

// Disk reports filesystem usage for a single path.
type Disk struct {
	provider provider.Provider
	opts     Options
}

// NewDisk returns the disk collector for opts.DiskPath.
func NewDisk(p provider.Provider, opts Options) *Disk {
	return &Disk{provider: p, opts: opts.withDefaults()}
}

func (c *Disk) Family() models.Family { return models.FamilyDisk }

// Path returns the measured filesystem path.
func (c *Disk) Path() string { return c.opts.DiskPath }

// Collect computes usage = (total - usable) / total * 100.
func (c *Disk) Collect(ctx context.Context, label string) (models.Snapshot, error) {
	s := models.NewSnapshot(models.FamilyDisk, label, c.opts.Now())

	d, err := c.provider.DiskSpace(ctx, c.opts.DiskPath)
	if err != nil {
		if markUnsupported(&s, err, models.MeasureUsagePercent, models.MeasureTotalGB, models.MeasureFreeGB) {
			return s, nil
		}
		return models.Snapshot{}, fmt.Errorf("read disk space: %w", err)
	}
	if d.Total == 0 {
		return models.Snapshot{}, fmt.Errorf("disk %q reports zero capacity", c.opts.DiskPath)
	}

	used := float64(d.Total) - float64(d.Usable)
	s.Measurements[models.MeasureTotalGB] = float64(d.Total) / gibibyte
	s.Measurements[models.MeasureFreeGB] = float64(d.Usable) / gibibyte
	s.Measurements[models.MeasureUsagePercent] = models.ClampPercent(used / float64(d.Total) * 100)
	return s, nil
}
