package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/HerbHall/hostwatch/internal/provider"
	"github.com/HerbHall/hostwatch/pkg/models"
)

// Memory reports memory usage as a share of the provider's maximum.
type Memory struct {
	provider provider.Provider
	opts     Options
}

// NewMemory returns the memory collector.
func NewMemory(p provider.Provider, opts Options) *Memory {
	return &Memory{provider: p, opts: opts.withDefaults()}
}

func (c *Memory) Family() models.Family { return models.FamilyMemory }

// Collect computes used = total - free and usage = used / max * 100.
func (c *Memory) Collect(ctx context.Context, label string) (models.Snapshot, error) {
	s := models.NewSnapshot(models.FamilyMemory, label, c.opts.Now())

	m, err := c.provider.Memory(ctx)
	if err != nil {
		if markUnsupported(&s, err, models.MeasureUsagePercent) {
			return s, nil
		}
		return models.Snapshot{}, fmt.Errorf("read memory: %w", err)
	}
	if m.Max == 0 {
		return models.Snapshot{}, errors.New("memory maximum is zero")
	}

	used := float64(m.Total) - float64(m.Free)
	if used < 0 {
		used = 0
	}

	s.Measurements[models.MeasureTotalMB] = float64(m.Total) / mebibyte
	s.Measurements[models.MeasureMaxMB] = float64(m.Max) / mebibyte
	s.Measurements[models.MeasureFreeMB] = float64(m.Free) / mebibyte
	s.Measurements[models.MeasureUsedMB] = used / mebibyte
	s.Measurements[models.MeasureUsagePercent] = models.ClampPercent(used / float64(m.Max) * 100)
	return s, nil
}
