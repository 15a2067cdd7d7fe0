package collector

import (
	"context"
	"fmt"

	"github.com/HerbHall/hostwatch/internal/provider"
	"github.com/HerbHall/hostwatch/pkg/models"
)

// CPU reports processor load. With a tick-capable provider it measures the
// busy share between consecutive samples (load_percent); otherwise it reports
// the instantaneous system load average (load_average). The two are different
// quantities and are never mixed.
type CPU struct {
	provider provider.Provider
	ticks    provider.TickProvider
	opts     Options

	// baseline is the previous tick reading. Only this collector touches it.
	baseline provider.Ticks
}

// NewCPU returns the CPU collector. When p supports ticks, the first baseline
// is read here so the first sample measures load since construction.
func NewCPU(ctx context.Context, p provider.Provider, opts Options) *CPU {
	c := &CPU{provider: p, opts: opts.withDefaults()}
	if tp, ok := p.(provider.TickProvider); ok {
		c.ticks = tp
		// A failed read leaves a zero baseline; the first sample then
		// reports load since boot.
		if t, err := tp.CPUTicks(ctx); err == nil {
			c.baseline = t
		}
	}
	return c
}

func (c *CPU) Family() models.Family { return models.FamilyCPU }

// Baseline returns the tick reading the next sample is measured against.
func (c *CPU) Baseline() provider.Ticks { return c.baseline }

func (c *CPU) Collect(ctx context.Context, label string) (models.Snapshot, error) {
	s := models.NewSnapshot(models.FamilyCPU, label, c.opts.Now())
	s.Measurements[models.MeasureAvailableProcessors] = float64(c.provider.AvailableProcessors())

	if c.ticks != nil {
		load, cur, err := c.ticks.CPULoadBetween(ctx, c.baseline)
		if err != nil {
			if markUnsupported(&s, err, models.MeasureLoadPercent) {
				return s, nil
			}
			return models.Snapshot{}, fmt.Errorf("read cpu ticks: %w", err)
		}
		c.baseline = cur
		s.Measurements[models.MeasureLoadPercent] = models.ClampPercent(load * 100)
		return s, nil
	}

	load, err := c.provider.SystemLoadAverage(ctx)
	if err != nil {
		if markUnsupported(&s, err, models.MeasureLoadAverage) {
			return s, nil
		}
		return models.Snapshot{}, fmt.Errorf("read load average: %w", err)
	}
	s.Measurements[models.MeasureLoadAverage] = load
	return s, nil
}
