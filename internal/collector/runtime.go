package collector

import (
	"context"
	"fmt"

	"github.com/HerbHall/hostwatch/internal/provider"
	"github.com/HerbHall/hostwatch/pkg/models"
)

// Threads reports the thread count of the monitored process.
type Threads struct {
	provider provider.Provider
	opts     Options
}

// NewThreads returns the thread count collector.
func NewThreads(p provider.Provider, opts Options) *Threads {
	return &Threads{provider: p, opts: opts.withDefaults()}
}

func (c *Threads) Family() models.Family { return models.FamilyThreads }

func (c *Threads) Collect(ctx context.Context, label string) (models.Snapshot, error) {
	s := models.NewSnapshot(models.FamilyThreads, label, c.opts.Now())
	n, err := c.provider.ThreadCount(ctx)
	if err != nil {
		if markUnsupported(&s, err, models.MeasureThreadCount) {
			return s, nil
		}
		return models.Snapshot{}, fmt.Errorf("read thread count: %w", err)
	}
	s.Measurements[models.MeasureThreadCount] = float64(n)
	return s, nil
}

// GC reports cumulative garbage collection activity.
type GC struct {
	provider provider.Provider
	opts     Options
}

// NewGC returns the garbage collection collector.
func NewGC(p provider.Provider, opts Options) *GC {
	return &GC{provider: p, opts: opts.withDefaults()}
}

func (c *GC) Family() models.Family { return models.FamilyGC }

func (c *GC) Collect(ctx context.Context, label string) (models.Snapshot, error) {
	s := models.NewSnapshot(models.FamilyGC, label, c.opts.Now())
	gc, err := c.provider.GCStats(ctx)
	if err != nil {
		if markUnsupported(&s, err, models.MeasureCollectionCount, models.MeasureCollectionTimeMs) {
			return s, nil
		}
		return models.Snapshot{}, fmt.Errorf("read gc stats: %w", err)
	}
	s.Measurements[models.MeasureCollectionCount] = float64(gc.Count)
	s.Measurements[models.MeasureCollectionTimeMs] = float64(gc.PauseTotal.Milliseconds())
	return s, nil
}

// LoadAverage reports the one-minute system load. Platforms without a load
// average produce a snapshot marking load_1m unsupported.
type LoadAverage struct {
	provider provider.Provider
	opts     Options
}

// NewLoadAverage returns the load average collector.
func NewLoadAverage(p provider.Provider, opts Options) *LoadAverage {
	return &LoadAverage{provider: p, opts: opts.withDefaults()}
}

func (c *LoadAverage) Family() models.Family { return models.FamilyLoadAverage }

func (c *LoadAverage) Collect(ctx context.Context, label string) (models.Snapshot, error) {
	s := models.NewSnapshot(models.FamilyLoadAverage, label, c.opts.Now())
	load, err := c.provider.SystemLoadAverage(ctx)
	if err != nil {
		if markUnsupported(&s, err, models.MeasureLoad1m) {
			return s, nil
		}
		return models.Snapshot{}, fmt.Errorf("read load average: %w", err)
	}
	s.Measurements[models.MeasureLoad1m] = load
	return s, nil
}
