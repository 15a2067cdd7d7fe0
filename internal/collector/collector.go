// Package collector samples one metric family per collector and turns raw
// provider readings into snapshots.
package collector

import (
	"context"
	"errors"
	"time"

	"github.com/HerbHall/hostwatch/internal/provider"
	"github.com/HerbHall/hostwatch/pkg/models"
)

// Byte scales used for reported sizes.
const (
	mebibyte = 1 << 20
	gibibyte = 1 << 30
)

// Collector samples one metric family.
type Collector interface {
	Family() models.Family
	Collect(ctx context.Context, label string) (models.Snapshot, error)
}

// Order is the fixed sequence in which a cycle runs collectors.
var Order = []models.Family{
	models.FamilyMemory,
	models.FamilyCPU,
	models.FamilyDisk,
	models.FamilyNetwork,
	models.FamilyThreads,
	models.FamilyGC,
	models.FamilyLoadAverage,
}

// Options configures collector construction.
type Options struct {
	// DiskPath is the filesystem path measured by the disk collector.
	DiskPath string
	// Now supplies snapshot timestamps. Defaults to time.Now.
	Now func() time.Time
}

// DefaultDiskPath is measured when Options.DiskPath is empty.
const DefaultDiskPath = "/"

func (o Options) withDefaults() Options {
	if o.DiskPath == "" {
		o.DiskPath = DefaultDiskPath
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// NewSet returns one collector per family in Order, all reading from p.
// The CPU collector takes its initial tick baseline here.
func NewSet(ctx context.Context, p provider.Provider, opts Options) []Collector {
	opts = opts.withDefaults()
	return []Collector{
		NewMemory(p, opts),
		NewCPU(ctx, p, opts),
		NewDisk(p, opts),
		NewNetwork(p, opts),
		NewThreads(p, opts),
		NewGC(p, opts),
		NewLoadAverage(p, opts),
	}
}

// markUnsupported records names as unavailable when err is
// provider.ErrUnavailable. It reports whether err was handled that way.
func markUnsupported(s *models.Snapshot, err error, names ...string) bool {
	if !errors.Is(err, provider.ErrUnavailable) {
		return false
	}
	s.Unsupported = append(s.Unsupported, names...)
	return true
}
