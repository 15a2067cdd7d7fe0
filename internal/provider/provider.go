// Package provider reads raw resource counters from the operating system and
// the Go runtime. Two variants satisfy the same Provider contract: Runtime
// reports process-level counters, Host reports hardware-level counters.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned when a measurement cannot be obtained on this
// platform. Callers omit the measurement instead of treating it as a failure.
var ErrUnavailable = errors.New("measurement unavailable on this platform")

// Memory holds memory totals in bytes. Max is the ceiling usage is measured
// against.
type Memory struct {
	Total uint64
	Free  uint64
	Max   uint64
}

// DiskSpace holds filesystem capacity in bytes for one path.
type DiskSpace struct {
	Total  uint64
	Usable uint64
}

// Interface describes one network interface. Variants fill the fields they
// can read and leave the rest zero.
type Interface struct {
	Name      string
	MTU       int
	BytesRecv uint64
	BytesSent uint64
}

// GCStats reports cumulative garbage collection activity.
type GCStats struct {
	Count      uint64
	PauseTotal time.Duration
}

// Provider supplies raw readings to collectors.
type Provider interface {
	// Name returns the variant identifier ("runtime" or "host").
	Name() string
	Memory(ctx context.Context) (Memory, error)
	SystemLoadAverage(ctx context.Context) (float64, error)
	AvailableProcessors() int
	DiskSpace(ctx context.Context, path string) (DiskSpace, error)
	NetworkInterfaces(ctx context.Context) ([]Interface, error)
	ThreadCount(ctx context.Context) (int, error)
	GCStats(ctx context.Context) (GCStats, error)
}

// TickProvider is implemented by providers that expose cumulative CPU ticks,
// allowing load to be measured between two readings.
type TickProvider interface {
	CPUTicks(ctx context.Context) (Ticks, error)
	// CPULoadBetween returns the busy fraction in [0,1] since prev along with
	// the current reading, which becomes the caller's next baseline.
	CPULoadBetween(ctx context.Context, prev Ticks) (float64, Ticks, error)
}

// Kind selects a provider variant.
type Kind string

const (
	KindRuntime Kind = "runtime"
	KindHost    Kind = "host"
)

// New returns the provider variant for kind.
func New(kind Kind) (Provider, error) {
	switch kind {
	case KindRuntime, "":
		return NewRuntime(), nil
	case KindHost:
		return NewHost(), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", kind)
	}
}
