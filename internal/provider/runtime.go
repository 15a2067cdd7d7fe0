package provider

import (
	"context"
	"fmt"
	"math"
	"net"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"time"
)

// Runtime reads process-level counters from the Go runtime. It has no CPU
// tick source, so CPU load is reported as the instantaneous load average.
type Runtime struct {
	pid int32
}

// Compile-time guard.
var _ Provider = (*Runtime)(nil)

// NewRuntime returns the process-level provider.
func NewRuntime() *Runtime {
	return &Runtime{pid: int32(os.Getpid())}
}

func (r *Runtime) Name() string { return string(KindRuntime) }

// Memory reports heap memory. Total is the heap obtained from the OS, Free is
// the idle part of it, and Max is the soft memory limit when one is set.
func (r *Runtime) Memory(_ context.Context) (Memory, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	m := Memory{
		Total: ms.HeapSys,
		Free:  ms.HeapIdle,
		Max:   ms.HeapSys,
	}
	// A negative input leaves the limit unchanged and returns it.
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
		m.Max = uint64(limit)
	}
	return m, nil
}

func (r *Runtime) SystemLoadAverage(_ context.Context) (float64, error) {
	return loadAverage()
}

func (r *Runtime) AvailableProcessors() int {
	return runtime.NumCPU()
}

func (r *Runtime) DiskSpace(_ context.Context, path string) (DiskSpace, error) {
	return statfs(path)
}

// NetworkInterfaces lists local interfaces with their MTU. Traffic counters
// are not visible at the process level.
func (r *Runtime) NetworkInterfaces(_ context.Context) ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	out := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		out = append(out, Interface{Name: iface.Name, MTU: iface.MTU})
	}
	return out, nil
}

// ThreadCount returns the number of live OS threads in this process. The
// runtime's threadcreate profile is cumulative, so it is only a fallback
// when the process table cannot be read.
func (r *Runtime) ThreadCount(ctx context.Context) (int, error) {
	if n, err := processThreads(ctx, r.pid); err == nil {
		return n, nil
	}
	p := pprof.Lookup("threadcreate")
	if p == nil {
		return 0, ErrUnavailable
	}
	return p.Count(), nil
}

func (r *Runtime) GCStats(_ context.Context) (GCStats, error) {
	return readGCStats(), nil
}

func readGCStats() GCStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return GCStats{
		Count:      uint64(ms.NumGC),
		PauseTotal: time.Duration(ms.PauseTotalNs),
	}
}
