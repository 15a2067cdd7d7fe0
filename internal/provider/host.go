package provider

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Host reads hardware-level counters through gopsutil.
type Host struct {
	pid int32
	// cpuTimes reads cumulative CPU times; replaced in tests.
	cpuTimes func(ctx context.Context, percpu bool) ([]cpu.TimesStat, error)
}

// Compile-time guards.
var (
	_ Provider     = (*Host)(nil)
	_ TickProvider = (*Host)(nil)
)

// NewHost returns the hardware-level provider for the current process.
func NewHost() *Host {
	return &Host{pid: int32(os.Getpid()), cpuTimes: cpu.TimesWithContext}
}

func (h *Host) Name() string { return string(KindHost) }

// Memory reports physical memory. Free is the memory available for new
// allocations and Max equals Total.
func (h *Host) Memory(ctx context.Context) (Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Memory{}, fmt.Errorf("virtual memory: %w", err)
	}
	return Memory{
		Total: vm.Total,
		Free:  vm.Available,
		Max:   vm.Total,
	}, nil
}

func (h *Host) SystemLoadAverage(ctx context.Context) (float64, error) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		return 0, ErrUnavailable
	}
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("load average: %w", err)
	}
	if avg.Load1 < 0 {
		return 0, ErrUnavailable
	}
	return avg.Load1, nil
}

func (h *Host) AvailableProcessors() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

func (h *Host) DiskSpace(ctx context.Context, path string) (DiskSpace, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskSpace{}, fmt.Errorf("disk usage %q: %w", path, err)
	}
	return DiskSpace{Total: usage.Total, Usable: usage.Free}, nil
}

// NetworkInterfaces merges per-NIC traffic counters with interface MTUs.
func (h *Host) NetworkInterfaces(ctx context.Context) ([]Interface, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("io counters: %w", err)
	}

	mtus := make(map[string]int)
	if stats, err := net.InterfacesWithContext(ctx); err == nil {
		for _, s := range stats {
			mtus[s.Name] = s.MTU
		}
	}

	out := make([]Interface, 0, len(counters))
	for _, c := range counters {
		out = append(out, Interface{
			Name:      c.Name,
			MTU:       mtus[c.Name],
			BytesRecv: c.BytesRecv,
			BytesSent: c.BytesSent,
		})
	}
	return out, nil
}

// ThreadCount returns the live OS thread count of the current process.
func (h *Host) ThreadCount(ctx context.Context) (int, error) {
	return processThreads(ctx, h.pid)
}

func processThreads(ctx context.Context, pid int32) (int, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return 0, fmt.Errorf("open process %d: %w", pid, err)
	}
	n, err := p.NumThreadsWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("thread count: %w", err)
	}
	return int(n), nil
}

// GCStats reports the collector activity of this process; the hardware layer
// has no notion of garbage collection.
func (h *Host) GCStats(_ context.Context) (GCStats, error) {
	return readGCStats(), nil
}

// CPUTicks returns cumulative CPU times summed across all CPUs.
func (h *Host) CPUTicks(ctx context.Context) (Ticks, error) {
	times, err := h.cpuTimes(ctx, false)
	if err != nil {
		return Ticks{}, fmt.Errorf("cpu times: %w", err)
	}
	if len(times) == 0 {
		return Ticks{}, ErrUnavailable
	}
	t := times[0]
	return Ticks{
		User:    t.User,
		Nice:    t.Nice,
		System:  t.System,
		Idle:    t.Idle,
		Iowait:  t.Iowait,
		Irq:     t.Irq,
		Softirq: t.Softirq,
		Steal:   t.Steal,
	}, nil
}

// CPULoadBetween returns prev unchanged when the reading fails, so the
// caller's baseline survives a bad sample.
func (h *Host) CPULoadBetween(ctx context.Context, prev Ticks) (float64, Ticks, error) {
	cur, err := h.CPUTicks(ctx)
	if err != nil {
		return 0, prev, err
	}
	return LoadBetween(prev, cur), cur, nil
}
