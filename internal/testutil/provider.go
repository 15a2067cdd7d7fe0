package testutil

import (
	"context"
	"sync"

	"github.com/HerbHall/hostwatch/internal/provider"
)

// Provider method names accepted by FakeProvider.FailWith and PanicOn.
const (
	MethodMemory      = "Memory"
	MethodLoadAverage = "SystemLoadAverage"
	MethodDiskSpace   = "DiskSpace"
	MethodNetwork     = "NetworkInterfaces"
	MethodThreadCount = "ThreadCount"
	MethodGCStats     = "GCStats"
	MethodCPUTicks    = "CPUTicks"
)

// Compile-time interface checks.
var (
	_ provider.Provider     = (*FakeProvider)(nil)
	_ provider.TickProvider = (*FakeTickProvider)(nil)
)

// FakeProvider is a scriptable provider.Provider. Zero values are returned
// unless a field is set; individual methods can be made to fail or panic.
type FakeProvider struct {
	mu sync.Mutex

	Mem        provider.Memory
	Load       float64
	Processors int
	Disk       provider.DiskSpace
	Interfaces []provider.Interface
	Threads    int
	GC         provider.GCStats

	// DiskPaths records every path passed to DiskSpace.
	DiskPaths []string

	errs   map[string]error
	panics map[string]any
}

// NewFakeProvider returns a FakeProvider with healthy defaults.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Mem:        provider.Memory{Total: 8 << 30, Free: 6 << 30, Max: 8 << 30},
		Load:       0.5,
		Processors: 4,
		Disk:       provider.DiskSpace{Total: 100 << 30, Usable: 60 << 30},
		Interfaces: []provider.Interface{{Name: "lo", MTU: 65536}, {Name: "eth0", MTU: 1500}},
		Threads:    12,
		GC:         provider.GCStats{Count: 3},
		errs:       make(map[string]error),
		panics:     make(map[string]any),
	}
}

// FailWith makes method return err.
func (f *FakeProvider) FailWith(method string, err error) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
	return f
}

// PanicOn makes method panic with v.
func (f *FakeProvider) PanicOn(method string, v any) *FakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.panics[method] = v
	return f
}

func (f *FakeProvider) check(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.panics[method]; ok {
		panic(v)
	}
	return f.errs[method]
}

func (f *FakeProvider) Name() string { return "fake" }

func (f *FakeProvider) Memory(_ context.Context) (provider.Memory, error) {
	if err := f.check(MethodMemory); err != nil {
		return provider.Memory{}, err
	}
	return f.Mem, nil
}

func (f *FakeProvider) SystemLoadAverage(_ context.Context) (float64, error) {
	if err := f.check(MethodLoadAverage); err != nil {
		return 0, err
	}
	return f.Load, nil
}

func (f *FakeProvider) AvailableProcessors() int { return f.Processors }

func (f *FakeProvider) DiskSpace(_ context.Context, path string) (provider.DiskSpace, error) {
	f.mu.Lock()
	f.DiskPaths = append(f.DiskPaths, path)
	f.mu.Unlock()
	if err := f.check(MethodDiskSpace); err != nil {
		return provider.DiskSpace{}, err
	}
	return f.Disk, nil
}

func (f *FakeProvider) NetworkInterfaces(_ context.Context) ([]provider.Interface, error) {
	if err := f.check(MethodNetwork); err != nil {
		return nil, err
	}
	return f.Interfaces, nil
}

func (f *FakeProvider) ThreadCount(_ context.Context) (int, error) {
	if err := f.check(MethodThreadCount); err != nil {
		return 0, err
	}
	return f.Threads, nil
}

func (f *FakeProvider) GCStats(_ context.Context) (provider.GCStats, error) {
	if err := f.check(MethodGCStats); err != nil {
		return provider.GCStats{}, err
	}
	return f.GC, nil
}

// FakeTickProvider adds a scripted CPU tick sequence to FakeProvider. Each
// CPUTicks call consumes the next reading; the last one repeats.
type FakeTickProvider struct {
	*FakeProvider
	ticks []provider.Ticks
	calls int
}

// NewFakeTickProvider returns a tick-capable fake that yields ticks in order.
func NewFakeTickProvider(ticks ...provider.Ticks) *FakeTickProvider {
	return &FakeTickProvider{FakeProvider: NewFakeProvider(), ticks: ticks}
}

// TickCalls returns how many tick readings have been taken.
func (f *FakeTickProvider) TickCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeTickProvider) CPUTicks(_ context.Context) (provider.Ticks, error) {
	if err := f.check(MethodCPUTicks); err != nil {
		return provider.Ticks{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ticks) == 0 {
		return provider.Ticks{}, provider.ErrUnavailable
	}
	i := f.calls
	if i >= len(f.ticks) {
		i = len(f.ticks) - 1
	}
	f.calls++
	return f.ticks[i], nil
}

func (f *FakeTickProvider) CPULoadBetween(ctx context.Context, prev provider.Ticks) (float64, provider.Ticks, error) {
	cur, err := f.CPUTicks(ctx)
	if err != nil {
		return 0, prev, err
	}
	return provider.LoadBetween(prev, cur), cur, nil
}
