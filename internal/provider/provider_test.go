package provider

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind     Kind
		wantName string
		wantErr  bool
	}{
		{kind: KindRuntime, wantName: "runtime"},
		{kind: "", wantName: "runtime"},
		{kind: KindHost, wantName: "host"},
		{kind: "oshi", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			p, err := New(tt.kind)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) error = nil, want error", tt.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error = %v", tt.kind, err)
			}
			if got := p.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestOnlyHostProvidesTicks(t *testing.T) {
	var rp Provider = NewRuntime()
	if _, ok := rp.(TickProvider); ok {
		t.Error("Runtime implements TickProvider, want instantaneous load only")
	}
	var hp Provider = NewHost()
	if _, ok := hp.(TickProvider); !ok {
		t.Error("Host does not implement TickProvider")
	}
}

func TestLoadBetween(t *testing.T) {
	tests := []struct {
		name string
		prev Ticks
		cur  Ticks
		want float64
	}{
		{
			name: "half busy",
			prev: Ticks{User: 10, Idle: 10},
			cur:  Ticks{User: 15, Idle: 15},
			want: 0.5,
		},
		{
			name: "iowait counts as idle",
			prev: Ticks{},
			cur:  Ticks{System: 1, Idle: 2, Iowait: 1},
			want: 0.25,
		},
		{
			name: "no elapsed time",
			prev: Ticks{User: 5, Idle: 5},
			cur:  Ticks{User: 5, Idle: 5},
			want: 0,
		},
		{
			name: "counters went backwards",
			prev: Ticks{User: 50, Idle: 50},
			cur:  Ticks{User: 10, Idle: 10},
			want: 0,
		},
		{
			name: "fully busy",
			prev: Ticks{Idle: 3},
			cur:  Ticks{User: 4, Steal: 4, Idle: 3},
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadBetween(tt.prev, tt.cur)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LoadBetween() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTicks_IsZero(t *testing.T) {
	assert.True(t, Ticks{}.IsZero())
	assert.False(t, Ticks{Idle: 1}.IsZero())
}

func TestRuntime_Readings(t *testing.T) {
	r := NewRuntime()
	ctx := context.Background()

	m, err := r.Memory(ctx)
	require.NoError(t, err)
	assert.Positive(t, m.Total)
	assert.LessOrEqual(t, m.Free, m.Total)
	assert.Positive(t, m.Max)

	n, err := r.ThreadCount(ctx)
	require.NoError(t, err)
	assert.Positive(t, n)

	assert.Positive(t, r.AvailableProcessors())

	_, err = r.GCStats(ctx)
	require.NoError(t, err)

	ifaces, err := r.NetworkInterfaces(ctx)
	require.NoError(t, err)
	for _, iface := range ifaces {
		assert.NotEmpty(t, iface.Name)
	}
}

func TestRuntime_LoadAverageIsValueOrUnavailable(t *testing.T) {
	load, err := NewRuntime().SystemLoadAverage(context.Background())
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("SystemLoadAverage() error = %v, want ErrUnavailable or nil", err)
		}
		return
	}
	if load < 0 {
		t.Errorf("SystemLoadAverage() = %v, want non-negative", load)
	}
}
