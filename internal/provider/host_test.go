package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost_CPULoadBetween(t *testing.T) {
	prev := Ticks{User: 10, Idle: 30}
	tests := []struct {
		name     string
		times    []cpu.TimesStat
		err      error
		wantLoad float64
		wantTick Ticks
		wantErr  error
	}{
		{
			name:     "quarter busy",
			times:    []cpu.TimesStat{{User: 15, Idle: 45}},
			wantLoad: 0.25,
			wantTick: Ticks{User: 15, Idle: 45},
		},
		{
			name:     "read failure keeps baseline",
			err:      errors.New("proc unreadable"),
			wantTick: prev,
		},
		{
			name:     "no readings",
			times:    []cpu.TimesStat{},
			wantTick: prev,
			wantErr:  ErrUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHost()
			h.cpuTimes = func(context.Context, bool) ([]cpu.TimesStat, error) {
				return tt.times, tt.err
			}

			load, cur, err := h.CPULoadBetween(context.Background(), prev)
			switch {
			case tt.err != nil:
				require.Error(t, err)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
			}
			assert.InDelta(t, tt.wantLoad, load, 1e-9)
			assert.Equal(t, tt.wantTick, cur)
		})
	}
}
