//go:build linux

package provider

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost_Readings(t *testing.T) {
	h := NewHost()
	ctx := context.Background()

	m, err := h.Memory(ctx)
	require.NoError(t, err)
	assert.Positive(t, m.Total)
	assert.Equal(t, m.Total, m.Max, "host memory is measured against the physical total")
	assert.LessOrEqual(t, m.Free, m.Total)

	d, err := h.DiskSpace(ctx, "/")
	require.NoError(t, err)
	assert.Positive(t, d.Total)
	assert.LessOrEqual(t, d.Usable, d.Total)

	load, err := h.SystemLoadAverage(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, load, 0.0)

	assert.Positive(t, h.AvailableProcessors())

	n, err := h.ThreadCount(ctx)
	require.NoError(t, err)
	assert.Positive(t, n)

	ifaces, err := h.NetworkInterfaces(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ifaces)
	withMTU := 0
	for _, iface := range ifaces {
		assert.NotEmpty(t, iface.Name)
		if iface.MTU > 0 {
			withMTU++
		}
	}
	assert.Positive(t, withMTU, "MTUs should be merged into the traffic counters")
}

func TestHost_TickLoad(t *testing.T) {
	h := NewHost()
	ctx := context.Background()

	base, err := h.CPUTicks(ctx)
	require.NoError(t, err)
	require.False(t, base.IsZero())

	load, cur, err := h.CPULoadBetween(ctx, base)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, load, 0.0)
	assert.LessOrEqual(t, load, 1.0)
	assert.GreaterOrEqual(t, cur.Total(), base.Total())
}

// statusThreads reads the live thread count from /proc/self/status.
func statusThreads(t *testing.T) int {
	t.Helper()
	f, err := os.Open("/proc/self/status")
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if v, ok := strings.CutPrefix(sc.Text(), "Threads:"); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			require.NoError(t, err)
			return n
		}
	}
	t.Fatal("Threads line not found in /proc/self/status")
	return 0
}

func TestThreadCount_IsLive(t *testing.T) {
	ctx := context.Background()
	for _, p := range []Provider{NewRuntime(), NewHost()} {
		t.Run(p.Name(), func(t *testing.T) {
			want := statusThreads(t)
			got, err := p.ThreadCount(ctx)
			require.NoError(t, err)
			// Threads may start or exit between the two reads.
			assert.InDelta(t, want, got, 2)
		})
	}
}
