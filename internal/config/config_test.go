package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/HerbHall/hostwatch/internal/provider"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostwatch.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Interval != 5*time.Second {
		t.Errorf("Interval = %v, want %v", s.Interval, 5*time.Second)
	}
	if len(s.Targets) != 1 || s.Targets[0].Label != DefaultLabel || s.Targets[0].Provider != provider.KindRuntime {
		t.Errorf("Targets = %+v, want single %q runtime target", s.Targets, DefaultLabel)
	}
	if s.Thresholds.MemoryPercent != 75 || s.Thresholds.DiskPercent != 85 || s.Thresholds.Threads != 1000 {
		t.Errorf("Thresholds = %+v, want 75/85/1000", s.Thresholds)
	}
	if s.DiskPath != "/" {
		t.Errorf("DiskPath = %q, want %q", s.DiskPath, "/")
	}
	if s.CollectorTimeout != 0 {
		t.Errorf("CollectorTimeout = %v, want 0", s.CollectorTimeout)
	}
	if s.Log.Level != "info" || s.Log.Format != "json" {
		t.Errorf("Log = %+v, want info/json", s.Log)
	}
	if s.Metrics.Enabled || s.Metrics.Addr != ":9108" {
		t.Errorf("Metrics = %+v, want disabled on :9108", s.Metrics)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
interval: 30s
targets:
  - label: api
    provider: host
  - label: worker
thresholds:
  memory_percent: 90
disk_path: /var
collector_timeout: 2s
concurrent: true
log:
  format: console
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Interval != 30*time.Second {
		t.Errorf("Interval = %v, want 30s", s.Interval)
	}
	if len(s.Targets) != 2 {
		t.Fatalf("len(Targets) = %d, want 2", len(s.Targets))
	}
	if s.Targets[0].Provider != provider.KindHost {
		t.Errorf("Targets[0].Provider = %q, want %q", s.Targets[0].Provider, provider.KindHost)
	}
	if s.Targets[1].Provider != provider.KindRuntime {
		t.Errorf("Targets[1].Provider = %q, want runtime default", s.Targets[1].Provider)
	}
	if s.Thresholds.MemoryPercent != 90 {
		t.Errorf("MemoryPercent = %v, want 90", s.Thresholds.MemoryPercent)
	}
	if s.Thresholds.DiskPercent != 85 {
		t.Errorf("DiskPercent = %v, want default 85", s.Thresholds.DiskPercent)
	}
	if s.DiskPath != "/var" || s.CollectorTimeout != 2*time.Second || !s.Concurrent {
		t.Errorf("got disk_path=%q timeout=%v concurrent=%v", s.DiskPath, s.CollectorTimeout, s.Concurrent)
	}
	if s.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want console", s.Log.Format)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOSTWATCH_INTERVAL", "1m")
	t.Setenv("HOSTWATCH_THRESHOLDS_THREADS", "250")
	t.Setenv("HOSTWATCH_METRICS_ENABLED", "true")

	path := writeConfig(t, "interval: 10s\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Interval != time.Minute {
		t.Errorf("Interval = %v, want env value 1m", s.Interval)
	}
	if s.Thresholds.Threads != 250 {
		t.Errorf("Threads = %v, want 250", s.Thresholds.Threads)
	}
	if !s.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
}

func TestLoadServiceLabels(t *testing.T) {
	path := writeConfig(t, `
service_labels: [billing, search]
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Targets) != 2 {
		t.Fatalf("len(Targets) = %d, want 2", len(s.Targets))
	}
	for i, want := range []string{"billing", "search"} {
		if s.Targets[i].Label != want || s.Targets[i].Provider != provider.KindRuntime {
			t.Errorf("Targets[%d] = %+v, want %q on runtime", i, s.Targets[i], want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() error = nil, want error for missing file")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero interval", "interval: 0s\n", "interval"},
		{"negative timeout", "collector_timeout: -1s\n", "collector_timeout"},
		{"memory over 100", "thresholds:\n  memory_percent: 120\n", "memory_percent"},
		{"unknown provider", "targets:\n  - label: a\n    provider: jvm\n", "unknown provider"},
		{"duplicate label", "service_labels: [a, a]\n", "duplicate label"},
		{"bad log format", "log:\n  format: xml\n", "log.format"},
		{"metrics without addr", "metrics:\n  enabled: true\n  addr: \"\"\n", "metrics.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDumpRoundTrip(t *testing.T) {
	want, err := Load(writeConfig(t, "interval: 15s\ncollector_timeout: 500ms\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Dump(&buf, want); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(buf.String(), "interval: 15s") {
		t.Errorf("dump missing human-readable interval:\n%s", buf.String())
	}

	got, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("Load(dump) error = %v", err)
	}
	if got.Interval != want.Interval || got.CollectorTimeout != want.CollectorTimeout {
		t.Errorf("round trip durations = %v/%v, want %v/%v",
			got.Interval, got.CollectorTimeout, want.Interval, want.CollectorTimeout)
	}
	if len(got.Targets) != len(want.Targets) || got.Targets[0] != want.Targets[0] {
		t.Errorf("round trip targets = %+v, want %+v", got.Targets, want.Targets)
	}
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("interval", "2s")
	v.Set("thresholds.memory_percent", 82.5)
	v.Set("service_labels", []string{"api"})

	s, err := FromViper(v)
	if err != nil {
		t.Fatalf("FromViper() error = %v", err)
	}
	if s.Interval != 2*time.Second {
		t.Errorf("Interval = %v, want 2s", s.Interval)
	}
	if s.Thresholds.MemoryPercent != 82.5 {
		t.Errorf("MemoryPercent = %v, want 82.5", s.Thresholds.MemoryPercent)
	}
	if len(s.Targets) != 1 || s.Targets[0].Label != "api" {
		t.Errorf("Targets = %+v, want single api target", s.Targets)
	}
}

func TestFromViper_Nil(t *testing.T) {
	s, err := FromViper(nil)
	if err != nil {
		t.Fatalf("FromViper(nil) error = %v", err)
	}
	if s.Interval != 5*time.Second || s.Targets[0].Label != DefaultLabel {
		t.Errorf("FromViper(nil) = %+v, want defaults", s)
	}
}

func TestFromViper_NoDefaultsFailsValidation(t *testing.T) {
	if _, err := FromViper(viper.New()); err == nil {
		t.Error("FromViper() on an empty viper: error = nil, want validation error")
	}
}
