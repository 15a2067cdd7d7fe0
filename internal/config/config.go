// Package config loads hostwatch settings from file, environment, and
// defaults using viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/HerbHall/hostwatch/internal/policy"
	"github.com/HerbHall/hostwatch/internal/provider"
)

// EnvPrefix is prepended to every environment override, e.g.
// HOSTWATCH_INTERVAL or HOSTWATCH_THRESHOLDS_MEMORY_PERCENT.
const EnvPrefix = "HOSTWATCH"

// DefaultLabel is the service label used when none is configured.
const DefaultLabel = "hostwatch"

// Target is one monitored service label and the provider backing it.
type Target struct {
	Label    string        `mapstructure:"label" yaml:"label"`
	Provider provider.Kind `mapstructure:"provider" yaml:"provider"`
}

// LogSettings configures the process logger.
type LogSettings struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

// Settings is the fully resolved configuration.
type Settings struct {
	Interval         time.Duration     `mapstructure:"interval" yaml:"interval"`
	Targets          []Target          `mapstructure:"targets" yaml:"targets"`
	ServiceLabels    []string          `mapstructure:"service_labels" yaml:"service_labels,omitempty"`
	Thresholds       policy.Thresholds `mapstructure:"thresholds" yaml:"thresholds"`
	DiskPath         string            `mapstructure:"disk_path" yaml:"disk_path"`
	CollectorTimeout time.Duration     `mapstructure:"collector_timeout" yaml:"collector_timeout"`
	Concurrent       bool              `mapstructure:"concurrent" yaml:"concurrent"`
	Log              LogSettings       `mapstructure:"log" yaml:"log"`
	Metrics          MetricsSettings   `mapstructure:"metrics" yaml:"metrics"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	t := policy.DefaultThresholds()
	v.SetDefault("interval", 5*time.Second)
	v.SetDefault("targets", []map[string]any{{"label": DefaultLabel, "provider": string(provider.KindRuntime)}})
	v.SetDefault("service_labels", []string{})
	v.SetDefault("thresholds.memory_percent", t.MemoryPercent)
	v.SetDefault("thresholds.disk_percent", t.DiskPercent)
	v.SetDefault("thresholds.threads", t.Threads)
	v.SetDefault("disk_path", "/")
	v.SetDefault("collector_timeout", time.Duration(0))
	v.SetDefault("concurrent", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9108")
}

// NewViper returns a viper instance with defaults and environment binding.
// If path is non-empty the file is read; a missing or malformed file is an
// error.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// Load reads settings from path (optional), HOSTWATCH_* environment
// variables, and defaults, in that order of precedence after env.
func Load(path string) (*Settings, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v. A nil v yields
// the defaults.
func FromViper(v *viper.Viper) (*Settings, error) {
	if v == nil {
		v = viper.New()
		SetDefaults(v)
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(s.ServiceLabels) > 0 {
		s.Targets = make([]Target, 0, len(s.ServiceLabels))
		for _, label := range s.ServiceLabels {
			s.Targets = append(s.Targets, Target{Label: label, Provider: provider.KindRuntime})
		}
	}
	for i := range s.Targets {
		if s.Targets[i].Provider == "" {
			s.Targets[i].Provider = provider.KindRuntime
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports every problem found in s.
func (s *Settings) Validate() error {
	var errs []error
	if s.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", s.Interval))
	}
	if s.CollectorTimeout < 0 {
		errs = append(errs, fmt.Errorf("collector_timeout must not be negative, got %s", s.CollectorTimeout))
	}
	if len(s.Targets) == 0 {
		errs = append(errs, errors.New("at least one target is required"))
	}
	seen := make(map[string]bool, len(s.Targets))
	for i, t := range s.Targets {
		switch {
		case t.Label == "":
			errs = append(errs, fmt.Errorf("targets[%d]: label is required", i))
		case seen[t.Label]:
			errs = append(errs, fmt.Errorf("targets[%d]: duplicate label %q", i, t.Label))
		}
		seen[t.Label] = true
		if t.Provider != provider.KindRuntime && t.Provider != provider.KindHost {
			errs = append(errs, fmt.Errorf("targets[%d]: unknown provider %q", i, t.Provider))
		}
	}
	if p := s.Thresholds.MemoryPercent; p <= 0 || p > 100 {
		errs = append(errs, fmt.Errorf("thresholds.memory_percent must be in (0, 100], got %v", p))
	}
	if p := s.Thresholds.DiskPercent; p <= 0 || p > 100 {
		errs = append(errs, fmt.Errorf("thresholds.disk_percent must be in (0, 100], got %v", p))
	}
	if s.Thresholds.Threads <= 0 {
		errs = append(errs, fmt.Errorf("thresholds.threads must be positive, got %v", s.Thresholds.Threads))
	}
	if s.DiskPath == "" {
		errs = append(errs, errors.New("disk_path is required"))
	}
	if f := s.Log.Format; f != "json" && f != "console" {
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", f))
	}
	if s.Metrics.Enabled && s.Metrics.Addr == "" {
		errs = append(errs, errors.New("metrics.addr is required when metrics are enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
