package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/hostwatch/internal/policy"
)

// yamlSettings is Settings with durations as strings so a dump can be fed
// back to Load.
type yamlSettings struct {
	Interval         string            `yaml:"interval"`
	Targets          []Target          `yaml:"targets"`
	ServiceLabels    []string          `yaml:"service_labels,omitempty"`
	Thresholds       policy.Thresholds `yaml:"thresholds"`
	DiskPath         string            `yaml:"disk_path"`
	CollectorTimeout string            `yaml:"collector_timeout"`
	Concurrent       bool              `yaml:"concurrent"`
	Log              LogSettings       `yaml:"log"`
	Metrics          MetricsSettings   `yaml:"metrics"`
}

// MarshalYAML renders durations in their human form.
func (s Settings) MarshalYAML() (any, error) {
	return yamlSettings{
		Interval:         s.Interval.String(),
		Targets:          s.Targets,
		ServiceLabels:    s.ServiceLabels,
		Thresholds:       s.Thresholds,
		DiskPath:         s.DiskPath,
		CollectorTimeout: s.CollectorTimeout.String(),
		Concurrent:       s.Concurrent,
		Log:              s.Log,
		Metrics:          s.Metrics,
	}, nil
}

// Dump writes the effective settings to w as YAML.
func Dump(w io.Writer, s *Settings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
