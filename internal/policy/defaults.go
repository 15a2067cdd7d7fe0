package policy

import (
	"strconv"

	"github.com/HerbHall/hostwatch/pkg/models"
)

// Thresholds holds the configurable limits of the default rule set.
type Thresholds struct {
	MemoryPercent float64 `mapstructure:"memory_percent" yaml:"memory_percent"`
	DiskPercent   float64 `mapstructure:"disk_percent" yaml:"disk_percent"`
	Threads       float64 `mapstructure:"threads" yaml:"threads"`
}

// DefaultThresholds returns the stock limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MemoryPercent: 75,
		DiskPercent:   85,
		Threads:       1000,
	}
}

// DefaultRules returns the warning rules for memory, disk, and thread count.
// CPU, network, GC, and load average are informational only.
func DefaultRules(t Thresholds) []Rule {
	return []Rule{
		{
			Family:      models.FamilyMemory,
			Measurement: models.MeasureUsagePercent,
			Comparator:  GreaterThan,
			Limit:       t.MemoryPercent,
			Severity:    models.SeverityWarning,
			Message:     "Memory usage %.2f%% exceeded " + formatLimit(t.MemoryPercent) + "%%! Consider optimizing.",
		},
		{
			Family:      models.FamilyDisk,
			Measurement: models.MeasureUsagePercent,
			Comparator:  GreaterThan,
			Limit:       t.DiskPercent,
			Severity:    models.SeverityWarning,
			Message:     "High disk usage %.2f%% (>" + formatLimit(t.DiskPercent) + "%%)! Consider freeing up space.",
		},
		{
			Family:      models.FamilyThreads,
			Measurement: models.MeasureThreadCount,
			Comparator:  GreaterThan,
			Limit:       t.Threads,
			Severity:    models.SeverityWarning,
			Message:     "High thread count detected: %.0f (>" + formatLimit(t.Threads) + ")",
		},
	}
}

// Default returns a policy with DefaultRules(t).
func Default(t Thresholds) *Policy {
	// The built-in rules always validate.
	p, _ := New(DefaultRules(t)...)
	return p
}

func formatLimit(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
