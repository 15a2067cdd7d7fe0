package models

import (
	"sort"
	"time"
)

// Family identifies a group of related host or process measurements.
type Family string

// Metric families, listed in sampling order.
const (
	FamilyMemory      Family = "memory"
	FamilyCPU         Family = "cpu"
	FamilyDisk        Family = "disk"
	FamilyNetwork     Family = "network"
	FamilyThreads     Family = "threads"
	FamilyGC          Family = "gc"
	FamilyLoadAverage Family = "load_average"
)

// Measurement names shared by collectors and threshold rules.
const (
	MeasureTotalMB             = "total_mb"
	MeasureMaxMB               = "max_mb"
	MeasureFreeMB              = "free_mb"
	MeasureUsedMB              = "used_mb"
	MeasureUsagePercent        = "usage_percent"
	MeasureLoadPercent         = "load_percent"
	MeasureLoadAverage         = "load_average"
	MeasureAvailableProcessors = "available_processors"
	MeasureTotalGB             = "total_gb"
	MeasureFreeGB              = "free_gb"
	MeasureInterfaces          = "interfaces"
	MeasureMTU                 = "mtu"
	MeasureBytesRecvMB         = "bytes_recv_mb"
	MeasureBytesSentMB         = "bytes_sent_mb"
	MeasureThreadCount         = "thread_count"
	MeasureCollectionCount     = "collection_count"
	MeasureCollectionTimeMs    = "collection_time_ms"
	MeasureLoad1m              = "load_1m"
	MeasureUptimeSeconds       = "uptime_seconds"
)

// Item is a per-entity row inside a snapshot, such as one network interface.
type Item struct {
	Name         string             `json:"name"`
	Measurements map[string]float64 `json:"measurements"`
}

// Snapshot is the measurement record produced by one collector in one cycle.
// Snapshots are built once and never modified afterwards.
type Snapshot struct {
	Family       Family             `json:"family"`
	Timestamp    time.Time          `json:"timestamp"`
	ServiceLabel string             `json:"service_label"`
	Measurements map[string]float64 `json:"measurements"`
	// Unsupported lists measurements the platform cannot provide.
	Unsupported []string `json:"unsupported,omitempty"`
	Items       []Item   `json:"items,omitempty"`
}

// NewSnapshot returns an empty snapshot for the given family.
func NewSnapshot(family Family, label string, ts time.Time) Snapshot {
	return Snapshot{
		Family:       family,
		Timestamp:    ts,
		ServiceLabel: label,
		Measurements: make(map[string]float64),
	}
}

// Value returns a measurement and whether it was recorded.
func (s Snapshot) Value(name string) (float64, bool) {
	v, ok := s.Measurements[name]
	return v, ok
}

// IsUnsupported reports whether name was marked unavailable on this platform.
func (s Snapshot) IsUnsupported(name string) bool {
	for _, u := range s.Unsupported {
		if u == name {
			return true
		}
	}
	return false
}

// MeasurementNames returns the recorded measurement names in sorted order.
func (s Snapshot) MeasurementNames() []string {
	names := make([]string, 0, len(s.Measurements))
	for name := range s.Measurements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClampPercent bounds a percentage to [0, 100].
func ClampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
