package collector

import (
	"fmt"
	"strings"

	"github.com/HerbHall/hostwatch/pkg/models"
)

// Describe renders a one-line human-readable summary of a snapshot.
func Describe(s models.Snapshot) string {
	m := s.Measurements
	var msg string
	switch s.Family {
	case models.FamilyMemory:
		msg = "Memory"
		if _, ok := m[models.MeasureUsagePercent]; ok {
			msg = fmt.Sprintf("Memory - total: %.0fMB, max: %.0fMB, free: %.0fMB, used: %.0fMB, usage: %.2f%%",
				m[models.MeasureTotalMB], m[models.MeasureMaxMB], m[models.MeasureFreeMB],
				m[models.MeasureUsedMB], m[models.MeasureUsagePercent])
		}
	case models.FamilyCPU:
		procs := int(m[models.MeasureAvailableProcessors])
		if v, ok := m[models.MeasureLoadPercent]; ok {
			msg = fmt.Sprintf("CPU usage: %.2f%%, available processors: %d", v, procs)
		} else if v, ok := m[models.MeasureLoadAverage]; ok {
			msg = fmt.Sprintf("CPU load: %.2f, available processors: %d", v, procs)
		} else {
			msg = fmt.Sprintf("CPU - available processors: %d", procs)
		}
	case models.FamilyDisk:
		msg = "Disk"
		if _, ok := m[models.MeasureUsagePercent]; ok {
			msg = fmt.Sprintf("Disk usage - total: %.0fGB, free: %.0fGB, usage: %.2f%%",
				m[models.MeasureTotalGB], m[models.MeasureFreeGB], m[models.MeasureUsagePercent])
		}
	case models.FamilyNetwork:
		parts := make([]string, 0, len(s.Items))
		for _, it := range s.Items {
			parts = append(parts, fmt.Sprintf("%s (MTU: %.0f, received: %.0fMB, sent: %.0fMB)",
				it.Name, it.Measurements[models.MeasureMTU],
				it.Measurements[models.MeasureBytesRecvMB], it.Measurements[models.MeasureBytesSentMB]))
		}
		msg = fmt.Sprintf("Network interfaces: %d", len(s.Items))
		if len(parts) > 0 {
			msg += " - " + strings.Join(parts, ", ")
		}
	case models.FamilyThreads:
		msg = "Thread count"
		if v, ok := m[models.MeasureThreadCount]; ok {
			msg = fmt.Sprintf("Thread count - active threads: %.0f", v)
		}
	case models.FamilyGC:
		msg = "GC stats"
		if _, ok := m[models.MeasureCollectionCount]; ok {
			msg = fmt.Sprintf("GC stats - collection count: %.0f, time: %.0fms",
				m[models.MeasureCollectionCount], m[models.MeasureCollectionTimeMs])
		}
	case models.FamilyLoadAverage:
		if v, ok := m[models.MeasureLoad1m]; ok {
			msg = fmt.Sprintf("Load average - 1 minute: %.2f", v)
		} else {
			msg = "Load average - 1 minute: unsupported"
		}
	default:
		msg = string(s.Family)
	}

	if len(s.Unsupported) > 0 && s.Family != models.FamilyLoadAverage {
		msg += " (unsupported: " + strings.Join(s.Unsupported, ", ") + ")"
	}
	return msg
}
