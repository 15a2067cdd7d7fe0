package models

import "time"

// Severity is the level attached to an emitted event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is a record destined for an event sink. Events are created by the
// threshold policy, the monitoring cycle, or process startup, and are never
// retained after they have been emitted.
type Event struct {
	Severity     Severity  `json:"severity"`
	Message      string    `json:"message"`
	ServiceLabel string    `json:"service_label"`
	Timestamp    time.Time `json:"timestamp"`

	Family  Family    `json:"family,omitempty"`
	CycleID string    `json:"cycle_id,omitempty"`
	Kind    EventKind `json:"kind"`

	// Snapshot is set for EventSnapshot events.
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	// Err is set for EventCollectorFailure events.
	Err error `json:"-"`
	// Elapsed is the cycle duration on EventCycleEnd events.
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

// EventKind distinguishes the origin of an event.
type EventKind string

const (
	EventStartup          EventKind = "startup"
	EventCycleStart       EventKind = "cycle_start"
	EventCycleEnd         EventKind = "cycle_end"
	EventSnapshot         EventKind = "snapshot"
	EventThreshold        EventKind = "threshold"
	EventCollectorFailure EventKind = "collector_failure"
)
