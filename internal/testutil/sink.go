package testutil

import (
	"context"
	"sync"

	"github.com/HerbHall/hostwatch/internal/sink"
	"github.com/HerbHall/hostwatch/pkg/models"
)

// Compile-time interface check.
var _ sink.Sink = (*MockSink)(nil)

// MockSink is a thread-safe in-memory sink that records all emitted events
// for later inspection.
type MockSink struct {
	mu     sync.Mutex
	events []models.Event
	onEmit func(models.Event)
}

// NewMockSink returns a new MockSink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// OnEmit registers a hook called synchronously after each event is recorded.
func (s *MockSink) OnEmit(fn func(models.Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEmit = fn
}

// Emit records an event.
func (s *MockSink) Emit(_ context.Context, e models.Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	hook := s.onEmit
	s.mu.Unlock()
	if hook != nil {
		hook(e)
	}
}

// Events returns a copy of all recorded events.
func (s *MockSink) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// BySeverity returns the recorded events with the given severity.
func (s *MockSink) BySeverity(sev models.Severity) []models.Event {
	return s.filter(func(e models.Event) bool { return e.Severity == sev })
}

// ByKind returns the recorded events of the given kind.
func (s *MockSink) ByKind(kind models.EventKind) []models.Event {
	return s.filter(func(e models.Event) bool { return e.Kind == kind })
}

func (s *MockSink) filter(keep func(models.Event) bool) []models.Event {
	var out []models.Event
	for _, e := range s.Events() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears all recorded events.
func (s *MockSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
