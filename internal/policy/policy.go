// Package policy evaluates snapshots against threshold rules.
package policy

import (
	"fmt"
	"strings"

	"github.com/HerbHall/hostwatch/pkg/models"
)

// Comparator is the relation a rule tests between a measurement and its limit.
type Comparator string

const (
	GreaterThan    Comparator = ">"
	GreaterOrEqual Comparator = ">="
	LessThan       Comparator = "<"
	LessOrEqual    Comparator = "<="
)

// Holds reports whether value relates to limit as c requires.
func (c Comparator) Holds(value, limit float64) bool {
	switch c {
	case GreaterThan:
		return value > limit
	case GreaterOrEqual:
		return value >= limit
	case LessThan:
		return value < limit
	case LessOrEqual:
		return value <= limit
	default:
		return false
	}
}

// Valid reports whether c is a known comparator.
func (c Comparator) Valid() bool {
	switch c {
	case GreaterThan, GreaterOrEqual, LessThan, LessOrEqual:
		return true
	}
	return false
}

// Rule is a single threshold on one measurement of one family.
type Rule struct {
	Family      models.Family
	Measurement string
	Comparator  Comparator
	Limit       float64
	Severity    models.Severity
	// Message is the event text. It may contain one verb for the observed
	// value; without one the value is appended. Empty means a generated
	// message.
	Message string
}

// Validate checks that the rule can be evaluated.
func (r Rule) Validate() error {
	if r.Family == "" {
		return fmt.Errorf("rule for %q: missing family", r.Measurement)
	}
	if r.Measurement == "" {
		return fmt.Errorf("rule for %s: missing measurement", r.Family)
	}
	if !r.Comparator.Valid() {
		return fmt.Errorf("rule %s.%s: unknown comparator %q", r.Family, r.Measurement, r.Comparator)
	}
	return nil
}

func (r Rule) message(value float64) string {
	switch {
	case r.Message == "":
		return fmt.Sprintf("%s %s %.2f exceeds threshold (%s %.2f)",
			r.Family, r.Measurement, value, r.Comparator, r.Limit)
	case hasVerb(r.Message):
		return fmt.Sprintf(r.Message, value)
	default:
		return fmt.Sprintf("%s (%.2f)", strings.ReplaceAll(r.Message, "%%", "%"), value)
	}
}

// hasVerb reports whether format holds a verb. The %% escape and a trailing
// lone percent sign are not verbs.
func hasVerb(format string) bool {
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 == len(format) {
			continue
		}
		if format[i+1] == '%' {
			i++
			continue
		}
		return true
	}
	return false
}

// Policy is an immutable rule set. Evaluation holds no state between calls.
type Policy struct {
	rules []Rule
}

// New returns a policy over rules. Rules are evaluated in the given order.
func New(rules ...Rule) (*Policy, error) {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Policy{rules: cp}, nil
}

// Rules returns a copy of the rule set.
func (p *Policy) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Evaluate returns at most one event per rule whose family matches the
// snapshot, whose measurement is present, and whose comparator holds.
func (p *Policy) Evaluate(s models.Snapshot) []models.Event {
	var events []models.Event
	for _, r := range p.rules {
		if r.Family != s.Family {
			continue
		}
		value, ok := s.Value(r.Measurement)
		if !ok || !r.Comparator.Holds(value, r.Limit) {
			continue
		}
		sev := r.Severity
		if sev == "" {
			sev = models.SeverityWarning
		}
		events = append(events, models.Event{
			Severity:     sev,
			Kind:         models.EventThreshold,
			Family:       s.Family,
			Message:      r.message(value),
			ServiceLabel: s.ServiceLabel,
			Timestamp:    s.Timestamp,
		})
	}
	return events
}
