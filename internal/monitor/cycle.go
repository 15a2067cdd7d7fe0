// Package monitor runs one monitoring pass over a fixed set of collectors.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/hostwatch/internal/collector"
	"github.com/HerbHall/hostwatch/internal/policy"
	"github.com/HerbHall/hostwatch/internal/sink"
	"github.com/HerbHall/hostwatch/pkg/models"
)

// CollectorError wraps a failure inside a single collector invocation.
type CollectorError struct {
	Family models.Family
	Err    error
}

func (e *CollectorError) Error() string {
	return fmt.Sprintf("collect %s: %v", e.Family, e.Err)
}

func (e *CollectorError) Unwrap() error { return e.Err }

// Config holds the dependencies of a Cycle.
type Config struct {
	Collectors []collector.Collector
	Policy     *policy.Policy
	Sink       sink.Sink
	Logger     *zap.Logger
	// StartTime is the process start, captured once at startup.
	StartTime time.Time
	// CollectorTimeout bounds each collector call. Zero disables it.
	CollectorTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID generates cycle identifiers. Defaults to random UUIDs.
	NewID func() string
}

// Cycle runs every collector once, in order, isolating failures so that one
// collector never prevents the others from running.
type Cycle struct {
	collectors []collector.Collector
	policy     *policy.Policy
	sink       sink.Sink
	logger     *zap.Logger
	startTime  time.Time
	timeout    time.Duration
	now        func() time.Time
	newID      func() string
}

// Report summarises one pass.
type Report struct {
	CycleID    string
	Label      string
	Snapshots  []models.Snapshot
	Failures   []*CollectorError
	Advisories []models.Event
	Elapsed    time.Duration
}

// NewCycle returns a Cycle for cfg. A nil policy evaluates no rules and a nil
// logger discards debug output.
func NewCycle(cfg Config) *Cycle {
	c := &Cycle{
		collectors: cfg.Collectors,
		policy:     cfg.Policy,
		sink:       cfg.Sink,
		logger:     cfg.Logger,
		startTime:  cfg.StartTime,
		timeout:    cfg.CollectorTimeout,
		now:        cfg.Now,
		newID:      cfg.NewID,
	}
	if c.policy == nil {
		c.policy, _ = policy.New()
	}
	if c.sink == nil {
		c.sink = sink.Multi(nil)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.startTime.IsZero() {
		c.startTime = c.now()
	}
	return c
}

// RunOnce performs one pass for label: a start marker, every collector in
// order with its snapshot and advisories, and an end marker.
func (c *Cycle) RunOnce(ctx context.Context, label string) Report {
	began := c.now()
	report := Report{CycleID: c.newID(), Label: label}

	c.emit(ctx, models.Event{
		Severity:     models.SeverityInfo,
		Kind:         models.EventCycleStart,
		Message:      fmt.Sprintf("System usage check started (uptime %s)", began.Sub(c.startTime).Truncate(time.Second)),
		ServiceLabel: label,
		Timestamp:    began,
		CycleID:      report.CycleID,
	})

	for _, col := range c.collectors {
		snap, err := c.invoke(ctx, col, label)
		if err != nil {
			cerr := &CollectorError{Family: col.Family(), Err: err}
			report.Failures = append(report.Failures, cerr)
			c.emit(ctx, models.Event{
				Severity:     models.SeverityError,
				Kind:         models.EventCollectorFailure,
				Family:       col.Family(),
				Message:      fmt.Sprintf("Error during %s usage check: %v", col.Family(), err),
				ServiceLabel: label,
				Timestamp:    c.now(),
				CycleID:      report.CycleID,
				Err:          cerr,
			})
			continue
		}

		report.Snapshots = append(report.Snapshots, snap)
		snapCopy := snap
		c.emit(ctx, models.Event{
			Severity:     models.SeverityInfo,
			Kind:         models.EventSnapshot,
			Family:       snap.Family,
			Message:      collector.Describe(snap),
			ServiceLabel: label,
			Timestamp:    snap.Timestamp,
			CycleID:      report.CycleID,
			Snapshot:     &snapCopy,
		})
		for _, adv := range c.policy.Evaluate(snap) {
			adv.CycleID = report.CycleID
			report.Advisories = append(report.Advisories, adv)
			c.emit(ctx, adv)
		}
	}

	ended := c.now()
	report.Elapsed = ended.Sub(began)
	c.emit(ctx, models.Event{
		Severity:     models.SeverityInfo,
		Kind:         models.EventCycleEnd,
		Message:      "System usage check completed",
		ServiceLabel: label,
		Timestamp:    ended,
		CycleID:      report.CycleID,
		Elapsed:      report.Elapsed,
	})
	return report
}

// invoke is the isolation boundary around one collector: errors, panics, and
// deadline overruns all come back as a plain error.
func (c *Cycle) invoke(ctx context.Context, col collector.Collector, label string) (snap models.Snapshot, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			snap = models.Snapshot{}
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	start := time.Now()
	snap, err = col.Collect(ctx, label)
	c.logger.Debug("collector finished",
		zap.String("family", string(col.Family())),
		zap.String("service_label", label),
		zap.Duration("took", time.Since(start)),
		zap.Bool("ok", err == nil),
	)
	if err == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.Snapshot{}, fmt.Errorf("exceeded %s deadline: %w", c.timeout, ctx.Err())
	}
	return snap, err
}

func (c *Cycle) emit(ctx context.Context, e models.Event) {
	c.sink.Emit(ctx, e)
}

// Startup emits the one-off event recording when the process started.
func Startup(ctx context.Context, s sink.Sink, label string, startTime time.Time) {
	s.Emit(ctx, models.Event{
		Severity:     models.SeverityInfo,
		Kind:         models.EventStartup,
		Message:      fmt.Sprintf("Application startup time: %s", startTime.Local().Format(time.RFC3339)),
		ServiceLabel: label,
		Timestamp:    startTime,
	})
}
