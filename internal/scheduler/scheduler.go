// Package scheduler drives monitoring cycles at a fixed interval until its
// context is cancelled.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HerbHall/hostwatch/internal/monitor"
)

// State is the lifecycle position of a Scheduler.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrAlreadyStarted is returned by Run on a scheduler that has already run.
var ErrAlreadyStarted = errors.New("scheduler already started")

// Runner executes one monitoring pass. *monitor.Cycle satisfies it.
type Runner interface {
	RunOnce(ctx context.Context, label string) monitor.Report
}

// Compile-time guard.
var _ Runner = (*monitor.Cycle)(nil)

// Target pairs a service label with the cycle that monitors it. A cycle must
// not be shared between targets when running concurrently.
type Target struct {
	Label string
	Cycle Runner
}

// Config holds scheduler settings.
type Config struct {
	Interval time.Duration
	Targets  []Target
	Logger   *zap.Logger
	// Concurrent runs one loop per target instead of a single loop over all.
	Concurrent bool
	// OnReport, if set, receives every completed cycle report.
	OnReport func(monitor.Report)
}

// Scheduler runs each target's cycle, sleeps for the interval, and repeats.
type Scheduler struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// New validates cfg and returns an idle Scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	if len(cfg.Targets) == 0 {
		return nil, errors.New("at least one target is required")
	}
	for i, t := range cfg.Targets {
		if t.Label == "" {
			return nil, fmt.Errorf("target %d: empty label", i)
		}
		if t.Cycle == nil {
			return nil, fmt.Errorf("target %q: nil cycle", t.Label)
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cfg: cfg, logger: logger}, nil
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run blocks until ctx is cancelled or Stop is called. The first cycle runs
// immediately. A cycle that has started always runs to completion; the sleep
// between cycles ends as soon as cancellation is observed. Run returns nil on
// a graceful stop.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateRunning
	s.cancel = cancel
	s.mu.Unlock()

	defer s.setState(StateCancelled)

	s.logger.Info("scheduler starting",
		zap.Duration("interval", s.cfg.Interval),
		zap.Int("targets", len(s.cfg.Targets)),
		zap.Bool("concurrent", s.cfg.Concurrent),
	)

	if !s.cfg.Concurrent {
		s.loop(ctx, s.cfg.Targets)
		s.logger.Info("scheduler stopped")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range s.cfg.Targets {
		targets := []Target{t}
		g.Go(func() error {
			s.loop(gctx, targets)
			return nil
		})
	}
	err := g.Wait()
	s.logger.Info("scheduler stopped")
	return err
}

// Stop cancels a running scheduler. It is safe to call at any time.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

// loop runs the given targets in order, then waits for the interval.
func (s *Scheduler) loop(ctx context.Context, targets []Target) {
	// Cycles see a context that outlives cancellation so a started pass is
	// never cut short.
	cycleCtx := context.WithoutCancel(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		for _, t := range targets {
			if ctx.Err() != nil {
				return
			}
			report := t.Cycle.RunOnce(cycleCtx, t.Label)
			s.logger.Debug("cycle finished",
				zap.String("service_label", t.Label),
				zap.String("cycle_id", report.CycleID),
				zap.Int("snapshots", len(report.Snapshots)),
				zap.Int("failures", len(report.Failures)),
				zap.Duration("elapsed", report.Elapsed),
			)
			if s.cfg.OnReport != nil {
				s.cfg.OnReport(report)
			}
		}

		timer.Reset(s.cfg.Interval)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}
