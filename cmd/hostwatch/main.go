package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/hostwatch/internal/collector"
	"github.com/HerbHall/hostwatch/internal/config"
	"github.com/HerbHall/hostwatch/internal/logging"
	"github.com/HerbHall/hostwatch/internal/monitor"
	"github.com/HerbHall/hostwatch/internal/policy"
	"github.com/HerbHall/hostwatch/internal/provider"
	"github.com/HerbHall/hostwatch/internal/scheduler"
	"github.com/HerbHall/hostwatch/internal/sink"
	"github.com/HerbHall/hostwatch/internal/telemetry"
	"github.com/HerbHall/hostwatch/internal/version"
)

func main() {
	startTime := time.Now()

	configPath := flag.String("config", "", "path to configuration file")
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *printConfig {
		if err := config.Dump(os.Stdout, settings); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	logger, err := logging.New(settings.Log.Level, settings.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("hostwatch starting", zap.String("version", version.Short()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, settings, logger, startTime); err != nil {
		logger.Error("hostwatch failed", zap.Error(err))
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
	logger.Info("hostwatch stopped")
}

// run wires the monitoring stack for settings and blocks until ctx is done.
func run(ctx context.Context, settings *config.Settings, logger *zap.Logger, startTime time.Time) error {
	sinks := sink.Multi{sink.NewLogger(logger)}

	var srv *telemetry.Server
	if settings.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		metricsSink, err := telemetry.New(reg)
		if err != nil {
			return err
		}
		sinks = append(sinks, metricsSink)
		// Three missed intervals marks a label stale.
		srv = telemetry.NewServer(settings.Metrics.Addr, reg, metricsSink, 3*settings.Interval+settings.CollectorTimeout, logger.Named("metrics"))
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	monitor.Startup(ctx, sinks, settings.Targets[0].Label, startTime)

	targets, err := buildTargets(ctx, settings, sinks, logger, startTime)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(scheduler.Config{
		Interval:   settings.Interval,
		Targets:    targets,
		Logger:     logger.Named("scheduler"),
		Concurrent: settings.Concurrent,
	})
	if err != nil {
		return err
	}

	runErr := sched.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// buildTargets gives every configured label its own provider, collector set,
// and cycle so that no collector state is shared between labels.
func buildTargets(ctx context.Context, settings *config.Settings, s sink.Sink, logger *zap.Logger, startTime time.Time) ([]scheduler.Target, error) {
	pol := policy.Default(settings.Thresholds)

	targets := make([]scheduler.Target, 0, len(settings.Targets))
	for _, t := range settings.Targets {
		p, err := provider.New(t.Provider)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", t.Label, err)
		}
		cycle := monitor.NewCycle(monitor.Config{
			Collectors:       collector.NewSet(ctx, p, collector.Options{DiskPath: settings.DiskPath}),
			Policy:           pol,
			Sink:             s,
			Logger:           logger.Named("cycle").With(zap.String("service_label", t.Label)),
			StartTime:        startTime,
			CollectorTimeout: settings.CollectorTimeout,
		})
		targets = append(targets, scheduler.Target{Label: t.Label, Cycle: cycle})
		logger.Debug("target configured",
			zap.String("service_label", t.Label),
			zap.String("provider", p.Name()),
		)
	}
	return targets, nil
}
