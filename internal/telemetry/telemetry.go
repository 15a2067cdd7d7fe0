// Package telemetry exports monitoring events as Prometheus metrics and
// serves them over HTTP.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/HerbHall/hostwatch/internal/sink"
	"github.com/HerbHall/hostwatch/internal/version"
	"github.com/HerbHall/hostwatch/pkg/models"
)

const namespace = "hostwatch"

// Sink turns events into metric updates. Snapshot measurements become
// gauges, every event increments a counter, and cycle-end events feed the
// cycle duration histogram.
type Sink struct {
	measurement *prometheus.GaugeVec
	item        *prometheus.GaugeVec
	unsupported *prometheus.GaugeVec
	events      *prometheus.CounterVec
	failures    *prometheus.CounterVec
	cycle       *prometheus.HistogramVec
	lastCycle   *prometheus.GaugeVec

	mu       sync.RWMutex
	lastSeen map[string]time.Time
}

// Compile-time guard.
var _ sink.Sink = (*Sink)(nil)

// New creates the metric families and registers them with reg.
func New(reg prometheus.Registerer) (*Sink, error) {
	s := &Sink{
		measurement: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "measurement",
			Help:      "Latest sampled value per metric family and measurement.",
		}, []string{"service_label", "family", "measurement"}),
		item: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "item_measurement",
			Help:      "Latest sampled value per item, such as a network interface.",
		}, []string{"service_label", "family", "item", "measurement"}),
		unsupported: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "measurement_unsupported",
			Help:      "1 when a measurement is unavailable on this platform.",
		}, []string{"service_label", "family", "measurement"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events emitted, by severity and kind.",
		}, []string{"service_label", "severity", "kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collector_failures_total",
			Help:      "Collector invocations that failed, by family.",
		}, []string{"service_label", "family"}),
		cycle: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of one monitoring cycle.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"service_label"}),
		lastCycle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time at which the most recent cycle completed.",
		}, []string{"service_label"}),
		lastSeen: make(map[string]time.Time),
	}

	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build metadata; always 1.",
	}, []string{"version", "git_commit", "go_version"})
	info := version.Map()
	buildInfo.WithLabelValues(info["version"], info["git_commit"], info["go_version"]).Set(1)

	for _, c := range []prometheus.Collector{
		s.measurement, s.item, s.unsupported, s.events, s.failures, s.cycle, s.lastCycle, buildInfo,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return s, nil
}

// Emit records e.
func (s *Sink) Emit(_ context.Context, e models.Event) {
	s.events.WithLabelValues(e.ServiceLabel, string(e.Severity), string(e.Kind)).Inc()

	switch e.Kind {
	case models.EventSnapshot:
		if e.Snapshot != nil {
			s.recordSnapshot(e.Snapshot)
		}
	case models.EventCollectorFailure:
		s.failures.WithLabelValues(e.ServiceLabel, string(e.Family)).Inc()
		s.forgetFamily(e.ServiceLabel, e.Family)
	case models.EventCycleEnd:
		s.cycle.WithLabelValues(e.ServiceLabel).Observe(e.Elapsed.Seconds())
		s.lastCycle.WithLabelValues(e.ServiceLabel).Set(float64(e.Timestamp.Unix()))
		s.mu.Lock()
		s.lastSeen[e.ServiceLabel] = e.Timestamp
		s.mu.Unlock()
	}
}

func (s *Sink) recordSnapshot(snap *models.Snapshot) {
	family := string(snap.Family)
	for name, v := range snap.Measurements {
		s.measurement.WithLabelValues(snap.ServiceLabel, family, name).Set(v)
		s.unsupported.WithLabelValues(snap.ServiceLabel, family, name).Set(0)
	}
	for _, name := range snap.Unsupported {
		s.measurement.DeleteLabelValues(snap.ServiceLabel, family, name)
		s.unsupported.WithLabelValues(snap.ServiceLabel, family, name).Set(1)
	}
	for _, it := range snap.Items {
		for name, v := range it.Measurements {
			s.item.WithLabelValues(snap.ServiceLabel, family, it.Name, name).Set(v)
		}
	}
}

// forgetFamily drops the values last sampled for family so a failing
// collector does not keep exporting them.
func (s *Sink) forgetFamily(label string, family models.Family) {
	match := prometheus.Labels{"service_label": label, "family": string(family)}
	s.measurement.DeletePartialMatch(match)
	s.item.DeletePartialMatch(match)
}

// LastCycles returns the completion time of the latest cycle per label.
func (s *Sink) LastCycles() map[string]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]time.Time, len(s.lastSeen))
	for k, v := range s.lastSeen {
		out[k] = v
	}
	return out
}
