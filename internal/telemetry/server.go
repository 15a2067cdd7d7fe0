package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HerbHall/hostwatch/internal/version"
)

// Server exposes /metrics and /healthz.
type Server struct {
	httpServer *http.Server
	sink       *Sink
	logger     *zap.Logger
	mux        *http.ServeMux
	// staleAfter marks a label unhealthy when its last cycle is older.
	staleAfter time.Duration
	now        func() time.Time
}

// NewServer creates a Server. Metrics are read from gatherer; health is
// derived from the cycles recorded by sink. A label is reported stale when
// its last cycle completed more than staleAfter ago; zero disables the check.
func NewServer(addr string, gatherer prometheus.Gatherer, sink *Sink, staleAfter time.Duration, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		sink:       sink,
		logger:     logger,
		mux:        mux,
		staleAfter: staleAfter,
		now:        time.Now,
	}

	s.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("/", handleNotFound)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting metrics server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.httpServer.Shutdown(ctx)
}

type healthResponse struct {
	Status     string               `json:"status"`
	Service    string               `json:"service"`
	Version    map[string]string    `json:"version"`
	LastCycles map[string]time.Time `json:"last_cycles"`
	Stale      []string             `json:"stale,omitempty"`
}

// handleHealth reports ok until some label stops completing cycles.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:     "ok",
		Service:    "hostwatch",
		Version:    version.Map(),
		LastCycles: s.sink.LastCycles(),
	}
	if s.staleAfter > 0 {
		now := s.now()
		for label, at := range resp.LastCycles {
			if now.Sub(at) > s.staleAfter {
				resp.Stale = append(resp.Stale, label)
			}
		}
		sort.Strings(resp.Stale)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Hostwatch-Version", version.Short())
	if len(resp.Stale) > 0 {
		resp.Status = "stale"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Debug("write health response", zap.Error(err))
	}
}
