// Package monitoring exposes a small operational HTTP API next to the POS
// server: status snapshot, station listing and Prometheus metrics.
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"frednet.dev/lzero/internal/server"
)

type Config struct {
	ListenAddr string
}

type MonitoringServer struct {
	srv        *server.Server
	httpServer *http.Server
	logger     zerolog.Logger
}

func New(srv *server.Server, config *Config, logger zerolog.Logger) *MonitoringServer {
	m := &MonitoringServer{srv: srv}
	m.logger = logger.With().Str("module", "monitoring").Logger()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/status", m.handleStatus)
	r.Get("/stations", m.handleStations)
	r.Handle("/metrics", promhttp.Handler())

	m.httpServer = &http.Server{
		Addr:           config.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	return m
}

// Run blocks serving HTTP until Shutdown. Returns http.ErrServerClosed on a
// clean shutdown.
func (m *MonitoringServer) Run() error {
	m.logger.Info().Msgf("monitoring server listening on %s", m.httpServer.Addr)
	return m.httpServer.ListenAndServe()
}

func (m *MonitoringServer) Shutdown(ctx context.Context) error {
	return m.httpServer.Shutdown(ctx)
}

// Handler returns the router, useful for httptest.
func (m *MonitoringServer) Handler() http.Handler {
	return m.httpServer.Handler
}

func (m *MonitoringServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	jsonWrite(w, m.srv.Status())
}

func (m *MonitoringServer) handleStations(w http.ResponseWriter, r *http.Request) {
	stations := m.srv.Stations()
	if stations == nil {
		stations = []string{}
	}
	jsonWrite(w, stations)
}

// jsonWrite panics on encoding failure; middleware.Recoverer turns that into
// a 500.
func jsonWrite(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(err)
	}
}
