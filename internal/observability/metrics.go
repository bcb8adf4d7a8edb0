package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the POS server.
type Metrics struct {
	ConnectionsTotal    prometheus.Counter
	RequestsTotal       *prometheus.CounterVec // label: command
	RequestErrorsTotal  prometheus.Counter
	PosLinesServedTotal prometheus.Counter
	ActiveHandlers      prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lzero",
			Name:      "connections_total",
			Help:      "Total accepted client connections.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lzero",
			Name:      "requests_total",
			Help:      "Well-formed requests by command.",
		}, []string{"command"}),
		RequestErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lzero",
			Name:      "request_errors_total",
			Help:      "Requests answered with an in-band ERROR line.",
		}),
		PosLinesServedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lzero",
			Name:      "pos_lines_served_total",
			Help:      "POS record lines written to clients.",
		}),
		ActiveHandlers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lzero",
			Name:      "active_handlers",
			Help:      "Connection handlers currently running.",
		}),
	}
}

// NewMetrics creates the instruments and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ConnectionsTotal,
		m.RequestsTotal,
		m.RequestErrorsTotal,
		m.PosLinesServedTotal,
		m.ActiveHandlers,
	)
	return m
}

// NewMetricsForTesting creates unregistered instruments so parallel tests do
// not trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
