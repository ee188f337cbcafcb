package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the server's prometheus instruments on a private
// registry, exposed through the admin HTTP surface.
type Metrics struct {
	Registry *prometheus.Registry

	commands       *prometheus.CounterVec
	transferBytes  *prometheus.CounterVec
	transferTime   *prometheus.HistogramVec
	protocolErrors prometheus.Counter
	activeSessions prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sfmp_commands_total",
			Help: "Commands handled, by verb and terminal status.",
		}, []string{"verb", "status"}),
		transferBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sfmp_transfer_bytes_total",
			Help: "Payload bytes moved, by direction.",
		}, []string{"direction"}),
		transferTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sfmp_transfer_duration_seconds",
			Help:    "Wall time of completed transfers, by direction.",
			Buckets: prometheus.DefBuckets,
		}, []string{"direction"}),
		protocolErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "sfmp_protocol_errors_total",
			Help: "Connections torn down for frame-level violations.",
		}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "sfmp_active_sessions",
			Help: "Currently open client sessions.",
		}),
	}
}

func (m *Metrics) SessionStarted() { m.activeSessions.Inc() }
func (m *Metrics) SessionEnded()   { m.activeSessions.Dec() }

func (m *Metrics) CommandDone(verb, status string) {
	m.commands.WithLabelValues(verb, status).Inc()
}

func (m *Metrics) TransferDone(direction string, bytes int64, seconds float64) {
	m.transferBytes.WithLabelValues(direction).Add(float64(bytes))
	m.transferTime.WithLabelValues(direction).Observe(seconds)
}

func (m *Metrics) ProtocolError() { m.protocolErrors.Inc() }
