// Package metrics holds the Prometheus collectors for the journal client:
//
//	journal_remote_calls_total{op,result}      remote operations by outcome (ok|error)
//	journal_remote_call_duration_seconds{op}   wall time of remote operations incl. retries
//	journal_retry_attempts_total{op}           failed attempts that were retried or exhausted
//	journal_queue_joins_total                  callers that joined an in-flight operation
//	journal_connection_status                  0 unknown, 1 connected, 2 disconnected, 3 syncing
//	journal_last_sync_timestamp_seconds        unix time of the last successful exchange
//
// Collectors live on their own registry so tests and the status server do
// not share global state.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	RemoteCalls      *prometheus.CounterVec
	RemoteDuration   *prometheus.HistogramVec
	RetryAttempts    *prometheus.CounterVec
	QueueJoins       prometheus.Counter
	ConnectionStatus prometheus.Gauge
	LastSync         prometheus.Gauge
}

// New creates and registers the collectors. withRuntime adds the Go and
// process collectors.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RemoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journal_remote_calls_total",
				Help: "Remote operations by outcome",
			},
			[]string{"op", "result"},
		),
		RemoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "journal_remote_call_duration_seconds",
				Help:    "Duration of remote operations including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		RetryAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journal_retry_attempts_total",
				Help: "Failed attempts of remote operations",
			},
			[]string{"op"},
		),
		QueueJoins: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "journal_queue_joins_total",
				Help: "Callers that joined an operation already in flight",
			},
		),
		ConnectionStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "journal_connection_status",
				Help: "Connection status (0 unknown, 1 connected, 2 disconnected, 3 syncing)",
			},
		),
		LastSync: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "journal_last_sync_timestamp_seconds",
				Help: "Unix time of the last successful exchange with the remote service",
			},
		),
	}

	m.Registry.MustRegister(m.RemoteCalls, m.RemoteDuration, m.RetryAttempts, m.QueueJoins, m.ConnectionStatus, m.LastSync)
	if withRuntime {
		m.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}

// ObserveCall records one finished remote operation.
func (m *Metrics) ObserveCall(op string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RemoteCalls.WithLabelValues(op, result).Inc()
	m.RemoteDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveRetry(op string) {
	m.RetryAttempts.WithLabelValues(op).Inc()
}

func (m *Metrics) ObserveJoin() {
	m.QueueJoins.Inc()
}

// SetStatus records the numeric connection status; connected also updates
// the last sync timestamp.
func (m *Metrics) SetStatus(status int, connected bool, at time.Time) {
	m.ConnectionStatus.Set(float64(status))
	if connected {
		m.LastSync.Set(float64(at.Unix()))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
