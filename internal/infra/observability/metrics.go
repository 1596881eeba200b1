package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the console.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the admin /metrics endpoint can serve it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	requestFailures *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

// ClientStats is a point-in-time snapshot of request counters,
// rendered by the console's stats view.
type ClientStats struct {
	Requests    float64
	Failures    float64
	FailureRate float64
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// console metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nlc_request_duration_seconds",
				Help:    "Duration of backend requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlc_requests_total",
				Help: "Total backend requests by method.",
			},
			[]string{"method"},
		),
		requestFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlc_request_failures_total",
				Help: "Total failed backend requests by failure kind.",
			},
			[]string{"kind"},
		),
		notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nlc_notifications_total",
				Help: "Total notifications shown by kind.",
			},
			[]string{"kind"},
		),
	}
}

// RecordRequestDuration records the duration of a backend operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrRequest increments the request counter for an HTTP method.
func (m *Metrics) IncrRequest(method string) {
	m.requestsTotal.WithLabelValues(method).Inc()
}

// IncrFailure increments the failure counter. Kind is one of
// precondition, transport, http, business, parse.
func (m *Metrics) IncrFailure(kind string) {
	m.requestFailures.WithLabelValues(kind).Inc()
}

// IncrNotification counts a shown notification by kind.
func (m *Metrics) IncrNotification(kind string) {
	m.notifications.WithLabelValues(kind).Inc()
}

// Snapshot aggregates request counters for the stats view.
func (m *Metrics) Snapshot() ClientStats {
	requests := getCounterValue(m.requestsTotal, "GET") +
		getCounterValue(m.requestsTotal, "HEAD") +
		getCounterValue(m.requestsTotal, "POST") +
		getCounterValue(m.requestsTotal, "PATCH") +
		getCounterValue(m.requestsTotal, "DELETE")

	failures := float64(0)
	for _, kind := range []string{"precondition", "transport", "http", "business", "parse"} {
		failures += getCounterValue(m.requestFailures, kind)
	}

	stats := ClientStats{Requests: requests, Failures: failures}
	if requests > 0 {
		stats.FailureRate = failures / requests
	}
	return stats
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
