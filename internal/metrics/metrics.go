// Package metrics exposes Prometheus collectors for the dashboard.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway operations.
const (
	OpList   = "list"
	OpCreate = "create"
)

// Metrics collects Prometheus metrics for gateway calls, submissions and sessions.
type Metrics struct {
	gatewayCalls    *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	sessionsActive  prometheus.Gauge
	sessionsEvicted prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *Metrics
)

// New returns the process-wide metrics collector, registering it on first use.
func New() *Metrics {
	metricsOnce.Do(func() {
		metricsInst = &Metrics{
			gatewayCalls: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "requester_gateway_calls_total",
					Help: "Backend REST calls by operation and outcome",
				},
				[]string{"op", "outcome"},
			),
			gatewayDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "requester_gateway_call_duration_seconds",
					Help:    "Backend REST call duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"op"},
			),
			submissions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "requester_submissions_total",
					Help: "Submit attempts by outcome (invalid, submitted, submit_failed, in_flight)",
				},
				[]string{"outcome"},
			),
			sessionsActive: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "requester_sessions_active",
					Help: "Number of live dashboard sessions",
				},
			),
			sessionsEvicted: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "requester_sessions_evicted_total",
					Help: "Dashboard sessions evicted for idleness or capacity",
				},
			),
		}
	})
	return metricsInst
}

// RecordGatewayCall records one backend call.
func (m *Metrics) RecordGatewayCall(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.gatewayCalls.WithLabelValues(op, outcome).Inc()
	m.gatewayDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordSubmission records the outcome of a submit attempt.
func (m *Metrics) RecordSubmission(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// UpdateSessions sets the live session gauge.
func (m *Metrics) UpdateSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}

// RecordEviction counts evicted sessions.
func (m *Metrics) RecordEviction(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsEvicted.Add(float64(n))
}
