// Package observability provides Prometheus instrumentation for the
// screening engine, adapted from the teacher's internal/observability.Metrics:
// same promauto registration pattern, trimmed to the families this core's
// components actually emit (HTTP/DB/WS/NATS-consume families dropped along
// with the subsystems that produced them).
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics the screening engine emits.
type Metrics struct {
	ScreeningsTotal    *prometheus.CounterVec
	ScreeningDuration  *prometheus.HistogramVec
	MatchScore         prometheus.Histogram
	BatchQueriesTotal  *prometheus.CounterVec
	BatchDuration      prometheus.Histogram
	PriorStoreOpsTotal *prometheus.CounterVec
	CircuitBreakerState *prometheus.GaugeVec
	NATSPublishTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers the engine's Prometheus metrics.
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		ScreeningsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "screenings_total",
				Help:      "Total number of screenings performed, by risk level",
			},
			[]string{"risk_level"},
		),
		ScreeningDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "screening_duration_seconds",
				Help:      "Screening duration in seconds, by risk level",
				Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"risk_level"},
		),
		MatchScore: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "match_score",
				Help:      "Highest combined match score distribution",
				Buckets:   []float64{0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1.0},
			},
		),
		BatchQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batch_queries_total",
				Help:      "Total number of queries processed by the batch engine, by outcome",
			},
			[]string{"outcome"}, // ok, failed
		),
		BatchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batch_duration_seconds",
				Help:      "Batch run wall-clock duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		PriorStoreOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "prior_store_operations_total",
				Help:      "Total number of prior-score store operations, by operation and status",
			},
			[]string{"operation", "status"},
		),
		CircuitBreakerState: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "circuit_breaker_state",
				Help:      "Prior-score store circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"name"},
		),
		NATSPublishTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "nats_publish_total",
				Help:      "Total number of batch-completion events published, by status",
			},
			[]string{"subject", "status"},
		),
	}
}

// ObserveScreen implements matcher.Metrics.
func (m *Metrics) ObserveScreen(riskLevel string, durationSeconds float64) {
	m.ScreeningsTotal.WithLabelValues(riskLevel).Inc()
	m.ScreeningDuration.WithLabelValues(riskLevel).Observe(durationSeconds)
}

// ObserveMatchScore records a completed screen's highest combined score.
func (m *Metrics) ObserveMatchScore(score float64) {
	m.MatchScore.Observe(score)
}

// ObserveBatchQuery implements batch.Metrics.
func (m *Metrics) ObserveBatchQuery(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.BatchQueriesTotal.WithLabelValues(outcome).Inc()
}

// ObserveBatchDuration records a completed batch run's wall-clock time.
func (m *Metrics) ObserveBatchDuration(d time.Duration) {
	m.BatchDuration.Observe(d.Seconds())
}

// ObservePriorStoreOp implements batch.Metrics for the prior-score store.
func (m *Metrics) ObservePriorStoreOp(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.PriorStoreOpsTotal.WithLabelValues(operation, status).Inc()
}

// SetCircuitBreakerState records the prior-score store circuit breaker's
// current state (0=closed, 1=open, 2=half-open).
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// ObserveNATSPublish implements batch.Metrics for the completion publisher.
func (m *Metrics) ObserveNATSPublish(subject string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.NATSPublishTotal.WithLabelValues(subject, status).Inc()
}
