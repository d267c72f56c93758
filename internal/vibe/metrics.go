package vibe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects pipeline observability counters on a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	candidatesGenerated *prometheus.CounterVec
	strategyFailures    *prometheus.CounterVec
	revisionsSucceeded  prometheus.Counter
	fallbacksUsed       prometheus.Counter
	requests            *prometheus.CounterVec
	iterations          prometheus.Histogram
	requestDuration     prometheus.Histogram
}

// NewMetrics creates the pipeline metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		candidatesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibemaker",
			Name:      "candidates_generated_total",
			Help:      "Candidates produced, by originating strategy.",
		}, []string{"strategy"}),
		strategyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibemaker",
			Name:      "strategy_failures_total",
			Help:      "Strategy invocations that produced no candidates.",
		}, []string{"strategy"}),
		revisionsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vibemaker",
			Name:      "revisions_succeeded_total",
			Help:      "Candidate repairs accepted by the revision engine.",
		}),
		fallbacksUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vibemaker",
			Name:      "fallback_lines_total",
			Help:      "Deterministic fallback lines substituted into responses.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibemaker",
			Name:      "requests_total",
			Help:      "Generation requests, by outcome.",
		}, []string{"outcome"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vibemaker",
			Name:      "revision_iterations",
			Help:      "Revision rounds consumed per request.",
			Buckets:   []float64{1, 2, 3},
		}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vibemaker",
			Name:      "request_duration_seconds",
			Help:      "End-to-end generation latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		m.candidatesGenerated,
		m.strategyFailures,
		m.revisionsSucceeded,
		m.fallbacksUsed,
		m.requests,
		m.iterations,
		m.requestDuration,
	)
	return m
}

// Registry exposes the underlying registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) observeCandidates(strategy Strategy, count int) {
	if m == nil {
		return
	}
	m.candidatesGenerated.WithLabelValues(string(strategy)).Add(float64(count))
}

func (m *Metrics) observeStrategyFailure(strategy Strategy) {
	if m == nil {
		return
	}
	m.strategyFailures.WithLabelValues(string(strategy)).Inc()
}

func (m *Metrics) observeRevisionSuccess() {
	if m == nil {
		return
	}
	m.revisionsSucceeded.Inc()
}

func (m *Metrics) observeFallback(count int) {
	if m == nil {
		return
	}
	m.fallbacksUsed.Add(float64(count))
}

func (m *Metrics) observeRequest(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.requestDuration.Observe(duration.Seconds())
}

func (m *Metrics) observeIterations(rounds int) {
	if m == nil {
		return
	}
	m.iterations.Observe(float64(rounds))
}
