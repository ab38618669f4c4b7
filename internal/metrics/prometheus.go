package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coosto/leader-election-mongo/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	initDuration    prometheus.Histogram
	registerLatency prometheus.Histogram
	outcomes        *prometheus.CounterVec
	cleanupWait     prometheus.Histogram
	cleanupResults  *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "leader_election" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "leader_election"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.initDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      "initialize_duration_seconds",
			Help:      "Duration of successful election group initialization.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~2.5s
		})

		p.registerLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      "register_latency_seconds",
			Help:      "Latency of inserting the candidate's election record.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		})

		p.outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "elections_total",
			Help:      "Total election outcomes by result (leader|follower).",
		}, []string{"outcome"})

		p.cleanupWait = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      "cleanup_wait_seconds",
			Help:      "Time the leader held its record before dropping the group.",
			Buckets:   []float64{0, 1, 2.5, 5, 10, 30, 60, 120},
		})

		p.cleanupResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "cleanups_total",
			Help:      "Total cleanup outcomes by result (success|failure).",
		}, []string{"result"})

		p.reg.MustRegister(p.initDuration)
		p.reg.MustRegister(p.registerLatency)
		p.reg.MustRegister(p.outcomes)
		p.reg.MustRegister(p.cleanupWait)
		p.reg.MustRegister(p.cleanupResults)
	})
}

// RecordInitialize observes the initialization duration.
func (p *PrometheusCollector) RecordInitialize(seconds float64) {
	p.ensureRegistered()
	p.initDuration.Observe(seconds)
}

// RecordRegistration observes the registration latency.
func (p *PrometheusCollector) RecordRegistration(seconds float64) {
	p.ensureRegistered()
	p.registerLatency.Observe(seconds)
}

// RecordElectionOutcome increments the outcome counter.
func (p *PrometheusCollector) RecordElectionOutcome(leader bool) {
	p.ensureRegistered()
	if leader {
		p.outcomes.WithLabelValues("leader").Inc()
	} else {
		p.outcomes.WithLabelValues("follower").Inc()
	}
}

// RecordCleanupWait observes the leadership hold duration.
func (p *PrometheusCollector) RecordCleanupWait(seconds float64) {
	p.ensureRegistered()
	p.cleanupWait.Observe(seconds)
}

// RecordCleanup increments the cleanup result counter.
func (p *PrometheusCollector) RecordCleanup(success bool) {
	p.ensureRegistered()
	if success {
		p.cleanupResults.WithLabelValues("success").Inc()
	} else {
		p.cleanupResults.WithLabelValues("failure").Inc()
	}
}
