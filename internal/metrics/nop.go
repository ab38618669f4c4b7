// Package metrics provides MetricsCollector implementations.
package metrics

import "github.com/coosto/leader-election-mongo/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordInitialize discards the initialization duration metric.
func (n *NopMetrics) RecordInitialize(_ /* seconds */ float64) {
	// No-op
}

// RecordRegistration discards the registration latency metric.
func (n *NopMetrics) RecordRegistration(_ /* seconds */ float64) {
	// No-op
}

// RecordElectionOutcome discards the election outcome metric.
func (n *NopMetrics) RecordElectionOutcome(_ /* leader */ bool) {
	// No-op
}

// RecordCleanupWait discards the cleanup wait metric.
func (n *NopMetrics) RecordCleanupWait(_ /* seconds */ float64) {
	// No-op
}

// RecordCleanup discards the cleanup outcome metric.
func (n *NopMetrics) RecordCleanup(_ /* success */ bool) {
	// No-op
}
