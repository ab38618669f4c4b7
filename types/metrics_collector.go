package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods may be called from multiple goroutines and must be thread-safe.
type MetricsCollector interface {
	ElectionMetrics
	CleanupMetrics
}

// ElectionMetrics defines metrics for initialization and election.
type ElectionMetrics interface {
	// RecordInitialize records the duration of a successful Initialize call.
	//
	// Parameters:
	//   - seconds: Time taken in seconds
	RecordInitialize(seconds float64)

	// RecordRegistration records the latency of inserting an election record.
	//
	// Parameters:
	//   - seconds: Time taken in seconds
	RecordRegistration(seconds float64)

	// RecordElectionOutcome records the result of an Elect call.
	//
	// Parameters:
	//   - leader: true when this candidate won
	RecordElectionOutcome(leader bool)
}

// CleanupMetrics defines metrics for the leader's deferred teardown.
type CleanupMetrics interface {
	// RecordCleanupWait records how long Cleanup held the leadership record
	// before dropping the group (the remaining TTL window).
	//
	// Parameters:
	//   - seconds: Wait duration in seconds (0 when the deadline had passed)
	RecordCleanupWait(seconds float64)

	// RecordCleanup records the outcome of the collection drop.
	//
	// Parameters:
	//   - success: true when the drop succeeded
	RecordCleanup(success bool)
}
