package types

import "context"

// Hooks defines callbacks for election lifecycle events.
//
// Both hooks are optional and invoked synchronously at the emission point:
// OnElected fires exactly once, when Elect determines this candidate won;
// OnCleaned fires exactly once, when Cleanup finishes dropping the group.
// Hook errors are logged by the candidate and do not fail the operation.
//
// Hooks should complete quickly; a slow OnElected delays Elect's return.
type Hooks struct {
	// OnElected is called when this candidate wins the election.
	OnElected func(ctx context.Context, candidateID string) error

	// OnCleaned is called after the group's collection has been dropped.
	OnCleaned func(ctx context.Context, groupKey string) error
}
