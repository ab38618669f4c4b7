package leader

import "github.com/coosto/leader-election-mongo/types"

// Re-export types from the types subpackage.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual declarations. The pattern avoids
// import cycles: store implementations and internal packages depend on
// `types` without depending on the root package, while users still get the
// convenient `leader.State`, `leader.Logger`, etc.
type (
	State  = types.State
	Record = types.Record
)

// Re-export interfaces from the types subpackage for convenience.
type (
	ElectionStore    = types.ElectionStore
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export State constants from the types subpackage.
const (
	StateUnregistered = types.StateUnregistered
	StateRegistered   = types.StateRegistered
	StateLeader       = types.StateLeader
	StateFollower     = types.StateFollower
	StateCleaned      = types.StateCleaned
)
