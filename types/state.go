package types

// State represents the candidate lifecycle state.
//
// States follow a defined progression for a single election attempt:
//
//	StateUnregistered → StateRegistered → StateLeader or StateFollower
//
// A leader that completes cleanup ends in the terminal StateCleaned. There
// are no other transitions; a new election attempt means a new candidate.
type State int

const (
	// StateUnregistered is the initial state before Elect inserts a record.
	StateUnregistered State = iota

	// StateRegistered indicates the candidate's record is inserted but the
	// winner has not been resolved yet.
	StateRegistered

	// StateLeader indicates this candidate's record sorted first.
	StateLeader

	// StateFollower indicates another candidate's record sorted first.
	StateFollower

	// StateCleaned indicates the leader dropped the election group. Terminal.
	StateCleaned
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "Unregistered"
	case StateRegistered:
		return "Registered"
	case StateLeader:
		return "Leader"
	case StateFollower:
		return "Follower"
	case StateCleaned:
		return "Cleaned"
	default:
		return "Unknown"
	}
}
