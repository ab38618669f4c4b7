package leader

import "errors"

// Sentinel errors returned by the Candidate.
var (
	// ErrStoreRequired is returned when the election store is nil.
	ErrStoreRequired = errors.New("election store is required")

	// ErrInitializeFailed is returned when the group's collection or expiry
	// index could not be created for a reason other than "already exists".
	ErrInitializeFailed = errors.New("election group initialization failed")

	// ErrRegisterFailed is returned when inserting this candidate's election
	// record fails.
	ErrRegisterFailed = errors.New("candidate registration failed")

	// ErrResolveFailed is returned when querying the earliest election record
	// fails.
	ErrResolveFailed = errors.New("winner resolution failed")

	// ErrCleanupFailed is returned when dropping the election group fails.
	// No retry is attempted; the caller decides whether to retry.
	ErrCleanupFailed = errors.New("election group cleanup failed")
)
