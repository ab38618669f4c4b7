package types

import (
	"context"
	"time"
)

// Record is a single candidate registration persisted in a group's election
// collection.
//
// Records are write-once: a candidate inserts its own record and never
// mutates anyone else's. The store expires records automatically once
// CreatedAt + the group TTL has elapsed.
type Record struct {
	// CandidateID is the registering candidate's unique identifier.
	CandidateID string

	// CreatedAt is the registration timestamp used as the primary sort key
	// when resolving the winner.
	CreatedAt time.Time

	// Tiebreak is the store-assigned insertion identity (Mongo ObjectID hex,
	// JetStream sequence number, ...). Its lexicographic order must match
	// insertion order so that timestamp collisions still yield a strict total
	// order.
	Tiebreak string
}

// ElectionStore is the minimal capability surface the election protocol needs
// from an ordered document store with TTL-based expiry.
//
// The store is an injected dependency so the protocol can be tested against
// an in-memory fake. Implementations must provide read-after-write visibility
// for a client's own inserts and a stable total order for First across
// concurrent readers; all coordination correctness rests on these guarantees.
type ElectionStore interface {
	// Ping verifies connectivity before administrative calls.
	Ping(ctx context.Context) error

	// SetExpirySweepInterval tunes the store's background expiry sweep
	// cadence. It is best-effort and commonly privilege-gated; callers are
	// expected to discard the returned error.
	SetExpirySweepInterval(ctx context.Context, interval time.Duration) error

	// EnsureGroup guarantees the group's collection exists with an expiry
	// policy of ttl. It is idempotent: "already exists" conditions for both
	// the collection and its expiry index normalize to success, so multiple
	// candidates racing to initialize the same group all succeed.
	EnsureGroup(ctx context.Context, groupKey string, ttl time.Duration) error

	// Register atomically inserts a new election record for candidateID and
	// returns it, including the store-assigned tiebreak identity. The record
	// is durably visible before Register returns.
	Register(ctx context.Context, groupKey, candidateID string) (Record, error)

	// First returns the earliest surviving record in the group under the
	// ordering (CreatedAt asc, Tiebreak asc). The boolean is false when the
	// group holds no live records.
	First(ctx context.Context, groupKey string) (Record, bool, error)

	// DropGroup removes the group's entire collection and all records in it.
	DropGroup(ctx context.Context, groupKey string) error
}
