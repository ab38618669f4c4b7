package testing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/coosto/leader-election-mongo/types"
)

// MemStore is an in-memory types.ElectionStore for tests.
//
// It honors the store contract the protocol relies on: atomic inserts with a
// monotonically increasing tiebreak, read-after-write visibility, a stable
// (CreatedAt asc, Tiebreak asc) total order, and TTL expiry (applied lazily
// at read time, which is indistinguishable from a background sweep to
// callers). Safe for concurrent use by many candidates.
//
// The error fields inject failures for specific operations; leave them nil
// for normal behavior.
type MemStore struct {
	groups *xsync.Map[string, *memGroup]
	seq    atomic.Uint64

	// PingErr, when set, is returned by Ping.
	PingErr error

	// SweepErr, when set, is returned by SetExpirySweepInterval. Useful for
	// simulating privilege denial on the admin step.
	SweepErr error

	// EnsureErr, when set, is returned by EnsureGroup.
	EnsureErr error

	// RegisterErr, when set, is returned by Register.
	RegisterErr error

	// FirstErr, when set, is returned by First.
	FirstErr error

	// DropErr, when set, is returned by DropGroup.
	DropErr error
}

type memGroup struct {
	mu      sync.Mutex
	ttl     time.Duration
	records []memRecord
}

type memRecord struct {
	candidateID string
	createdAt   time.Time
	seq         uint64
}

// Compile-time assertion that MemStore implements ElectionStore.
var _ types.ElectionStore = (*MemStore)(nil)

// NewMemStore creates an empty in-memory election store.
func NewMemStore() *MemStore {
	return &MemStore{
		groups: xsync.NewMap[string, *memGroup](),
	}
}

// Ping returns PingErr.
func (s *MemStore) Ping(_ context.Context) error {
	return s.PingErr
}

// SetExpirySweepInterval returns SweepErr. Expiry in MemStore is evaluated
// lazily on every read, so there is no sweep cadence to tune.
func (s *MemStore) SetExpirySweepInterval(_ context.Context, _ time.Duration) error {
	return s.SweepErr
}

// EnsureGroup creates the group if absent. Repeated and concurrent calls all
// succeed; the first caller's TTL wins, matching a TTL index that already
// exists.
func (s *MemStore) EnsureGroup(_ context.Context, groupKey string, ttl time.Duration) error {
	if s.EnsureErr != nil {
		return s.EnsureErr
	}

	s.groups.LoadOrStore(groupKey, &memGroup{ttl: ttl})

	return nil
}

// Register appends a record with the next global sequence as tiebreak.
func (s *MemStore) Register(_ context.Context, groupKey, candidateID string) (types.Record, error) {
	if s.RegisterErr != nil {
		return types.Record{}, s.RegisterErr
	}

	g, ok := s.groups.Load(groupKey)
	if !ok {
		return types.Record{}, fmt.Errorf("group %q does not exist", groupKey)
	}

	rec := memRecord{
		candidateID: candidateID,
		createdAt:   time.Now().UTC(),
		seq:         s.seq.Add(1),
	}

	g.mu.Lock()
	g.records = append(g.records, rec)
	g.mu.Unlock()

	return toRecord(rec), nil
}

// First returns the earliest live record under (createdAt asc, seq asc).
func (s *MemStore) First(_ context.Context, groupKey string) (types.Record, bool, error) {
	if s.FirstErr != nil {
		return types.Record{}, false, s.FirstErr
	}

	g, ok := s.groups.Load(groupKey)
	if !ok {
		return types.Record{}, false, nil
	}

	now := time.Now().UTC()

	g.mu.Lock()
	defer g.mu.Unlock()

	var (
		best  memRecord
		found bool
	)
	for _, rec := range g.records {
		if !rec.createdAt.Add(g.ttl).After(now) {
			continue // expired
		}
		if !found || less(rec, best) {
			best = rec
			found = true
		}
	}

	if !found {
		return types.Record{}, false, nil
	}

	return toRecord(best), true, nil
}

// DropGroup removes the group and all its records. Dropping an absent group
// succeeds, matching the Mongo backend.
func (s *MemStore) DropGroup(_ context.Context, groupKey string) error {
	if s.DropErr != nil {
		return s.DropErr
	}

	s.groups.Delete(groupKey)

	return nil
}

// GroupExists reports whether the group's collection currently exists.
// Test-only introspection; not part of types.ElectionStore.
func (s *MemStore) GroupExists(groupKey string) bool {
	_, ok := s.groups.Load(groupKey)
	return ok
}

// RecordCount returns the number of records (live or expired) in the group.
// Test-only introspection; not part of types.ElectionStore.
func (s *MemStore) RecordCount(groupKey string) int {
	g, ok := s.groups.Load(groupKey)
	if !ok {
		return 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.records)
}

func less(a, b memRecord) bool {
	if !a.createdAt.Equal(b.createdAt) {
		return a.createdAt.Before(b.createdAt)
	}

	return a.seq < b.seq
}

func toRecord(rec memRecord) types.Record {
	return types.Record{
		CandidateID: rec.candidateID,
		CreatedAt:   rec.createdAt,
		Tiebreak:    fmt.Sprintf("%020d", rec.seq),
	}
}
