package leader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	storetesting "github.com/coosto/leader-election-mongo/testing"
)

func newTestCandidate(t *testing.T, store ElectionStore, cfg Config, opts ...Option) *Candidate {
	t.Helper()

	cand, err := NewCandidate(store, cfg, opts...)
	require.NoError(t, err)

	return cand
}

func TestNewCandidate_RequiresStore(t *testing.T) {
	cand, err := NewCandidate(nil, Config{})

	require.ErrorIs(t, err, ErrStoreRequired)
	require.Nil(t, cand)
}

func TestNewCandidate_Defaults(t *testing.T) {
	store := storetesting.NewMemStore()
	cand := newTestCandidate(t, store, Config{TTL: 100 * time.Millisecond})

	require.NotEmpty(t, cand.ID())
	require.Equal(t, MinTTL, cand.TTL(), "ttl below the floor is raised, not rejected")
	require.Equal(t, GroupKey(DefaultGroup), cand.GroupKey())
	require.Equal(t, StateUnregistered, cand.State())
	require.False(t, cand.IsLeader())

	// Deadline is informational before Elect, roughly now+TTL.
	require.InDelta(t, MinTTL.Seconds(), time.Until(cand.Deadline()).Seconds(), 1.0)
}

func TestInitialize(t *testing.T) {
	store := storetesting.NewMemStore()
	cand := newTestCandidate(t, store, Config{Group: "daily-job"},
		WithLogger(storetesting.NewTestLogger(t)))

	ok, err := cand.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, store.GroupExists(cand.GroupKey()))

	// Repeated initialization resolves successfully with no error.
	ok, err = cand.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInitialize_SweepErrorAbsorbed(t *testing.T) {
	store := storetesting.NewMemStore()
	store.SweepErr = errors.New("not authorized on admin to execute command")

	cand := newTestCandidate(t, store, Config{})

	ok, err := cand.Initialize(context.Background())
	require.NoError(t, err, "privilege denial on the sweep step must be absorbed")
	require.True(t, ok)
}

func TestInitialize_PingErrorPropagates(t *testing.T) {
	store := storetesting.NewMemStore()
	store.PingErr = errors.New("connection refused")

	cand := newTestCandidate(t, store, Config{})

	ok, err := cand.Initialize(context.Background())
	require.ErrorIs(t, err, ErrInitializeFailed)
	require.False(t, ok)
}

func TestInitialize_EnsureErrorPropagates(t *testing.T) {
	store := storetesting.NewMemStore()
	store.EnsureErr = errors.New("not authorized to create collection")

	cand := newTestCandidate(t, store, Config{})

	ok, err := cand.Initialize(context.Background())
	require.ErrorIs(t, err, ErrInitializeFailed)
	require.False(t, ok)
}

func TestInitialize_ConcurrentCandidates(t *testing.T) {
	store := storetesting.NewMemStore()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			cand, err := NewCandidate(store, Config{Group: "shared"})
			if err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = cand.Initialize(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "candidate %d must initialize successfully", i)
	}
}

func TestElect_SoloCandidateWins(t *testing.T) {
	store := storetesting.NewMemStore()

	var electedID string
	var electedCount int
	hooks := &Hooks{
		OnElected: func(_ context.Context, id string) error {
			electedID = id
			electedCount++
			return nil
		},
	}

	cand := newTestCandidate(t, store, Config{ID: "solo"}, WithHooks(hooks))

	ok, err := cand.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	won, err := cand.Elect(context.Background())
	require.NoError(t, err)
	require.True(t, won, "the only record deterministically wins")
	require.Equal(t, StateLeader, cand.State())
	require.True(t, cand.IsLeader())
	require.Equal(t, "solo", electedID)
	require.Equal(t, 1, electedCount, "elected fires exactly once")
}

func TestElect_FirstRegistrantWins(t *testing.T) {
	store := storetesting.NewMemStore()

	var bobElected bool
	alice := newTestCandidate(t, store, Config{ID: "alice", Group: "daily-job"})
	bob := newTestCandidate(t, store, Config{ID: "bob", Group: "daily-job"},
		WithHooks(&Hooks{OnElected: func(_ context.Context, _ string) error {
			bobElected = true
			return nil
		}}))

	_, err := alice.Initialize(context.Background())
	require.NoError(t, err)
	_, err = bob.Initialize(context.Background())
	require.NoError(t, err)

	won, err := alice.Elect(context.Background())
	require.NoError(t, err)
	require.True(t, won)

	won, err = bob.Elect(context.Background())
	require.NoError(t, err)
	require.False(t, won)
	require.Equal(t, StateFollower, bob.State())
	require.False(t, bobElected, "followers never emit elected")
}

func TestElect_ExactlyOneWinner(t *testing.T) {
	store := storetesting.NewMemStore()

	const n = 7
	winners := 0
	for i := 0; i < n; i++ {
		cand := newTestCandidate(t, store, Config{Group: "batch"})

		_, err := cand.Initialize(context.Background())
		require.NoError(t, err)

		won, err := cand.Elect(context.Background())
		require.NoError(t, err)
		if won {
			winners++
		}
	}

	require.Equal(t, 1, winners, "exactly one of %d candidates wins", n)
}

func TestElect_NotIdempotent(t *testing.T) {
	store := storetesting.NewMemStore()
	cand := newTestCandidate(t, store, Config{ID: "repeat"})

	_, err := cand.Initialize(context.Background())
	require.NoError(t, err)

	_, err = cand.Elect(context.Background())
	require.NoError(t, err)
	_, err = cand.Elect(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, store.RecordCount(cand.GroupKey()), "each Elect call inserts a record")
}

func TestElect_RecomputesDeadline(t *testing.T) {
	store := storetesting.NewMemStore()
	cand := newTestCandidate(t, store, Config{TTL: 10 * time.Second})

	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	cand.now = func() time.Time { return base }

	_, err := cand.Initialize(context.Background())
	require.NoError(t, err)

	_, err = cand.Elect(context.Background())
	require.NoError(t, err)

	require.Equal(t, base.Add(10*time.Second), cand.Deadline())
}

func TestElect_RegisterErrorPropagates(t *testing.T) {
	store := storetesting.NewMemStore()
	store.RegisterErr = errors.New("server selection timeout")

	cand := newTestCandidate(t, store, Config{})

	won, err := cand.Elect(context.Background())
	require.ErrorIs(t, err, ErrRegisterFailed)
	require.False(t, won)
	require.Equal(t, StateUnregistered, cand.State())
}

func TestElect_ResolveErrorPropagates(t *testing.T) {
	store := storetesting.NewMemStore()
	cand := newTestCandidate(t, store, Config{})

	_, err := cand.Initialize(context.Background())
	require.NoError(t, err)

	store.FirstErr = errors.New("cursor timeout")

	won, err := cand.Elect(context.Background())
	require.ErrorIs(t, err, ErrResolveFailed)
	require.False(t, won)
	require.Equal(t, StateRegistered, cand.State())
}

func TestElect_HookErrorDoesNotFail(t *testing.T) {
	store := storetesting.NewMemStore()
	cand := newTestCandidate(t, store, Config{},
		WithHooks(&Hooks{OnElected: func(_ context.Context, _ string) error {
			return errors.New("hook exploded")
		}}),
		WithLogger(storetesting.NewTestLogger(t)))

	_, err := cand.Initialize(context.Background())
	require.NoError(t, err)

	won, err := cand.Elect(context.Background())
	require.NoError(t, err, "hook errors are logged, not propagated")
	require.True(t, won)
}

func TestCleanup_WaitsFullTTLWindow(t *testing.T) {
	store := storetesting.NewMemStore()

	var cleanedKey string
	var cleanedCount int
	cand := newTestCandidate(t, store, Config{ID: "solo", TTL: 10 * time.Second},
		WithHooks(&Hooks{OnCleaned: func(_ context.Context, key string) error {
			cleanedKey = key
			cleanedCount++
			return nil
		}}))

	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	cand.now = func() time.Time { return base }

	var requestedWait time.Duration
	cand.after = func(d time.Duration) <-chan time.Time {
		requestedWait = d
		ch := make(chan time.Time, 1)
		ch <- base.Add(d)
		return ch
	}

	_, err := cand.Initialize(context.Background())
	require.NoError(t, err)
	won, err := cand.Elect(context.Background())
	require.NoError(t, err)
	require.True(t, won)

	require.NoError(t, cand.Cleanup(context.Background()))

	require.Equal(t, 10*time.Second, requestedWait,
		"cleanup must hold the record for the full ttl window")
	require.False(t, store.GroupExists(cand.GroupKey()), "group collection must be gone")
	require.Equal(t, StateCleaned, cand.State())
	require.True(t, cand.IsLeader(), "a cleaned leader is still the leader of this round")
	require.Equal(t, cand.GroupKey(), cleanedKey)
	require.Equal(t, 1, cleanedCount, "cleaned fires exactly once")
}

func TestCleanup_NoWaitWhenDeadlinePassed(t *testing.T) {
	store := storetesting.NewMemStore()
	cand := newTestCandidate(t, store, Config{ID: "solo"})

	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	now := base
	cand.now = func() time.Time { return now }

	afterCalled := false
	cand.after = func(d time.Duration) <-chan time.Time {
		afterCalled = true
		ch := make(chan time.Time, 1)
		ch <- now.Add(d)
		return ch
	}

	_, err := cand.Initialize(context.Background())
	require.NoError(t, err)
	_, err = cand.Elect(context.Background())
	require.NoError(t, err)

	// The ttl window has already elapsed by the time Cleanup runs.
	now = base.Add(cand.TTL() + time.Second)

	require.NoError(t, cand.Cleanup(context.Background()))
	require.False(t, afterCalled, "no suspension when the deadline has passed")
	require.False(t, store.GroupExists(cand.GroupKey()))
}

func TestCleanup_DropErrorPropagates(t *testing.T) {
	store := storetesting.NewMemStore()

	cleaned := false
	cand := newTestCandidate(t, store, Config{ID: "solo"},
		WithHooks(&Hooks{OnCleaned: func(_ context.Context, _ string) error {
			cleaned = true
			return nil
		}}))

	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	now := base
	cand.now = func() time.Time { return now }

	_, err := cand.Initialize(context.Background())
	require.NoError(t, err)
	_, err = cand.Elect(context.Background())
	require.NoError(t, err)

	// The ttl window has already elapsed by the time Cleanup runs.
	now = base.Add(cand.TTL() + time.Second)

	store.DropErr = errors.New("store unavailable")

	err = cand.Cleanup(context.Background())
	require.ErrorIs(t, err, ErrCleanupFailed)
	require.False(t, cleaned, "cleaned must not fire when the drop fails")
	require.NotEqual(t, StateCleaned, cand.State())
}

func TestCleanup_ContextCancelled(t *testing.T) {
	store := storetesting.NewMemStore()
	cand := newTestCandidate(t, store, Config{ID: "solo", TTL: time.Hour})

	// Never-firing timer: cancellation is the only way out.
	cand.after = func(_ time.Duration) <-chan time.Time {
		return make(chan time.Time)
	}

	_, err := cand.Initialize(context.Background())
	require.NoError(t, err)
	_, err = cand.Elect(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err = cand.Cleanup(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, store.GroupExists(cand.GroupKey()), "cancelled cleanup must not drop the group")
}

func TestGroupIsolation(t *testing.T) {
	store := storetesting.NewMemStore()

	daily := newTestCandidate(t, store, Config{ID: "daily-1", Group: "daily-job"})
	weekly := newTestCandidate(t, store, Config{ID: "weekly-1", Group: "weekly-job"})

	_, err := daily.Initialize(context.Background())
	require.NoError(t, err)
	_, err = weekly.Initialize(context.Background())
	require.NoError(t, err)

	require.NotEqual(t, daily.GroupKey(), weekly.GroupKey())

	// Both win their own group's election.
	won, err := daily.Elect(context.Background())
	require.NoError(t, err)
	require.True(t, won)

	won, err = weekly.Elect(context.Background())
	require.NoError(t, err)
	require.True(t, won)
}
