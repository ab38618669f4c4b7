package leader

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coosto/leader-election-mongo/internal/hooks"
	"github.com/coosto/leader-election-mongo/internal/logger"
	"github.com/coosto/leader-election-mongo/internal/metrics"
)

// expirySweepInterval is the cadence requested from the store's background
// expiry sweeper during Initialize. One second is the finest granularity
// MongoDB's TTL monitor supports. The request is best-effort: without
// elevated privileges the store keeps its own default cadence (up to 60s),
// which matters when running rapid successive elections.
const expirySweepInterval = time.Second

// Candidate is one participant in a one-shot leader election.
//
// A Candidate is created once per process per election attempt. The intended
// call sequence is Initialize, then Elect exactly once, then - only if Elect
// returned true - Cleanup. Elect is not an idempotent registration: every
// call inserts another election record, so calling it twice skews the group's
// record count. Calling Cleanup as a follower drops the group prematurely.
// Neither misuse is detected or rejected.
//
// Thread safety: the candidate issues no concurrent store operations itself;
// Elect and Cleanup are expected to be awaited sequentially by the caller.
// Accessors (State, IsLeader, Deadline) are safe for concurrent use.
type Candidate struct {
	cfg      Config
	store    ElectionStore
	hooks    *Hooks
	metrics  MetricsCollector
	logger   Logger
	groupKey string

	state    atomic.Int32 // State
	mu       sync.Mutex
	deadline time.Time

	// Clock indirection for deterministic deadline tests.
	now   func() time.Time
	after func(d time.Duration) <-chan time.Time
}

// NewCandidate creates a new election candidate.
//
// Missing configuration values are filled in: an empty ID gets a random
// identifier, a TTL below MinTTL is silently raised to MinTTL, and an empty
// Group falls back to DefaultGroup. The group's collection name is derived
// from the group name at construction time; see GroupKey.
//
// Returns a concrete *Candidate following the "accept interfaces, return
// structs" principle; the store dependency is the injected interface.
//
// Parameters:
//   - store: Ordered document store with TTL expiry (mongostore, natsstore, ...)
//   - cfg: Candidate configuration
//   - opts: Optional dependencies (hooks, metrics, logger)
//
// Returns:
//   - *Candidate: Initialized candidate in StateUnregistered
//   - error: ErrStoreRequired when store is nil
//
// Example:
//
//	store := mongostore.New(client.Database("coordination"))
//	cand, err := leader.NewCandidate(store, leader.Config{Group: "daily-job"})
func NewCandidate(store ElectionStore, cfg Config, opts ...Option) (*Candidate, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	SetDefaults(&cfg)

	options := &candidateOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks
	// everywhere.
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	hooksInstance := options.hooks
	if hooksInstance == nil {
		nopHooks := hooks.NewNop()
		hooksInstance = &nopHooks
	}

	c := &Candidate{
		cfg:      cfg,
		store:    store,
		hooks:    hooksInstance,
		metrics:  metricsCollector,
		logger:   loggerInstance,
		groupKey: GroupKey(cfg.Group),
		now:      time.Now,
		after:    time.After,
	}

	c.state.Store(int32(StateUnregistered))
	// Informational until Elect recomputes it after registration.
	c.deadline = c.now().Add(cfg.TTL)

	return c, nil
}

// Initialize ensures the group's collection exists with the expiry policy
// applied, before any registration happens.
//
// The store's expiry sweep cadence is tuned first as a best-effort
// administrative step; its error is discarded by design (it commonly fails
// without elevated privileges, and the election stays correct on the store's
// default cadence). Collection and index creation are idempotent: "already
// exists" is success, so multiple candidates racing to initialize the same
// group all resolve successfully. Any other failure, including the
// connectivity check, propagates.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//
// Returns:
//   - bool: true when the collection is confirmed to exist with the expiry
//     policy (false is reserved and never produced with a nil error)
//   - error: ErrInitializeFailed wrapping the store error
func (c *Candidate) Initialize(ctx context.Context) (bool, error) {
	start := c.now()

	if err := c.store.Ping(ctx); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInitializeFailed, err)
	}

	// Best-effort, privilege-gated. Absorbed silently, not logged.
	_ = c.store.SetExpirySweepInterval(ctx, expirySweepInterval)

	if err := c.store.EnsureGroup(ctx, c.groupKey, c.cfg.TTL); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInitializeFailed, err)
	}

	c.metrics.RecordInitialize(c.now().Sub(start).Seconds())
	c.logger.Debug("election group ready",
		"group", c.cfg.Group,
		"groupKey", c.groupKey,
		"ttl", c.cfg.TTL,
	)

	return true, nil
}

// Elect registers this candidate and resolves the winner.
//
// It inserts one election record, recomputes the election deadline to
// now+TTL, and queries the group for the record that sorts first by
// (CreatedAt asc, Tiebreak asc). The candidate owning that record is the
// leader. When two candidates register at effectively the same instant, the
// tiebreak guarantees exactly one winner; when all prior records have expired
// this candidate deterministically wins as the only record.
//
// Store errors propagate unmodified as fatal for this attempt; no retry is
// performed. The OnElected hook fires exactly once, before a winning Elect
// returns.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//
// Returns:
//   - bool: true when this candidate is the leader, false when a follower
//   - error: ErrRegisterFailed or ErrResolveFailed wrapping the store error
func (c *Candidate) Elect(ctx context.Context) (bool, error) {
	start := c.now()

	rec, err := c.store.Register(ctx, c.groupKey, c.cfg.ID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRegisterFailed, err)
	}

	c.metrics.RecordRegistration(c.now().Sub(start).Seconds())
	c.setDeadline(c.now().Add(c.cfg.TTL))
	c.state.Store(int32(StateRegistered))

	first, ok, err := c.store.First(ctx, c.groupKey)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrResolveFailed, err)
	}

	elected := ok && first.CandidateID == c.cfg.ID
	c.metrics.RecordElectionOutcome(elected)

	if !elected {
		c.state.Store(int32(StateFollower))
		c.logger.Debug("following",
			"candidateId", c.cfg.ID,
			"leaderId", first.CandidateID,
			"group", c.cfg.Group,
		)

		return false, nil
	}

	c.state.Store(int32(StateLeader))
	c.logger.Info("elected leader",
		"candidateId", c.cfg.ID,
		"group", c.cfg.Group,
		"tiebreak", rec.Tiebreak,
	)

	if c.hooks.OnElected != nil {
		if err := c.hooks.OnElected(ctx, c.cfg.ID); err != nil {
			c.logger.Warn("elected hook failed", "error", err)
		}
	}

	return true, nil
}

// Cleanup tears down the election group after the TTL window has elapsed.
//
// Meaningful only for the elected leader. It suspends for the remainder of
// the election deadline recorded by the last Elect - deliberately holding the
// leadership record, and therefore blocking any other candidate from being
// elected, until the record would have expired on its own - and then drops
// the group's entire collection. The wait is a timed suspension, cancellable
// through ctx.
//
// Drop failures propagate without retry. The OnCleaned hook fires exactly
// once, after a successful drop.
//
// Parameters:
//   - ctx: Context for cancellation; cancelling aborts the wait and skips the drop
//
// Returns:
//   - error: ctx.Err() when cancelled, or ErrCleanupFailed wrapping the store error
func (c *Candidate) Cleanup(ctx context.Context) error {
	wait := c.Deadline().Sub(c.now())
	if wait < 0 {
		wait = 0
	}

	c.metrics.RecordCleanupWait(wait.Seconds())

	if wait > 0 {
		c.logger.Debug("holding leadership for remaining ttl window",
			"candidateId", c.cfg.ID,
			"wait", wait,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.after(wait):
		}
	}

	if err := c.store.DropGroup(ctx, c.groupKey); err != nil {
		c.metrics.RecordCleanup(false)

		return fmt.Errorf("%w: %w", ErrCleanupFailed, err)
	}

	c.metrics.RecordCleanup(true)
	c.state.Store(int32(StateCleaned))
	c.logger.Info("election group cleaned",
		"candidateId", c.cfg.ID,
		"group", c.cfg.Group,
		"groupKey", c.groupKey,
	)

	if c.hooks.OnCleaned != nil {
		if err := c.hooks.OnCleaned(ctx, c.groupKey); err != nil {
			c.logger.Warn("cleaned hook failed", "error", err)
		}
	}

	return nil
}

// ID returns this candidate's unique identifier.
func (c *Candidate) ID() string {
	return c.cfg.ID
}

// GroupKey returns the derived collection name for this candidate's group.
func (c *Candidate) GroupKey() string {
	return c.groupKey
}

// TTL returns the effective (clamped) record time-to-live.
func (c *Candidate) TTL() time.Duration {
	return c.cfg.TTL
}

// State returns the candidate's current lifecycle state.
func (c *Candidate) State() State {
	return State(c.state.Load())
}

// IsLeader reports whether this candidate won its election.
func (c *Candidate) IsLeader() bool {
	s := c.State()
	return s == StateLeader || s == StateCleaned
}

// Deadline returns the election deadline: the instant at which the record
// written by the last Elect call expires. Informational before Elect runs.
func (c *Candidate) Deadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.deadline
}

func (c *Candidate) setDeadline(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
}
