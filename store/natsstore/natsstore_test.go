package natsstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	storetesting "github.com/coosto/leader-election-mongo/testing"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	_, nc := storetesting.StartEmbeddedNATS(t)

	store, err := New(nc)
	require.NoError(t, err)

	return store
}

func testGroupKey(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("leader-test-%d", time.Now().UnixNano())
}

func TestStore_Ping(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Ping(context.Background()))
}

func TestStore_SweepNotSupported(t *testing.T) {
	store := newStore(t)

	err := store.SetExpirySweepInterval(context.Background(), time.Second)
	require.ErrorIs(t, err, ErrSweepNotSupported)
}

func TestStore_EnsureGroupIdempotent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	group := testGroupKey(t)

	require.NoError(t, store.EnsureGroup(ctx, group, time.Minute))
	require.NoError(t, store.EnsureGroup(ctx, group, time.Minute))
}

func TestStore_RegisterAndFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	group := testGroupKey(t)

	require.NoError(t, store.EnsureGroup(ctx, group, time.Minute))

	recA, err := store.Register(ctx, group, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", recA.CandidateID)
	require.NotEmpty(t, recA.Tiebreak)

	recB, err := store.Register(ctx, group, "bob")
	require.NoError(t, err)
	require.Greater(t, recB.Tiebreak, recA.Tiebreak, "sequence tiebreaks must sort in insertion order")

	first, ok, err := store.First(ctx, group)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", first.CandidateID)
}

func TestStore_FirstEmpty(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	group := testGroupKey(t)

	require.NoError(t, store.EnsureGroup(ctx, group, time.Minute))

	_, ok, err := store.First(ctx, group)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_MaxAgeExpiry(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	group := testGroupKey(t)

	require.NoError(t, store.EnsureGroup(ctx, group, 500*time.Millisecond))

	_, err := store.Register(ctx, group, "ephemeral")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok, err := store.First(ctx, group)
		return err == nil && !ok
	}, 10*time.Second, 100*time.Millisecond, "record must expire via MaxAge")
}

func TestStore_DropGroup(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	group := testGroupKey(t)

	require.NoError(t, store.EnsureGroup(ctx, group, time.Minute))
	_, err := store.Register(ctx, group, "solo")
	require.NoError(t, err)

	require.NoError(t, store.DropGroup(ctx, group))

	// Dropping an absent stream normalizes to success.
	require.NoError(t, store.DropGroup(ctx, group))

	// The stream is gone entirely, so First fails on lookup.
	_, _, err = store.First(ctx, group)
	require.Error(t, err)
}
