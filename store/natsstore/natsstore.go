// Package natsstore implements the election store on NATS JetStream.
//
// Each election group maps to one stream whose MaxAge equals the group TTL: a
// JetStream stream is an ordered collection with server-side expiry, an
// atomic publish, and a monotonically increasing sequence number that serves
// as the insertion-identity tiebreak. This makes the backend a drop-in
// alternative to MongoDB for deployments already running NATS.
package natsstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/coosto/leader-election-mongo/types"
)

// ErrSweepNotSupported is returned by SetExpirySweepInterval: JetStream
// enforces MaxAge on its own internal cadence and exposes no admin knob for
// it. The election core discards this error by contract.
var ErrSweepNotSupported = errors.New("jetstream has no configurable expiry sweep interval")

// firstFetchAttempts bounds the info+fetch retry loop in First against
// messages expiring between the stream info read and the message fetch.
const firstFetchAttempts = 3

// Store implements types.ElectionStore on NATS JetStream.
//
// Store is stateless and safe for concurrent use; all coordination state
// lives in JetStream streams.
type Store struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// Compile-time assertion that Store implements ElectionStore.
var _ types.ElectionStore = (*Store)(nil)

// New creates a JetStream-backed election store.
//
// Parameters:
//   - nc: Connected NATS client with JetStream enabled on the server
//
// Returns:
//   - *Store: New store instance
//   - error: JetStream context creation error
func New(nc *nats.Conn) (*Store, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	return &Store{nc: nc, js: js}, nil
}

// Ping flushes the connection to verify the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	return nil
}

// SetExpirySweepInterval always returns ErrSweepNotSupported; MaxAge expiry
// runs on the server's own schedule.
func (s *Store) SetExpirySweepInterval(_ context.Context, _ time.Duration) error {
	return ErrSweepNotSupported
}

// EnsureGroup creates the group's stream with MaxAge set to ttl. A stream
// that already exists (created by a concurrent candidate with the same
// configuration) normalizes to success.
func (s *Store) EnsureGroup(ctx context.Context, groupKey string, ttl time.Duration) error {
	_, err := s.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     groupKey,
		Subjects: []string{subjectFor(groupKey)},
		MaxAge:   ttl,
		Storage:  jetstream.FileStorage,
	})
	if err != nil && !errors.Is(err, jetstream.ErrStreamNameAlreadyInUse) {
		return fmt.Errorf("create stream %q: %w", groupKey, err)
	}

	return nil
}

// Register publishes the candidate ID to the group's stream. The publish ack
// sequence is the insertion identity; it is zero-padded so its lexicographic
// order matches numeric (insertion) order.
func (s *Store) Register(ctx context.Context, groupKey, candidateID string) (types.Record, error) {
	ack, err := s.js.Publish(ctx, subjectFor(groupKey), []byte(candidateID))
	if err != nil {
		return types.Record{}, fmt.Errorf("publish election record: %w", err)
	}

	return types.Record{
		CandidateID: candidateID,
		CreatedAt:   time.Now().UTC(),
		Tiebreak:    formatSequence(ack.Sequence),
	}, nil
}

// First returns the earliest surviving message in the group's stream.
// Sequence order already encodes (arrival time, insertion identity), so the
// first sequence is exactly the (createdAt asc, tiebreak asc) winner.
func (s *Store) First(ctx context.Context, groupKey string) (types.Record, bool, error) {
	stream, err := s.js.Stream(ctx, groupKey)
	if err != nil {
		return types.Record{}, false, fmt.Errorf("lookup stream %q: %w", groupKey, err)
	}

	for attempt := 0; attempt < firstFetchAttempts; attempt++ {
		info, err := stream.Info(ctx)
		if err != nil {
			return types.Record{}, false, fmt.Errorf("stream info %q: %w", groupKey, err)
		}

		if info.State.Msgs == 0 {
			return types.Record{}, false, nil
		}

		msg, err := stream.GetMsg(ctx, info.State.FirstSeq)
		if errors.Is(err, jetstream.ErrMsgNotFound) {
			// Expired between the info read and the fetch; re-read.
			continue
		}
		if err != nil {
			return types.Record{}, false, fmt.Errorf("fetch first record: %w", err)
		}

		return types.Record{
			CandidateID: string(msg.Data),
			CreatedAt:   msg.Time,
			Tiebreak:    formatSequence(msg.Sequence),
		}, true, nil
	}

	// Every observed first message expired before we could read it.
	return types.Record{}, false, nil
}

// DropGroup deletes the group's stream. An already-deleted stream normalizes
// to success for parity with dropping an absent Mongo collection.
func (s *Store) DropGroup(ctx context.Context, groupKey string) error {
	err := s.js.DeleteStream(ctx, groupKey)
	if err != nil && !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("delete stream %q: %w", groupKey, err)
	}

	return nil
}

func subjectFor(groupKey string) string {
	return groupKey + ".candidates"
}

func formatSequence(seq uint64) string {
	return fmt.Sprintf("%020d", seq)
}
