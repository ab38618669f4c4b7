// Package mongostore implements the election store on MongoDB.
//
// Each election group maps to one collection whose name is the group key. A
// TTL index on the createdAt field lets mongod's background TTL monitor
// expire stale election records; the sweep cadence can optionally be
// shortened to one second via an admin setParameter when the connected user
// has the required privileges.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/coosto/leader-election-mongo/types"
)

const (
	candidateIDField = "candidateId"
	createdAtField   = "createdAt"
)

// Server error codes normalized to success during initialization.
const (
	codeNamespaceExists       = 48
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// Store implements types.ElectionStore on a MongoDB database.
//
// The zero value is not usable; construct with New. Store is stateless and
// safe for concurrent use; all coordination state lives in MongoDB.
type Store struct {
	db *mongo.Database
}

// Compile-time assertion that Store implements ElectionStore.
var _ types.ElectionStore = (*Store)(nil)

// New creates a Mongo-backed election store on the given database.
//
// Parameters:
//   - db: Database that will hold the per-group election collections
//
// Returns:
//   - *Store: New store instance
//
// Example:
//
//	client, _ := mongo.Connect(ctx, options.Client().ApplyURI(uri))
//	store := mongostore.New(client.Database("coordination"))
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Ping verifies connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	return nil
}

// SetExpirySweepInterval shortens the TTL monitor's sweep cadence via
// setParameter on the admin database. Requires elevated privileges; callers
// are expected to discard the error, falling back to mongod's default sweep
// cadence (60s).
func (s *Store) SetExpirySweepInterval(ctx context.Context, interval time.Duration) error {
	secs := int64(interval / time.Second)
	if secs < 1 {
		secs = 1
	}

	cmd := bson.D{
		{Key: "setParameter", Value: 1},
		{Key: "ttlMonitorSleepSecs", Value: secs},
	}

	if err := s.db.Client().Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("set ttl monitor interval: %w", err)
	}

	return nil
}

// EnsureGroup creates the group's collection and its TTL index.
//
// NamespaceExists on the collection and index conflicts on the TTL index are
// normalized to success, so concurrent candidates racing to initialize the
// same group all succeed.
func (s *Store) EnsureGroup(ctx context.Context, groupKey string, ttl time.Duration) error {
	err := s.db.CreateCollection(ctx, groupKey)
	if err != nil && !hasErrorCode(err, codeNamespaceExists) {
		return fmt.Errorf("create collection %q: %w", groupKey, err)
	}

	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: createdAtField, Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl / time.Second)), //nolint:gosec
	}

	_, err = s.db.Collection(groupKey).Indexes().CreateOne(ctx, idx)
	if err != nil && !hasErrorCode(err, codeIndexOptionsConflict, codeIndexKeySpecsConflict) {
		return fmt.Errorf("create ttl index on %q: %w", groupKey, err)
	}

	return nil
}

// Register inserts a new election record with a client-assigned UTC
// timestamp. The inserted ObjectID doubles as the tiebreak identity: its hex
// form sorts in insertion order for IDs generated by the same process, and
// the server's _id sort provides the total order regardless.
func (s *Store) Register(ctx context.Context, groupKey, candidateID string) (types.Record, error) {
	// BSON datetimes carry millisecond precision.
	createdAt := time.Now().UTC().Truncate(time.Millisecond)

	res, err := s.db.Collection(groupKey).InsertOne(ctx, bson.D{
		{Key: candidateIDField, Value: candidateID},
		{Key: createdAtField, Value: createdAt},
	})
	if err != nil {
		return types.Record{}, fmt.Errorf("insert election record: %w", err)
	}

	rec := types.Record{
		CandidateID: candidateID,
		CreatedAt:   createdAt,
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.Tiebreak = oid.Hex()
	}

	return rec, nil
}

// First returns the earliest surviving record, sorted by createdAt with _id
// as tiebreak for identical timestamps.
func (s *Store) First(ctx context.Context, groupKey string) (types.Record, bool, error) {
	opts := options.FindOne().
		SetSort(bson.D{
			{Key: createdAtField, Value: 1},
			{Key: "_id", Value: 1},
		}).
		SetProjection(bson.D{
			{Key: candidateIDField, Value: 1},
			{Key: createdAtField, Value: 1},
		})

	var doc struct {
		ID          primitive.ObjectID `bson:"_id"`
		CandidateID string             `bson:"candidateId"`
		CreatedAt   time.Time          `bson:"createdAt"`
	}

	err := s.db.Collection(groupKey).FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.Record{}, false, nil
	}
	if err != nil {
		return types.Record{}, false, fmt.Errorf("find earliest record: %w", err)
	}

	return types.Record{
		CandidateID: doc.CandidateID,
		CreatedAt:   doc.CreatedAt,
		Tiebreak:    doc.ID.Hex(),
	}, true, nil
}

// DropGroup removes the group's collection and all records in it. Dropping a
// collection that does not exist is a no-op for mongod and succeeds.
func (s *Store) DropGroup(ctx context.Context, groupKey string) error {
	if err := s.db.Collection(groupKey).Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %q: %w", groupKey, err)
	}

	return nil
}

// hasErrorCode reports whether err carries one of the given server error
// codes, either as a top-level command error or inside a write exception.
func hasErrorCode(err error, codes ...int) bool {
	for _, code := range codes {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == int32(code) {
			return true
		}

		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, we := range writeErr.WriteErrors {
				if we.Code == code {
					return true
				}
			}
		}
	}

	return false
}
