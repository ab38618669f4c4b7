// Package leader provides one-shot leader election for a small group of
// process instances, coordinated through a shared document store with
// TTL-based expiry (MongoDB by default, NATS JetStream as an alternative).
//
// It is built for single, non-recurring elections such as "which instance
// runs today's batch job". There are no heartbeats, no leadership renewal and
// no failover: every candidate registers itself once into a shared ordered
// collection, exactly one candidate is deterministically selected as leader,
// stale election state self-expires via the store's TTL mechanism, and the
// winner eventually tears the election record down.
//
// # Quick Start
//
//	import (
//	    leader "github.com/coosto/leader-election-mongo"
//	    "github.com/coosto/leader-election-mongo/store/mongostore"
//	)
//
//	store := mongostore.New(client.Database("coordination"))
//	cand, err := leader.NewCandidate(store, leader.Config{
//	    Group: "daily-job",
//	    TTL:   10 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := cand.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	won, err := cand.Elect(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if won {
//	    runBatchJob()
//	    if err := cand.Cleanup(ctx); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Protocol
//
// Elect inserts a record for this candidate and then queries the group's
// collection for the record that sorts first by creation time, with the
// store's insertion identity as tiebreak. The candidate whose record sorts
// first is the leader; everyone else is a follower. All coordination
// correctness rests on the store's guarantees (atomic single-document insert,
// read-after-write visibility, stable total order), not on any local locking.
//
// Cleanup deliberately holds the leadership record for the remainder of the
// TTL window before dropping the group's collection, so a second election
// started in the meantime cannot pick a different leader before this one's
// record would have expired naturally.
//
// # Stores
//
// The store is an injected dependency (types.ElectionStore). Two
// implementations ship with the library: store/mongostore (MongoDB
// collections with a TTL index) and store/natsstore (JetStream streams with
// MaxAge). The testing package provides an in-memory fake for unit tests.
package leader
