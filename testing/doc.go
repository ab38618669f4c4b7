// Package testing provides test helpers for the leader election library:
// an in-memory ElectionStore fake (MemStore) for exercising the election
// protocol without external services, an embedded NATS server for testing
// the JetStream store backend, and a logger that writes through testing.T.
//
// The package is intended for use from _test.go files in this module and in
// consumers of the library.
package testing
