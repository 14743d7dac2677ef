// Package cache provides a disk-backed cache for the product catalog.
//
// It is organised in three layers:
// - Store: the storage contract every backend satisfies
// - IsFresh: the age policy deciding whether a snapshot is still usable
// - LocalLoader: save / load / validate use cases composed from the two
package cache

import "time"

// RetrievalCompletion receives the result of Store.Retrieve
// A nil snapshot with a nil error means no snapshot is stored
type RetrievalCompletion func(snapshot *CachedSnapshot, err error)

// Completion receives the result of Store.Insert and Store.Delete
type Completion func(err error)

// Store is the contract implemented by every cache backend
//
// Operations are asynchronous: each call enqueues the operation and returns
// immediately. Operations issued against one Store run one at a time in
// submission order, and each completion is invoked exactly once after the
// effects of its operation are durable. Completions run on the backend's
// worker goroutine, never on the caller's.
type Store interface {
	// Retrieve delivers the stored snapshot, or nil when there is none
	// It has no side effects
	Retrieve(completion RetrievalCompletion)

	// Insert replaces any stored snapshot with one built from records and timestamp
	// Records that cannot be encoded fail with ErrEncode and leave the store
	// untouched. Otherwise the previous snapshot is removed before the new one
	// is written, so a failure leaves the store empty rather than mixed
	Insert(records []CacheRecord, timestamp time.Time, completion Completion)

	// Delete removes the stored snapshot
	// Deleting an empty store succeeds
	Delete(completion Completion)

	// Close waits for queued operations to finish and releases the storage medium
	// Operations submitted afterwards complete with ErrStoreClosed.
	// Close must not be called from a completion, since it waits for the
	// goroutine running that completion; use `go store.Close()` there instead.
	Close() error
}
