package cache

import (
	"sync/atomic"
	"time"

	"github.com/dailyyoga/productcache/logger"
	"go.uber.org/zap"
)

// LocalLoader implements the save, load and validate use cases on top of a Store
//
// It keeps no state besides its dependencies. Every result is delivered
// through a completion on whatever goroutine the Store uses; once Release has
// been called, results that arrive later are dropped instead of delivered.
type LocalLoader struct {
	store    Store
	now      func() time.Time
	logger   logger.Logger
	released atomic.Bool
}

// LoaderOption configures a LocalLoader
type LoaderOption func(*LocalLoader)

// WithLogger sets the logger used for dropped completions and swallowed cleanup failures
func WithLogger(log logger.Logger) LoaderOption {
	return func(l *LocalLoader) {
		l.logger = log
	}
}

// NewLocalLoader creates a loader over store
// now supplies the current time and is called once per freshness check or save
func NewLocalLoader(store Store, now func() time.Time, opts ...LoaderOption) *LocalLoader {
	l := &LocalLoader{
		store:  store,
		now:    now,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Save replaces the cached snapshot with items, stamped with the current time
//
// The stored snapshot is deleted first; if that fails the error is reported
// and nothing is inserted. Otherwise the result of the insert is reported.
func (l *LocalLoader) Save(items []Product, completion func(error)) {
	if completion == nil {
		completion = func(error) {}
	}

	l.store.Delete(func(err error) {
		if l.isReleased("save") {
			return
		}
		if err != nil {
			completion(err)
			return
		}

		l.store.Insert(ToRecords(items), l.now(), func(err error) {
			if l.isReleased("save") {
				return
			}
			completion(err)
		})
	})
}

// Load delivers the cached products when the snapshot is still fresh
//
// A missing or stale snapshot is reported as an empty list, not as an error.
// Retrieval errors are reported as they are.
func (l *LocalLoader) Load(completion func([]Product, error)) {
	if completion == nil {
		completion = func([]Product, error) {}
	}

	l.store.Retrieve(func(snapshot *CachedSnapshot, err error) {
		if l.isReleased("load") {
			return
		}

		switch {
		case err != nil:
			completion(nil, err)
		case snapshot != nil && IsFresh(snapshot.Timestamp, l.now()):
			completion(ToProducts(snapshot.Records), nil)
		default:
			completion([]Product{}, nil)
		}
	})
}

// ValidateCache deletes the stored snapshot when it cannot be read or is stale
// It reports nothing; failures of the cleanup are only logged at debug level
func (l *LocalLoader) ValidateCache() {
	l.store.Retrieve(func(snapshot *CachedSnapshot, err error) {
		if l.isReleased("validate") {
			return
		}

		switch {
		case err != nil:
			l.logger.Debug("evicting unreadable snapshot", zap.Error(err))
			l.store.Delete(l.ignoreCleanup)
		case snapshot != nil && !IsFresh(snapshot.Timestamp, l.now()):
			l.logger.Debug("evicting stale snapshot", zap.Time("timestamp", snapshot.Timestamp))
			l.store.Delete(l.ignoreCleanup)
		}
	})
}

// Release detaches the loader from pending operations
// Completions of operations still in flight are silently dropped
func (l *LocalLoader) Release() {
	l.released.Store(true)
}

func (l *LocalLoader) isReleased(op string) bool {
	if !l.released.Load() {
		return false
	}
	l.logger.Debug("dropping completion of released loader", zap.String("operation", op))
	return true
}

func (l *LocalLoader) ignoreCleanup(err error) {
	if err != nil {
		l.logger.Debug("cache cleanup failed", zap.Error(err))
	}
}
