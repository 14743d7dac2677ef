// Package storetest holds the behavior every cache.Store implementation must
// share. Backend packages run it from their own tests:
//
//	func TestStore(t *testing.T) {
//		storetest.Run(t, func(t *testing.T) cache.Store { return newTestStore(t) })
//	}
package storetest

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/dailyyoga/productcache/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Timeout bounds how long a helper waits for a completion
var Timeout = 5 * time.Second

// Factory builds an empty store for a single test
// The factory is responsible for closing the store when the test ends
type Factory func(t *testing.T) cache.Store

// Run executes the whole conformance suite against stores built by newStore
func Run(t *testing.T, newStore Factory) {
	t.Run("RetrieveDeliversEmptyOnEmptyCache", func(t *testing.T) {
		AssertRetrieveDeliversEmpty(t, newStore(t))
	})
	t.Run("RetrieveHasNoSideEffectsOnEmptyCache", func(t *testing.T) {
		store := newStore(t)
		AssertRetrieveDeliversEmpty(t, store)
		AssertRetrieveDeliversEmpty(t, store)
	})
	t.Run("RetrieveDeliversFoundValuesOnNonEmptyCache", func(t *testing.T) {
		store := newStore(t)
		records, timestamp := UniqueRecords(), time.Now()

		require.NoError(t, Insert(t, store, records, timestamp))
		AssertRetrieveDelivers(t, store, records, timestamp)
	})
	t.Run("RetrieveHasNoSideEffectsOnNonEmptyCache", func(t *testing.T) {
		store := newStore(t)
		records, timestamp := UniqueRecords(), time.Now()

		require.NoError(t, Insert(t, store, records, timestamp))
		AssertRetrieveDelivers(t, store, records, timestamp)
		AssertRetrieveDelivers(t, store, records, timestamp)
	})
	t.Run("InsertDeliversNoErrorOnEmptyCache", func(t *testing.T) {
		assert.NoError(t, Insert(t, newStore(t), UniqueRecords(), time.Now()))
	})
	t.Run("InsertDeliversNoErrorOnNonEmptyCache", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, Insert(t, store, UniqueRecords(), time.Now()))

		assert.NoError(t, Insert(t, store, UniqueRecords(), time.Now()))
	})
	t.Run("InsertOverridesPreviouslyInsertedCacheValues", func(t *testing.T) {
		store := newStore(t)
		first := time.Now().Add(-time.Hour)
		require.NoError(t, Insert(t, store, UniqueRecords(), first))

		latest, latestTimestamp := []cache.CacheRecord{UniqueRecord(99)}, time.Now()
		require.NoError(t, Insert(t, store, latest, latestTimestamp))

		AssertRetrieveDelivers(t, store, latest, latestTimestamp)
	})
	t.Run("InsertEmptyRecordsIsDistinctFromNoSnapshot", func(t *testing.T) {
		store := newStore(t)
		timestamp := time.Now()
		require.NoError(t, Insert(t, store, []cache.CacheRecord{}, timestamp))

		snapshot, err := Retrieve(t, store)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Empty(t, snapshot.Records)
		assert.True(t, timestamp.Equal(snapshot.Timestamp))
	})
	t.Run("InsertPreservesTimestampsFarFromNow", func(t *testing.T) {
		for _, timestamp := range []time.Time{
			time.Date(1600, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2300, time.January, 1, 0, 0, 0, 123456789, time.UTC),
		} {
			store := newStore(t)
			require.NoError(t, Insert(t, store, UniqueRecords(), timestamp))
			AssertRetrieveDelivers(t, store, UniqueRecords(), timestamp)
		}
	})
	t.Run("InsertRejectsNonFiniteValues", func(t *testing.T) {
		nanPrice, infRate := UniqueRecord(7), UniqueRecord(8)
		nanPrice.Price = math.NaN()
		infRate.Rating.Rate = math.Inf(-1)

		for _, bad := range []cache.CacheRecord{nanPrice, infRate} {
			store := newStore(t)
			records, timestamp := UniqueRecords(), time.Now()
			require.NoError(t, Insert(t, store, records, timestamp))

			assert.ErrorIs(t, Insert(t, store, []cache.CacheRecord{bad}, time.Now()), cache.ErrEncode)
			AssertRetrieveDelivers(t, store, records, timestamp)
		}
	})
	t.Run("DeleteDeliversNoErrorOnEmptyCache", func(t *testing.T) {
		assert.NoError(t, Delete(t, newStore(t)))
	})
	t.Run("DeleteHasNoSideEffectsOnEmptyCache", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, Delete(t, store))

		AssertRetrieveDeliversEmpty(t, store)
	})
	t.Run("DeleteDeliversNoErrorOnNonEmptyCache", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, Insert(t, store, UniqueRecords(), time.Now()))

		assert.NoError(t, Delete(t, store))
	})
	t.Run("DeleteEmptiesPreviouslyInsertedCache", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, Insert(t, store, UniqueRecords(), time.Now()))
		require.NoError(t, Delete(t, store))

		AssertRetrieveDeliversEmpty(t, store)
	})
	t.Run("SideEffectsRunSerially", func(t *testing.T) {
		AssertSideEffectsRunSerially(t, newStore(t))
	})
	t.Run("OperationsAfterCloseFail", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Close())

		_, err := Retrieve(t, store)
		assert.ErrorIs(t, err, cache.ErrStoreClosed)
		assert.ErrorIs(t, Insert(t, store, UniqueRecords(), time.Now()), cache.ErrStoreClosed)
		assert.ErrorIs(t, Delete(t, store), cache.ErrStoreClosed)
	})
}

// AssertRetrieveDeliversEmpty checks that store holds no snapshot
func AssertRetrieveDeliversEmpty(t *testing.T, store cache.Store) {
	t.Helper()
	snapshot, err := Retrieve(t, store)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

// AssertRetrieveDelivers checks that store holds exactly records and timestamp
func AssertRetrieveDelivers(t *testing.T, store cache.Store, records []cache.CacheRecord, timestamp time.Time) {
	t.Helper()
	snapshot, err := Retrieve(t, store)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, records, snapshot.Records)
	assert.True(t, timestamp.Equal(snapshot.Timestamp), "timestamp %v, want %v", snapshot.Timestamp, timestamp)
}

// AssertSideEffectsRunSerially submits insert, retrieve and delete without
// waiting and checks the completions arrive in submission order
func AssertSideEffectsRunSerially(t *testing.T, store cache.Store) {
	t.Helper()

	var mu sync.Mutex
	var order []string
	var wg sync.WaitGroup
	record := func(op string) {
		mu.Lock()
		order = append(order, op)
		mu.Unlock()
		wg.Done()
	}

	wg.Add(4)
	store.Insert(UniqueRecords(), time.Now(), func(error) { record("insert") })
	store.Retrieve(func(*cache.CachedSnapshot, error) { record("retrieve") })
	store.Delete(func(error) { record("delete") })
	store.Retrieve(func(s *cache.CachedSnapshot, err error) {
		assert.NoError(t, err)
		assert.Nil(t, s, "retrieve after delete must see the deletion")
		record("retrieve-after-delete")
	})

	waitGroup(t, &wg)
	assert.Equal(t, []string{"insert", "retrieve", "delete", "retrieve-after-delete"}, order)
}

// Retrieve runs store.Retrieve and waits for its completion
func Retrieve(t *testing.T, store cache.Store) (*cache.CachedSnapshot, error) {
	t.Helper()
	type result struct {
		snapshot *cache.CachedSnapshot
		err      error
	}
	done := make(chan result, 1)
	store.Retrieve(func(snapshot *cache.CachedSnapshot, err error) {
		done <- result{snapshot, err}
	})
	select {
	case r := <-done:
		return r.snapshot, r.err
	case <-time.After(Timeout):
		t.Fatal("retrieve did not complete in time")
		return nil, nil
	}
}

// Insert runs store.Insert and waits for its completion
func Insert(t *testing.T, store cache.Store, records []cache.CacheRecord, timestamp time.Time) error {
	t.Helper()
	done := make(chan error, 1)
	store.Insert(records, timestamp, func(err error) { done <- err })
	return wait(t, "insert", done)
}

// Delete runs store.Delete and waits for its completion
func Delete(t *testing.T, store cache.Store) error {
	t.Helper()
	done := make(chan error, 1)
	store.Delete(func(err error) { done <- err })
	return wait(t, "delete", done)
}

// UniqueRecord returns a fully populated record derived from id
func UniqueRecord(id int64) cache.CacheRecord {
	return cache.CacheRecord{
		ID:          id,
		Title:       "product title",
		Price:       float64(id) + 0.99,
		Description: "product description",
		Category:    "electronics",
		Image:       "https://example.com/products/image.png",
		Rating:      cache.RatingRecord{Rate: 4.5, Count: int(id) * 10},
	}
}

// UniqueRecords returns a small ordered set of distinct records
func UniqueRecords() []cache.CacheRecord {
	return []cache.CacheRecord{UniqueRecord(3), UniqueRecord(1), UniqueRecord(2)}
}

func wait(t *testing.T, op string, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(Timeout):
		t.Fatalf("%s did not complete in time", op)
		return nil
	}
}

func waitGroup(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(Timeout):
		t.Fatal("operations did not complete in time")
	}
}
