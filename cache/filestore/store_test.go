package filestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dailyyoga/productcache/cache"
	"github.com/dailyyoga/productcache/cache/storetest"
	"github.com/dailyyoga/productcache/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, path string) cache.Store {
	t.Helper()
	store, err := New(logger.NewNop(), &Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testStorePath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "products.store")
}

func TestFileStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) cache.Store {
		return newTestStore(t, testStorePath(t))
	})
}

func TestFileStore_RetrieveDeliversFailureOnRetrievalError(t *testing.T) {
	path := testStorePath(t)
	store := newTestStore(t, path)
	require.NoError(t, os.WriteFile(path, []byte("invalid data"), 0o644))

	_, err := storetest.Retrieve(t, store)
	assert.ErrorIs(t, err, cache.ErrDecode)
}

func TestFileStore_RetrieveHasNoSideEffectsOnFailure(t *testing.T) {
	path := testStorePath(t)
	store := newTestStore(t, path)
	require.NoError(t, os.WriteFile(path, []byte("invalid data"), 0o644))

	_, first := storetest.Retrieve(t, store)
	_, second := storetest.Retrieve(t, store)
	assert.ErrorIs(t, first, cache.ErrDecode)
	assert.ErrorIs(t, second, cache.ErrDecode)
}

func TestFileStore_InsertDeliversErrorOnUnwritablePath(t *testing.T) {
	// a regular file where a directory is expected
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	store := newTestStore(t, filepath.Join(blocker, "products.store"))

	err := storetest.Insert(t, store, storetest.UniqueRecords(), time.Now())
	assert.ErrorIs(t, err, cache.ErrIO)
}

func TestFileStore_InsertCreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "products.store")
	store := newTestStore(t, path)

	require.NoError(t, storetest.Insert(t, store, storetest.UniqueRecords(), time.Now()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestFileStore_DeleteRemovesFile(t *testing.T) {
	path := testStorePath(t)
	store := newTestStore(t, path)
	require.NoError(t, storetest.Insert(t, store, storetest.UniqueRecords(), time.Now()))

	require.NoError(t, storetest.Delete(t, store))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_SnapshotSurvivesReopen(t *testing.T) {
	path := testStorePath(t)
	records, timestamp := storetest.UniqueRecords(), time.Now()

	first := newTestStore(t, path)
	require.NoError(t, storetest.Insert(t, first, records, timestamp))
	require.NoError(t, first.Close())

	storetest.AssertRetrieveDelivers(t, newTestStore(t, path), records, timestamp)
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New(logger.NewNop(), &Config{})
	assert.ErrorIs(t, err, cache.ErrBackendInit)

	_, err = New(logger.NewNop(), nil)
	assert.ErrorIs(t, err, cache.ErrBackendInit)
}

func TestConfig_MergeDefaults(t *testing.T) {
	cfg := (&Config{Path: "x", FileMode: 0o600}).MergeDefaults()
	assert.Equal(t, os.FileMode(0o600), cfg.FileMode)
	assert.Equal(t, os.FileMode(0o755), cfg.DirMode)
}
