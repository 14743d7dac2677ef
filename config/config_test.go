package config

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

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "data/products.store", cfg.Store.File.Path)
	assert.Equal(t, "@every 1h", cfg.Validation.Schedule)
	assert.False(t, cfg.Validation.SkipOnStart)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestParse_DatabaseBackend(t *testing.T) {
	cfg, err := Parse([]byte(`
logger:
  level: debug
  encoding: console
store:
  backend: database
  database:
    schema: ProductStore
    database:
      driver: sqlite
      path: /var/lib/productcache/products.db
      busy_timeout: 2s
validation:
  skip_on_start: true
  schedule: "0 */30 * * * *"
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	require.NotNil(t, cfg.Store.Database)
	assert.Equal(t, "ProductStore", cfg.Store.Database.Schema)
	assert.Equal(t, "/var/lib/productcache/products.db", cfg.Store.Database.Database.Path)
	assert.Equal(t, 2*time.Second, cfg.Store.Database.Database.BusyTimeout)
	assert.True(t, cfg.Validation.SkipOnStart)
	assert.Equal(t, "0 */30 * * * *", cfg.Validation.Schedule)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "store: [unclosed"},
		{"unknown backend", "store: {backend: memcached}"},
		{"database without section", "store: {backend: database}"},
		{"redis without section", "store: {backend: redis}"},
		{"bad log level", "logger: {level: loud}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: file\n  file:\n    path: cache.json\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cache.json", cfg.Store.File.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Parse([]byte("store:\n  backend: database\n  database:\n    database:\n      path: " + filepath.Join(dir, "p.db") + "\n      log_level: silent\n"))
	require.NoError(t, err)

	store, err := cfg.Store.OpenStore(logger.NewNop())
	require.NoError(t, err)
	defer store.Close()

	storetest.AssertRetrieveDeliversEmpty(t, store)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, err := (&StoreConfig{Backend: "tape"}).OpenStore(logger.NewNop())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrBackendInit)
}
