// Package filestore implements cache.Store on top of a single file holding
// the JSON-encoded snapshot.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dailyyoga/productcache/cache"
	"github.com/dailyyoga/productcache/logger"
	"github.com/dailyyoga/productcache/queue"
	"go.uber.org/zap"
)

type fileStore struct {
	logger   logger.Logger
	path     string
	fileMode os.FileMode
	dirMode  os.FileMode
	queue    *queue.Serial
}

// New creates a file-backed store writing to cfg.Path
// An invalid configuration is reported as cache.ErrBackendInit
func New(log logger.Logger, cfg *Config) (cache.Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, cache.BackendInitError(err)
	}

	s := &fileStore{
		logger:   log,
		path:     cfg.Path,
		fileMode: cfg.FileMode,
		dirMode:  cfg.DirMode,
		queue:    queue.NewSerial(log, "filestore"),
	}

	log.Info("file store opened", zap.String("path", cfg.Path))
	return s, nil
}

func (s *fileStore) Retrieve(completion cache.RetrievalCompletion) {
	s.submit(func() {
		completion(s.retrieve())
	}, func(err error) { completion(nil, err) })
}

func (s *fileStore) Insert(records []cache.CacheRecord, timestamp time.Time, completion cache.Completion) {
	s.submit(func() {
		completion(s.insert(records, timestamp))
	}, completion)
}

func (s *fileStore) Delete(completion cache.Completion) {
	s.submit(func() {
		completion(s.delete())
	}, completion)
}

func (s *fileStore) Close() error {
	s.queue.Close()
	return nil
}

// submit enqueues op, or reports cache.ErrStoreClosed through rejected
func (s *fileStore) submit(op func(), rejected func(error)) {
	if err := s.queue.Submit(op); err != nil {
		rejected(cache.ErrStoreClosed)
	}
}

func (s *fileStore) retrieve() (*cache.CachedSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		s.logger.Error("failed to read snapshot", zap.String("path", s.path), zap.Error(err))
		return nil, cache.IOError(err)
	}

	snapshot, err := cache.DecodeSnapshot(data)
	if err != nil {
		s.logger.Warn("failed to decode snapshot", zap.String("path", s.path), zap.Error(err))
		return nil, err
	}
	return snapshot, nil
}

func (s *fileStore) insert(records []cache.CacheRecord, timestamp time.Time) error {
	data, err := cache.EncodeSnapshot(records, timestamp)
	if err != nil {
		return err
	}

	// the old snapshot goes first so a failed write leaves nothing behind
	if err := s.delete(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), s.dirMode); err != nil {
		return cache.IOError(fmt.Errorf("create cache directory: %w", err))
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, s.fileMode); err != nil {
		_ = os.Remove(tmp)
		s.logger.Error("failed to write snapshot", zap.String("path", s.path), zap.Error(err))
		return cache.IOError(err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		s.logger.Error("failed to move snapshot into place", zap.String("path", s.path), zap.Error(err))
		return cache.IOError(err)
	}

	s.logger.Debug("snapshot written",
		zap.String("path", s.path),
		zap.Int("records", len(records)),
		zap.Time("timestamp", timestamp),
	)
	return nil
}

func (s *fileStore) delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("failed to remove snapshot", zap.String("path", s.path), zap.Error(err))
		return cache.IOError(err)
	}
	return nil
}
