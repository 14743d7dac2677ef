// Package redisstore implements cache.Store on a single Redis key holding the
// JSON-encoded snapshot.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dailyyoga/productcache/cache"
	"github.com/dailyyoga/productcache/logger"
	"github.com/dailyyoga/productcache/queue"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisStore struct {
	logger  logger.Logger
	client  *redis.Client
	key     string
	timeout time.Duration
	queue   *queue.Serial
}

// New connects to Redis and returns a store using cfg.Key
// An invalid URL or an unreachable server is reported as cache.ErrBackendInit
func New(log logger.Logger, cfg *Config) (cache.Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, cache.BackendInitError(err)
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, cache.BackendInitError(fmt.Errorf("invalid redis URL: %w", err))
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, cache.BackendInitError(fmt.Errorf("failed to connect to redis: %w", err))
	}

	log.Info("redis store connected", zap.String("key", cfg.Key), zap.Duration("timeout", cfg.Timeout))

	return &redisStore{
		logger:  log,
		client:  client,
		key:     cfg.Key,
		timeout: cfg.Timeout,
		queue:   queue.NewSerial(log, "redisstore"),
	}, nil
}

func (s *redisStore) Retrieve(completion cache.RetrievalCompletion) {
	s.submit(func() {
		completion(s.retrieve())
	}, func(err error) { completion(nil, err) })
}

func (s *redisStore) Insert(records []cache.CacheRecord, timestamp time.Time, completion cache.Completion) {
	s.submit(func() {
		completion(s.insert(records, timestamp))
	}, completion)
}

func (s *redisStore) Delete(completion cache.Completion) {
	s.submit(func() {
		completion(s.delete())
	}, completion)
}

func (s *redisStore) Close() error {
	s.queue.Close()

	if err := s.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

func (s *redisStore) submit(op func(), rejected func(error)) {
	if err := s.queue.Submit(op); err != nil {
		rejected(cache.ErrStoreClosed)
	}
}

func (s *redisStore) retrieve() (*cache.CachedSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		s.logger.Error("failed to get snapshot", zap.String("key", s.key), zap.Error(err))
		return nil, cache.IOError(err)
	}
	return cache.DecodeSnapshot(data)
}

func (s *redisStore) insert(records []cache.CacheRecord, timestamp time.Time) error {
	data, err := cache.EncodeSnapshot(records, timestamp)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.Set(ctx, s.key, data, 0)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to set snapshot", zap.String("key", s.key), zap.Error(err))
		return cache.IOError(err)
	}
	return nil
}

func (s *redisStore) delete() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		s.logger.Error("failed to delete snapshot", zap.String("key", s.key), zap.Error(err))
		return cache.IOError(err)
	}
	return nil
}
