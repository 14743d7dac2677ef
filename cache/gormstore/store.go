// Package gormstore implements cache.Store on a relational database through
// GORM. A snapshot is one parent row owning one child row per record.
package gormstore

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dailyyoga/productcache/cache"
	"github.com/dailyyoga/productcache/db"
	"github.com/dailyyoga/productcache/logger"
	"github.com/dailyyoga/productcache/queue"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type gormStore struct {
	logger   logger.Logger
	database db.Database
	db       *gorm.DB
	queue    *queue.Serial
	once     sync.Once
}

// New opens the database described by cfg and creates the schema's tables
//
// An unknown schema, an unreachable database or a failed migration is
// reported as cache.ErrBackendInit.
func New(log logger.Logger, cfg *Config) (cache.Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, cache.BackendInitError(err)
	}

	schema, err := db.LookupSchema(cfg.Schema)
	if err != nil {
		return nil, cache.BackendInitError(err)
	}

	dbCfg := *cfg.Database
	dbCfg.TablePrefix = schema.TablePrefix
	database, err := db.Open(log, &dbCfg)
	if err != nil {
		return nil, cache.BackendInitError(err)
	}
	if err := database.Migrate(schema); err != nil {
		_ = database.Close()
		return nil, cache.BackendInitError(err)
	}

	log.Info("database store opened",
		zap.String("driver", dbCfg.Driver),
		zap.String("schema", schema.Name),
	)

	return &gormStore{
		logger:   log,
		database: database,
		db:       database.Gorm(),
		queue:    queue.NewSerial(log, "gormstore"),
	}, nil
}

func (s *gormStore) Retrieve(completion cache.RetrievalCompletion) {
	s.submit(func() {
		completion(s.retrieve())
	}, func(err error) { completion(nil, err) })
}

func (s *gormStore) Insert(records []cache.CacheRecord, timestamp time.Time, completion cache.Completion) {
	s.submit(func() {
		completion(s.insert(records, timestamp))
	}, completion)
}

func (s *gormStore) Delete(completion cache.Completion) {
	s.submit(func() {
		completion(s.delete())
	}, completion)
}

func (s *gormStore) Close() error {
	s.queue.Close()

	var err error
	s.once.Do(func() {
		err = s.database.Close()
	})
	return err
}

func (s *gormStore) submit(op func(), rejected func(error)) {
	if err := s.queue.Submit(op); err != nil {
		rejected(cache.ErrStoreClosed)
	}
}

func (s *gormStore) retrieve() (*cache.CachedSnapshot, error) {
	var rows []Snapshot
	err := s.db.
		Preload("Records", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		s.logger.Error("failed to load snapshot", zap.Error(err))
		return nil, cache.IOError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	records := make([]cache.CacheRecord, len(row.Records))
	for i, r := range row.Records {
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return nil, cache.DecodeError(fmt.Errorf("record %d price: %w", r.ProductID, err))
		}
		p, _ := price.Float64()
		records[i] = cache.CacheRecord{
			ID:          r.ProductID,
			Title:       r.Title,
			Price:       p,
			Description: r.Description,
			Category:    r.Category,
			Image:       r.Image,
			Rating:      cache.RatingRecord{Rate: r.RatingRate, Count: r.RatingCount},
		}
	}
	return &cache.CachedSnapshot{Records: records, Timestamp: time.Unix(row.Seconds, int64(row.Nanos))}, nil
}

func (s *gormStore) insert(records []cache.CacheRecord, timestamp time.Time) error {
	rows := make([]Record, len(records))
	for i, r := range records {
		if !finite(r.Price) {
			return cache.EncodeError(fmt.Errorf("record %d has non-finite price %v", r.ID, r.Price))
		}
		if !finite(r.Rating.Rate) {
			return cache.EncodeError(fmt.Errorf("record %d has non-finite rating %v", r.ID, r.Rating.Rate))
		}
		rows[i] = Record{
			Position:    i,
			ProductID:   r.ID,
			Title:       r.Title,
			Price:       decimal.NewFromFloat(r.Price).String(),
			Description: r.Description,
			Category:    r.Category,
			Image:       r.Image,
			RatingRate:  r.Rating.Rate,
			RatingCount: r.Rating.Count,
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx); err != nil {
			return err
		}
		return tx.Create(&Snapshot{Seconds: timestamp.Unix(), Nanos: timestamp.Nanosecond(), Records: rows}).Error
	})
	if err != nil {
		s.logger.Error("failed to insert snapshot", zap.Error(err))
		return cache.IOError(err)
	}
	return nil
}

func (s *gormStore) delete() error {
	if err := s.db.Transaction(deleteAll); err != nil {
		s.logger.Error("failed to delete snapshot", zap.Error(err))
		return cache.IOError(err)
	}
	return nil
}

// deleteAll removes every snapshot
// Children are removed explicitly as well, for engines without enforced foreign keys
func deleteAll(tx *gorm.DB) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := all.Delete(&Record{}).Error; err != nil {
		return err
	}
	return all.Delete(&Snapshot{}).Error
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
