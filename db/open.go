package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dailyyoga/productcache/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	// pure Go sqlite driver, registered as "sqlite"
	_ "modernc.org/sqlite"
)

type defaultDatabase struct {
	logger logger.Logger
	db     *gorm.DB
}

// Open connects to the database described by cfg
func Open(log logger.Logger, cfg *Config) (Database, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		// merge default values for empty fields
		cfg = cfg.MergeDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dd := &defaultDatabase{
		logger: log,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, ErrConnection(err)
		}
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: cfg.DSN()})
		// sqlite has a single writer, extra connections only add lock contention
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
	}

	var err error
	dd.db, err = gorm.Open(dialector, &gorm.Config{
		Logger:         newSQLLogger(dd.logger, cfg),
		PrepareStmt:    cfg.Driver == DriverMySQL,
		NamingStrategy: schema.NamingStrategy{TablePrefix: cfg.TablePrefix},
	})
	if err != nil {
		return nil, ErrConnection(err)
	}
	sqldb, err := dd.db.DB()
	if err != nil {
		return nil, ErrConnection(err)
	}

	// set connection pool settings
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// test connection
	if err := sqldb.Ping(); err != nil {
		_ = sqldb.Close()
		return nil, ErrConnection(err)
	}

	dd.logger.Info("database connection established",
		zap.String("driver", cfg.Driver),
		zap.String("path", cfg.Path),
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return dd, nil
}

func (dd *defaultDatabase) Gorm() *gorm.DB {
	return dd.db
}

func (dd *defaultDatabase) Migrate(s Schema) error {
	if err := dd.db.AutoMigrate(s.Models...); err != nil {
		return ErrMigrate(s.Name, err)
	}
	dd.logger.Debug("schema migrated", zap.String("schema", s.Name), zap.Int("models", len(s.Models)))
	return nil
}

func (dd *defaultDatabase) Ping(ctx context.Context) error {
	sqldb, err := dd.db.DB()
	if err != nil {
		return ErrConnection(err)
	}
	return sqldb.PingContext(ctx)
}

func (dd *defaultDatabase) Close() error {
	sqldb, err := dd.db.DB()
	if err != nil {
		return ErrConnection(err)
	}
	return sqldb.Close()
}

func parseLogLevel(level string) glogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return glogger.Silent
	case "error":
		return glogger.Error
	case "warn":
		return glogger.Warn
	case "info":
		return glogger.Info
	default:
		return glogger.Warn
	}
}
