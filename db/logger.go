package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dailyyoga/productcache/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// sqlLogger forwards gorm's messages and statement traces to a logger.Logger
//
// Statements that fail log at error level, statements slower than slow at
// warn level and everything else at debug level. An empty result is not a
// failure: gorm.ErrRecordNotFound is traced like a successful statement.
type sqlLogger struct {
	log   logger.Logger
	level glogger.LogLevel
	slow  time.Duration
}

var _ glogger.Interface = (*sqlLogger)(nil)

func newSQLLogger(log logger.Logger, cfg *Config) *sqlLogger {
	return &sqlLogger{log: log, level: parseLogLevel(cfg.LogLevel), slow: cfg.SlowThreshold}
}

func (l *sqlLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *sqlLogger) Info(_ context.Context, format string, args ...any) {
	if l.level >= glogger.Info {
		l.log.Info(fmt.Sprintf(format, args...), component)
	}
}

func (l *sqlLogger) Warn(_ context.Context, format string, args ...any) {
	if l.level >= glogger.Warn {
		l.log.Warn(fmt.Sprintf(format, args...), component)
	}
}

func (l *sqlLogger) Error(_ context.Context, format string, args ...any) {
	if l.level >= glogger.Error {
		l.log.Error(fmt.Sprintf(format, args...), component)
	}
}

func (l *sqlLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= glogger.Silent {
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}

	elapsed := time.Since(begin)
	failed := err != nil && l.level >= glogger.Error
	slow := err == nil && l.slow > 0 && elapsed > l.slow && l.level >= glogger.Warn
	if !failed && !slow && l.level < glogger.Info {
		return
	}

	query, rows := fc()
	fields := []zap.Field{component, zap.String("sql", query), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed)}
	switch {
	case failed:
		l.log.Error("sql error", append(fields, zap.Error(err))...)
	case slow:
		l.log.Warn("slow sql", append(fields, zap.Duration("threshold", l.slow))...)
	default:
		l.log.Debug("sql trace", fields...)
	}
}

var component = zap.String("component", "gorm")
