// Package logger wraps zap behind the small Logger interface every component
// of productcache accepts. *zap.Logger satisfies it directly.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the interface for logging operations
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Sync() error
}

// New builds a logger from cfg, filling empty fields with defaults
// The result also replaces the global logger behind Debug, Info, Warn and Error
func New(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, ErrInvalidLevel(cfg.Level)
	}

	l, err := build(cfg, level)
	if err != nil {
		return nil, ErrBuildLogger(err)
	}
	SetGlobalLogger(l.WithOptions(zap.AddCallerSkip(1)))
	return l, nil
}

// NewNop returns a logger that discards everything, mostly useful in tests
func NewNop() Logger {
	return zap.NewNop()
}

func build(cfg *Config, level zapcore.Level, opts ...zap.Option) (*zap.Logger, error) {
	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Encoding == "console",
		Encoding:         cfg.Encoding,
		EncoderConfig:    encoderConfig(),
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}
	opts = append(opts, zap.AddStacktrace(zapcore.DPanicLevel))
	return zc.Build(opts...)
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	return ec
}
