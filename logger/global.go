package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// global backs the package-level functions
// It is built lazily from DefaultConfig until New or SetGlobalLogger replaces it
var global atomic.Pointer[zap.Logger]

func current() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, defaultGlobal())
	return global.Load()
}

// defaultGlobal skips one caller frame so entries point at the caller of Info, Warn etc.
func defaultGlobal() *zap.Logger {
	l, err := build(DefaultConfig(), zapcore.InfoLevel, zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// SetGlobalLogger replaces the logger used by the package-level functions
// Build l with zap.AddCallerSkip(1) to keep caller locations accurate
func SetGlobalLogger(l *zap.Logger) {
	global.Store(l)
}

// GetGlobalLogger returns the logger used by the package-level functions
func GetGlobalLogger() *zap.Logger {
	return current()
}

// Debug logs at debug level on the global logger
func Debug(msg string, fields ...zap.Field) { current().Debug(msg, fields...) }

// Info logs at info level on the global logger
func Info(msg string, fields ...zap.Field) { current().Info(msg, fields...) }

// Warn logs at warn level on the global logger
func Warn(msg string, fields ...zap.Field) { current().Warn(msg, fields...) }

// Error logs at error level on the global logger
func Error(msg string, fields ...zap.Field) { current().Error(msg, fields...) }

// Sync flushes the global logger
func Sync() error {
	return current().Sync()
}
