// Package routine provides safe goroutine execution with panic recovery.
//
// It prevents direct use of `go func()` from crashing the entire application
// when a panic occurs, by wrapping execution with recovery logic.
package routine

import (
	"runtime/debug"

	"github.com/dailyyoga/productcache/logger"
	"go.uber.org/zap"
)

// Go executes a function in a new goroutine with panic recovery
func Go(log logger.Logger, fn func()) {
	GoNamed(log, "", fn)
}

// GoNamed executes a named function in a new goroutine with panic recovery
// The name is used for logging purposes
func GoNamed(log logger.Logger, name string, fn func()) {
	go func() {
		defer recoverWithLog(log, name, nil)
		fn()
	}()
}

// Call runs fn on the calling goroutine and converts a panic into an error
// The panic is logged together with its stack
func Call(log logger.Logger, name string, fn func()) (err error) {
	defer recoverWithLog(log, name, &err)
	fn()
	return nil
}

// recoverWithLog handles panic recovery and logging
// When errp is non-nil the recovered value is stored there as an error
func recoverWithLog(log logger.Logger, name string, errp *error) {
	rec := recover()
	if rec == nil {
		return
	}
	fields := []zap.Field{
		zap.Any("panic", rec),
		zap.String("stack", string(debug.Stack())),
	}
	if name != "" {
		fields = append([]zap.Field{zap.String("routine", name)}, fields...)
	}
	log.Error("goroutine panicked", fields...)
	if errp != nil {
		*errp = ErrPanic(rec)
	}
}
