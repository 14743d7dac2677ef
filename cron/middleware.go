package cron

import (
	"context"
	"time"

	"github.com/dailyyoga/productcache/logger"
	"github.com/dailyyoga/productcache/routine"
	"go.uber.org/zap"
)

// Middleware decorates a Task
type Middleware func(Task) Task

// taskFunc is a Task backed by a function
type taskFunc struct {
	name string
	run  func(ctx context.Context) error
}

func (t taskFunc) Name() string                  { return t.name }
func (t taskFunc) Run(ctx context.Context) error { return t.run(ctx) }

// applyMiddlewares wraps t so that mws[0] is the outermost layer
func applyMiddlewares(t Task, mws ...Middleware) Task {
	for i := len(mws) - 1; i >= 0; i-- {
		t = mws[i](t)
	}
	return t
}

// recoveryMiddleware turns a panic inside the task into routine.ErrPanicRecovered
func recoveryMiddleware(log logger.Logger) Middleware {
	return func(next Task) Task {
		return taskFunc{name: next.Name(), run: func(ctx context.Context) (err error) {
			if perr := routine.Call(log, next.Name(), func() { err = next.Run(ctx) }); perr != nil {
				return perr
			}
			return err
		}}
	}
}

// loggingMiddleware reports the outcome and duration of each run
func loggingMiddleware(log logger.Logger) Middleware {
	return func(next Task) Task {
		return taskFunc{name: next.Name(), run: func(ctx context.Context) error {
			task := zap.String("task", next.Name())
			log.Debug("task started", task)

			start := time.Now()
			err := next.Run(ctx)
			took := zap.Duration("duration", time.Since(start))

			if err != nil {
				log.Error("task failed", task, took, zap.Error(err))
				return err
			}
			log.Info("task completed", task, took)
			return nil
		}}
	}
}
