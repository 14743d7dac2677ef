// Package cron runs named jobs on cron schedules.
//
// Every job is wrapped with panic recovery and logging middlewares, so a
// failing job is reported without stopping the scheduler. It is used to
// evict stale cache snapshots periodically (see ValidationJob).
package cron

import (
	"context"
	"fmt"

	"github.com/dailyyoga/productcache/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is the interface for a scheduled unit of work
type Task interface {
	// Name returns the unique identifier for this task
	Name() string
	// Run executes the task with the given context
	Run(ctx context.Context) error
}

// Scheduler manages scheduled tasks
type Scheduler interface {
	// Start begins the scheduler in its own goroutine
	Start()
	// Close stops the scheduler and waits for running tasks to complete
	Close()
	// Add schedules task according to spec
	// The spec follows the standard cron format with an optional leading
	// seconds field, and accepts descriptors such as "@every 1h"
	Add(spec string, task Task) error
}

type scheduler struct {
	cron        *cron.Cron
	middlewares []Middleware
	logger      logger.Logger
}

// New creates a scheduler with the given logger and extra middlewares
// Built-in middlewares: recoveryMiddleware, loggingMiddleware
func New(log logger.Logger, mws ...Middleware) Scheduler {
	defaultMws := []Middleware{
		recoveryMiddleware(log),
		loggingMiddleware(log),
	}
	return &scheduler{
		cron:        cron.New(cron.WithParser(parser)),
		middlewares: append(defaultMws, mws...),
		logger:      log,
	}
}

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (s *scheduler) Start() {
	s.cron.Start()
}

func (s *scheduler) Close() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *scheduler) Add(spec string, task Task) error {
	if task == nil {
		return ErrNilTask
	}
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidSpec, spec, err)
	}

	wrapped := applyMiddlewares(task, s.middlewares...)
	_, err := s.cron.AddFunc(spec, func() {
		// failures are already logged by the middlewares
		_ = wrapped.Run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to add task %s with spec %s: %w", task.Name(), spec, err)
	}

	s.logger.Info("task scheduled",
		zap.String("task", task.Name()),
		zap.String("spec", spec),
	)
	return nil
}
