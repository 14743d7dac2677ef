// Package queue provides a serial executor: tasks submitted from any number
// of goroutines run one at a time, in submission order, on a single worker.
//
// Submission never blocks on the worker. The backlog is held in an unbounded
// channel so a slow task cannot stall callers.
package queue

import (
	"context"
	"sync"

	"github.com/dailyyoga/productcache/logger"
	"github.com/dailyyoga/productcache/routine"
	"github.com/smallnest/chanx"
	"go.uber.org/zap"
)

// Serial executes tasks strictly one after another in FIFO order
type Serial struct {
	name   string
	logger logger.Logger

	tasks *chanx.UnboundedChan[func()]

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	once   sync.Once
}

// NewSerial creates a serial queue and starts its worker
// The name identifies the queue in log entries
func NewSerial(log logger.Logger, name string) *Serial {
	q := &Serial{
		name:   name,
		logger: log,
		tasks:  chanx.NewUnboundedChan[func()](context.Background(), 16),
		done:   make(chan struct{}),
	}
	routine.GoNamed(log, name+"-worker", q.loop)
	return q
}

// Submit enqueues a task
// It returns ErrClosed once Close has been called
func (q *Serial) Submit(task func()) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}
	q.tasks.In <- task
	return nil
}

// Len returns the number of tasks waiting to run
func (q *Serial) Len() int {
	return q.tasks.Len()
}

// Close stops accepting tasks, waits for the backlog to drain and stops the worker
// It can be called multiple times safely. Calling it from a task deadlocks,
// as the task's own worker is the one being waited for.
func (q *Serial) Close() {
	q.once.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.tasks.In)
		q.mu.Unlock()
	})
	<-q.done
}

func (q *Serial) loop() {
	defer close(q.done)

	for task := range q.tasks.Out {
		// a panicking task must not take the worker down with it
		if err := routine.Call(q.logger, q.name, task); err != nil {
			q.logger.Error("queued task failed",
				zap.String("queue", q.name),
				zap.Error(err),
			)
		}
	}
	q.logger.Debug("queue drained", zap.String("queue", q.name))
}
