package queue

import "fmt"

// ErrClosed is returned when a task is submitted to a closed queue
var ErrClosed = fmt.Errorf("queue: queue is closed")
