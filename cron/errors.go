package cron

import "fmt"

var (
	// ErrNilTask is returned when attempting to schedule a nil task
	ErrNilTask = fmt.Errorf("cron: nil task")

	// ErrInvalidSpec is returned when a cron spec string is invalid
	ErrInvalidSpec = fmt.Errorf("cron: invalid cron spec")
)
