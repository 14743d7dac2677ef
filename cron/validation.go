package cron

import "context"

// Validator evicts cache state that should no longer be served
// cache.LocalLoader satisfies it
type Validator interface {
	ValidateCache()
}

type validationTask struct {
	validator Validator
}

// ValidationJob returns a task that validates the cache each time it runs
// Validation is fire-and-forget, so the task itself never fails
func ValidationJob(v Validator) Task {
	return &validationTask{validator: v}
}

func (t *validationTask) Name() string {
	return "validate-cache"
}

func (t *validationTask) Run(context.Context) error {
	t.validator.ValidateCache()
	return nil
}
