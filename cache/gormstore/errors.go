package gormstore

import "fmt"

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("gormstore: invalid config: %s", msg)
}
