package redisstore

import "fmt"

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("redisstore: invalid config: %s", msg)
}
