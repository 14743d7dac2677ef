package filestore

import "fmt"

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("filestore: invalid config: %s", msg)
}
