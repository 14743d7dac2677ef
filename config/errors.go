package config

import "fmt"

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("config: invalid config: %s", msg)
}

// ErrRead config file could not be read
func ErrRead(path string, err error) error {
	return fmt.Errorf("config: read %s: %w", path, err)
}

// ErrParse config file is not valid YAML
func ErrParse(err error) error {
	return fmt.Errorf("config: parse: %w", err)
}
