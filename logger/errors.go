package logger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is the kind of every configuration error of this package
var ErrInvalidConfig = errors.New("logger: invalid config")

// ErrBuildLogger zap refused the configuration, e.g. an unopenable output path
func ErrBuildLogger(err error) error {
	return fmt.Errorf("logger: build: %w", err)
}

// ErrInvalidLevel level is not a zap level name
func ErrInvalidLevel(level string) error {
	return fmt.Errorf("%w: level %q must be one of: %s", ErrInvalidConfig, level, strings.Join(validLevels, ", "))
}

// ErrInvalidEncoding encoding is neither json nor console
func ErrInvalidEncoding(encoding string) error {
	return fmt.Errorf("%w: encoding %q must be one of: %s", ErrInvalidConfig, encoding, strings.Join(validEncodings, ", "))
}
