package db

import "fmt"

// ErrUnknownSchema no schema registered under the requested name
var ErrUnknownSchema = fmt.Errorf("db: unknown schema")

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("db: invalid config: %s", msg)
}

// ErrConnection database connection error
func ErrConnection(err error) error {
	return fmt.Errorf("db: connection failed: %w", err)
}

// ErrSchemaNotFound returns an error for a schema name that was never registered
func ErrSchemaNotFound(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownSchema, name)
}

// ErrMigrate schema migration error
func ErrMigrate(name string, err error) error {
	return fmt.Errorf("db: migrate schema %q: %w", name, err)
}
