// Package db opens gorm databases (sqlite through modernc.org/sqlite, or
// MySQL) and keeps a registry of the schemas stores can be created from.
package db

import (
	"context"

	"gorm.io/gorm"
)

// Database is an open connection pool
type Database interface {
	// Gorm returns the handle queries run on
	Gorm() *gorm.DB
	// Migrate creates the tables of s that do not exist yet
	Migrate(s Schema) error
	Ping(ctx context.Context) error
	Close() error
}
