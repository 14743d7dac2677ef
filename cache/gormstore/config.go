package gormstore

import "github.com/dailyyoga/productcache/db"

// Config is the configuration for the database store
type Config struct {
	// Database describes where the snapshot lives (required)
	Database *db.Config `mapstructure:"database" yaml:"database"`
	// Schema is the name of a schema registered with db.RegisterSchema
	// default: "ProductStore"
	Schema string `mapstructure:"schema" yaml:"schema"`
}

// DefaultConfig returns the default configuration for the database store
// Note: Database has no default value and must be explicitly set
func DefaultConfig() *Config {
	return &Config{
		Schema: DefaultSchema,
	}
}

// MergeDefaults fills empty fields with default values and returns the config
func (c *Config) MergeDefaults() *Config {
	if c.Schema == "" {
		c.Schema = DefaultConfig().Schema
	}
	return c
}

// Validate validates the configuration for the database store
func (c *Config) Validate() error {
	if c.Database == nil {
		return ErrInvalidConfig("database is required")
	}
	return nil
}
