package redisstore

import "time"

// Config is the configuration for the Redis store
type Config struct {
	// URL is the Redis connection URL (required)
	// e.g. "redis://localhost:6379" or "redis://:password@host:6379/0"
	URL string `mapstructure:"url" yaml:"url"`
	// Key is the Redis key holding the snapshot
	// default: "productcache:snapshot"
	Key string `mapstructure:"key" yaml:"key"`
	// Timeout bounds each Redis command
	// default: 5 * time.Second
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// DefaultConfig returns the default configuration for the Redis store
// Note: URL has no default value and must be explicitly set
func DefaultConfig() *Config {
	return &Config{
		Key:     "productcache:snapshot",
		Timeout: 5 * time.Second,
	}
}

// MergeDefaults fills empty fields with default values and returns the config
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Key == "" {
		c.Key = defaults.Key
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	return c
}

// Validate validates the configuration for the Redis store
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrInvalidConfig("url is required")
	}
	if c.Timeout < 0 {
		return ErrInvalidConfig("timeout must be >= 0")
	}
	return nil
}
