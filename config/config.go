// Package config loads the application configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/dailyyoga/productcache/cache"
	"github.com/dailyyoga/productcache/cache/filestore"
	"github.com/dailyyoga/productcache/cache/gormstore"
	"github.com/dailyyoga/productcache/cache/redisstore"
	"github.com/dailyyoga/productcache/logger"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by StoreConfig.Backend
const (
	BackendFile     = "file"
	BackendDatabase = "database"
	BackendRedis    = "redis"
)

// Config is the application configuration
type Config struct {
	Logger     *logger.Config   `yaml:"logger"`
	Store      StoreConfig      `yaml:"store"`
	Validation ValidationConfig `yaml:"validation"`
}

// StoreConfig selects and configures the cache backend
type StoreConfig struct {
	// Backend is one of "file", "database" or "redis"
	// default: "file"
	Backend  string             `yaml:"backend"`
	File     *filestore.Config  `yaml:"file"`
	Database *gormstore.Config  `yaml:"database"`
	Redis    *redisstore.Config `yaml:"redis"`
}

// ValidationConfig controls when stale snapshots are evicted
type ValidationConfig struct {
	// SkipOnStart disables the validation performed at startup
	SkipOnStart bool `yaml:"skip_on_start"`
	// Schedule is the cron spec of the periodic validation
	// default: "@every 1h"
	Schedule string `yaml:"schedule"`
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	return &Config{
		Logger: logger.DefaultConfig(),
		Store: StoreConfig{
			Backend: BackendFile,
			File:    &filestore.Config{Path: "data/products.store"},
		},
		Validation: ValidationConfig{
			Schedule: "@every 1h",
		},
	}
}

// Load reads and parses the YAML file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrRead(path, err)
	}
	return Parse(data)
}

// Parse decodes YAML data, merges defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ErrParse(err)
	}
	cfg = cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeDefaults fills empty fields with default values and returns the config
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Logger == nil {
		c.Logger = defaults.Logger
	} else {
		c.Logger = c.Logger.MergeDefaults()
	}
	if c.Store.Backend == "" {
		c.Store.Backend = defaults.Store.Backend
	}
	if c.Store.Backend == BackendFile && c.Store.File == nil {
		c.Store.File = defaults.Store.File
	}
	if c.Validation.Schedule == "" {
		c.Validation.Schedule = defaults.Validation.Schedule
	}
	return c
}

// Validate validates the application configuration
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.File == nil {
			return ErrInvalidConfig("store.file is required for the file backend")
		}
	case BackendDatabase:
		if c.Store.Database == nil {
			return ErrInvalidConfig("store.database is required for the database backend")
		}
	case BackendRedis:
		if c.Store.Redis == nil {
			return ErrInvalidConfig("store.redis is required for the redis backend")
		}
	default:
		return ErrInvalidConfig(fmt.Sprintf("store.backend %q must be one of: %s, %s, %s",
			c.Store.Backend, BackendFile, BackendDatabase, BackendRedis))
	}
	return nil
}

// OpenStore constructs the configured backend
func (c *StoreConfig) OpenStore(log logger.Logger) (cache.Store, error) {
	switch c.Backend {
	case BackendDatabase:
		return gormstore.New(log, c.Database)
	case BackendRedis:
		return redisstore.New(log, c.Redis)
	case BackendFile:
		return filestore.New(log, c.File)
	default:
		return nil, ErrInvalidConfig(fmt.Sprintf("unknown store backend %q", c.Backend))
	}
}
