package db

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Driver names accepted by Config.Driver
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config is the configuration for the database
// It is used to configure the connection, the connection pool and logging
type Config struct {
	// Driver selects the database engine, "sqlite" or "mysql"
	// default: "sqlite"
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the database file (sqlite only, required)
	Path string `mapstructure:"path" yaml:"path"`
	// BusyTimeout is how long sqlite waits on a locked database
	// default: 5 * time.Second
	BusyTimeout time.Duration `mapstructure:"busy_timeout" yaml:"busy_timeout"`

	// Host is the host of the database (mysql only)
	Host string `mapstructure:"host" yaml:"host"`
	// Port is the port of the database (mysql only)
	// default: 3306
	Port int `mapstructure:"port" yaml:"port"`
	// User is the user of the database (mysql only)
	User string `mapstructure:"user" yaml:"user"`
	// Password is the password of the database (mysql only)
	Password string `mapstructure:"password" yaml:"password"`
	// Database is the name of the database (mysql only)
	Database string `mapstructure:"database" yaml:"database"`
	// Charset is the charset of the database (mysql only)
	// default: "utf8mb4"
	Charset string `mapstructure:"charset" yaml:"charset"`
	// Loc is the location of the database (mysql only)
	// default: "Local"
	Loc string `mapstructure:"loc" yaml:"loc"`

	// MaxOpenConns is the maximum number of open connections to the database
	// default: 10, always 1 for sqlite
	MaxOpenConns int `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	// MaxIdleConns is the maximum number of idle connections to the database
	// default: 10, always 1 for sqlite
	MaxIdleConns int `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	// ConnMaxLifetime is the maximum lifetime of a connection
	// default: 1800 * time.Second
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	// ConnMaxIdleTime is the maximum idle time of a connection
	// default: 600 * time.Second
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"`

	// LogLevel is the log level of the database
	// default: "warn"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// SlowThreshold is the threshold for slow queries
	// default: 1 * time.Second
	SlowThreshold time.Duration `mapstructure:"slow_threshold" yaml:"slow_threshold"`

	// TablePrefix is prepended to every table name
	// It is normally set from a registered Schema rather than by hand
	TablePrefix string `mapstructure:"table_prefix" yaml:"table_prefix"`
}

// DSN returns the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s",
			c.User, c.Password, c.Host, c.Port, c.Database,
			c.Charset, c.Loc,
		)
	default:
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
			c.Path, c.BusyTimeout.Milliseconds(),
		)
	}
}

// DefaultConfig returns the default configuration for the database
func DefaultConfig() *Config {
	return &Config{
		Driver:          DriverSQLite,
		BusyTimeout:     5 * time.Second,
		Port:            3306,
		Charset:         "utf8mb4",
		Loc:             "Local",
		MaxOpenConns:    10,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1800 * time.Second,
		ConnMaxIdleTime: 600 * time.Second,
		LogLevel:        "warn",
		SlowThreshold:   1 * time.Second,
	}
}

// Validate validates the configuration for the database
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return ErrInvalidConfig("path is required")
		}
		if c.BusyTimeout < 0 {
			return ErrInvalidConfig("busy_timeout must be >= 0")
		}
	case DriverMySQL:
		if c.Host == "" {
			return ErrInvalidConfig("host is required")
		}
		if c.Port <= 0 {
			return ErrInvalidConfig("port is required")
		}
		if c.User == "" {
			return ErrInvalidConfig("user is required")
		}
		if c.Database == "" {
			return ErrInvalidConfig("database is required")
		}
	default:
		return ErrInvalidConfig(fmt.Sprintf("driver %q must be one of: %s, %s", c.Driver, DriverSQLite, DriverMySQL))
	}

	validLogLevels := []string{"silent", "error", "warn", "info"}
	if !slices.ContainsFunc(validLogLevels, func(level string) bool {
		return strings.EqualFold(c.LogLevel, level)
	}) {
		return ErrInvalidConfig(fmt.Sprintf("log_level %q must be one of: %s", c.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	return nil
}

// MergeDefaults merges the default configuration with the given configuration
// It returns the merged configuration
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Driver == "" {
		c.Driver = defaults.Driver
	}
	if c.BusyTimeout == 0 {
		c.BusyTimeout = defaults.BusyTimeout
	}
	if c.Port == 0 {
		c.Port = defaults.Port
	}
	if c.Charset == "" {
		c.Charset = defaults.Charset
	}
	if c.Loc == "" {
		c.Loc = defaults.Loc
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = defaults.MaxOpenConns
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaults.MaxIdleConns
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = defaults.ConnMaxLifetime
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = defaults.ConnMaxIdleTime
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.SlowThreshold == 0 {
		c.SlowThreshold = defaults.SlowThreshold
	}
	return c
}
