package filestore

import "os"

// Config is the configuration for the file store
type Config struct {
	// Path is the file the snapshot is written to (required)
	Path string `mapstructure:"path" yaml:"path"`
	// FileMode is the permission of the snapshot file
	// default: 0o644
	FileMode os.FileMode `mapstructure:"file_mode" yaml:"file_mode"`
	// DirMode is the permission of directories created for Path
	// default: 0o755
	DirMode os.FileMode `mapstructure:"dir_mode" yaml:"dir_mode"`
}

// DefaultConfig returns the default configuration for the file store
// Note: Path has no default value and must be explicitly set
func DefaultConfig() *Config {
	return &Config{
		FileMode: 0o644,
		DirMode:  0o755,
	}
}

// MergeDefaults fills zero fields with default values and returns the config
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.FileMode == 0 {
		c.FileMode = defaults.FileMode
	}
	if c.DirMode == 0 {
		c.DirMode = defaults.DirMode
	}
	return c
}

// Validate validates the configuration for the file store
func (c *Config) Validate() error {
	if c.Path == "" {
		return ErrInvalidConfig("path is required")
	}
	return nil
}
