// Package config provides configuration management for adbkit. Configuration
// is loaded from a YAML file and ADBKIT_* environment variables on top of
// defaults, and follows the XDG Base Directory layout.
package config

import (
	"path/filepath"
	"time"
)

// Config represents the application configuration. Environment variables
// take precedence over the file.
type Config struct {
	// General settings
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	Verbose  bool   `yaml:"verbose"`
	Quiet    bool   `yaml:"quiet"`
	NoColor  bool   `yaml:"no_color"`
	Theme    string `yaml:"theme"`

	// Directories
	ConfigDir string `yaml:"config_dir"`
	CacheDir  string `yaml:"cache_dir"`

	// adb
	AdbPath         string        `yaml:"adb_path"`
	Serial          string        `yaml:"serial"`
	DebugCommands   bool          `yaml:"debug_commands"`
	CommandTimeout  time.Duration `yaml:"command_timeout"`
	GetStateTimeout time.Duration `yaml:"get_state_timeout"`

	// Network scan
	ScanSubnet         string        `yaml:"scan_subnet"`
	ScanPort           int           `yaml:"scan_port"`
	ScanConnectTimeout time.Duration `yaml:"scan_connect_timeout"`
	ScanConcurrency    int           `yaml:"scan_concurrency"`
}

// ConfigPath returns the path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ConfigDir, "config.yaml")
}

// CachePath returns a path within the cache directory.
func (c *Config) CachePath(name string) string {
	return filepath.Join(c.CacheDir, name)
}

// IsVerbose returns true if verbose output is enabled and quiet is not.
func (c *Config) IsVerbose() bool {
	return c.Verbose && !c.Quiet
}

// IsSilent returns true if quiet mode is enabled.
func (c *Config) IsSilent() bool {
	return c.Quiet
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
