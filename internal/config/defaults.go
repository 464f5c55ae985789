package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// AppName is the application name used for directory paths.
	AppName = "adbkit"

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultAdbPath is looked up in PATH when no absolute path is configured.
	DefaultAdbPath = "adb"

	// DefaultCommandTimeout bounds adb invocations that have no timeout of
	// their own. Zero disables it.
	DefaultCommandTimeout = 0

	// DefaultGetStateTimeout bounds the "get-state" connectivity probe.
	DefaultGetStateTimeout = 200 * time.Millisecond

	// DefaultScanPort is the port adbd listens on in TCP mode.
	DefaultScanPort = 5555

	// DefaultScanConnectTimeout bounds each TCP probe of a scan.
	DefaultScanConnectTimeout = 400 * time.Millisecond
)

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:           DefaultLogLevel,
		ConfigDir:          defaultConfigDir(),
		CacheDir:           defaultCacheDir(),
		AdbPath:            DefaultAdbPath,
		DebugCommands:      true,
		CommandTimeout:     DefaultCommandTimeout,
		GetStateTimeout:    DefaultGetStateTimeout,
		ScanPort:           DefaultScanPort,
		ScanConnectTimeout: DefaultScanConnectTimeout,
	}
}

// defaultConfigDir returns the XDG config directory, falling back to
// ~/.config/adbkit.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

// defaultCacheDir returns the XDG cache directory, falling back to
// ~/.cache/adbkit.
func defaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".cache", AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}

// GetConfigDir returns the configuration directory, respecting XDG.
func GetConfigDir() string {
	return defaultConfigDir()
}

// GetCacheDir returns the cache directory, respecting XDG.
func GetCacheDir() string {
	return defaultCacheDir()
}
