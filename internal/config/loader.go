package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tungetti/adbkit/internal/errors"
)

const (
	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "ADBKIT_"
)

// Loader loads configuration from defaults, then the file, then the
// environment, with later sources overriding earlier ones.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a new configuration loader. If configPath is empty, only
// defaults and environment variables are used.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  EnvPrefix,
	}
}

// NewLoaderWithPrefix creates a loader with a custom environment prefix.
func NewLoaderWithPrefix(configPath, envPrefix string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  envPrefix,
	}
}

// Load loads configuration from file and environment. A missing file is not
// an error; an unreadable or malformed one is.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, err
		}
	}

	l.loadFromEnv(cfg)

	return cfg, nil
}

// LoadAndValidate loads configuration and validates it.
func (l *Loader) LoadAndValidate() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	if err := NewValidator().ValidateOrError(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.Configuration, "failed to read config file", err).
			WithOp("config.loadFromFile")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(errors.Configuration, "failed to parse config file", err).
			WithOp("config.loadFromFile")
	}

	return nil
}

// loadFromEnv applies environment overrides. Malformed values are ignored.
func (l *Loader) loadFromEnv(cfg *Config) {
	l.envString("LOG_LEVEL", &cfg.LogLevel)
	l.envString("LOG_FILE", &cfg.LogFile)
	l.envBool("VERBOSE", &cfg.Verbose)
	l.envBool("QUIET", &cfg.Quiet)
	l.envBool("NO_COLOR", &cfg.NoColor)
	l.envString("THEME", &cfg.Theme)

	l.envString("CONFIG_DIR", &cfg.ConfigDir)
	l.envString("CACHE_DIR", &cfg.CacheDir)

	l.envString("ADB_PATH", &cfg.AdbPath)
	l.envString("SERIAL", &cfg.Serial)
	l.envBool("DEBUG_COMMANDS", &cfg.DebugCommands)
	l.envDuration("COMMAND_TIMEOUT", &cfg.CommandTimeout)
	l.envDuration("GET_STATE_TIMEOUT", &cfg.GetStateTimeout)

	l.envString("SCAN_SUBNET", &cfg.ScanSubnet)
	l.envInt("SCAN_PORT", &cfg.ScanPort)
	l.envDuration("SCAN_CONNECT_TIMEOUT", &cfg.ScanConnectTimeout)
	l.envInt("SCAN_CONCURRENCY", &cfg.ScanConcurrency)
}

func (l *Loader) envString(name string, dst *string) {
	if v := os.Getenv(l.envPrefix + name); v != "" {
		*dst = v
	}
}

func (l *Loader) envBool(name string, dst *bool) {
	if v := os.Getenv(l.envPrefix + name); v != "" {
		*dst = parseBool(v)
	}
}

func (l *Loader) envInt(name string, dst *int) {
	if v := os.Getenv(l.envPrefix + name); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func (l *Loader) envDuration(name string, dst *time.Duration) {
	if v := os.Getenv(l.envPrefix + name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// parseBool accepts true, 1, yes and on (case-insensitive) as true.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// SaveConfig writes the configuration as YAML to path, or to the default
// location when path is empty. The directory is created if needed.
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = cfg.ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.Configuration, "failed to create config directory", err).
			WithOp("config.SaveConfig")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to marshal config", err).
			WithOp("config.SaveConfig")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.Configuration, "failed to write config file", err).
			WithOp("config.SaveConfig")
	}

	return nil
}

// LoadDefaultConfig loads config.yaml from the XDG config directory.
func LoadDefaultConfig() (*Config, error) {
	return NewLoader(DefaultConfig().ConfigPath()).Load()
}

// LoadDefaultConfigAndValidate loads and validates the default config file.
func LoadDefaultConfigAndValidate() (*Config, error) {
	return NewLoader(DefaultConfig().ConfigPath()).LoadAndValidate()
}
