package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/scanner"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s", e.Field, e.Message)
}

// Validator validates configuration.
type Validator struct {
	validLogLevels map[string]bool
	validThemes    map[string]bool
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		validLogLevels: map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		},
		validThemes: map[string]bool{
			"":              true,
			"dark":          true,
			"light":         true,
			"high-contrast": true,
		},
	}
}

// Validate validates the configuration and returns every error found.
func (v *Validator) Validate(cfg *Config) []error {
	var errs []error
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !v.validLogLevels[strings.ToLower(cfg.LogLevel)] {
		add("log_level", "invalid log level %q: must be one of: debug, info, warn, error", cfg.LogLevel)
	}
	if !v.validThemes[cfg.Theme] {
		add("theme", "unknown theme %q", cfg.Theme)
	}
	if cfg.Verbose && cfg.Quiet {
		add("verbose/quiet", "verbose and quiet cannot both be true")
	}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if dir != "" && dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				add("log_file", "directory does not exist: %s", dir)
			}
		}
	}

	if cfg.ConfigDir == "" {
		add("config_dir", "config directory cannot be empty")
	}
	if cfg.CacheDir == "" {
		add("cache_dir", "cache directory cannot be empty")
	}

	if strings.TrimSpace(cfg.AdbPath) == "" {
		add("adb_path", "adb path cannot be empty")
	}
	if cfg.CommandTimeout < 0 {
		add("command_timeout", "command timeout cannot be negative")
	}
	if cfg.GetStateTimeout <= 0 {
		add("get_state_timeout", "get-state timeout must be positive")
	}

	if cfg.ScanSubnet != "" {
		if _, err := scanner.Hosts(cfg.ScanSubnet); err != nil {
			add("scan_subnet", "invalid subnet %q", cfg.ScanSubnet)
		}
	}
	if cfg.ScanPort < 1 || cfg.ScanPort > 65535 {
		add("scan_port", "port %d out of range", cfg.ScanPort)
	}
	if cfg.ScanConnectTimeout <= 0 {
		add("scan_connect_timeout", "scan connect timeout must be positive")
	}
	if cfg.ScanConcurrency < 0 {
		add("scan_concurrency", "scan concurrency cannot be negative")
	}

	return errs
}

// ValidateOrError validates and returns a single combined error, or nil.
func (v *Validator) ValidateOrError(cfg *Config) error {
	errs := v.Validate(cfg)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}

	return errors.New(errors.Configuration, strings.Join(msgs, "; ")).
		WithOp("config.Validate")
}

// IsValid returns true if the configuration is valid.
func (v *Validator) IsValid(cfg *Config) bool {
	return len(v.Validate(cfg)) == 0
}

// ValidateField validates a single value before it is set.
func ValidateField(field, value string) error {
	v := NewValidator()

	switch field {
	case "log_level":
		if !v.validLogLevels[strings.ToLower(value)] {
			return &ValidationError{Field: field, Message: fmt.Sprintf("invalid log level %q", value)}
		}
	case "theme":
		if !v.validThemes[value] {
			return &ValidationError{Field: field, Message: fmt.Sprintf("unknown theme %q", value)}
		}
	case "scan_subnet":
		if _, err := scanner.Hosts(value); err != nil {
			return &ValidationError{Field: field, Message: fmt.Sprintf("invalid subnet %q", value)}
		}
	}

	return nil
}
