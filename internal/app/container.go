// Package app provides application initialization, lifecycle management,
// and dependency injection for adbkit.
package app

import (
	"sync"

	"github.com/tungetti/adbkit/internal/adb"
	"github.com/tungetti/adbkit/internal/config"
	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/logging"
	"github.com/tungetti/adbkit/internal/proc"
)

// Container holds all application dependencies.
// It provides thread-safe access to shared components and ensures
// proper initialization order during application startup.
type Container struct {
	mu     sync.RWMutex
	Config *config.Config
	Logger logging.Logger
	Runner proc.Runner
	Adb    *adb.Adb
}

// NewContainer creates a new dependency container.
func NewContainer() *Container {
	return &Container{}
}

// SetConfig sets the configuration.
func (c *Container) SetConfig(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Config = cfg
}

// SetLogger sets the logger.
func (c *Container) SetLogger(l logging.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Logger = l
}

// SetRunner sets the process runner.
func (c *Container) SetRunner(r proc.Runner) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Runner = r
}

// SetAdb sets the adb handle.
func (c *Container) SetAdb(a *adb.Adb) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Adb = a
}

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Config
}

// GetLogger returns the logger.
func (c *Container) GetLogger() logging.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logger
}

// GetRunner returns the process runner.
func (c *Container) GetRunner() proc.Runner {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Runner
}

// GetAdb returns the adb handle, or nil before it is resolved.
func (c *Container) GetAdb() *adb.Adb {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Adb
}

// Validate checks that all required dependencies are set.
// The adb handle is resolved on first use and is not required here.
func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Config == nil {
		return errors.New(errors.Configuration, "config not initialized")
	}
	if c.Logger == nil {
		return errors.New(errors.Configuration, "logger not initialized")
	}
	if c.Runner == nil {
		return errors.New(errors.Configuration, "runner not initialized")
	}
	return nil
}
