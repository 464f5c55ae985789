package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/tungetti/adbkit/internal/adb"
	"github.com/tungetti/adbkit/internal/config"
	"github.com/tungetti/adbkit/internal/constants"
	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/logging"
	"github.com/tungetti/adbkit/internal/proc"
)

// App represents the main application with its dependencies and lifecycle.
type App struct {
	container *Container
	lifecycle *Lifecycle
	opts      Options
}

// Options configures the application.
type Options struct {
	Version         string
	BuildTime       string
	GitCommit       string
	ConfigPath      string
	ShutdownTimeout time.Duration

	// Configure adjusts the loaded configuration before validation.
	// Command-line overrides are applied here.
	Configure func(cfg *config.Config)

	// LogOutput receives console logs. Defaults to stderr.
	LogOutput io.Writer

	// Runner executes processes. Defaults to real processes.
	Runner proc.Runner
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Version:         "unknown",
		BuildTime:       "unknown",
		GitCommit:       "unknown",
		ShutdownTimeout: 5 * time.Second,
	}
}

// New creates a new application with the given options.
func New(opts Options) *App {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	return &App{
		container: NewContainer(),
		lifecycle: NewLifecycle(opts.ShutdownTimeout),
		opts:      opts,
	}
}

// Initialize sets up all application components in the correct order.
// The initialization order is:
// 1. Configuration
// 2. Logger
// 3. Process runner
// The adb binary is resolved lazily by Adb.
func (a *App) Initialize(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.container.SetConfig(cfg)

	logger, err := a.initLogger(cfg)
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to initialize logger", err)
	}
	a.container.SetLogger(logger)

	logger.Debug("starting application",
		"version", a.opts.Version,
		"build_time", a.opts.BuildTime,
		"git_commit", a.opts.GitCommit,
	)

	runner := a.opts.Runner
	if runner == nil {
		runner = proc.NewExecRunner()
	}
	a.container.SetRunner(runner)

	adb.GetStateTimeout = cfg.GetStateTimeout

	if err := a.container.Validate(); err != nil {
		return err
	}

	logger.Debug("application initialized", "config", a.configPath())
	return nil
}

// Adb returns the adb handle, resolving the binary on first use.
//
// A configured path containing a separator must name an executable file.
// The bare name "adb" is looked up in PATH, as is any other bare name.
func (a *App) Adb() (*adb.Adb, error) {
	if h := a.container.GetAdb(); h != nil {
		return h, nil
	}

	cfg := a.container.GetConfig()
	if cfg == nil {
		return nil, errors.New(errors.Configuration, "application not initialized").WithOp("app.Adb")
	}

	opts := adb.Options{
		Runner:  a.container.GetRunner(),
		Logger:  a.container.GetLogger().WithPrefix("adb"),
		Debug:   cfg.DebugCommands,
		Timeout: cfg.CommandTimeout,
	}

	h, err := resolveAdb(cfg.AdbPath, opts)
	if err != nil {
		return nil, err
	}

	a.container.SetAdb(h)
	a.container.GetLogger().Debug("using adb", "path", h.Path())
	return h, nil
}

func resolveAdb(path string, opts adb.Options) (*adb.Adb, error) {
	switch {
	case path == "" || path == config.DefaultAdbPath:
		return adb.Locate(opts)
	case strings.ContainsRune(path, filepath.Separator):
		return adb.FromPath(path, opts)
	default:
		found, err := exec.LookPath(path)
		if err != nil {
			return nil, errors.Wrapf(errors.NotFound, err, "%s not found in PATH", path).WithOp("app.Adb")
		}
		return adb.FromPath(found, opts)
	}
}

// Run calls fn with a context that is cancelled on SIGINT or SIGTERM.
// Panics in fn are recovered and returned as errors.
func (a *App) Run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = a.handlePanic(r)
		}
	}()

	stop := a.lifecycle.WatchSignals()
	defer stop()

	ctx, cancel := a.lifecycle.Context(ctx)
	defer cancel()

	err = fn(ctx)

	if sig := a.lifecycle.Signal(); sig != nil {
		if logger := a.container.GetLogger(); logger != nil {
			logger.Debug("received signal", "signal", sig.String())
		}
	}
	return err
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	return a.lifecycle.Shutdown()
}

// Container returns the dependency container.
func (a *App) Container() *Container {
	return a.container
}

// Lifecycle returns the lifecycle manager.
func (a *App) Lifecycle() *Lifecycle {
	return a.lifecycle
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.container.GetConfig()
}

// Logger returns the application logger.
func (a *App) Logger() logging.Logger {
	return a.container.GetLogger()
}

// Version returns the application version.
func (a *App) Version() string {
	return a.opts.Version
}

// BuildTime returns the application build time.
func (a *App) BuildTime() string {
	return a.opts.BuildTime
}

// GitCommit returns the application git commit.
func (a *App) GitCommit() string {
	return a.opts.GitCommit
}

func (a *App) configPath() string {
	if a.opts.ConfigPath != "" {
		return a.opts.ConfigPath
	}
	return filepath.Join(config.GetConfigDir(), constants.ConfigFileName)
}

func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(a.configPath()).Load()
	if err != nil {
		return nil, errors.Wrap(errors.Configuration, "failed to load config", err)
	}
	if a.opts.Configure != nil {
		a.opts.Configure(cfg)
	}
	if err := config.NewValidator().ValidateOrError(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *App) initLogger(cfg *config.Config) (logging.Logger, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	switch {
	case cfg.IsVerbose():
		level = logging.LevelDebug
	case cfg.IsSilent():
		level = logging.LevelError
	}

	if cfg.LogFile != "" {
		logger, closer, err := logging.NewFileLogger(cfg.LogFile, level)
		if err != nil {
			return nil, err
		}
		a.lifecycle.OnShutdown(func(context.Context) error {
			return closer.Close()
		})
		return logger, nil
	}

	opts := logging.DefaultOptions()
	opts.Level = level
	opts.Output = a.opts.LogOutput
	opts.NoColor = cfg.NoColor
	return logging.New(opts), nil
}

// handlePanic handles a recovered panic and returns an error.
// It logs the panic with a stack trace if a logger is available.
func (a *App) handlePanic(r interface{}) error {
	stack := debug.Stack()
	logger := a.container.GetLogger()

	if logger != nil {
		logger.Error("panic recovered",
			"panic", fmt.Sprintf("%v", r),
			"stack", string(stack),
		)
	} else {
		fmt.Fprintf(os.Stderr, "PANIC: %v\n%s\n", r, stack)
	}

	return errors.Newf(errors.Unknown, "panic: %v", r)
}

// RecoverPanic is a helper function that can be deferred to recover from panics.
// It logs the panic with a stack trace.
func (a *App) RecoverPanic() {
	if r := recover(); r != nil {
		_ = a.handlePanic(r)
	}
}
