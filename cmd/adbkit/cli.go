package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tungetti/adbkit/internal/app"
	"github.com/tungetti/adbkit/internal/cli"
	"github.com/tungetti/adbkit/internal/config"
	"github.com/tungetti/adbkit/internal/constants"
	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/proc"
	"github.com/tungetti/adbkit/internal/scanner"
)

// CLI encapsulates the command-line interface for adbkit.
type CLI struct {
	parser *cli.Parser
	app    *app.App
	stdout io.Writer
	stderr io.Writer

	// runner and dial replace real processes and sockets when set.
	runner proc.Runner
	dial   scanner.DialFunc
	// interactive reports whether stdout is a terminal.
	interactive func() bool
}

// NewCLI creates a new CLI instance writing to the process streams.
func NewCLI() *CLI {
	c := &CLI{
		parser:      cli.NewParser(constants.AppName, Version, BuildTime, GitCommit),
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: stdoutIsTerminal,
	}
	c.parser.SetOutput(c.stderr)
	return c
}

// Run parses arguments and executes the appropriate command.
// It returns an exit code suitable for os.Exit().
func (c *CLI) Run(args []string) int {
	result, err := c.parser.Parse(args)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		fmt.Fprintf(c.stderr, "Run '%s help' for usage.\n", constants.AppName)
		return constants.ExitUsage.Int()
	}

	if result.ShowHelp {
		return c.showHelp(result)
	}

	c.app = app.New(app.Options{
		Version:         Version,
		BuildTime:       BuildTime,
		GitCommit:       GitCommit,
		ConfigPath:      result.GlobalFlags.ConfigFile,
		ShutdownTimeout: app.DefaultOptions().ShutdownTimeout,
		Configure:       func(cfg *config.Config) { applyGlobalFlags(cfg, result.GlobalFlags) },
		LogOutput:       c.stderr,
		Runner:          c.runner,
	})

	if err := c.app.Initialize(context.Background()); err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitCode(err).Int()
	}
	defer func() {
		if err := c.app.Shutdown(); err != nil {
			c.app.Logger().Warn("shutdown failed", "error", err)
		}
	}()

	err = c.app.Run(context.Background(), func(ctx context.Context) error {
		return c.executeCommand(ctx, result)
	})
	return c.report(err)
}

// applyGlobalFlags applies CLI global flags to the configuration.
// CLI flags take precedence over config file values.
func applyGlobalFlags(cfg *config.Config, flags cli.GlobalFlags) {
	if flags.Verbose {
		cfg.Verbose = true
	}
	if flags.Quiet {
		cfg.Quiet = true
	}
	if flags.NoColor {
		cfg.NoColor = true
	}
	if flags.LogFile != "" {
		cfg.LogFile = flags.LogFile
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	if flags.Serial != "" {
		cfg.Serial = flags.Serial
	}
	if flags.AdbPath != "" {
		cfg.AdbPath = flags.AdbPath
	}
}

// showHelp displays help information and returns an exit code.
func (c *CLI) showHelp(result *cli.ParseResult) int {
	if result.HelpCommand != "" {
		fmt.Fprint(c.stdout, c.parser.CommandUsage(result.HelpCommand))
	} else {
		fmt.Fprint(c.stdout, c.parser.Usage())
	}
	return constants.ExitSuccess.Int()
}

// executeCommand runs the appropriate command handler.
func (c *CLI) executeCommand(ctx context.Context, result *cli.ParseResult) error {
	switch result.Command {
	case cli.CommandDevices:
		return c.cmdDevices(result.DevicesFlags)
	case cli.CommandShell:
		return c.cmdShell(result.ShellFlags, result.Args)
	case cli.CommandLogcat:
		return c.cmdLogcat(result.LogcatFlags, result.Args)
	case cli.CommandScreencap:
		return c.cmdScreencap(result.ScreencapFlags)
	case cli.CommandConnect:
		return c.cmdConnect(result.Args[0])
	case cli.CommandDisconnect:
		return c.cmdDisconnect(result.Args)
	case cli.CommandScan:
		return c.cmdScan(ctx, result.ScanFlags, result.Args)
	case cli.CommandVersion:
		return c.cmdVersion()
	default:
		fmt.Fprint(c.stdout, c.parser.Usage())
		return nil
	}
}

// report prints err unless it only carries a remote exit status, and maps it
// to an exit code.
func (c *CLI) report(err error) int {
	if err == nil {
		return constants.ExitSuccess.Int()
	}
	var status *exitStatusError
	if errors.As(err, &status) {
		return status.code
	}
	code := exitCode(err)
	if code != constants.ExitUserAbort {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
	}
	return code.Int()
}

// exitStatusError carries the exit status of a remote command.
type exitStatusError struct {
	code int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("remote command exited with status %d", e.code)
}

// exitCode maps an error to the process exit code.
func exitCode(err error) constants.ExitCode {
	switch errors.GetCode(err) {
	case errors.Cancelled:
		return constants.ExitUserAbort
	case errors.Timeout:
		return constants.ExitTimeout
	case errors.NotFound:
		return constants.ExitNotFound
	case errors.Connection:
		return constants.ExitDevice
	case errors.Validation, errors.Configuration:
		return constants.ExitUsage
	}
	if errors.Is(err, context.Canceled) {
		return constants.ExitUserAbort
	}
	return constants.ExitError
}
