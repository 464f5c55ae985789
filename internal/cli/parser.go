package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/tungetti/adbkit/internal/constants"
)

// ParseResult holds the result of parsing command line arguments.
type ParseResult struct {
	Command     Command
	GlobalFlags GlobalFlags

	DevicesFlags   DevicesFlags
	ShellFlags     ShellFlags
	LogcatFlags    LogcatFlags
	ScreencapFlags ScreencapFlags
	ScanFlags      ScanFlags

	// Args contains the remaining positional arguments.
	Args []string

	// ShowHelp indicates that help should be displayed.
	ShowHelp bool

	// HelpCommand is the command to show help for ("help <command>").
	HelpCommand string
}

// Parser handles command line argument parsing.
type Parser struct {
	programName string
	version     string
	buildTime   string
	gitCommit   string
	output      io.Writer
}

// NewParser creates a new CLI parser with build information.
func NewParser(programName, version, buildTime, gitCommit string) *Parser {
	return &Parser{
		programName: programName,
		version:     version,
		buildTime:   buildTime,
		gitCommit:   gitCommit,
	}
}

// SetOutput sets the output writer for usage and help messages.
func (p *Parser) SetOutput(w io.Writer) {
	p.output = w
}

// Parse parses command line arguments, excluding the program name.
func (p *Parser) Parse(args []string) (*ParseResult, error) {
	result := &ParseResult{}

	if len(args) == 0 {
		result.ShowHelp = true
		return result, nil
	}

	globalFs := p.createGlobalFlagSet(&result.GlobalFlags)
	globalFs.SetOutput(io.Discard)

	if err := globalFs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			result.ShowHelp = true
			return result, nil
		}
		return nil, fmt.Errorf("invalid global flags: %w", err)
	}

	remaining := globalFs.Args()
	if len(remaining) == 0 {
		result.ShowHelp = true
		return result, nil
	}

	if err := result.GlobalFlags.Validate(); err != nil {
		return nil, err
	}

	cmdStr := remaining[0]
	result.Command = ParseCommand(cmdStr)
	if result.Command == CommandNone {
		return nil, fmt.Errorf("unknown command: %s", cmdStr)
	}

	if err := p.parseCommandFlags(result, remaining[1:]); err != nil {
		if err == flag.ErrHelp {
			result.ShowHelp = true
			result.HelpCommand = result.Command.String()
			return result, nil
		}
		return nil, err
	}

	return result, nil
}

func (p *Parser) createGlobalFlagSet(flags *GlobalFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("global", flag.ContinueOnError)

	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&flags.Verbose, "v", false, "Enable verbose output (shorthand)")

	fs.BoolVar(&flags.Quiet, "quiet", false, "Suppress non-essential output")
	fs.BoolVar(&flags.Quiet, "q", false, "Suppress non-essential output (shorthand)")

	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.StringVar(&flags.ConfigFile, "c", "", "Path to config file (shorthand)")

	fs.StringVar(&flags.LogFile, "log-file", "", "Path to log file")
	fs.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")

	fs.StringVar(&flags.Serial, "serial", "", "Target device")
	fs.StringVar(&flags.Serial, "s", "", "Target device (shorthand)")

	fs.StringVar(&flags.AdbPath, "adb", "", "Path to the adb executable")

	return fs
}

func (p *Parser) parseCommandFlags(result *ParseResult, args []string) error {
	switch result.Command {
	case CommandDevices:
		return p.parseDevicesFlags(result, args)
	case CommandShell:
		return p.parseShellFlags(result, args)
	case CommandLogcat:
		return p.parseLogcatFlags(result, args)
	case CommandScreencap:
		return p.parseScreencapFlags(result, args)
	case CommandConnect:
		return p.parsePositional(result, args, 1, 1)
	case CommandDisconnect:
		return p.parsePositional(result, args, 0, 1)
	case CommandScan:
		return p.parseScanFlags(result, args)
	case CommandHelp:
		return p.parseHelpFlags(result, args)
	case CommandVersion:
		result.Args = args
		return nil
	}
	return nil
}

func newCommandFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (p *Parser) parseDevicesFlags(result *ParseResult, args []string) error {
	fs := newCommandFlagSet("devices")
	fs.BoolVar(&result.DevicesFlags.Long, "long", false, "Show device details")
	fs.BoolVar(&result.DevicesFlags.Long, "l", false, "Show device details (shorthand)")

	if err := fs.Parse(args); err != nil {
		return wrapFlagErr("devices", err)
	}
	result.Args = fs.Args()
	return nil
}

func (p *Parser) parseShellFlags(result *ParseResult, args []string) error {
	fs := newCommandFlagSet("shell")
	fs.DurationVar(&result.ShellFlags.Timeout, "timeout", 0, "Kill the command after this duration")
	fs.DurationVar(&result.ShellFlags.Timeout, "t", 0, "Kill the command after this duration (shorthand)")

	if err := fs.Parse(args); err != nil {
		return wrapFlagErr("shell", err)
	}
	result.Args = fs.Args()
	if len(result.Args) == 0 {
		return fmt.Errorf("shell: a command is required")
	}
	return nil
}

func (p *Parser) parseLogcatFlags(result *ParseResult, args []string) error {
	f := &result.LogcatFlags
	fs := newCommandFlagSet("logcat")
	fs.BoolVar(&f.Dump, "dump", false, "Dump the log and exit")
	fs.BoolVar(&f.Dump, "d", false, "Dump the log and exit (shorthand)")
	fs.StringVar(&f.Buffers, "buffer", "", "Comma separated buffers")
	fs.StringVar(&f.Buffers, "b", "", "Comma separated buffers (shorthand)")
	fs.StringVar(&f.Format, "format", "", "Output format")
	fs.StringVar(&f.Format, "f", "", "Output format (shorthand)")
	fs.StringVar(&f.Regex, "regex", "", "Only print matching lines")
	fs.StringVar(&f.Regex, "e", "", "Only print matching lines (shorthand)")
	fs.IntVar(&f.Pid, "pid", 0, "Only print lines from this pid")
	fs.DurationVar(&f.Timeout, "timeout", 0, "Stop after this duration")
	fs.DurationVar(&f.Timeout, "t", 0, "Stop after this duration (shorthand)")
	fs.BoolVar(&f.Clear, "clear", false, "Clear all buffers and exit")

	if err := fs.Parse(args); err != nil {
		return wrapFlagErr("logcat", err)
	}
	if f.Pid < 0 {
		return &FlagError{Flag: "pid", Message: "must not be negative"}
	}
	result.Args = fs.Args()
	return nil
}

func (p *Parser) parseScreencapFlags(result *ParseResult, args []string) error {
	fs := newCommandFlagSet("screencap")
	fs.StringVar(&result.ScreencapFlags.Output, "output", "", "Destination file")
	fs.StringVar(&result.ScreencapFlags.Output, "o", "", "Destination file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return wrapFlagErr("screencap", err)
	}
	result.Args = fs.Args()
	return nil
}

func (p *Parser) parseScanFlags(result *ParseResult, args []string) error {
	f := &result.ScanFlags
	fs := newCommandFlagSet("scan")
	fs.IntVar(&f.Port, "port", 0, "Port to probe")
	fs.IntVar(&f.Port, "p", 0, "Port to probe (shorthand)")
	fs.DurationVar(&f.Timeout, "timeout", 0, "Per host connect timeout")
	fs.IntVar(&f.Concurrency, "concurrency", 0, "Simultaneous probes")
	fs.IntVar(&f.Concurrency, "j", 0, "Simultaneous probes (shorthand)")
	fs.BoolVar(&f.Inspect, "inspect", false, "Read device properties with adb")
	fs.BoolVar(&f.Inspect, "i", false, "Read device properties with adb (shorthand)")
	fs.BoolVar(&f.Plain, "plain", false, "Print plain result lines")

	if err := fs.Parse(args); err != nil {
		return wrapFlagErr("scan", err)
	}
	if f.Port < 0 || f.Port > 65535 {
		return &FlagError{Flag: "port", Message: fmt.Sprintf("%d out of range", f.Port)}
	}
	if f.Concurrency < 0 {
		return &FlagError{Flag: "concurrency", Message: "must not be negative"}
	}
	result.Args = fs.Args()
	if len(result.Args) > 1 {
		return fmt.Errorf("scan: expected at most one subnet, got %d", len(result.Args))
	}
	return nil
}

func (p *Parser) parsePositional(result *ParseResult, args []string, lo, hi int) error {
	name := result.Command.String()
	fs := newCommandFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return wrapFlagErr(name, err)
	}
	result.Args = fs.Args()
	if n := len(result.Args); n < lo || n > hi {
		if lo == hi {
			return fmt.Errorf("%s: expected %d argument(s), got %d", name, lo, n)
		}
		return fmt.Errorf("%s: expected at most %d argument(s), got %d", name, hi, n)
	}
	return nil
}

func (p *Parser) parseHelpFlags(result *ParseResult, args []string) error {
	result.ShowHelp = true
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		result.HelpCommand = args[0]
	}
	return nil
}

func wrapFlagErr(cmd string, err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return fmt.Errorf("invalid %s flags: %w", cmd, err)
}

// Usage returns the main usage string.
func (p *Parser) Usage() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - %s\n\n", p.programName, constants.AppDescription)
	b.WriteString("Usage:\n")
	fmt.Fprintf(&b, "  %s [global flags] <command> [command flags]\n\n", p.programName)

	b.WriteString("Commands:\n")
	for _, cmd := range Commands() {
		fmt.Fprintf(&b, "  %-12s %s\n", cmd.Name, cmd.Description)
	}

	b.WriteString("\nGlobal Flags:\n")
	b.WriteString("  -s, --serial      Target device (serial, host:port, transport_id:N, usb)\n")
	b.WriteString("      --adb         Path to the adb executable\n")
	b.WriteString("  -v, --verbose     Enable verbose output\n")
	b.WriteString("  -q, --quiet       Suppress non-essential output\n")
	b.WriteString("  -c, --config      Path to config file\n")
	b.WriteString("      --log-file    Path to log file\n")
	b.WriteString("      --log-level   Log level (debug, info, warn, error)\n")
	b.WriteString("      --no-color    Disable colored output\n")

	fmt.Fprintf(&b, "\nUse \"%s help <command>\" for more information about a command.\n", p.programName)

	return b.String()
}

// CommandUsage returns the usage string for a specific command.
func (p *Parser) CommandUsage(cmd string) string {
	parsedCmd := ParseCommand(cmd)
	if parsedCmd == CommandNone {
		return fmt.Sprintf("Unknown command: %s\n\nRun '%s help' for usage.\n", cmd, p.programName)
	}

	info := GetCommandInfo(parsedCmd)
	if info == nil {
		return fmt.Sprintf("No help available for: %s\n", cmd)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", info.Description)
	fmt.Fprintf(&b, "Usage:\n  %s\n\n", info.Usage)
	if info.LongDescription != "" {
		b.WriteString(info.LongDescription)
		b.WriteString("\n")
	}

	return b.String()
}

// VersionString returns formatted version information.
func (p *Parser) VersionString() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s version %s\n", p.programName, p.version)

	if p.buildTime != "" && p.buildTime != "unknown" {
		fmt.Fprintf(&b, "Build time: %s\n", p.buildTime)
	}

	if p.gitCommit != "" && p.gitCommit != "unknown" {
		commit := p.gitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		fmt.Fprintf(&b, "Git commit: %s\n", commit)
	}

	return b.String()
}

// VersionInfo returns version components for structured output.
func (p *Parser) VersionInfo() map[string]string {
	return map[string]string{
		"version":   p.version,
		"buildTime": p.buildTime,
		"gitCommit": p.gitCommit,
	}
}
