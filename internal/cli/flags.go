// Package cli provides command-line argument parsing for adbkit. It supports
// subcommands, global flags and command-specific flags with both short and
// long variants.
package cli

import "time"

// GlobalFlags holds flags common to all commands. They are given before the
// command name.
type GlobalFlags struct {
	Verbose    bool
	Quiet      bool
	ConfigFile string
	LogFile    string
	LogLevel   string
	NoColor    bool

	// Serial selects the target device: a serial, host:port,
	// "transport_id:N" or "usb".
	Serial string

	// AdbPath overrides the adb executable.
	AdbPath string
}

// DevicesFlags holds devices command flags.
type DevicesFlags struct {
	Long bool
}

// ShellFlags holds shell command flags.
type ShellFlags struct {
	Timeout time.Duration
}

// LogcatFlags holds logcat command flags.
type LogcatFlags struct {
	Dump    bool
	Buffers string
	Format  string
	Regex   string
	Pid     int
	Timeout time.Duration
	Clear   bool
}

// ScreencapFlags holds screencap command flags.
type ScreencapFlags struct {
	Output string
}

// ScanFlags holds scan command flags.
type ScanFlags struct {
	Port        int
	Timeout     time.Duration
	Concurrency int
	Inspect     bool
	Plain       bool
}

// Validate checks GlobalFlags for conflicting options.
func (f *GlobalFlags) Validate() error {
	if f.Verbose && f.Quiet {
		return &FlagError{
			Flag:    "verbose/quiet",
			Message: "cannot use --verbose and --quiet together",
		}
	}
	return nil
}

// FlagError represents an error with a command-line flag.
type FlagError struct {
	Flag    string
	Message string
}

// Error implements the error interface.
func (e *FlagError) Error() string {
	return "flag error: " + e.Flag + ": " + e.Message
}
