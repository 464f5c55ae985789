// Package constants defines application-wide constants for adbkit.
package constants

import "time"

// Application metadata
const (
	// AppName is the application name used in logs, configs and user messages.
	AppName string = "adbkit"
	// AppDescription is a short description of the application.
	AppDescription string = "Android Debug Bridge toolkit"
)

// ExitCode represents process exit codes for different termination scenarios.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = iota
	// ExitError indicates a general error occurred.
	ExitError
	// ExitUsage indicates invalid arguments or configuration.
	ExitUsage
	// ExitNotFound indicates the adb executable could not be found.
	ExitNotFound
	// ExitDevice indicates the device could not be reached.
	ExitDevice
	// ExitTimeout indicates the command ran out of time.
	ExitTimeout
	// ExitUserAbort indicates the user interrupted the command.
	ExitUserAbort ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit().
func (e ExitCode) Int() int {
	return int(e)
}

// Timeouts
const (
	// LogcatDumpTimeout bounds "logcat -d" style invocations.
	LogcatDumpTimeout time.Duration = 30 * time.Second
	// ScreencapTimeout bounds a screenshot capture.
	ScreencapTimeout time.Duration = 20 * time.Second
	// ConnectTimeout bounds "adb connect" for network devices.
	ConnectTimeout time.Duration = 5 * time.Second
)

// File names
const (
	// DefaultLogFile is the default log file name.
	DefaultLogFile string = "adbkit.log"
	// ConfigFileName is the configuration file name.
	ConfigFileName string = "config.yaml"
	// ScreencapLayout formats the default screenshot file name.
	ScreencapLayout string = "screencap-20060102-150405.png"
)

// Device paths
const (
	// SysClassNet is the sysfs directory of network interfaces.
	SysClassNet string = "/sys/class/net"
	// BootIDPath holds the random id the kernel generates at boot.
	BootIDPath string = "/proc/sys/kernel/random/boot_id"
	// DeviceTmpDir is the world-writable scratch directory on devices.
	DeviceTmpDir string = "/data/local/tmp"
)
