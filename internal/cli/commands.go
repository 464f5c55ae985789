package cli

// Command represents a CLI command type.
type Command int

const (
	// CommandNone represents no command or an unrecognized command.
	CommandNone Command = iota

	// CommandDevices lists attached devices.
	CommandDevices

	// CommandShell runs a shell command on a device.
	CommandShell

	// CommandLogcat reads the device log.
	CommandLogcat

	// CommandScreencap saves a screenshot of a device.
	CommandScreencap

	// CommandConnect connects a network device.
	CommandConnect

	// CommandDisconnect disconnects network devices.
	CommandDisconnect

	// CommandScan probes a subnet for network devices.
	CommandScan

	// CommandVersion displays build and adb version information.
	CommandVersion

	// CommandHelp shows usage information.
	CommandHelp
)

var commandNames = map[Command]string{
	CommandDevices:    "devices",
	CommandShell:      "shell",
	CommandLogcat:     "logcat",
	CommandScreencap:  "screencap",
	CommandConnect:    "connect",
	CommandDisconnect: "disconnect",
	CommandScan:       "scan",
	CommandVersion:    "version",
	CommandHelp:       "help",
}

// String returns the command name as a string.
func (c Command) String() string {
	return commandNames[c]
}

// IsValid returns true if the command is a recognized command.
func (c Command) IsValid() bool {
	return c > CommandNone && c <= CommandHelp
}

// CommandInfo holds metadata about a command.
type CommandInfo struct {
	Name            string
	Aliases         []string
	Description     string
	Usage           string
	LongDescription string
}

// Commands returns all available commands with their metadata.
func Commands() []CommandInfo {
	return []CommandInfo{
		{
			Name:        "devices",
			Aliases:     []string{"ls"},
			Description: "List attached devices",
			Usage:       "adbkit devices [flags]",
			LongDescription: `List the devices known to the adb server.

Flags:
  -l, --long    Show product, model and transport details

Examples:
  adbkit devices
  adbkit devices -l`,
		},
		{
			Name:        "shell",
			Aliases:     []string{"sh"},
			Description: "Run a shell command on a device",
			Usage:       "adbkit [-s serial] shell [flags] <command> [args...]",
			LongDescription: `Run a command through "adb shell" and print its output.

The command is killed when the timeout expires or on Ctrl-C. The exit code
of the remote command becomes the exit code of adbkit.

Flags:
  -t, --timeout DURATION   Kill the command after DURATION (e.g. 10s)

Examples:
  adbkit -s 192.168.1.42:5555 shell getprop ro.product.model
  adbkit shell -t 5s dumpsys battery`,
		},
		{
			Name:        "logcat",
			Aliases:     []string{"log"},
			Description: "Print the device log",
			Usage:       "adbkit [-s serial] logcat [flags] [tag:priority...]",
			LongDescription: `Print the device log through "adb logcat".

Without -d the log is followed until Ctrl-C or the timeout.

Flags:
  -d, --dump               Dump the log and exit
  -b, --buffer NAMES       Comma separated buffers (main, system, crash, ...)
  -f, --format FORMAT      Output format (brief, threadtime, time, ...)
  -e, --regex EXPR         Only print lines matching EXPR
      --pid PID            Only print lines from PID
  -t, --timeout DURATION   Stop after DURATION
      --clear              Clear all buffers and exit

Examples:
  adbkit logcat -d
  adbkit logcat -b crash -t 30s
  adbkit logcat ActivityManager:I *:S`,
		},
		{
			Name:        "screencap",
			Aliases:     []string{"sc"},
			Description: "Save a screenshot of a device",
			Usage:       "adbkit [-s serial] screencap [flags]",
			LongDescription: `Capture the screen as PNG through "adb exec-out screencap -p".

Flags:
  -o, --output FILE   Destination file (default screencap-<time>.png)

Examples:
  adbkit screencap
  adbkit -s emulator-5554 screencap -o home.png`,
		},
		{
			Name:        "connect",
			Aliases:     []string{"c"},
			Description: "Connect a network device",
			Usage:       "adbkit connect <host:port>",
			LongDescription: `Connect to a device listening for adb over TCP.

Examples:
  adbkit connect 192.168.1.42:5555`,
		},
		{
			Name:        "disconnect",
			Aliases:     []string{"dc"},
			Description: "Disconnect network devices",
			Usage:       "adbkit disconnect [host:port]",
			LongDescription: `Disconnect one network device, or all of them when no address is given.

Examples:
  adbkit disconnect 192.168.1.42:5555
  adbkit disconnect`,
		},
		{
			Name:        "scan",
			Aliases:     []string{"s"},
			Description: "Scan a subnet for network devices",
			Usage:       "adbkit scan [flags] [subnet]",
			LongDescription: `Probe every host of a subnet for an open adb port.

The subnet is either a three octet prefix such as 192.168.1 or CIDR
notation. Reachable hosts can be inspected with adb to show their model.

Flags:
  -p, --port PORT            Port to probe (default 5555)
      --timeout DURATION     Per host connect timeout (default 400ms)
  -j, --concurrency N        Simultaneous probes (default 2x CPUs)
  -i, --inspect              Connect with adb and read device properties
      --plain                Print results as lines instead of the live view

Examples:
  adbkit scan 192.168.1
  adbkit scan -i 10.0.0.0/24`,
		},
		{
			Name:        "version",
			Aliases:     []string{"v"},
			Description: "Show version information",
			Usage:       "adbkit version",
			LongDescription: `Display the adbkit version, build time and git commit, followed by
the version of the adb executable when it can be found.`,
		},
		{
			Name:        "help",
			Aliases:     []string{"h"},
			Description: "Show help for a command",
			Usage:       "adbkit help [command]",
			LongDescription: `Display help information.

Examples:
  adbkit help
  adbkit help logcat`,
		},
	}
}

// GetCommandInfo returns the CommandInfo for a given command, or nil.
func GetCommandInfo(cmd Command) *CommandInfo {
	if !cmd.IsValid() {
		return nil
	}

	cmds := Commands()
	for i := range cmds {
		if cmds[i].Name == cmd.String() {
			return &cmds[i]
		}
	}
	return nil
}

// ParseCommand parses a command name or alias.
func ParseCommand(s string) Command {
	for _, info := range Commands() {
		if s == info.Name {
			return commandFromName(info.Name)
		}
		for _, alias := range info.Aliases {
			if s == alias {
				return commandFromName(info.Name)
			}
		}
	}
	return CommandNone
}

func commandFromName(name string) Command {
	for c, n := range commandNames {
		if n == name {
			return c
		}
	}
	return CommandNone
}
