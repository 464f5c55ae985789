// Package adb drives the Android Debug Bridge command-line tool. Every
// operation builds an argument vector, runs it through a proc.Runner and
// parses the textual reply.
package adb

import (
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/logging"
	"github.com/tungetti/adbkit/internal/proc"
)

// Options configures an Adb handle.
type Options struct {
	Runner proc.Runner    // Executes commands; defaults to real processes
	Logger logging.Logger // Receives command traces; defaults to a no-op logger
	Debug  bool           // Trace every command line at debug level

	// Timeout applies to commands that set no timeout of their own. Zero
	// leaves them unbounded.
	Timeout time.Duration
}

// Adb is a handle to the adb binary. It is safe for concurrent use.
type Adb struct {
	path    string
	runner  proc.Runner
	logger  logging.Logger
	debug   bool
	timeout time.Duration
}

// New creates a handle for the adb binary at path without checking it.
func New(path string, opts Options) *Adb {
	if opts.Runner == nil {
		opts.Runner = proc.NewExecRunner()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Adb{
		path:    path,
		runner:  opts.Runner,
		logger:  opts.Logger,
		debug:   opts.Debug,
		timeout: opts.Timeout,
	}
}

// Locate finds adb in PATH.
func Locate(opts Options) (*Adb, error) {
	path, err := exec.LookPath("adb")
	if err != nil {
		return nil, errors.Wrap(errors.NotFound, "adb binary not found in PATH", err).WithOp("adb.Locate")
	}
	return New(path, opts), nil
}

// FromPath creates a handle for an explicit adb path, checking that it is an
// executable file.
func FromPath(path string, opts Options) (*Adb, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(errors.NotFound, err, "adb binary not found at %s", path).WithOp("adb.FromPath")
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		return nil, errors.Newf(errors.Validation, "%s is not an executable file", path).WithOp("adb.FromPath")
	}
	return New(path, opts), nil
}

// Path returns the path of the adb binary.
func (a *Adb) Path() string {
	return a.path
}

// Logger returns the logger commands trace to.
func (a *Adb) Logger() logging.Logger {
	return a.logger
}

// Command builds an adb command with the given arguments.
func (a *Adb) Command(args ...string) *proc.Command {
	return proc.New(a.path).
		Args(args...).
		WithTimeout(a.timeout).
		WithDebug(a.debug).
		WithLogger(a.logger)
}

// Client returns a client bound to addr.
func (a *Adb) Client(addr Address) *Client {
	return &Client{adb: a, addr: addr}
}

// run executes cmd and folds a Failed outcome into the returned error.
func (a *Adb) run(cmd *proc.Command) (*proc.Outcome, error) {
	o, err := a.runner.Output(cmd)
	if err != nil {
		return nil, err
	}
	if err := o.Err(); err != nil {
		return o, err
	}
	return o, nil
}

// Devices lists the devices known to the adb server.
func (a *Adb) Devices() ([]Device, error) {
	o, err := a.run(a.Command("devices", "-l"))
	if err != nil {
		return nil, err
	}
	return parseDevices(o.StdoutString())
}

var versionRe = regexp.MustCompile(`^Version\s+([\d.+-]+)`)

// Version returns the adb tool version, e.g. "34.0.5-10900879".
func (a *Adb) Version() (string, error) {
	o, err := a.run(a.Command("--version"))
	if err != nil {
		return "", err
	}
	for _, line := range o.StdoutLines() {
		if m := versionRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1], nil
		}
	}
	return "", errors.New(errors.Parse, "no version in adb output").WithOp("adb.Version")
}

// KillServer stops the adb server if it is running.
func (a *Adb) KillServer() error {
	_, err := a.run(a.Command("kill-server"))
	return err
}

// StartServer ensures an adb server is running.
func (a *Adb) StartServer() error {
	_, err := a.run(a.Command("start-server"))
	return err
}

// DisconnectAll disconnects every network device.
func (a *Adb) DisconnectAll() error {
	_, err := a.run(a.Command("disconnect"))
	return err
}

// MdnsAvailable reports whether the adb server can discover devices via mDNS.
func (a *Adb) MdnsAvailable() bool {
	o, err := a.runner.Output(a.Command("mdns", "check"))
	return err == nil && o.Success()
}
