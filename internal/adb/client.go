package adb

import (
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tungetti/adbkit/internal/constants"
	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/proc"
)

var (
	// GetStateTimeout bounds the "get-state" probe used by IsConnected.
	GetStateTimeout = 200 * time.Millisecond

	// RootSettleDelay is how long Root waits for adbd to restart as root.
	RootSettleDelay = time.Second
)

// RebootMode selects what a device reboots into.
type RebootMode string

const (
	RebootSystem             RebootMode = ""
	RebootBootloader         RebootMode = "bootloader"
	RebootRecovery           RebootMode = "recovery"
	RebootSideload           RebootMode = "sideload"
	RebootSideloadAutoReboot RebootMode = "sideload-auto-reboot"
)

// ReconnectMode selects which side of a connection "adb reconnect" kicks.
type ReconnectMode string

const (
	ReconnectHost    ReconnectMode = ""
	ReconnectDevice  ReconnectMode = "device"
	ReconnectOffline ReconnectMode = "offline"
)

// Wakefulness is the power state reported by "dumpsys power".
type Wakefulness string

const (
	Awake    Wakefulness = "Awake"
	Asleep   Wakefulness = "Asleep"
	Dreaming Wakefulness = "Dreaming"
	Dozing   Wakefulness = "Dozing"
)

func parseWakefulness(s string) (Wakefulness, error) {
	for _, w := range []Wakefulness{Awake, Asleep, Dreaming, Dozing} {
		if strings.EqualFold(s, string(w)) {
			return w, nil
		}
	}
	return "", errors.Newf(errors.Parse, "unknown wakefulness %q", s).WithOp("adb.Wakefulness")
}

// InstallOptions maps to "adb install" flags.
type InstallOptions struct {
	Replace        bool // -r
	AllowTest      bool // -t
	AllowDowngrade bool // -d
	GrantAll       bool // -g
}

func (o InstallOptions) args() []string {
	var args []string
	if o.Replace {
		args = append(args, "-r")
	}
	if o.AllowTest {
		args = append(args, "-t")
	}
	if o.AllowDowngrade {
		args = append(args, "-d")
	}
	if o.GrantAll {
		args = append(args, "-g")
	}
	return args
}

// Client talks to one device.
type Client struct {
	adb  *Adb
	addr Address
}

// Address returns the device address.
func (c *Client) Address() Address {
	return c.addr
}

// Command builds an adb command for this device.
func (c *Client) Command(args ...string) *proc.Command {
	return c.adb.Command(append(c.addr.Args(), args...)...)
}

func (c *Client) run(args ...string) (*proc.Outcome, error) {
	return c.adb.run(c.Command(args...))
}

// Connect connects a network device, waiting at most timeout for adb to
// answer. Zero waits indefinitely. Already connected devices are left alone.
func (c *Client) Connect(timeout time.Duration) error {
	if c.IsConnected() {
		return nil
	}
	ap, ok := c.addr.AddrPort()
	if !ok {
		return errors.Newf(errors.Unsupported, "cannot connect to %s, a tcp address is required", c.addr).WithOp("adb.Connect")
	}

	o, err := c.adb.runner.Output(c.adb.Command("connect", ap.String()).WithTimeout(timeout))
	if err != nil {
		return err
	}
	if o.Failed() || o.Induced() {
		return errors.Wrapf(errors.Connection, o.Err(), "failed to connect to %s", ap).WithOp("adb.Connect")
	}
	if !c.IsConnected() {
		return errors.Newf(errors.Connection, "device %s not connected", ap).WithOp("adb.Connect")
	}
	return nil
}

// Disconnect disconnects a network device. For other addresses every network
// device is disconnected.
func (c *Client) Disconnect() error {
	args := []string{"disconnect"}
	if ap, ok := c.addr.AddrPort(); ok {
		args = append(args, ap.String())
	}
	_, err := c.adb.run(c.adb.Command(args...))
	return err
}

// IsConnected probes the device with "get-state".
func (c *Client) IsConnected() bool {
	o, err := c.adb.runner.Output(c.Command("get-state").WithTimeout(GetStateTimeout))
	return err == nil && o.Success()
}

// WaitForDevice blocks until the device has finished booting, or until
// timeout elapses when non-zero.
func (c *Client) WaitForDevice(timeout time.Duration) error {
	cmd := c.Command(
		"wait-for-device",
		"shell",
		"while [[ -z $(getprop sys.boot_completed) ]]; do sleep 1; done; input keyevent 143",
	).WithTimeout(timeout)

	o, err := c.adb.runner.Output(cmd)
	if err != nil {
		return err
	}
	if o.Induced() {
		return errors.Newf(errors.Timeout, "device %s not ready after %s", c.addr, timeout).WithOp("adb.WaitForDevice")
	}
	return o.Err()
}

// SerialNo returns the device serial number.
func (c *Client) SerialNo() (string, error) {
	o, err := c.run("get-serialno")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(o.StdoutString()), nil
}

// Reboot reboots the device into mode.
func (c *Client) Reboot(mode RebootMode) error {
	args := []string{"reboot"}
	if mode != RebootSystem {
		args = append(args, string(mode))
	}
	_, err := c.run(args...)
	return err
}

// Reconnect kicks the connection to force a reconnect and returns adb's reply.
func (c *Client) Reconnect(mode ReconnectMode) (string, error) {
	args := []string{"reconnect"}
	if mode != ReconnectHost {
		args = append(args, string(mode))
	}
	o, err := c.run(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(o.StdoutString()), nil
}

// IsRoot reports whether adbd runs as root on the device.
func (c *Client) IsRoot() (bool, error) {
	return c.Shell().IsRoot()
}

// Root restarts adbd as root and reports whether it now runs as root.
func (c *Client) Root() (bool, error) {
	if root, err := c.IsRoot(); err == nil && root {
		return true, nil
	}
	if _, err := c.run("root"); err != nil {
		return false, err
	}
	time.Sleep(RootSettleDelay)
	return c.IsRoot()
}

// Unroot restarts adbd without root.
func (c *Client) Unroot() error {
	_, err := c.run("unroot")
	return err
}

// Remount remounts partitions read-write, rebooting first when required and
// allowed.
func (c *Client) Remount(rebootIfRequired bool) error {
	args := []string{"remount"}
	if rebootIfRequired {
		args = append(args, "-R")
	}
	_, err := c.run(args...)
	return err
}

// Logcat runs logcat until it exits, the options' timeout expires or cancel
// fires. The last two are not errors: the outcome carries whatever was read.
func (c *Client) Logcat(opts LogcatOptions, cancel <-chan struct{}) (*proc.Outcome, error) {
	cmd := c.Command(append([]string{"logcat"}, opts.Args()...)...).
		WithTimeout(opts.Timeout).
		WithSignal(cancel)
	if opts.Output != nil {
		cmd.Stdout(proc.File(opts.Output))
	}
	return c.adb.run(cmd)
}

// ClearLogcat clears all log buffers.
func (c *Client) ClearLogcat() error {
	_, err := c.run("logcat", "-b", "all", "-c")
	return err
}

// SaveScreencap writes a PNG screenshot of the device to f. A zero timeout
// keeps the handle's default.
func (c *Client) SaveScreencap(f *os.File, timeout time.Duration) error {
	cmd := c.Command("exec-out", "screencap", "-p").Stdout(proc.File(f))
	if timeout > 0 {
		cmd.WithTimeout(timeout)
	}
	o, err := c.adb.run(cmd)
	if err != nil {
		return err
	}
	if o.Induced() {
		return errors.Newf(errors.Timeout, "screencap of %s did not finish in time", c.addr).WithOp("adb.SaveScreencap")
	}
	return nil
}

// Install installs the APK at apk.
func (c *Client) Install(apk string, opts InstallOptions) error {
	args := append([]string{"install"}, opts.args()...)
	o, err := c.run(append(args, apk)...)
	if err != nil {
		return err
	}
	if strings.Contains(o.StdoutString(), "Failure") {
		return errors.Newf(errors.Command, "install failed: %s", strings.TrimSpace(o.StdoutString())).WithOp("adb.Install")
	}
	return nil
}

// Uninstall removes a package, optionally keeping its data and caches.
func (c *Client) Uninstall(pkg string, keepData bool) error {
	args := []string{"uninstall"}
	if keepData {
		args = append(args, "-k")
	}
	_, err := c.run(append(args, pkg)...)
	return err
}

// Pull copies a file from the device.
func (c *Client) Pull(src, dst string) error {
	_, err := c.run("pull", src, dst)
	return err
}

// Push copies a file to the device.
func (c *Client) Push(src, dst string) error {
	_, err := c.run("push", src, dst)
	return err
}

// Wakefulness reports the device power state by piping "dumpsys power"
// through sed on the host.
func (c *Client) Wakefulness() (Wakefulness, error) {
	dumpsys := c.Command("shell", "dumpsys", "power")
	filter := proc.New("sed").
		Args("-n", `s/.*mWakefulness=\([^[:space:]]*\).*/\1/p`).
		WithLogger(c.adb.logger)

	o, err := c.adb.runner.Pipe(dumpsys, filter)
	if err != nil {
		return "", err
	}
	if err := o.Err(); err != nil {
		return "", err
	}
	return parseWakefulness(strings.TrimSpace(o.StdoutString()))
}

// MacAddress reads the hardware address of a network interface, e.g. "wlan0".
func (c *Client) MacAddress(iface string) (net.HardwareAddr, error) {
	data, err := c.Shell().Cat(path.Join(constants.SysClassNet, iface, "address"))
	if err != nil {
		return nil, err
	}
	mac, err := net.ParseMAC(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, errors.Wrapf(errors.Parse, err, "invalid address for %s", iface).WithOp("adb.MacAddress")
	}
	return mac, nil
}

// BootID returns the kernel's random boot id, which changes on every boot.
func (c *Client) BootID() (uuid.UUID, error) {
	data, err := c.Shell().Cat(constants.BootIDPath)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.Parse, "invalid boot id", err).WithOp("adb.BootID")
	}
	return id, nil
}

// Shell returns the shell interface of the device.
func (c *Client) Shell() *Shell {
	return &Shell{client: c}
}
