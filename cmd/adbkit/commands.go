package main

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/tungetti/adbkit/internal/adb"
	"github.com/tungetti/adbkit/internal/cli"
	"github.com/tungetti/adbkit/internal/constants"
	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/proc"
	"github.com/tungetti/adbkit/internal/scanner"
	"github.com/tungetti/adbkit/internal/ui"
	"github.com/tungetti/adbkit/internal/ui/components"
	"github.com/tungetti/adbkit/internal/ui/theme"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// theme returns the configured theme, dropping colors when asked to.
func (c *CLI) theme() *theme.Theme {
	cfg := c.app.Config()
	if cfg.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return theme.GetTheme(theme.ThemeName(cfg.Theme))
}

// target returns a client for the device selected by --serial, or for
// whatever single device adb finds.
func (c *CLI) target() (*adb.Client, error) {
	a, err := c.app.Adb()
	if err != nil {
		return nil, err
	}
	addr := adb.AnyDevice
	if serial := c.app.Config().Serial; serial != "" {
		if addr, err = adb.ParseAddress(serial); err != nil {
			return nil, err
		}
	}
	return a.Client(addr), nil
}

// cmdDevices lists attached devices.
func (c *CLI) cmdDevices(flags cli.DevicesFlags) error {
	a, err := c.app.Adb()
	if err != nil {
		return err
	}
	devices, err := a.Devices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Fprintln(c.stderr, "No devices attached")
		return nil
	}

	if !flags.Long {
		for _, d := range devices {
			fmt.Fprintf(c.stdout, "%s\t%s\n", d.Serial, d.State)
		}
		return nil
	}

	table := components.NewTable(c.theme().Styles, "SERIAL", "STATE", "PRODUCT", "MODEL", "DEVICE", "TRANSPORT")
	for _, d := range devices {
		transport := ""
		if d.TransportID > 0 {
			transport = strconv.Itoa(d.TransportID)
		}
		table.AddRow(d.Serial, d.State.String(), d.Product, d.Model, d.Name, transport)
	}
	fmt.Fprintln(c.stdout, table.View())
	return nil
}

// cmdShell runs a remote command and passes its exit status through.
func (c *CLI) cmdShell(flags cli.ShellFlags, args []string) error {
	client, err := c.target()
	if err != nil {
		return err
	}

	o, err := client.Shell().Exec(args, c.app.Lifecycle().Interrupted(), flags.Timeout)
	if err != nil {
		return err
	}
	_, _ = c.stdout.Write(o.Stdout)
	_, _ = c.stderr.Write(o.Stderr)

	switch {
	case o.Trigger == proc.TriggerTimeout:
		return errors.Newf(errors.Timeout, "shell command timed out after %s", flags.Timeout).WithOp("shell")
	case o.Induced(), o.Signaled() && c.app.Lifecycle().IsInterrupted():
		return errors.New(errors.Cancelled, "shell command interrupted").WithOp("shell")
	case o.Failed() && o.ExitCode > 0:
		return &exitStatusError{code: o.ExitCode}
	}
	return o.Err()
}

// cmdLogcat dumps or follows the device log. Following ends on Ctrl-C or
// the timeout, neither of which is an error.
func (c *CLI) cmdLogcat(flags cli.LogcatFlags, args []string) error {
	client, err := c.target()
	if err != nil {
		return err
	}
	if flags.Clear {
		return client.ClearLogcat()
	}

	opts := adb.LogcatOptions{
		Format:  flags.Format,
		Expr:    flags.Regex,
		Dump:    flags.Dump,
		Pid:     flags.Pid,
		Timeout: flags.Timeout,
	}
	for _, b := range strings.Split(flags.Buffers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			opts.Buffers = append(opts.Buffers, b)
		}
	}
	for _, arg := range args {
		filter, err := adb.ParseLogFilter(arg)
		if err != nil {
			return err
		}
		opts.Filters = append(opts.Filters, filter)
	}
	if opts.Dump && opts.Timeout == 0 {
		opts.Timeout = constants.LogcatDumpTimeout
	}
	if f, ok := c.stdout.(*os.File); ok {
		opts.Output = f
	}

	o, err := client.Logcat(opts, c.app.Lifecycle().Interrupted())
	if err != nil {
		return err
	}
	_, _ = c.stdout.Write(o.Stdout)

	if opts.Dump && o.Trigger == proc.TriggerTimeout {
		return errors.Newf(errors.Timeout, "logcat dump did not finish in %s", opts.Timeout).WithOp("logcat")
	}
	return nil
}

// cmdScreencap saves a PNG screenshot. A partial file is removed on failure.
func (c *CLI) cmdScreencap(flags cli.ScreencapFlags) error {
	client, err := c.target()
	if err != nil {
		return err
	}

	out := flags.Output
	if out == "" {
		out = time.Now().Format(constants.ScreencapLayout)
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(errors.IO, err, "cannot create %s", out).WithOp("screencap")
	}

	err = client.SaveScreencap(f, constants.ScreencapTimeout)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(errors.IO, closeErr, "cannot write %s", out).WithOp("screencap")
	}
	if err != nil {
		_ = os.Remove(out)
		return err
	}

	fmt.Fprintln(c.stdout, out)
	return nil
}

// parseNetworkAddress accepts "ip:port" or a bare ip on the default port.
func parseNetworkAddress(s string) (netip.AddrPort, error) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap, nil
	}
	if ip, err := netip.ParseAddr(s); err == nil {
		return netip.AddrPortFrom(ip, scanner.DefaultPort), nil
	}
	return netip.AddrPort{}, errors.Newf(errors.Validation, "invalid network address %q, expected ip:port", s)
}

// cmdConnect connects a network device.
func (c *CLI) cmdConnect(target string) error {
	ap, err := parseNetworkAddress(target)
	if err != nil {
		return err
	}
	a, err := c.app.Adb()
	if err != nil {
		return err
	}
	if err := a.Client(adb.TCP(ap)).Connect(constants.ConnectTimeout); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "connected to %s\n", ap)
	return nil
}

// cmdDisconnect disconnects one network device, or all of them.
func (c *CLI) cmdDisconnect(args []string) error {
	a, err := c.app.Adb()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		if err := a.DisconnectAll(); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "disconnected everything")
		return nil
	}

	ap, err := parseNetworkAddress(args[0])
	if err != nil {
		return err
	}
	if err := a.Client(adb.TCP(ap)).Disconnect(); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "disconnected %s\n", ap)
	return nil
}

func orDefault[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

// cmdScan probes a subnet, showing the live view on a terminal.
func (c *CLI) cmdScan(ctx context.Context, flags cli.ScanFlags, args []string) error {
	cfg := c.app.Config()
	subnet := scanner.DefaultSubnet
	if cfg.ScanSubnet != "" {
		subnet = cfg.ScanSubnet
	}
	if len(args) == 1 {
		subnet = args[0]
	}
	if _, err := scanner.Hosts(subnet); err != nil {
		return err
	}

	opts := scanner.Options{
		Port:           orDefault(flags.Port, cfg.ScanPort),
		ConnectTimeout: orDefault(flags.Timeout, cfg.ScanConnectTimeout),
		Concurrency:    orDefault(flags.Concurrency, cfg.ScanConcurrency),
		Dial:           c.dial,
		Logger:         c.app.Logger(),
	}
	if flags.Inspect {
		a, err := c.app.Adb()
		if err != nil {
			return err
		}
		opts.Inspector = scanner.NewAdbInspector(a, constants.ConnectTimeout)
	}

	if flags.Plain || !c.interactive() {
		return c.scanPlain(ctx, opts, subnet)
	}
	return c.scanInteractive(ctx, opts, subnet)
}

func (c *CLI) scanPlain(ctx context.Context, opts scanner.Options, subnet string) error {
	results := make(chan scanner.Result)
	errc := make(chan error, 1)
	go func() { errc <- scanner.New(opts).Scan(ctx, subnet, results) }()

	found := 0
	for r := range results {
		fmt.Fprintln(c.stdout, r.String())
		found++
	}
	err := <-errc
	c.app.Logger().Info("scan finished", "subnet", subnet, "found", found)
	return err
}

func (c *CLI) scanInteractive(ctx context.Context, opts scanner.Options, subnet string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := ui.StartScan(ctx, opts, subnet)
	model := ui.NewScanModel(subnet, events, cancel, c.theme())

	final, err := tea.NewProgram(model, tea.WithOutput(c.stdout)).Run()
	if err != nil {
		return errors.Wrap(errors.IO, "scan view failed", err).WithOp("scan")
	}
	if m, ok := final.(ui.ScanModel); ok && m.Error != nil {
		return m.Error
	}
	return nil
}

// cmdVersion prints build information and, when adb is available, its
// version.
func (c *CLI) cmdVersion() error {
	fmt.Fprint(c.stdout, c.parser.VersionString())

	a, err := c.app.Adb()
	if err != nil {
		c.app.Logger().Debug("adb not available", "error", err)
		return nil
	}
	v, err := a.Version()
	if err != nil {
		c.app.Logger().Debug("adb version unavailable", "error", err)
		return nil
	}
	fmt.Fprintf(c.stdout, "adb version %s (%s)\n", v, a.Path())
	return nil
}
