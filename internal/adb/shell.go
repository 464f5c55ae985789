package adb

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tungetti/adbkit/internal/proc"
)

// KeyCode is an Android KeyEvent code.
type KeyCode int

const (
	KeyHome       KeyCode = 3
	KeyBack       KeyCode = 4
	KeyVolumeUp   KeyCode = 24
	KeyVolumeDown KeyCode = 25
	KeyPower      KeyCode = 26
	KeyEnter      KeyCode = 66
	KeyDelete     KeyCode = 67
	KeyMenu       KeyCode = 82
	KeyAppSwitch  KeyCode = 187
	KeySleep      KeyCode = 223
	KeyWakeUp     KeyCode = 224
)

// Property is one system property as printed by getprop.
type Property struct {
	Key   string
	Value string
}

var (
	propRe = regexp.MustCompile(`^\[(.*)\]\s*:\s*\[([^\]]*)\]$`)

	// Words made only of these characters pass through the device shell
	// unchanged.
	shellSafeRe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)
)

// shellQuote makes s a single word for the device shell. adb joins its
// arguments with spaces and hands the line to sh, so anything else would be
// split or expanded there.
func shellQuote(s string) string {
	if shellSafeRe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Shell runs commands through "adb shell" on one device.
type Shell struct {
	client *Client
}

// Command builds an "adb shell" command.
func (s *Shell) Command(args ...string) *proc.Command {
	return s.client.Command(append([]string{"shell"}, args...)...)
}

// Exec runs args on the device. cancel and timeout may be nil and zero. A
// non-zero exit is reported through the outcome, not the error.
func (s *Shell) Exec(args []string, cancel <-chan struct{}, timeout time.Duration) (*proc.Outcome, error) {
	return s.client.adb.runner.Output(s.Command(args...).WithSignal(cancel).WithTimeout(timeout))
}

func (s *Shell) run(args ...string) (*proc.Outcome, error) {
	return s.client.adb.run(s.Command(args...))
}

func (s *Shell) output(args ...string) (string, error) {
	o, err := s.run(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(o.StdoutString(), "\r\n"), nil
}

// GetProp returns a system property, empty when unset.
func (s *Shell) GetProp(key string) (string, error) {
	return s.output("getprop", shellQuote(key))
}

// SetProp sets a system property. An empty value clears it.
func (s *Shell) SetProp(key, value string) error {
	_, err := s.run("setprop", shellQuote(key), shellQuote(value))
	return err
}

// GetProps returns every system property.
func (s *Shell) GetProps() ([]Property, error) {
	o, err := s.run("getprop")
	if err != nil {
		return nil, err
	}
	return parseProps(o.StdoutString()), nil
}

func parseProps(out string) []Property {
	props := []Property{}
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		m := propRe.FindStringSubmatch(strings.TrimRight(scanner.Text(), "\r"))
		if m == nil {
			continue
		}
		props = append(props, Property{Key: m[1], Value: m[2]})
	}
	return props
}

// Cat returns the contents of a file on the device.
func (s *Shell) Cat(path string) ([]byte, error) {
	o, err := s.run("cat", shellQuote(path))
	if err != nil {
		return nil, err
	}
	return o.Stdout, nil
}

// Exists reports whether path exists on the device.
func (s *Shell) Exists(path string) (bool, error) {
	return s.testFile(path, "e")
}

// IsFile reports whether path is a regular file.
func (s *Shell) IsFile(path string) (bool, error) {
	return s.testFile(path, "f")
}

// IsDir reports whether path is a directory.
func (s *Shell) IsDir(path string) (bool, error) {
	return s.testFile(path, "d")
}

func (s *Shell) testFile(path, mode string) (bool, error) {
	out, err := s.output(fmt.Sprintf("test -%s %s && echo 1 || echo 0", mode, shellQuote(path)))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "1", nil
}

// Which returns the path of a command on the device.
func (s *Shell) Which(command string) (string, bool) {
	o, err := s.Exec([]string{"which", shellQuote(command)}, nil, 0)
	if err != nil || !o.Success() {
		return "", false
	}
	path := strings.TrimSpace(o.StdoutString())
	return path, path != ""
}

// Whoami returns the user the shell runs as.
func (s *Shell) Whoami() (string, error) {
	out, err := s.output("whoami")
	return strings.TrimSpace(out), err
}

// IsRoot reports whether the shell runs as root.
func (s *Shell) IsRoot() (bool, error) {
	user, err := s.Whoami()
	if err != nil {
		return false, err
	}
	return strings.EqualFold(user, "root"), nil
}

// SendKeyEvent injects a key press.
func (s *Shell) SendKeyEvent(code KeyCode) error {
	_, err := s.run("input", "keyevent", strconv.Itoa(int(code)))
	return err
}

// SendText types text into the focused view.
func (s *Shell) SendText(text string) error {
	_, err := s.run("input", "text", shellQuote(text))
	return err
}

// SendTap taps the screen at x, y.
func (s *Shell) SendTap(x, y int) error {
	_, err := s.run("input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

// SendSwipe swipes from one point to another. A zero duration lets the
// device pick one.
func (s *Shell) SendSwipe(x1, y1, x2, y2 int, duration time.Duration) error {
	args := []string{"input", "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1), strconv.Itoa(x2), strconv.Itoa(y2)}
	if duration > 0 {
		args = append(args, strconv.FormatInt(duration.Milliseconds(), 10))
	}
	_, err := s.run(args...)
	return err
}

// ListPackages returns installed package names, optionally only those
// containing filter.
func (s *Shell) ListPackages(filter string) ([]string, error) {
	args := []string{"pm", "list", "packages"}
	if filter != "" {
		args = append(args, shellQuote(filter))
	}
	o, err := s.run(args...)
	if err != nil {
		return nil, err
	}
	packages := []string{}
	for _, line := range o.StdoutLines() {
		if name, ok := strings.CutPrefix(strings.TrimSpace(line), "package:"); ok {
			packages = append(packages, name)
		}
	}
	return packages, nil
}

// ForceStop stops every process of a package.
func (s *Shell) ForceStop(pkg string) error {
	_, err := s.run("am", "force-stop", shellQuote(pkg))
	return err
}
