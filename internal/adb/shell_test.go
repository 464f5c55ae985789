package adb

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/proc"
)

func shellLine(args string) string {
	return "-s " + device + " shell " + args
}

func TestShell_Exec(t *testing.T) {
	c, m := newTestClient(t)
	m.SetResponse(shellLine("ls /missing"), proc.FailureOutcome(1, "ls: /missing: No such file or directory"), nil)

	o, err := c.Shell().Exec([]string{"ls", "/missing"}, nil, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, o.Failed())
	assert.Equal(t, 2*time.Second, m.LastCall().Timeout)
	assert.False(t, m.LastCall().HasSignal)
}

func TestShell_GetProp(t *testing.T) {
	c, m := newTestClient(t)
	m.SetResponse(shellLine("getprop ro.product.model"), proc.SuccessOutcome("Pixel 7\r\n"), nil)

	v, err := c.Shell().GetProp("ro.product.model")
	require.NoError(t, err)
	assert.Equal(t, "Pixel 7", v)
}

func TestShell_SetProp(t *testing.T) {
	c, m := newTestClient(t)
	s := c.Shell()

	require.NoError(t, s.SetProp("debug.adbkit", "1"))
	assert.True(t, m.WasCalledWith("-s", device, "shell", "setprop", "debug.adbkit", "1"))

	require.NoError(t, s.SetProp("debug.adbkit", ""))
	assert.True(t, m.WasCalledWith("-s", device, "shell", "setprop", "debug.adbkit", "''"))
}

func TestShell_GetProps(t *testing.T) {
	c, m := newTestClient(t)
	m.SetResponse(shellLine("getprop"), proc.SuccessOutcome(`[ro.build.version.sdk]: [34]
[ro.product.model]: [Pixel 7]
[persist.sys.empty]: []
not a property line
`), nil)

	props, err := c.Shell().GetProps()
	require.NoError(t, err)
	assert.Equal(t, []Property{
		{Key: "ro.build.version.sdk", Value: "34"},
		{Key: "ro.product.model", Value: "Pixel 7"},
		{Key: "persist.sys.empty", Value: ""},
	}, props)
}

func TestShell_Cat(t *testing.T) {
	c, m := newTestClient(t)
	m.SetResponse(shellLine("cat /proc/version"), proc.SuccessOutcome("Linux version 5.10\n"), nil)
	m.SetResponse(shellLine("cat /root/secret"), proc.FailureOutcome(1, "Permission denied"), nil)

	data, err := c.Shell().Cat("/proc/version")
	require.NoError(t, err)
	assert.Equal(t, "Linux version 5.10\n", string(data))

	_, err = c.Shell().Cat("/root/secret")
	assert.True(t, errors.IsCode(err, errors.Command))
}

func TestShell_TestFile(t *testing.T) {
	c, m := newTestClient(t)
	m.SetResponse(shellLine("test -e /sdcard && echo 1 || echo 0"), proc.SuccessOutcome("1\n"), nil)
	m.SetResponse(shellLine("test -f /sdcard && echo 1 || echo 0"), proc.SuccessOutcome("0\n"), nil)
	m.SetResponse(shellLine("test -d /sdcard && echo 1 || echo 0"), proc.SuccessOutcome("1\n"), nil)

	s := c.Shell()
	exists, err := s.Exists("/sdcard")
	require.NoError(t, err)
	assert.True(t, exists)

	isFile, err := s.IsFile("/sdcard")
	require.NoError(t, err)
	assert.False(t, isFile)

	isDir, err := s.IsDir("/sdcard")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"/sdcard/DCIM", "/sdcard/DCIM"},
		{"ro.product.model", "ro.product.model"},
		{"", "''"},
		{"hello world", "'hello world'"},
		{"$(reboot)", "'$(reboot)'"},
		{"a`id`b", "'a`id`b'"},
		{"it's", `'it'\''s'`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, shellQuote(tt.in))
		})
	}
}

// The remote line is evaluated by sh on the device. Running it through a
// local sh, with the device tool replaced by a function that echoes its
// arguments, shows what the tool would receive.
func TestShell_ArgumentsReachDeviceVerbatim(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		run      func(s *Shell) error
		expected string
	}{
		{"exists with command substitution", "test", func(s *Shell) error {
			_, err := s.Exists("/sdcard/$(echo injected)")
			return err
		}, "-e\n/sdcard/$(echo injected)\n"},
		{"is dir with variable", "test", func(s *Shell) error {
			_, err := s.IsDir("/data/$HOME")
			return err
		}, "-d\n/data/$HOME\n"},
		{"text with backticks", "input", func(s *Shell) error {
			return s.SendText("a`echo injected`b")
		}, "text\na`echo injected`b\n"},
		{"text with quote", "input", func(s *Shell) error {
			return s.SendText("it's done")
		}, "text\nit's done\n"},
		{"cat with spaces", "cat", func(s *Shell) error {
			_, err := s.Cat("/sdcard/My Files/a;b")
			return err
		}, "/sdcard/My Files/a;b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newTestClient(t)
			_ = tt.run(c.Shell())

			remote := strings.Join(m.LastCall().Args[3:], " ")
			script := tt.tool + `() { printf '%s\n' "$@"; }; ` + remote

			o, err := proc.New("sh").Args("-c", script).Output()
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(o.StdoutString(), tt.expected), "got %q", o.StdoutString())
			assert.NotContains(t, o.StdoutString(), "injected\n")
		})
	}
}

func TestShell_Which(t *testing.T) {
	c, m := newTestClient(t)
	m.SetResponse(shellLine("which sh"), proc.SuccessOutcome("/system/bin/sh\n"), nil)
	m.SetResponse(shellLine("which nope"), proc.FailureOutcome(1, ""), nil)

	path, ok := c.Shell().Which("sh")
	assert.True(t, ok)
	assert.Equal(t, "/system/bin/sh", path)

	_, ok = c.Shell().Which("nope")
	assert.False(t, ok)
}

func TestShell_IsRoot(t *testing.T) {
	tests := []struct {
		whoami   string
		expected bool
	}{
		{"root\n", true},
		{"ROOT", true},
		{"shell\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.whoami, func(t *testing.T) {
			c, m := newTestClient(t)
			m.SetResponse(shellLine("whoami"), proc.SuccessOutcome(tt.whoami), nil)

			root, err := c.Shell().IsRoot()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, root)
		})
	}
}

func TestShell_Input(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *Shell) error
		args []string
	}{
		{"keyevent", func(s *Shell) error { return s.SendKeyEvent(KeyWakeUp) }, []string{"input", "keyevent", "224"}},
		{"text", func(s *Shell) error { return s.SendText("hello world") }, []string{"input", "text", "'hello world'"}},
		{"tap", func(s *Shell) error { return s.SendTap(540, 1200) }, []string{"input", "tap", "540", "1200"}},
		{"swipe", func(s *Shell) error { return s.SendSwipe(100, 1500, 100, 300, 250*time.Millisecond) },
			[]string{"input", "swipe", "100", "1500", "100", "300", "250"}},
		{"swipe default duration", func(s *Shell) error { return s.SendSwipe(0, 0, 10, 10, 0) },
			[]string{"input", "swipe", "0", "0", "10", "10"}},
		{"force-stop", func(s *Shell) error { return s.ForceStop("com.example") }, []string{"am", "force-stop", "com.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newTestClient(t)
			require.NoError(t, tt.run(c.Shell()))
			assert.Equal(t, append([]string{"-s", device, "shell"}, tt.args...), m.LastCall().Args)
		})
	}
}

func TestShell_ListPackages(t *testing.T) {
	c, m := newTestClient(t)
	m.SetResponse(shellLine("pm list packages google"), proc.SuccessOutcome(
		"package:com.google.android.gms\npackage:com.google.android.youtube\n\n"), nil)

	pkgs, err := c.Shell().ListPackages("google")
	require.NoError(t, err)
	assert.Equal(t, []string{"com.google.android.gms", "com.google.android.youtube"}, pkgs)
}
