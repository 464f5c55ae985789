package adb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/proc"
)

// =============================================================================
// Intent Tests
// =============================================================================

func TestIntent_Args(t *testing.T) {
	tests := []struct {
		name     string
		intent   Intent
		expected []string
	}{
		{"empty", Intent{}, nil},
		{"view url", Intent{Action: "android.intent.action.VIEW", Data: "https://example.com/?a=1&b=2"},
			[]string{"-a", "android.intent.action.VIEW", "-d", "'https://example.com/?a=1&b=2'"}},
		{"component with flags", Intent{
			Component:  "com.example/.MainActivity",
			Categories: []string{"android.intent.category.LAUNCHER"},
			User:       "0",
			Flags:      0x10000000,
			Wait:       true,
		}, []string{"-c", "android.intent.category.LAUNCHER", "-n", "com.example/.MainActivity",
			"--user", "0", "-f", "0x10000000", "-W"}},
		{"broadcast receiver", Intent{Action: "com.example.PING", Package: "com.example", ReceiverForeground: true},
			[]string{"-a", "com.example.PING", "-p", "com.example", "--receiver-foreground"}},
		{"extras in key order", Intent{Extras: Extras{
			Strings: map[string]string{"b": "two words", "a": "x"},
			Bools:   map[string]bool{"debug": true},
			Ints:    map[string]int32{"count": -3},
			Floats:  map[string]float32{"ratio": 0.5},

			GrantReadURIPermission: true,
		}}, []string{"--es", "a", "x", "--es", "b", "'two words'", "--ez", "debug", "true",
			"--ei", "count", "-3", "--ef", "ratio", "0.5", "--grant-read-uri-permission"}},
		{"arrays", Intent{Extras: Extras{
			IntArrays:    map[string][]int32{"ids": {1, 2, 3}},
			StringArrays: map[string][]string{"names": {"a,b", "c"}},
		}}, []string{"--eia", "ids", "1,2,3", "--esa", "names", `'a\,b,c'`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.intent.Args())
		})
	}
}

// =============================================================================
// ActivityManager Tests
// =============================================================================

func TestActivityManager_Commands(t *testing.T) {
	intent := Intent{Action: "android.intent.action.MAIN", Component: "com.example/.Main"}
	tests := []struct {
		name    string
		run     func(am *ActivityManager) error
		command string
	}{
		{"start", func(am *ActivityManager) error { return am.Start(intent) }, "start"},
		{"start service", func(am *ActivityManager) error { return am.StartService(intent) }, "startservice"},
		{"broadcast", func(am *ActivityManager) error { return am.Broadcast(intent) }, "broadcast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newTestClient(t)
			require.NoError(t, tt.run(c.Shell().ActivityManager()))
			assert.Equal(t, []string{"-s", device, "shell", "am", tt.command,
				"-a", "android.intent.action.MAIN", "-n", "com.example/.Main"}, m.LastCall().Args)
		})
	}
}

func TestActivityManager_ErrorInOutput(t *testing.T) {
	c, m := newTestClient(t)
	m.SetResponse(shellLine("am start -n com.example/.Missing"), proc.SuccessOutcome(
		"Starting: Intent { cmp=com.example/.Missing }\nError type 3\nError: Activity class {com.example/com.example.Missing} does not exist.\n"), nil)

	err := c.Shell().ActivityManager().Start(Intent{Component: "com.example/.Missing"})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.Command))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestActivityManager_ForceStop(t *testing.T) {
	c, m := newTestClient(t)

	require.NoError(t, c.Shell().ActivityManager().ForceStop("com.example"))
	assert.True(t, m.WasCalledWith("-s", device, "shell", "am", "force-stop", "com.example"))
}

// =============================================================================
// PackageManager Tests
// =============================================================================

func TestPackageManager_ListPackages(t *testing.T) {
	tests := []struct {
		name     string
		opts     ListPackagesOptions
		line     string
		output   string
		expected []Package
	}{
		{"names", ListPackagesOptions{}, "pm list packages",
			"package:com.android.chrome\npackage:com.example\n",
			[]Package{{Name: "com.android.chrome"}, {Name: "com.example"}}},
		{"third party with details", ListPackagesOptions{ThirdParty: true, ShowFile: true, ShowUID: true, ShowVersionCode: true},
			"pm list packages -3 -f -U --show-versioncode",
			"package:/data/app/~~Zx9==/com.example-1A==/base.apk=com.example versionCode:42 uid:10187\n",
			[]Package{{Name: "com.example", File: "/data/app/~~Zx9==/com.example-1A==/base.apk", VersionCode: 42, UID: 10187}}},
		{"uid before version", ListPackagesOptions{System: true, ShowUID: true, User: "10", Name: "google"},
			"pm list packages -s -U --user 10 google",
			"package:com.google.android.gms uid:10112 versionCode:241\n",
			[]Package{{Name: "com.google.android.gms", VersionCode: 241, UID: 10112}}},
		{"none", ListPackagesOptions{Disabled: true}, "pm list packages -d", "", []Package{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newTestClient(t)
			m.SetResponse(shellLine(tt.line), proc.SuccessOutcome(tt.output), nil)

			pkgs, err := c.Shell().PackageManager().ListPackages(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pkgs)
			assert.Equal(t, shellLine(tt.line), m.LastCall().Line())
		})
	}
}

func TestPackageManager_Path(t *testing.T) {
	c, m := newTestClient(t)
	pm := c.Shell().PackageManager()
	m.SetResponse(shellLine("pm path com.example"), proc.SuccessOutcome("package:/data/app/com.example-1/base.apk\n"), nil)
	m.SetResponse(shellLine("pm path --user 10 com.example"), proc.SuccessOutcome("package:/data/app/com.example-2/base.apk\n"), nil)
	m.SetResponse(shellLine("pm path com.missing"), proc.FailureOutcome(1, ""), nil)
	m.SetResponse(shellLine("pm path com.broken"), proc.FailureOutcome(255, "cmd: Can't find service: package"), nil)

	path, err := pm.Path("com.example", "")
	require.NoError(t, err)
	assert.Equal(t, "/data/app/com.example-1/base.apk", path)

	path, err = pm.Path("com.example", "10")
	require.NoError(t, err)
	assert.Equal(t, "/data/app/com.example-2/base.apk", path)

	_, err = pm.Path("com.missing", "")
	assert.True(t, errors.IsCode(err, errors.NotFound))

	_, err = pm.Path("com.broken", "")
	assert.True(t, errors.IsCode(err, errors.Command))
}

func TestPackageManager_IsInstalled(t *testing.T) {
	tests := []struct {
		name      string
		outcome   *proc.Outcome
		installed bool
		wantErr   bool
	}{
		{"installed", proc.SuccessOutcome("package:/data/app/base.apk\n"), true, false},
		{"missing", proc.FailureOutcome(1, ""), false, false},
		{"service down", proc.FailureOutcome(255, "Can't find service: package"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newTestClient(t)
			m.SetResponse(shellLine("pm path com.example"), tt.outcome, nil)

			installed, err := c.Shell().PackageManager().IsInstalled("com.example", "")
			assert.Equal(t, tt.installed, installed)
			if tt.wantErr {
				assert.True(t, errors.IsCode(err, errors.Command))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPackageManager_Operations(t *testing.T) {
	tests := []struct {
		name string
		run  func(pm *PackageManager) error
		args []string
	}{
		{"grant", func(pm *PackageManager) error { return pm.Grant("com.example", "", "android.permission.CAMERA") },
			[]string{"pm", "grant", "com.example", "android.permission.CAMERA"}},
		{"grant for user", func(pm *PackageManager) error { return pm.Grant("com.example", "10", "android.permission.CAMERA") },
			[]string{"pm", "grant", "--user", "10", "com.example", "android.permission.CAMERA"}},
		{"revoke", func(pm *PackageManager) error { return pm.Revoke("com.example", "", "android.permission.CAMERA") },
			[]string{"pm", "revoke", "com.example", "android.permission.CAMERA"}},
		{"clear", func(pm *PackageManager) error { return pm.Clear("com.example", "") }, []string{"pm", "clear", "com.example"}},
		{"enable", func(pm *PackageManager) error { return pm.Enable("com.example", "") }, []string{"pm", "enable", "com.example"}},
		{"disable", func(pm *PackageManager) error { return pm.Disable("com.example/.Svc", "") },
			[]string{"pm", "disable", "com.example/.Svc"}},
		{"disable user", func(pm *PackageManager) error { return pm.DisableUser("com.example", "0") },
			[]string{"pm", "disable-user", "--user", "0", "com.example"}},
		{"suspend", func(pm *PackageManager) error { return pm.Suspend("com.example", "") }, []string{"pm", "suspend", "com.example"}},
		{"unsuspend", func(pm *PackageManager) error { return pm.Unsuspend("com.example", "") }, []string{"pm", "unsuspend", "com.example"}},
		{"hide", func(pm *PackageManager) error { return pm.Hide("com.example", "") }, []string{"pm", "hide", "com.example"}},
		{"unhide", func(pm *PackageManager) error { return pm.Unhide("com.example", "") }, []string{"pm", "unhide", "com.example"}},
		{"reset permissions", func(pm *PackageManager) error { return pm.ResetPermissions() }, []string{"pm", "reset-permissions"}},
		{"quoted package", func(pm *PackageManager) error { return pm.Clear("x; reboot", "") }, []string{"pm", "clear", "'x; reboot'"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newTestClient(t)
			require.NoError(t, tt.run(c.Shell().PackageManager()))
			assert.Equal(t, append([]string{"-s", device, "shell"}, tt.args...), m.LastCall().Args)
		})
	}
}

const packageDump = `Activity Resolver Table:
  Non-Data Actions:
      android.intent.action.MAIN:

Packages:
  Package [com.example] (4b1e2f0):
    userId=10187
    pkg=Package{9d3c1a com.example}
    versionCode=42 minSdk=26 targetSdk=34
    requested permissions:
      android.permission.INTERNET
      android.permission.CAMERA
      android.permission.POST_NOTIFICATIONS: restricted=true
    install permissions:
      android.permission.INTERNET: granted=true
    User 0: ceDataInode=1234 installed=true hidden=false
`

func TestPackageManager_RequestedPermissions(t *testing.T) {
	c, m := newTestClient(t)
	m.SetResponse(shellLine("pm dump com.example"), proc.SuccessOutcome(packageDump), nil)
	m.SetResponse(shellLine("pm dump com.bare"), proc.SuccessOutcome("Packages:\n  Package [com.bare] (1):\n    userId=10001\n"), nil)

	perms, err := c.Shell().PackageManager().RequestedPermissions("com.example")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"android.permission.INTERNET",
		"android.permission.CAMERA",
		"android.permission.POST_NOTIFICATIONS",
	}, perms)

	_, err = c.Shell().PackageManager().RequestedPermissions("com.bare")
	assert.True(t, errors.IsCode(err, errors.Parse))
}
