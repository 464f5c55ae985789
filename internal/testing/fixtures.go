package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ============================================================================
// adb Output Fixtures
// ============================================================================

// DevicesOutput is "adb devices -l" with an emulator, a network device that
// went offline and an unauthorized USB phone.
const DevicesOutput = `List of devices attached
emulator-5554          device product:sdk_gphone64_x86_64 model:sdk_gphone64_x86_64 device:emu64x transport_id:1
192.168.1.42:5555      offline transport_id:3
0A121JEC201190         unauthorized usb:1-4 transport_id:4
`

// DevicesEmptyOutput is "adb devices -l" with nothing attached.
const DevicesEmptyOutput = "List of devices attached\n\n"

// DevicesDaemonStartOutput is printed when the command had to start the
// server first.
const DevicesDaemonStartOutput = `* daemon not running; starting now at tcp:5037
* daemon started successfully
List of devices attached
emulator-5554          device product:sdk_gphone64_x86_64 model:sdk_gphone64_x86_64 device:emu64x transport_id:1
`

// VersionOutput is "adb --version" from platform-tools 34.
const VersionOutput = `Android Debug Bridge version 1.0.41
Version 34.0.5-10900879
Installed as /opt/platform-tools/adb
Running on Linux 6.5.0-14-generic (x86_64)
`

// AdbVersion is the version string contained in VersionOutput.
const AdbVersion = "34.0.5-10900879"

// GetPropOutput is an excerpt of "adb shell getprop".
const GetPropOutput = `[ro.build.version.sdk]: [34]
[ro.product.device]: [panther]
[ro.product.model]: [Pixel 7]
[ro.product.name]: [panther]
[sys.boot_completed]: [1]
`

// LogcatBriefOutput is a few lines of "adb logcat -v brief -d".
const LogcatBriefOutput = `I/ActivityManager(  512): Start proc 4312:com.android.chrome/u0a117
W/ActivityTaskManager(  512): Activity top resumed state loss timeout
E/AndroidRuntime( 4312): FATAL EXCEPTION: main
`

// MacAddress is a sample interface address as read from sysfs.
const MacAddress = "02:00:00:44:55:66"

// BootID is a sample /proc/sys/kernel/random/boot_id.
const BootID = "6f0fb1bc-1c2d-4d8e-9f3a-5b7c9d1e2f30"

// ============================================================================
// File Fixtures
// ============================================================================

// FakeAdb writes an executable named "adb" into dir and returns its path.
// The script exits successfully without output; tests route commands
// through a proc.MockRunner instead of running it.
func FakeAdb(t testing.TB, dir string) string {
	t.Helper()

	return WriteExecutable(t, dir, "adb", "#!/bin/sh\nexit 0\n")
}

// WriteExecutable writes a script into dir with mode 0755.
func WriteExecutable(t testing.TB, dir, name, script string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteConfig writes a YAML config file into dir and returns its path.
// Lines are joined with newlines.
func WriteConfig(t testing.TB, dir string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, "config.yaml")
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}
