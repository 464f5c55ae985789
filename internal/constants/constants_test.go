package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExitCode_Int(t *testing.T) {
	tests := []struct {
		name     string
		code     ExitCode
		expected int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitError", ExitError, 1},
		{"ExitUsage", ExitUsage, 2},
		{"ExitNotFound", ExitNotFound, 3},
		{"ExitDevice", ExitDevice, 4},
		{"ExitTimeout", ExitTimeout, 5},
		{"ExitUserAbort", ExitUserAbort, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.code.Int())
		})
	}
}

func TestAppMetadata(t *testing.T) {
	assert.Equal(t, "adbkit", AppName)
	assert.NotEmpty(t, AppDescription)
}

func TestTimeouts(t *testing.T) {
	for _, d := range []time.Duration{LogcatDumpTimeout, ScreencapTimeout, ConnectTimeout} {
		assert.Greater(t, d, time.Duration(0))
	}
}

func TestScreencapLayout(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "screencap-20240309-140507.png", ts.Format(ScreencapLayout))
}
