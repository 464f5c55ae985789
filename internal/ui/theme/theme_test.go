package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	tests := []struct {
		name     ThemeName
		expected ThemeName
	}{
		{ThemeDark, ThemeDark},
		{ThemeLight, ThemeLight},
		{ThemeHighContrast, ThemeHighContrast},
		{"solarized", ThemeDark},
		{"", ThemeDark},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			th := GetTheme(tt.name)
			assert.Equal(t, tt.expected, th.Name)
			assert.NotNil(t, th.Primary)
		})
	}
}

func TestAvailableThemes(t *testing.T) {
	names := AvailableThemes()
	assert.Len(t, names, 3)
	for _, n := range names {
		assert.Equal(t, n, GetTheme(n).Name)
	}
}

func TestLightTheme_OverridesPrimary(t *testing.T) {
	assert.Equal(t, AndroidGreen, DefaultTheme().Primary)
	assert.Equal(t, AndroidGreenDark, LightTheme().Primary)
}

func TestGetStatusColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, GetStatusColor(StatusSuccess))
	assert.Equal(t, ColorWarning, GetStatusColor(StatusWarning))
	assert.Equal(t, ColorError, GetStatusColor(StatusError))
	assert.Equal(t, ColorInfo, GetStatusColor(StatusInfo))
	assert.Equal(t, ColorInfo, GetStatusColor("bogus"))
}

func TestRenderStatusLine(t *testing.T) {
	s := DefaultTheme().Styles
	for _, status := range []string{"success", "warning", "error", "info", "other"} {
		line := s.RenderStatusLine(status, "3 devices found")
		assert.Contains(t, line, "●")
		assert.Contains(t, line, "3 devices found")
	}
	assert.Contains(t, StatusIndicator(StatusSuccess), "●")
}
