package theme

import "github.com/charmbracelet/lipgloss"

// ThemeName identifies a theme variant.
type ThemeName string

const (
	ThemeDark         ThemeName = "dark"
	ThemeLight        ThemeName = "light"
	ThemeHighContrast ThemeName = "high-contrast"
)

// Theme holds the colors of a visual theme and the styles built from them.
type Theme struct {
	Name ThemeName

	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor

	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Info    lipgloss.TerminalColor

	Text       lipgloss.TerminalColor
	TextMuted  lipgloss.TerminalColor
	TextSubtle lipgloss.TerminalColor

	Border      lipgloss.TerminalColor
	BorderFocus lipgloss.TerminalColor
	RowAlt      lipgloss.TerminalColor

	Progress   lipgloss.TerminalColor
	ProgressBg lipgloss.TerminalColor

	Styles Styles
}

// DefaultTheme returns the dark theme.
func DefaultTheme() *Theme {
	t := &Theme{
		Name:        ThemeDark,
		Primary:     AndroidGreen,
		Secondary:   AndroidGray,
		Success:     ColorSuccess,
		Warning:     ColorWarning,
		Error:       ColorError,
		Info:        ColorInfo,
		Text:        ColorText,
		TextMuted:   ColorTextMuted,
		TextSubtle:  ColorTextSubtle,
		Border:      ColorBorder,
		BorderFocus: ColorBorderFocus,
		RowAlt:      ColorRowAlt,
		Progress:    AndroidGreen,
		ProgressBg:  ColorProgressBg,
	}
	t.Styles = NewStyles(t)
	return t
}

// LightTheme returns a theme tuned for light terminal backgrounds.
func LightTheme() *Theme {
	t := DefaultTheme()
	t.Name = ThemeLight
	t.Primary = AndroidGreenDark
	t.Secondary = AndroidNavy
	t.Text = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#1F2937"}
	t.TextMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	t.Progress = AndroidGreenDark
	t.Styles = NewStyles(t)
	return t
}

// HighContrastTheme returns a theme with maximum contrast.
func HighContrastTheme() *Theme {
	t := &Theme{
		Name:        ThemeHighContrast,
		Primary:     lipgloss.Color("#00FF00"),
		Secondary:   lipgloss.Color("#FFFFFF"),
		Success:     lipgloss.AdaptiveColor{Light: "#008000", Dark: "#00FF00"},
		Warning:     lipgloss.AdaptiveColor{Light: "#FFD700", Dark: "#FFFF00"},
		Error:       lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"},
		Info:        lipgloss.AdaptiveColor{Light: "#0000FF", Dark: "#00FFFF"},
		Text:        ColorHighContrastText,
		TextMuted:   ColorHighContrastText,
		TextSubtle:  ColorHighContrastText,
		Border:      ColorHighContrastBorder,
		BorderFocus: ColorHighContrastBorder,
		RowAlt:      lipgloss.AdaptiveColor{Light: "#C0C0C0", Dark: "#333333"},
		Progress:    lipgloss.Color("#00FF00"),
		ProgressBg:  lipgloss.AdaptiveColor{Light: "#808080", Dark: "#333333"},
	}
	t.Styles = NewStyles(t)
	return t
}

// GetTheme returns a theme by name, falling back to DefaultTheme.
func GetTheme(name ThemeName) *Theme {
	switch name {
	case ThemeLight:
		return LightTheme()
	case ThemeHighContrast:
		return HighContrastTheme()
	default:
		return DefaultTheme()
	}
}

// AvailableThemes returns the names of all themes.
func AvailableThemes() []ThemeName {
	return []ThemeName{ThemeDark, ThemeLight, ThemeHighContrast}
}
