// Package theme provides the color palettes and lipgloss styles used by the
// adbkit terminal views. Colors adapt to light and dark terminal backgrounds.
package theme

import "github.com/charmbracelet/lipgloss"

// Android-inspired brand colors
var (
	// AndroidGreen is the primary brand color.
	AndroidGreen = lipgloss.Color("#3DDC84")

	// AndroidGreenDark is a darker variant for active states.
	AndroidGreenDark = lipgloss.Color("#2BA866")

	// AndroidGreenLight is a lighter variant for highlights.
	AndroidGreenLight = lipgloss.Color("#7EF0B1")

	// AndroidNavy is the secondary brand color.
	AndroidNavy = lipgloss.Color("#073042")

	// AndroidGray is a neutral gray for secondary elements.
	AndroidGray = lipgloss.Color("#666666")
)

// Semantic colors
var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#22C55E", Dark: "#4ADE80"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#EAB308", Dark: "#FACC15"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#0EA5E9", Dark: "#38BDF8"}
)

// Text colors
var (
	ColorText       = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F9FAFB"}
	ColorTextMuted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorTextSubtle = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
)

// Border and progress colors
var (
	ColorBorder      = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#404040"}
	ColorBorderFocus = lipgloss.AdaptiveColor{Light: "#2BA866", Dark: "#3DDC84"}
	ColorProgressBg  = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#404040"}
	ColorRowAlt      = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#262626"}
)

// High contrast colors for accessibility.
var (
	ColorHighContrastText   = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	ColorHighContrastBorder = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
)

// StatusColor represents a status indicator color.
type StatusColor string

const (
	StatusSuccess StatusColor = "success"
	StatusWarning StatusColor = "warning"
	StatusError   StatusColor = "error"
	StatusInfo    StatusColor = "info"
)

// GetStatusColor returns the color for a status. Unknown statuses map to info.
func GetStatusColor(status StatusColor) lipgloss.AdaptiveColor {
	switch status {
	case StatusSuccess:
		return ColorSuccess
	case StatusWarning:
		return ColorWarning
	case StatusError:
		return ColorError
	default:
		return ColorInfo
	}
}

// StatusIndicator returns a colored status dot.
func StatusIndicator(status StatusColor) string {
	return lipgloss.NewStyle().Foreground(GetStatusColor(status)).Render("●")
}
