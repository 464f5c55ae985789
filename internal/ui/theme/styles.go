package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains pre-built lipgloss styles derived from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	ProgressText lipgloss.Style
	Spinner      lipgloss.Style

	Panel lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableRowAlt lipgloss.Style
}

// NewStyles creates the styles for t.
func NewStyles(t *Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			Italic(true),

		Help: lipgloss.NewStyle().
			Foreground(t.TextSubtle).
			Italic(true),

		Success: lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(t.Info),

		ProgressText: lipgloss.NewStyle().Foreground(t.TextMuted),
		Spinner:      lipgloss.NewStyle().Foreground(t.Primary),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border).
			Padding(0, 1),

		TableRow: lipgloss.NewStyle().
			Foreground(t.Text).
			Padding(0, 1),

		TableRowAlt: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.RowAlt).
			Padding(0, 1),
	}
}

// RenderStatusLine renders a status dot followed by message. status is one
// of "success", "warning", "error" or "info".
func (s Styles) RenderStatusLine(status, message string) string {
	var style lipgloss.Style
	switch status {
	case "success":
		style = s.Success
	case "warning":
		style = s.Warning
	case "error":
		style = s.Error
	default:
		style = s.Info
	}
	return style.Render("●") + " " + message
}
