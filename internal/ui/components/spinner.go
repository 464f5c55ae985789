// Package components provides the reusable widgets of the adbkit terminal
// views, built on charmbracelet/bubbles and styled by the theme package.
package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tungetti/adbkit/internal/ui/theme"
)

// SpinnerModel is a loading indicator with an optional message.
type SpinnerModel struct {
	spinner spinner.Model
	message string
	visible bool
}

// NewSpinner creates a visible spinner showing message.
func NewSpinner(styles theme.Styles, message string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner
	return SpinnerModel{spinner: s, message: message, visible: true}
}

// Init starts the animation.
func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update advances the animation on tick messages.
func (m SpinnerModel) Update(msg tea.Msg) (SpinnerModel, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View renders the spinner and its message.
func (m SpinnerModel) View() string {
	if !m.visible {
		return ""
	}
	if m.message == "" {
		return m.spinner.View()
	}
	return m.spinner.View() + " " + m.message
}

func (m *SpinnerModel) SetMessage(msg string) { m.message = msg }
func (m SpinnerModel) Message() string        { return m.message }
func (m *SpinnerModel) Show()                 { m.visible = true }
func (m *SpinnerModel) Hide()                 { m.visible = false }
func (m SpinnerModel) IsVisible() bool        { return m.visible }

// Tick returns the command that drives the animation.
func (m SpinnerModel) Tick() tea.Cmd {
	return m.spinner.Tick
}
