package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tungetti/adbkit/internal/ui/theme"
)

// ProgressModel is a progress bar tracking current out of total.
type ProgressModel struct {
	progress progress.Model
	width    int
	label    string
	current  int
	total    int
	styles   theme.Styles
}

// NewProgress creates a progress bar of the given width.
func NewProgress(styles theme.Styles, width int) ProgressModel {
	p := progress.New(
		progress.WithGradient(string(theme.AndroidGreenDark), string(theme.AndroidGreen)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return ProgressModel{progress: p, width: width, styles: styles}
}

// Init implements tea.Model.
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update handles animation frames.
func (m ProgressModel) Update(msg tea.Msg) (ProgressModel, tea.Cmd) {
	if msg, ok := msg.(progress.FrameMsg); ok {
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View renders the bar with a percentage, preceded by the label if set.
func (m ProgressModel) View() string {
	percent := m.Percent()
	bar := m.progress.ViewAs(percent) + m.styles.ProgressText.Render(fmt.Sprintf(" %3.0f%%", percent*100))
	if m.label != "" {
		return m.styles.ProgressText.Render(m.label) + "\n" + bar
	}
	return bar
}

// SetProgress records current out of total.
func (m *ProgressModel) SetProgress(current, total int) tea.Cmd {
	m.current = current
	m.total = total
	return m.progress.SetPercent(m.Percent())
}

func (m *ProgressModel) SetLabel(label string) { m.label = label }
func (m ProgressModel) Label() string          { return m.label }
func (m ProgressModel) Current() int           { return m.current }
func (m ProgressModel) Total() int             { return m.total }

// SetWidth resizes the bar.
func (m *ProgressModel) SetWidth(width int) {
	m.width = width
	m.progress.Width = width
}

// Percent returns the completed fraction between 0 and 1.
func (m ProgressModel) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	p := float64(m.current) / float64(m.total)
	if p > 1 {
		return 1
	}
	return p
}

// IsComplete reports whether current has reached total.
func (m ProgressModel) IsComplete() bool {
	return m.total > 0 && m.current >= m.total
}
