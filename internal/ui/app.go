// Package ui provides the Bubble Tea view that follows a network scan for adb
// devices, showing progress while hosts are probed and a table of the devices
// found.
package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tungetti/adbkit/internal/errors"
	"github.com/tungetti/adbkit/internal/scanner"
	"github.com/tungetti/adbkit/internal/ui/components"
	"github.com/tungetti/adbkit/internal/ui/theme"
)

// ViewState represents the phase of the scan view.
type ViewState int

const (
	ViewScanning ViewState = iota
	ViewComplete
	ViewError
)

// String returns the name of the state.
func (v ViewState) String() string {
	switch v {
	case ViewScanning:
		return "Scanning"
	case ViewComplete:
		return "Complete"
	case ViewError:
		return "Error"
	default:
		return "Unknown"
	}
}

const defaultProgressWidth = 40

// ScanModel is the Bubble Tea model of a running scan.
type ScanModel struct {
	CurrentView ViewState
	Width       int
	Quitting    bool
	Error       error

	subnet   string
	events   <-chan tea.Msg
	cancel   context.CancelFunc
	results  []scanner.Result
	theme    *theme.Theme
	spinner  components.SpinnerModel
	progress components.ProgressModel
	help     help.Model
	keyMap   KeyMap
}

// NewScanModel creates a model consuming events produced by StartScan.
// cancel, when not nil, is called when the user quits.
func NewScanModel(subnet string, events <-chan tea.Msg, cancel context.CancelFunc, th *theme.Theme) ScanModel {
	if th == nil {
		th = theme.DefaultTheme()
	}
	p := components.NewProgress(th.Styles, defaultProgressWidth)
	p.SetLabel("Probing " + subnet)
	return ScanModel{
		CurrentView: ViewScanning,
		subnet:      subnet,
		events:      events,
		cancel:      cancel,
		theme:       th,
		spinner:     components.NewSpinner(th.Styles, "Scanning"),
		progress:    p,
		help:        help.New(),
		keyMap:      DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), waitForEvent(m.events))
}

// Update implements tea.Model.
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			m.Quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		w := msg.Width - 10
		if w > defaultProgressWidth {
			w = defaultProgressWidth
		}
		if w > 0 {
			m.progress.SetWidth(w)
		}
		return m, nil

	case ResultMsg:
		m.results = append(m.results, msg.Result)
		m.spinner.SetMessage(fmt.Sprintf("Scanning, %d found", len(m.results)))
		return m, waitForEvent(m.events)

	case ProgressMsg:
		cmd := m.progress.SetProgress(msg.Done, msg.Total)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case DoneMsg:
		m.spinner.Hide()
		if msg.Err != nil {
			m.Error = msg.Err
			m.CurrentView = ViewError
		} else {
			m.CurrentView = ViewComplete
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	var pcmd tea.Cmd
	m.progress, pcmd = m.progress.Update(msg)
	return m, tea.Batch(cmd, pcmd)
}

// View implements tea.Model.
func (m ScanModel) View() string {
	s := m.theme.Styles
	var b strings.Builder

	b.WriteString(s.Title.Render("adb devices on " + m.subnet))
	b.WriteString("\n")

	if m.CurrentView == ViewScanning {
		b.WriteString(m.progress.View())
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString("\n\n")
	}

	if len(m.results) > 0 {
		b.WriteString(m.ResultsTable().View())
		b.WriteString("\n\n")
	}

	switch m.CurrentView {
	case ViewComplete:
		b.WriteString(s.RenderStatusLine("success", fmt.Sprintf("%d devices found", len(m.results))))
		b.WriteString("\n")
	case ViewError:
		status, label := "error", "Scan failed: "
		if errors.IsCode(m.Error, errors.Cancelled) {
			status, label = "warning", "Scan stopped: "
		}
		b.WriteString(s.RenderStatusLine(status, label+m.Error.Error()))
		b.WriteString("\n")
	default:
		if !m.Quitting {
			b.WriteString(m.help.View(m.keyMap))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ResultsTable renders the devices found so far, ordered by address.
func (m ScanModel) ResultsTable() *components.Table {
	results := m.Results()
	tbl := components.NewTable(m.theme.Styles, "ADDRESS", "STATE", "PRODUCT", "MODEL", "DEVICE", "SDK", "MAC")
	for _, r := range results {
		state := "open"
		if r.Connected {
			state = "device"
		}
		mac := ""
		if len(r.Mac) > 0 {
			mac = r.Mac.String()
		}
		tbl.AddRow(r.Addr.String(), state, r.Product, r.Model, r.Device, r.SDK, mac)
	}
	return tbl
}

// Results returns the hosts found so far, ordered by address.
func (m ScanModel) Results() []scanner.Result {
	results := make([]scanner.Result, len(m.results))
	copy(results, m.results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Addr.Addr().Less(results[j].Addr.Addr())
	})
	return results
}

// KeyMap returns the current key bindings.
func (m ScanModel) KeyMap() KeyMap {
	return m.keyMap
}
