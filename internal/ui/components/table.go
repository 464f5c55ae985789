package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tungetti/adbkit/internal/ui/theme"
)

// Table renders rows of text in aligned columns with a styled header.
type Table struct {
	headers []string
	rows    [][]string
	styles  theme.Styles
}

// NewTable creates an empty table with the given column headers.
func NewTable(styles theme.Styles, headers ...string) *Table {
	return &Table{headers: headers, styles: styles}
}

// AddRow appends a row. Missing cells render empty, extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// View renders the table.
func (t *Table) View() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(t.rows)+1)
	lines = append(lines, t.renderRow(t.headers, widths, t.styles.TableHeader.Copy().BorderBottom(false)))
	for i, row := range t.rows {
		style := t.styles.TableRow
		if i%2 == 1 {
			style = t.styles.TableRowAlt
		}
		lines = append(lines, t.renderRow(row, widths, style))
	}
	return strings.Join(lines, "\n")
}

func (t *Table) renderRow(cells []string, widths []int, style lipgloss.Style) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = style.Copy().Width(widths[i] + 2).Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
