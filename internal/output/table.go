package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// Table collects rows for a bordered terminal table.
type Table struct {
	headers []string
	rows    [][]string

	// statusCol is styled with StatusStyle, or -1.
	statusCol int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, statusCol: -1}
}

// StatusColumn styles every cell of column col by its status word.
func (t *Table) StatusColumn(col int) *Table {
	t.statusCol = col
	return t
}

// Row appends a row.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table.
func (t *Table) String() string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorDimGray)).
		Headers(t.headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle()
		})

	for _, row := range t.rows {
		if t.statusCol >= 0 && t.statusCol < len(row) {
			row = append([]string(nil), row...)
			row[t.statusCol] = StatusStyle(row[t.statusCol]).Render(row[t.statusCol])
		}
		tbl.Row(row...)
	}
	return tbl.String()
}

// Section renders the table under a bold title line. An empty table
// renders nothing.
func (t *Table) Section(title string) string {
	if t.Len() == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleSummary.Render(title))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}
