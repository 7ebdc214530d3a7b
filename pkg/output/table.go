package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
)

// StatusRow is one line of the status table
type StatusRow struct {
	Module string
	Target string
	Source string
	State  string
}

// stateColors maps reconciliation states to ANSI colors
var stateColors = map[string]lipgloss.Color{
	"synced":    lipgloss.Color("2"),
	"backed-up": lipgloss.Color("6"),
	"pending":   lipgloss.Color("3"),
	"conflict":  lipgloss.Color("1"),
	"error":     lipgloss.Color("1"),
}

// RenderStatusTable renders rows as a bordered table for w
func RenderStatusTable(w io.Writer, rows []StatusRow, color bool) string {
	renderer := lipgloss.NewRenderer(w)
	if !color {
		renderer.SetColorProfile(termenv.Ascii)
	}

	headerStyle := renderer.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := renderer.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(renderer.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("MODULE", "TARGET", "SOURCE", "STATE")

	for _, row := range rows {
		t.Row(row.Module, row.Target, row.Source, row.State)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col == 3 && row >= 0 && row < len(rows) {
			if c, ok := stateColors[rows[row].State]; ok {
				return cellStyle.Foreground(c)
			}
		}
		return cellStyle
	})

	return t.String()
}
