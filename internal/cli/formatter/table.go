package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	colGap = 2
	// minLastCol is the narrowest the last column is squeezed to.
	minLastCol = 12
)

// Table lays out rows under a header and a dim rule. Columns are sized by
// visible width, so styled cells line up.
//
// The last column holds the long values (tarefa strings). When MaxWidth is
// set it is truncated with an ellipsis so each line fits the terminal.
type Table struct {
	Headers  []string
	MaxWidth int
}

// Render returns the table, one line per row. A table without headers
// renders as the empty string.
func (t Table) Render(rows [][]string) string {
	cols := len(t.Headers)
	if cols == 0 {
		return ""
	}
	widths := t.widths(rows)

	var b strings.Builder
	header := make([]string, cols)
	rule := make([]string, cols)
	for i, h := range t.Headers {
		header[i] = StyleHeader.Render(h)
		rule[i] = StyleDim.Render(strings.Repeat("─", widths[i]))
	}
	writeRow(&b, header, widths)
	writeRow(&b, rule, widths)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	return b.String()
}

func (t Table) widths(rows [][]string) []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	if t.MaxWidth > 0 {
		last := len(widths) - 1
		used := 0
		for _, w := range widths[:last] {
			used += w + colGap
		}
		widths[last] = min(widths[last], max(t.MaxWidth-used, minLastCol))
	}
	return widths
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	last := len(widths) - 1
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if i == last {
			b.WriteString(ansi.Truncate(cell, w, "…"))
			break
		}
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", max(w-lipgloss.Width(cell), 0)+colGap))
	}
	b.WriteString("\n")
}
