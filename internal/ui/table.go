package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table of networks, wallets or ABI methods.
type Table struct {
	Columns []Column
	Rows    []Row
	SelIdx  int // highlighted row (-1 = none)
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols, SelIdx: -1}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Render returns the full table as a string.
// Cells are padded by display width so multi-byte glyphs such as "…" keep
// columns aligned.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)

	line := func(cells []string) {
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteString("\n")
	}

	cells := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = headerStyle.Render(fit(col.Title, col.Width))
	}
	line(cells)

	for i, col := range t.Columns {
		cells[i] = StyleDim.Render(strings.Repeat("-", col.Width))
	}
	line(cells)

	for r, row := range t.Rows {
		style := cellStyle
		if r == t.SelIdx {
			style = StyleSelected
		}
		for i, col := range t.Columns {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			cells[i] = style.Render(fit(val, col.Width))
		}
		line(cells)
	}

	return sb.String()
}

// fit left-aligns s in exactly width display cells, truncating with "…".
func fit(s string, width int) string {
	w := lipgloss.Width(s)
	if w == width {
		return s
	}
	if w < width {
		return s + strings.Repeat(" ", width-w)
	}
	if width <= 1 {
		return string([]rune(s)[:width])
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fit(p[0]+":", 20))
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}
