package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wardentools/core/tui/theme"
)

// Table renders rows of plain-text cells under styled headers. Column widths
// follow the widest cell; styling is applied after width calculation so ANSI
// sequences never skew the layout.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row. Missing cells render empty; extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	t.rows = append(t.rows, row)
}

// Render returns the formatted table.
func (t *Table) Render() string {
	th := theme.DefaultTheme

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

	pad := func(s string, width int) string {
		if gap := width - lipgloss.Width(s); gap > 0 {
			return s + strings.Repeat(" ", gap)
		}
		return s
	}

	var b strings.Builder
	headerCells := make([]string, len(t.headers))
	for i, h := range t.headers {
		headerCells[i] = th.Bold.Render(pad(h, widths[i]))
	}
	b.WriteString(strings.Join(headerCells, "  "))
	b.WriteString("\n")

	rule := make([]string, len(t.headers))
	for i := range t.headers {
		rule[i] = th.Muted.Render(strings.Repeat("─", widths[i]))
	}
	b.WriteString(strings.Join(rule, "  "))
	b.WriteString("\n")

	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteString("\n")
	}
	return b.String()
}

// KeyValues renders aligned "key: value" lines, in insertion order.
type KeyValues struct {
	keys   []string
	values []string
}

// NewKeyValues creates an empty key/value block.
func NewKeyValues() *KeyValues {
	return &KeyValues{}
}

// Add appends one key/value pair.
func (kv *KeyValues) Add(key, value string) *KeyValues {
	kv.keys = append(kv.keys, key)
	kv.values = append(kv.values, value)
	return kv
}

// Render returns the formatted block.
func (kv *KeyValues) Render() string {
	th := theme.DefaultTheme

	maxKey := 0
	for _, k := range kv.keys {
		if len(k) > maxKey {
			maxKey = len(k)
		}
	}

	var b strings.Builder
	for i, k := range kv.keys {
		padding := strings.Repeat(" ", maxKey-len(k))
		fmt.Fprintf(&b, "%s%s  %s\n", th.Muted.Render(k+":"), padding, kv.values[i])
	}
	return b.String()
}

// StatusLine renders an icon-prefixed status line: kind is one of success,
// error, warning or info.
func StatusLine(kind, text string) string {
	th := theme.DefaultTheme
	switch kind {
	case "success":
		return fmt.Sprintf("%s %s", th.Success.Render(theme.IconSuccess), text)
	case "error":
		return fmt.Sprintf("%s %s", th.Error.Render(theme.IconError), text)
	case "warning":
		return fmt.Sprintf("%s %s", th.Warning.Render(theme.IconWarning), text)
	default:
		return fmt.Sprintf("%s %s", th.Info.Render(theme.IconInfo), text)
	}
}
