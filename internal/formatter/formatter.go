// Package formatter renders CLI output: tables of widgets and suggestions,
// YAML and JSON documents, scene outlines and the rule reference.
package formatter

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const defaultTerminalWidth = 100

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
)

// Stringify renders a scene value on one line: strings as-is with control
// characters escaped, collections as compact JSON.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return escapeScalarString(t)
	case bool, int, int64, float64:
		return fmt.Sprint(t)
	case map[string]any, []any:
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", t)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive // only collections need JSON
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", v)
}

// escapeScalarString flattens control characters so table rows stay single-line.
func escapeScalarString(s string) string {
	r := strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\n`, "\t", `\t`)
	return r.Replace(s)
}

// TerminalWidth returns the width of stdout, or a default when stdout is
// not a terminal.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultTerminalWidth
}

// Table is a header row plus data rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// TableOptions control RenderTable.
type TableOptions struct {
	NoColor bool
	// MaxWidth caps the total width; 0 means no cap.
	MaxWidth int
}

// RenderTable lays out t in aligned columns. When the natural width exceeds
// MaxWidth, the widest columns are shrunk and their cells truncated.
func RenderTable(t Table, opts TableOptions) string {
	if len(t.Columns) == 0 {
		return ""
	}
	widths := naturalWidths(t)
	const sep = "  "
	if opts.MaxWidth > 0 {
		widths = fitWidths(widths, opts.MaxWidth-len(sep)*(len(widths)-1))
	}

	var sb strings.Builder
	writeRow := func(cells []string, style lipgloss.Style) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			cell = runewidth.Truncate(cell, widths[i], "…")
			if i < len(widths)-1 {
				cell = padRight(cell, widths[i])
			}
			if !opts.NoColor {
				cell = style.Render(cell)
			}
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}

	writeRow(t.Columns, headerStyle)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	writeRow(rule, separatorStyle)
	for _, row := range t.Rows {
		writeRow(row, cellStyle)
	}
	return sb.String()
}

func naturalWidths(t Table) []int {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// fitWidths shrinks the widest column one cell at a time until the sum fits.
// Columns never go below 3 cells.
func fitWidths(widths []int, usable int) []int {
	const minCol = 3
	out := append([]int(nil), widths...)
	total := 0
	for _, w := range out {
		total += w
	}
	for total > usable {
		widest := -1
		for i, w := range out {
			if w > minCol && (widest < 0 || w > out[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		out[widest]--
		total--
	}
	return out
}

func padRight(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
