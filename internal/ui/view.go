package ui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// maxPanelRows caps how many suggestions are drawn at once.
const maxPanelRows = 8

func (m *Model) render() string {
	footer := m.helpView()
	body := m.renderBody(m.bodyHeightFor(footer))
	return strings.Join(append(body, m.statusView(), footer), "\n")
}

func (m *Model) helpView() string {
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) bodyHeight() int {
	return m.bodyHeightFor(m.helpView())
}

func (m *Model) bodyHeightFor(footer string) int {
	h := m.height - 1 - lipgloss.Height(footer)
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) scrollToCursor() {
	h := m.bodyHeight()
	row := m.buf.Cursor().Row
	if row < m.top {
		m.top = row
	}
	if row >= m.top+h {
		m.top = row - h + 1
	}
	if m.top < 0 {
		m.top = 0
	}
}

func (m *Model) gutterWidth() int {
	return len(strconv.Itoa(m.buf.LineCount()))
}

// renderBody draws the visible rows with overlays inserted below the row
// they belong to.
func (m *Model) renderBody(height int) []string {
	gutter := m.gutterWidth()
	out := make([]string, 0, height)
	for row := m.top; row < m.buf.LineCount() && len(out) < height; row++ {
		out = append(out, m.renderLine(row, gutter))
		out = append(out, m.overlayRows(row, gutter)...)
	}
	if len(out) > height {
		out = out[:height]
	}
	for len(out) < height {
		out = append(out, "")
	}
	return out
}

func (m *Model) renderLine(row, gutter int) string {
	cur := m.buf.Cursor()
	num := fmt.Sprintf("%*d", gutter, row+1)
	if row == cur.Row {
		num = m.styles.cursorNum.Render(num)
	} else {
		num = m.styles.gutter.Render(num)
	}
	text := m.buf.Line(row)
	if avail := m.width - gutter - 3; avail > 0 && runewidth.StringWidth(text) > avail {
		text = runewidth.Truncate(text, avail, "…")
	}
	if row == cur.Row && !m.styles.noColor {
		text = m.withCursor(text, cur.Col)
	}
	line := num + m.styles.gutter.Render(" │ ") + text
	if w, ok := m.deco.at(row); ok {
		line += "  " + renderWidget(w, m.styles)
	}
	return line
}

func (m *Model) withCursor(text string, col int) string {
	runes := []rune(text)
	if col >= len(runes) {
		return text + m.styles.cursor.Render(" ")
	}
	return string(runes[:col]) + m.styles.cursor.Render(string(runes[col])) + string(runes[col+1:])
}

// overlayRows returns the picker, dropdown or suggestion rows shown under row.
func (m *Model) overlayRows(row, gutter int) []string {
	base := gutter + 3
	switch {
	case m.picker != nil && m.picker.line == row:
		return m.picker.render(m.styles, base+leadingSpaces(m.buf.Line(row)))
	case m.dropdown != nil && m.dropdown.line == row:
		return m.dropdown.render(m.styles, base+leadingSpaces(m.buf.Line(row)))
	}
	p := m.suggest.Panel()
	if p == nil || p.Line != row {
		return nil
	}
	indent := base + p.Indent*m.cfg.TabWidth
	var out []string
	if p.Query() != "" {
		out = append(out, strings.Repeat(" ", indent)+m.styles.panel.Render(" filter: "+p.Query()+" "))
	}
	visible := p.Visible()
	if len(visible) == 0 {
		return append(out, strings.Repeat(" ", indent)+m.styles.panel.Render(" no matches "))
	}
	sel := p.SelectedIndex()
	start := 0
	if sel >= maxPanelRows {
		start = sel - maxPanelRows + 1
	}
	end := start + maxPanelRows
	if end > len(visible) {
		end = len(visible)
	}
	return append(out, renderList(m.styles, indent, visible[start:end], sel-start)...)
}

func leadingSpaces(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

func (m *Model) statusView() string {
	cur := m.buf.Cursor()
	name := m.cfg.Path
	if name == "" {
		name = "[scratch]"
	}
	if m.modified {
		name += " [+]"
	}
	left := fmt.Sprintf(" %s  Ln %d, Col %d", name, cur.Row+1, cur.Col+1)
	style := m.styles.status
	msg, kind := m.statusMessage()
	if msg != "" {
		left += "  " + msg
		switch kind {
		case statusError:
			style = m.styles.statusErr
		case statusWarning:
			style = m.styles.statusWarn
		case statusSuccess:
			style = m.styles.statusOK
		}
	}
	right := m.cursorAddress().String() + " "
	gap := m.width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return style.Render(left + strings.Repeat(" ", gap) + right)
}

// statusMessage picks what the status bar reports: a message from the last
// key first, then a scene parse error, then scene warnings.
func (m *Model) statusMessage() (string, statusKind) {
	switch {
	case m.message != "":
		return m.message, m.messageKind
	case m.sceneErr != "":
		return m.sceneErr, statusError
	case len(m.warnings) == 1:
		return m.warnings[0], statusWarning
	case len(m.warnings) > 1:
		return fmt.Sprintf("%s (+%d more)", m.warnings[0], len(m.warnings)-1), statusWarning
	}
	return "", statusInfo
}
