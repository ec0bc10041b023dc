package buffer

import "strings"

// DefaultHistoryLimit bounds the undo stack when Options leaves it at zero.
const DefaultHistoryLimit = 500

// Options configures a Buffer.
type Options struct {
	// HistoryLimit caps undo snapshots; negative disables undo.
	HistoryLimit int
}

// ChangeSource identifies what produced an edit.
type ChangeSource uint8

const (
	// SourceTyping is an edit made at the cursor.
	SourceTyping ChangeSource = iota
	// SourceReplace is a programmatic range replacement, such as a widget
	// writing its value back.
	SourceReplace
	// SourceHistory is an undo or redo.
	SourceHistory
	// SourceReset replaces the whole document.
	SourceReset
)

// Change describes one effective edit.
type Change struct {
	Source       ChangeSource
	Version      uint64
	Before       Range
	InsertedText string
	DeletedText  string
	LinesBefore  int
	LinesAfter   int
	CursorAfter  Pos
}

// Buffer holds the document lines and cursor. It is not safe for concurrent
// use; the editor drives it from its single event loop.
type Buffer struct {
	lines   [][]rune
	version uint64
	cursor  Pos

	opt  Options
	hist history

	nextID         int
	changeHandlers map[int]func(Change)
	cursorHandlers map[int]func(Pos)
	changeOrder    []int
	cursorOrder    []int
}

// New creates a buffer holding text.
func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = DefaultHistoryLimit
	}
	return &Buffer{
		lines:          splitLines(text),
		opt:            opt,
		changeHandlers: map[int]func(Change){},
		cursorHandlers: map[int]func(Pos){},
	}
}

// Text returns the document joined with '\n'.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(line))
	}
	return sb.String()
}

// LineCount returns the number of lines. An empty document has one line.
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns the text of row i, or "" when i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return string(b.lines[i])
}

// LineLen returns the rune length of row i.
func (b *Buffer) LineLen(i int) int {
	if i < 0 || i >= len(b.lines) {
		return 0
	}
	return len(b.lines[i])
}

// Version increases with every effective edit.
func (b *Buffer) Version() uint64 { return b.version }

// Cursor returns the cursor position.
func (b *Buffer) Cursor() Pos { return b.cursor }

// SetCursor moves the cursor, clamped to the document, and notifies cursor
// listeners when it actually moved.
func (b *Buffer) SetCursor(p Pos) {
	next := b.clamp(p)
	if next == b.cursor {
		return
	}
	b.cursor = next
	b.emitCursor()
}

// MoveCursor moves the cursor by rows and columns. Horizontal moves wrap
// across line ends.
func (b *Buffer) MoveCursor(dRow, dCol int) {
	p := b.cursor
	p.Row += dRow
	if dRow != 0 {
		p.Row = clampInt(p.Row, 0, len(b.lines)-1)
	}
	p.Col += dCol
	switch {
	case dCol < 0 && p.Col < 0 && p.Row > 0:
		p.Row--
		p.Col = b.LineLen(p.Row)
	case dCol > 0 && p.Col > b.LineLen(p.Row) && p.Row < len(b.lines)-1:
		p.Row++
		p.Col = 0
	}
	b.SetCursor(p)
}

// OnChange registers fn for edits and returns a function that removes it.
func (b *Buffer) OnChange(fn func(Change)) (unsubscribe func()) {
	id := b.register()
	b.changeHandlers[id] = fn
	b.changeOrder = append(b.changeOrder, id)
	return func() { delete(b.changeHandlers, id) }
}

// OnCursor registers fn for cursor moves and returns a function that
// removes it.
func (b *Buffer) OnCursor(fn func(Pos)) (unsubscribe func()) {
	id := b.register()
	b.cursorHandlers[id] = fn
	b.cursorOrder = append(b.cursorOrder, id)
	return func() { delete(b.cursorHandlers, id) }
}

func (b *Buffer) register() int {
	b.nextID++
	return b.nextID
}

func (b *Buffer) emitChange(c Change) {
	for _, id := range b.changeOrder {
		if fn, ok := b.changeHandlers[id]; ok {
			fn(c)
		}
	}
}

func (b *Buffer) emitCursor() {
	for _, id := range b.cursorOrder {
		if fn, ok := b.cursorHandlers[id]; ok {
			fn(b.cursor)
		}
	}
}

func (b *Buffer) clamp(p Pos) Pos {
	row := clampInt(p.Row, 0, len(b.lines)-1)
	return Pos{Row: row, Col: clampInt(p.Col, 0, len(b.lines[row]))}
}

func splitLines(text string) [][]rune {
	parts := strings.Split(text, "\n")
	lines := make([][]rune, 0, len(parts))
	for _, s := range parts {
		lines = append(lines, []rune(s))
	}
	return lines
}
