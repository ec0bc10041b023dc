package buffer

import "strings"

// Replace replaces the text in r with text, which may contain newlines, and
// leaves the cursor where it was unless it sat inside or after the edit on
// the same rows, in which case it follows the edit.
func (b *Buffer) Replace(r Range, text string) bool {
	prevCursor := b.cursor
	c, ok := b.apply(r, text, SourceReplace)
	if !ok {
		return false
	}
	b.cursor = b.clamp(shiftPos(prevCursor, c))
	c.CursorAfter = b.cursor
	b.emitChange(c)
	if b.cursor != prevCursor {
		b.emitCursor()
	}
	return true
}

// InsertText inserts text at the cursor and moves the cursor after it.
func (b *Buffer) InsertText(s string) {
	if s == "" {
		return
	}
	b.editAtCursor(Range{Start: b.cursor, End: b.cursor}, s)
}

// InsertNewline splits the current line at the cursor.
func (b *Buffer) InsertNewline() {
	b.InsertText("\n")
}

// DeleteBackward removes the rune before the cursor, joining lines at
// column zero.
func (b *Buffer) DeleteBackward() {
	p := b.cursor
	switch {
	case p.Col > 0:
		b.editAtCursor(LineRange(p.Row, p.Col-1, p.Col), "")
	case p.Row > 0:
		prev := Pos{Row: p.Row - 1, Col: len(b.lines[p.Row-1])}
		b.editAtCursor(Range{Start: prev, End: p}, "")
	}
}

// DeleteForward removes the rune after the cursor, joining lines at the
// line end.
func (b *Buffer) DeleteForward() {
	p := b.cursor
	switch {
	case p.Col < len(b.lines[p.Row]):
		b.editAtCursor(LineRange(p.Row, p.Col, p.Col+1), "")
	case p.Row < len(b.lines)-1:
		b.editAtCursor(Range{Start: p, End: Pos{Row: p.Row + 1}}, "")
	}
}

// InsertLineAfter adds a new line holding text below row and puts the
// cursor at its end.
func (b *Buffer) InsertLineAfter(row int, text string) {
	row = clampInt(row, 0, len(b.lines)-1)
	end := Pos{Row: row, Col: len(b.lines[row])}
	b.editAtCursor(Range{Start: end, End: end}, "\n"+text)
}

// SetText replaces the whole document.
func (b *Buffer) SetText(text string) {
	last := len(b.lines) - 1
	all := Range{End: Pos{Row: last, Col: len(b.lines[last])}}
	c, ok := b.apply(all, text, SourceReset)
	if !ok {
		return
	}
	b.cursor = b.clamp(b.cursor)
	c.CursorAfter = b.cursor
	b.emitChange(c)
}

// TextIn returns the text covered by r.
func (b *Buffer) TextIn(r Range) string {
	r = b.clampRange(r)
	if r.Start.Row == r.End.Row {
		return string(b.lines[r.Start.Row][r.Start.Col:r.End.Col])
	}
	var sb strings.Builder
	sb.WriteString(string(b.lines[r.Start.Row][r.Start.Col:]))
	for row := r.Start.Row + 1; row < r.End.Row; row++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[row]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[r.End.Row][:r.End.Col]))
	return sb.String()
}

func (b *Buffer) editAtCursor(r Range, text string) {
	c, ok := b.apply(r, text, SourceTyping)
	if !ok {
		return
	}
	b.cursor = endOfInsert(c)
	c.CursorAfter = b.cursor
	b.emitChange(c)
	b.emitCursor()
}

func (b *Buffer) clampRange(r Range) Range {
	return Range{Start: b.clamp(r.Start), End: b.clamp(r.End)}.Normalize()
}

// apply mutates the lines and records history. The returned change has
// no cursor yet.
func (b *Buffer) apply(r Range, text string, src ChangeSource) (Change, bool) {
	r = b.clampRange(r)
	deleted := b.TextIn(r)
	if deleted == text {
		return Change{}, false
	}
	if src != SourceHistory {
		b.hist.record(b.opt.HistoryLimit, b.Text(), b.cursor)
	}

	before := len(b.lines)
	prefix := b.lines[r.Start.Row][:r.Start.Col]
	suffix := b.lines[r.End.Row][r.End.Col:]

	parts := strings.Split(text, "\n")
	repl := make([][]rune, 0, len(parts))
	for i, part := range parts {
		var line []rune
		if i == 0 {
			line = append(line, prefix...)
		}
		line = append(line, []rune(part)...)
		if i == len(parts)-1 {
			line = append(line, suffix...)
		}
		repl = append(repl, line)
	}

	out := make([][]rune, 0, len(b.lines)-(r.End.Row-r.Start.Row)+len(repl)-1)
	out = append(out, b.lines[:r.Start.Row]...)
	out = append(out, repl...)
	out = append(out, b.lines[r.End.Row+1:]...)
	b.lines = out
	b.version++

	return Change{
		Source:       src,
		Version:      b.version,
		Before:       r,
		InsertedText: text,
		DeletedText:  deleted,
		LinesBefore:  before,
		LinesAfter:   len(b.lines),
	}, true
}

// endOfInsert is the position right after the inserted text.
func endOfInsert(c Change) Pos {
	parts := strings.Split(c.InsertedText, "\n")
	last := []rune(parts[len(parts)-1])
	if len(parts) == 1 {
		return Pos{Row: c.Before.Start.Row, Col: c.Before.Start.Col + len(last)}
	}
	return Pos{Row: c.Before.Start.Row + len(parts) - 1, Col: len(last)}
}

// shiftPos maps a position from before c to after it.
func shiftPos(p Pos, c Change) Pos {
	switch {
	case ComparePos(p, c.Before.Start) <= 0:
		return p
	case ComparePos(p, c.Before.End) < 0:
		return endOfInsert(c)
	}
	end := endOfInsert(c)
	if p.Row == c.Before.End.Row {
		return Pos{Row: end.Row, Col: end.Col + p.Col - c.Before.End.Col}
	}
	return Pos{Row: p.Row + c.LinesAfter - c.LinesBefore, Col: p.Col}
}
