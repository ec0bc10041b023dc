package buffer

type snapshot struct {
	text   string
	cursor Pos
}

type history struct {
	undo []snapshot
	redo []snapshot
}

func (h *history) record(limit int, text string, cursor Pos) {
	if limit < 0 {
		return
	}
	h.undo = append(h.undo, snapshot{text: text, cursor: cursor})
	if len(h.undo) > limit {
		h.undo = h.undo[len(h.undo)-limit:]
	}
	h.redo = nil
}

// CanUndo reports whether Undo would change the document.
func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

// CanRedo reports whether Redo would change the document.
func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

// Undo restores the text before the last edit.
func (b *Buffer) Undo() bool {
	if len(b.hist.undo) == 0 {
		return false
	}
	s := b.hist.undo[len(b.hist.undo)-1]
	b.hist.undo = b.hist.undo[:len(b.hist.undo)-1]
	b.hist.redo = append(b.hist.redo, snapshot{text: b.Text(), cursor: b.cursor})
	b.restore(s)
	return true
}

// Redo reapplies the last undone edit.
func (b *Buffer) Redo() bool {
	if len(b.hist.redo) == 0 {
		return false
	}
	s := b.hist.redo[len(b.hist.redo)-1]
	b.hist.redo = b.hist.redo[:len(b.hist.redo)-1]
	b.hist.undo = append(b.hist.undo, snapshot{text: b.Text(), cursor: b.cursor})
	b.restore(s)
	return true
}

func (b *Buffer) restore(s snapshot) {
	last := len(b.lines) - 1
	all := Range{End: Pos{Row: last, Col: len(b.lines[last])}}
	c, ok := b.apply(all, s.text, SourceHistory)
	if !ok {
		return
	}
	b.cursor = b.clamp(s.cursor)
	c.CursorAfter = b.cursor
	b.emitChange(c)
	b.emitCursor()
}
