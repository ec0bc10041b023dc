package ui

import "charm.land/bubbles/v2/key"

// KeyMap defines the editor key bindings.
type KeyMap struct {
	Left, Right, Up, Down key.Binding
	Home, End             key.Binding
	PageUp, PageDown      key.Binding

	Backspace, Delete key.Binding
	Enter, Indent     key.Binding

	Undo, Redo key.Binding
	Save, Quit key.Binding

	FocusWidget key.Binding
	Suggest     key.Binding
	NextItem    key.Binding
	PrevItem    key.Binding
	Close       key.Binding
	CopyAddress key.Binding
	Help        key.Binding
}

// DefaultKeyMap returns the bindings the editor starts with.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),

		Home:     key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "line start")),
		End:      key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "line end")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),

		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete left")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete right")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "newline / accept")),
		Indent:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "indent")),

		Undo: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo: key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit: key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),

		FocusWidget: key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "widget")),
		Suggest:     key.NewBinding(key.WithKeys("ctrl+n", "ctrl+@"), key.WithHelp("ctrl+n", "suggest")),
		NextItem:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		PrevItem:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		CopyAddress: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "copy address")),
		Help:        key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.FocusWidget, k.Suggest, k.CopyAddress, k.Help, k.Quit}
}

// FullHelp lists every binding, grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Home, k.End, k.PageUp, k.PageDown},
		{k.Enter, k.Indent, k.Backspace, k.Delete, k.Undo, k.Redo},
		{k.FocusWidget, k.Suggest, k.NextItem, k.PrevItem, k.Close},
		{k.Save, k.CopyAddress, k.Help, k.Quit},
	}
}
