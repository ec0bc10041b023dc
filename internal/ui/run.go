package ui

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// Run starts the editor and blocks until the user quits or ctx is done.
// Extra ProgramOptions (e.g., custom IO) are passed to tea.NewProgram.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) (*Model, error) {
	m := New(cfg)
	w, h := 80, 24
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	m.width, m.height = w, h
	opts = append(opts, tea.WithContext(ctx), tea.WithWindowSize(w, h))

	cfg.Log.V(1).Info("editor starting", "path", cfg.Path, "widgets", m.deco.len(), "width", w, "height", h)
	prog := tea.NewProgram(m, opts...)
	if _, err := prog.Run(); err != nil {
		return m, err
	}
	return m, nil
}

// SnapshotConfig configures a single rendered frame.
type SnapshotConfig struct {
	Width  int
	Height int
	Keys   []string
	// Settle delivers both debounce messages after the keys so the frame
	// shows the re-parsed widgets and the suggestions for the cursor line.
	Settle bool
}

// RenderSnapshot renders one frame of the editor without a terminal.
func RenderSnapshot(cfg Config, snap SnapshotConfig) string {
	m := New(cfg)
	width, height := snap.Width, snap.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	ApplyKeys(m, snap.Keys)
	if snap.Settle {
		m.Update(contentSettledMsg{id: m.contentID})
		m.Update(cursorSettledMsg{id: m.cursorID})
	}
	return m.render()
}
