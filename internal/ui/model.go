package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/scenex/internal/buffer"
	"github.com/oakwood-commons/scenex/internal/document"
	"github.com/oakwood-commons/scenex/internal/rules"
	"github.com/oakwood-commons/scenex/internal/scene"
	"github.com/oakwood-commons/scenex/internal/suggest"
	"github.com/oakwood-commons/scenex/internal/widgets"
	"github.com/oakwood-commons/scenex/pkg/settings"
)

// Config configures the editor model.
type Config struct {
	Path            string
	Text            string
	Rules           *rules.Registry
	TabWidth        int
	ContentDebounce time.Duration // Delay before a text change is re-parsed
	CursorDebounce  time.Duration // Delay before cursor movement refreshes suggestions
	NoColor         bool
	Theme           *Theme
	KeyMap          *KeyMap
	Log             logr.Logger

	// Save persists the document. Defaults to writing Path.
	Save func(path, text string) error
	// CopyText puts text on the clipboard. Defaults to the system clipboard.
	CopyText func(text string) error
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// contentSettledMsg fires after the content debounce. The ID is compared
// against Model.contentID so only the latest change re-parses.
type contentSettledMsg struct{ id int }

// cursorSettledMsg fires after the cursor debounce. The ID is compared
// against Model.cursorID so only the latest move refreshes suggestions.
type cursorSettledMsg struct{ id int }

func debounce(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Model is the Bubble Tea model of the scene editor.
type Model struct {
	cfg     Config
	buf     *buffer.Buffer
	scene   *scene.Engine
	sync    *widgets.Synchronizer
	suggest *suggest.Engine
	deco    *decorations
	keys    KeyMap
	help    help.Model
	styles  styles

	width  int
	height int
	top    int // first visible row

	contentID     int
	cursorID      int
	parsedVersion uint64
	modified      bool

	sceneErr    string
	warnings    []string
	message     string
	messageKind statusKind

	panelActive bool
	picker      *picker
	dropdown    *dropdown
	showHelp    bool
}

// New builds an editor over cfg.Text and runs the first parse and widget pass.
func New(cfg Config) *Model {
	if cfg.TabWidth < 1 {
		cfg.TabWidth = settings.DefaultTabWidth
	}
	if cfg.Save == nil {
		cfg.Save = writeFile
	}
	if cfg.CopyText == nil {
		cfg.CopyText = clipboard.WriteAll
	}
	theme := DefaultTheme()
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}
	keys := DefaultKeyMap()
	if cfg.KeyMap != nil {
		keys = *cfg.KeyMap
	}
	h := help.New()
	if cfg.NoColor {
		h.Styles = help.Styles{}
	}

	m := &Model{
		cfg:    cfg,
		buf:    buffer.New(cfg.Text, buffer.Options{}),
		scene:  scene.NewEngine(cfg.Log.WithName("scene")),
		deco:   newDecorations(),
		keys:   keys,
		help:   h,
		styles: newStyles(theme, cfg.NoColor),
		width:  80,
		height: 24,
	}
	m.sync = widgets.NewSynchronizer(widgets.Context{
		Buffer:   m.buf,
		Scene:    m.scene,
		Rules:    cfg.Rules,
		Sink:     m.deco,
		TabWidth: cfg.TabWidth,
		Log:      cfg.Log.WithName("widgets"),
	})
	m.suggest = suggest.NewEngine(suggest.Config{
		Buffer:   m.buf,
		Scene:    m.scene,
		Rules:    cfg.Rules,
		Sync:     m.sync,
		TabWidth: cfg.TabWidth,
		Log:      cfg.Log.WithName("suggest"),
	})
	m.scene.Subscribe(scene.ListenerFunc(m.onSceneEvent))
	m.buf.OnChange(func(c buffer.Change) {
		if c.Source != buffer.SourceReset {
			m.modified = true
		}
	})
	m.reparse()
	return m
}

func writeFile(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644) //nolint:gosec // scene files are user documents
}

// Text returns the current document.
func (m *Model) Text() string { return m.buf.Text() }

// Modified reports whether the document changed since it was loaded or saved.
func (m *Model) Modified() bool { return m.modified }

// Widgets returns the widgets of the last synchronization pass.
func (m *Model) Widgets() []widgets.Widget { return m.sync.Widgets() }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scrollToCursor()
		return m, nil
	case contentSettledMsg:
		if msg.id == m.contentID {
			m.reparse()
		}
		return m, nil
	case cursorSettledMsg:
		if msg.id == m.cursorID && m.picker == nil && m.dropdown == nil {
			m.panelActive = false
			m.suggest.Show(m.buf.Cursor().Row)
		}
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	m.message = ""
	version, cursor := m.buf.Version(), m.buf.Cursor()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Save):
		m.save()
		return nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.scrollToCursor()
		return nil
	}

	switch {
	case m.picker != nil:
		m.pickerKey(msg)
	case m.dropdown != nil:
		m.dropdownKey(msg)
	case m.suggest.Panel() != nil && m.panelKey(msg):
	default:
		m.editorKey(msg)
	}
	return m.afterKey(version, cursor)
}

// afterKey starts the debounce timers for whatever the key changed.
func (m *Model) afterKey(version uint64, cursor buffer.Pos) tea.Cmd {
	var cmds []tea.Cmd
	if m.buf.Version() != version {
		m.contentID++
		cmds = append(cmds, debounce(m.cfg.ContentDebounce, contentSettledMsg{id: m.contentID}))
	}
	if m.buf.Cursor() != cursor {
		m.cursorID++
		cmds = append(cmds, debounce(m.cfg.CursorDebounce, cursorSettledMsg{id: m.cursorID}))
	}
	m.scrollToCursor()
	return tea.Batch(cmds...)
}

func isText(msg tea.KeyPressMsg) bool {
	return msg.Text != "" && msg.Mod&(tea.ModCtrl|tea.ModAlt) == 0
}

func (m *Model) editorKey(msg tea.KeyPressMsg) {
	m.closePanel()
	row := m.buf.Cursor().Row
	switch {
	case key.Matches(msg, m.keys.Left):
		m.buf.MoveCursor(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.buf.MoveCursor(0, 1)
	case key.Matches(msg, m.keys.Up):
		m.buf.MoveCursor(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.buf.MoveCursor(1, 0)
	case key.Matches(msg, m.keys.Home):
		m.buf.SetCursor(buffer.Pos{Row: row})
	case key.Matches(msg, m.keys.End):
		m.buf.SetCursor(buffer.Pos{Row: row, Col: m.buf.LineLen(row)})
	case key.Matches(msg, m.keys.PageUp):
		m.buf.MoveCursor(-m.bodyHeight(), 0)
	case key.Matches(msg, m.keys.PageDown):
		m.buf.MoveCursor(m.bodyHeight(), 0)
	case key.Matches(msg, m.keys.Backspace):
		m.buf.DeleteBackward()
	case key.Matches(msg, m.keys.Delete):
		m.buf.DeleteForward()
	case key.Matches(msg, m.keys.Enter):
		m.newline()
	case key.Matches(msg, m.keys.Indent):
		m.buf.InsertText(strings.Repeat(" ", m.cfg.TabWidth))
	case key.Matches(msg, m.keys.Undo):
		m.buf.Undo()
	case key.Matches(msg, m.keys.Redo):
		m.buf.Redo()
	case key.Matches(msg, m.keys.FocusWidget):
		m.focusWidget()
	case key.Matches(msg, m.keys.Suggest):
		if m.suggest.Show(row) == nil {
			m.setStatus(statusInfo, "nothing to suggest here")
			return
		}
		m.panelActive = true
	case key.Matches(msg, m.keys.CopyAddress):
		m.copyAddress()
	case key.Matches(msg, m.keys.Close):
	default:
		if isText(msg) {
			m.buf.InsertText(msg.Text)
		}
	}
}

// newline splits the line and carries its indentation over. A key with no
// value opens a nested level.
func (m *Model) newline() {
	cur := m.buf.Cursor()
	line := m.buf.Line(cur.Row)
	indent := len(line) - len(strings.TrimLeft(line, " "))
	if indent > cur.Col {
		indent = cur.Col
	}
	if _, ok := document.KeyOf(line); ok && cur.Col >= m.buf.LineLen(cur.Row) && document.ValueOf(line) == "" {
		indent += m.cfg.TabWidth
	}
	m.buf.InsertText("\n" + strings.Repeat(" ", indent))
}

// panelKey handles a key while suggestions show and reports whether the
// panel consumed it. A panel that appeared on its own only takes tab (to
// focus it) and esc; any other key closes it and goes to the editor.
func (m *Model) panelKey(msg tea.KeyPressMsg) bool {
	p := m.suggest.Panel()
	if !m.panelActive {
		switch {
		case key.Matches(msg, m.keys.Indent):
			m.panelActive = true
			return true
		case key.Matches(msg, m.keys.Close):
			m.closePanel()
			return true
		}
		m.closePanel()
		return false
	}
	switch {
	case key.Matches(msg, m.keys.Close):
		m.closePanel()
	case key.Matches(msg, m.keys.NextItem):
		p.Next()
	case key.Matches(msg, m.keys.PrevItem):
		p.Prev()
	case key.Matches(msg, m.keys.Enter):
		m.acceptSuggestion()
	case key.Matches(msg, m.keys.Backspace):
		q := []rune(p.Query())
		if len(q) == 0 {
			m.closePanel()
			return true
		}
		p.Filter(string(q[:len(q)-1]))
	default:
		if isText(msg) {
			p.Filter(p.Query() + msg.Text)
			return true
		}
		m.closePanel()
		return false
	}
	return true
}

func (m *Model) closePanel() {
	m.suggest.Hide()
	m.panelActive = false
}

func (m *Model) acceptSuggestion() {
	m.panelActive = false
	line, err := m.suggest.AcceptSelected()
	if err != nil {
		m.suggest.Hide()
		m.setStatus(statusWarning, "no suggestion selected")
		return
	}
	m.buf.SetCursor(buffer.Pos{Row: line, Col: m.buf.LineLen(line)})
}

// focusWidget opens the widget on the cursor line: toggles flip at once,
// dropdowns and colors open an overlay.
func (m *Model) focusWidget() {
	if m.buf.Version() != m.parsedVersion {
		m.contentID++
		m.reparse()
	}
	w, ok := m.sync.At(m.buf.Cursor().Row)
	if !ok {
		m.setStatus(statusInfo, "no widget on this line")
		return
	}
	switch w.Kind {
	case widgets.KindToggle:
		m.writeBack(w, !w.Checked)
	case widgets.KindDropdown:
		sel := w.Selected
		if sel < 0 {
			sel = 0
		}
		m.dropdown = &dropdown{line: w.Line, path: w.Path(), options: w.Options, selected: sel}
	case widgets.KindColor:
		m.picker = &picker{line: w.Line, path: w.Path(), color: w.Color}
	}
}

func (m *Model) pickerKey(msg tea.KeyPressMsg) {
	p := m.picker
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Enter):
		m.picker = nil
	case key.Matches(msg, m.keys.PrevItem):
		p.nextChannel(-1)
	case key.Matches(msg, m.keys.NextItem):
		p.nextChannel(1)
	case key.Matches(msg, m.keys.Left):
		m.pickerAdjust(-1)
	case key.Matches(msg, m.keys.Right):
		m.pickerAdjust(1)
	}
}

// pickerAdjust changes the picked color and writes it back at once.
func (m *Model) pickerAdjust(steps int) {
	p := m.picker
	c := p.adjust(steps)
	w, ok := m.sync.Find(p.line, p.path)
	if !ok {
		m.picker = nil
		m.setStatus(statusWarning, "color widget is gone")
		return
	}
	p.line = w.Line
	m.writeBack(w, c)
}

func (m *Model) dropdownKey(msg tea.KeyPressMsg) {
	d := m.dropdown
	switch {
	case key.Matches(msg, m.keys.Close):
		m.dropdown = nil
	case key.Matches(msg, m.keys.NextItem):
		d.move(1)
	case key.Matches(msg, m.keys.PrevItem):
		d.move(-1)
	case key.Matches(msg, m.keys.Enter):
		m.dropdown = nil
		opt, ok := d.current()
		if !ok {
			return
		}
		if w, found := m.sync.Find(d.line, d.path); found {
			m.writeBack(w, opt)
		}
	}
}

// writeBack writes a widget value into the text and resynchronizes without
// waiting for the content debounce.
func (m *Model) writeBack(w widgets.Widget, value any) {
	if err := widgets.Apply(m.buf, w, value); err != nil {
		m.setStatus(statusError, err.Error())
		return
	}
	m.contentID++
	m.reparse()
}

// reparse loads the live buffer into the scene engine, rebuilds widgets and
// rebinds open overlays to their widgets.
func (m *Model) reparse() {
	m.warnings = nil
	_, _ = m.scene.Load(m.buf.Text())
	m.parsedVersion = m.buf.Version()
	m.sync.Sync()

	if m.picker != nil {
		w, ok := m.sync.Find(m.picker.line, m.picker.path)
		if ok && w.Kind == widgets.KindColor {
			m.picker.line = w.Line
		} else {
			m.picker = nil
		}
	}
	if m.dropdown != nil {
		w, ok := m.sync.Find(m.dropdown.line, m.dropdown.path)
		if ok && w.Kind == widgets.KindDropdown {
			m.dropdown.line = w.Line
		} else {
			m.dropdown = nil
		}
	}
}

func (m *Model) onSceneEvent(e scene.Event) {
	switch e.Type {
	case scene.EventError:
		m.sceneErr = scene.Summary(e)
	case scene.EventWarning:
		m.warnings = append(m.warnings, scene.Summary(e))
	case scene.EventChanged:
		m.sceneErr = ""
	}
}

func (m *Model) save() {
	if m.cfg.Path == "" {
		m.setStatus(statusError, "no file to save to")
		return
	}
	text := m.buf.Text()
	if err := m.cfg.Save(m.cfg.Path, text); err != nil {
		m.setStatus(statusError, fmt.Sprintf("save failed: %v", err))
		return
	}
	m.modified = false
	m.cfg.Log.V(1).Info("scene saved", "path", m.cfg.Path, "bytes", len(text))
	m.setStatus(statusSuccess, "saved "+m.cfg.Path)
}

func (m *Model) copyAddress() {
	address := m.cursorAddress()
	if len(address) == 0 {
		m.setStatus(statusInfo, "no address on this line")
		return
	}
	if err := m.cfg.CopyText(address.String()); err != nil {
		m.setStatus(statusError, fmt.Sprintf("copy failed: %v", err))
		return
	}
	m.setStatus(statusSuccess, "copied "+address.String())
}

func (m *Model) cursorAddress() document.Address {
	res := document.NewResolver(m.buf, m.cfg.TabWidth)
	return res.FullAddress(m.buf.Cursor().Row)
}

func (m *Model) setStatus(kind statusKind, msg string) {
	m.message = msg
	m.messageKind = kind
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}
