// Package suggest proposes missing child keys for the line under the cursor
// and inserts the one the user picks.
package suggest

import (
	"errors"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/scenex/internal/document"
	"github.com/oakwood-commons/scenex/internal/navigator"
	"github.com/oakwood-commons/scenex/internal/rules"
	"github.com/oakwood-commons/scenex/internal/scene"
	"github.com/oakwood-commons/scenex/internal/widgets"
)

// ErrNoPanel is returned by Accept when no panel is showing.
var ErrNoPanel = errors.New("no suggestions showing")

// Buffer is the text suggestions read and insert into.
type Buffer interface {
	document.Lines
	InsertLineAfter(row int, text string)
}

// Resyncer rebuilds widgets after an insertion.
type Resyncer interface {
	Sync() []widgets.Widget
}

// Config wires an Engine.
type Config struct {
	Buffer   Buffer
	Scene    scene.Source
	Rules    *rules.Registry
	Sync     Resyncer
	TabWidth int
	Log      logr.Logger
}

// Engine computes suggestion panels.
type Engine struct {
	cfg   Config
	panel *Panel
}

// NewEngine returns an engine over cfg.
func NewEngine(cfg Config) *Engine {
	if cfg.TabWidth < 1 {
		cfg.TabWidth = 1
	}
	return &Engine{cfg: cfg}
}

// Panel returns the showing panel, or nil.
func (e *Engine) Panel() *Panel { return e.panel }

// Hide closes the panel.
func (e *Engine) Hide() { e.panel = nil }

// Show replaces the panel with the suggestions for line. It returns nil when
// there is nothing to suggest: no usable address, no rule offering keys for
// it, or every offered key already present.
func (e *Engine) Show(line int) *Panel {
	e.panel = nil
	if e.cfg.Buffer == nil || line < 0 || line >= e.cfg.Buffer.LineCount() {
		return nil
	}
	res := document.NewResolver(e.cfg.Buffer, e.cfg.TabWidth)
	address := res.FullAddress(line)
	if len(address) == 0 {
		return nil
	}

	var tree any
	if e.cfg.Scene != nil {
		tree = e.cfg.Scene.Tree()
	}
	present := map[string]bool{}
	for _, k := range navigator.Keys(navigator.Lookup(tree, address)) {
		present[k] = true
	}

	if e.cfg.Rules == nil {
		return nil
	}
	rule, ok := e.cfg.Rules.FirstOffering(rules.AddressTarget(line, address, tree))
	if !ok {
		return nil
	}
	var candidates []string
	var order navigator.KeyOrder
	if e.cfg.Scene != nil {
		order = e.cfg.Scene.KeyOrder
	}
	for _, c := range rules.OptionsFor(rule, tree, e.cfg.Rules.Navigator(order)) {
		if !present[c] {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		e.cfg.Log.V(2).Info("nothing to suggest", "line", line, "address", address.String())
		return nil
	}

	e.panel = newPanel(line, e.ownerIndent(res, line)+1, address, candidates)
	e.cfg.Log.V(2).Info("suggestions", "line", line, "address", address.String(), "rule", rule.Name(), "count", len(candidates))
	return e.panel
}

// ownerIndent is the indent of the key whose children are being suggested:
// the line itself when it declares a key, otherwise its parent.
func (e *Engine) ownerIndent(res *document.Resolver, line int) int {
	if _, ok := document.KeyOf(e.cfg.Buffer.Line(line)); ok {
		return res.Indent(line)
	}
	return res.Indent(res.ParentLine(line))
}

// Accept inserts candidate as a new key below the panel line, closes the
// panel and resynchronizes widgets. It returns the new line index.
func (e *Engine) Accept(candidate string) (int, error) {
	p := e.panel
	if p == nil {
		return 0, ErrNoPanel
	}
	text := strings.Repeat(" ", p.Indent*e.cfg.TabWidth) + candidate + ":"
	e.cfg.Buffer.InsertLineAfter(p.Line, text)
	e.panel = nil
	if e.cfg.Sync != nil {
		e.cfg.Sync.Sync()
	}
	return p.Line + 1, nil
}

// AcceptSelected accepts the highlighted candidate.
func (e *Engine) AcceptSelected() (int, error) {
	if e.panel == nil {
		return 0, ErrNoPanel
	}
	c, ok := e.panel.Selected()
	if !ok {
		return 0, ErrNoPanel
	}
	return e.Accept(c)
}
