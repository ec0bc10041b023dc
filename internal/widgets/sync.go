package widgets

import (
	"unicode/utf8"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/scenex/internal/buffer"
	"github.com/oakwood-commons/scenex/internal/document"
	"github.com/oakwood-commons/scenex/internal/navigator"
	"github.com/oakwood-commons/scenex/internal/rules"
	"github.com/oakwood-commons/scenex/internal/scene"
)

// Buffer is the text the widgets read and write.
type Buffer interface {
	document.Lines
	Replace(r buffer.Range, text string) bool
}

// Sink is the decoration surface widgets are attached to.
type Sink interface {
	// Clear removes every widget attached so far.
	Clear()
	// Attach places w at its line and column.
	Attach(w Widget)
}

// Context bundles what the synchronizer and the writers work on.
type Context struct {
	Buffer   Buffer
	Scene    scene.Source
	Rules    *rules.Registry
	Sink     Sink
	TabWidth int
	Log      logr.Logger
}

func (c Context) tree() any {
	if c.Scene == nil {
		return nil
	}
	return c.Scene.Tree()
}

// navigator resolves rule sources with the registry's CEL environment and
// lists mapping keys in the order the scene declares them.
func (c Context) navigator() navigator.Navigator {
	var order navigator.KeyOrder
	if c.Scene != nil {
		order = c.Scene.KeyOrder
	}
	if c.Rules == nil {
		return navigator.Navigator{Order: order}
	}
	return c.Rules.Navigator(order)
}

// Synchronizer rebuilds the widget set from the live buffer.
type Synchronizer struct {
	ctx  Context
	last []Widget
}

// NewSynchronizer returns a synchronizer over ctx. A nil sink discards.
func NewSynchronizer(ctx Context) *Synchronizer {
	if ctx.Sink == nil {
		ctx.Sink = discard{}
	}
	return &Synchronizer{ctx: ctx}
}

// Context returns the context the synchronizer was built with.
func (s *Synchronizer) Context() Context { return s.ctx }

// Sync clears the sink and attaches one widget per matching key line. The
// first matching rule decides the widget; lines whose value is empty or a
// block placeholder are skipped.
func (s *Synchronizer) Sync() []Widget {
	s.ctx.Sink.Clear()
	res := document.NewResolver(s.ctx.Buffer, s.ctx.TabWidth)
	tree := s.ctx.tree()
	nav := s.ctx.navigator()

	var out []Widget
	for i := 0; i < s.ctx.Buffer.LineCount(); i++ {
		l := res.Line(i)
		if l.Comment {
			continue
		}
		text := l.Text
		key, ok := document.KeyOf(text)
		if !ok {
			continue
		}
		value := document.ValueOf(text)
		if value == "" || document.IsPlaceholder(value) {
			continue
		}
		address := res.AddressOf(i)
		if s.ctx.Rules == nil {
			continue
		}
		rule, ok := s.ctx.Rules.First(rules.Target{
			Line:    i,
			Key:     key,
			Value:   value,
			Address: address,
			Content: text,
			Tree:    tree,
		})
		if !ok {
			continue
		}
		w, ok := build(rule, Widget{
			Line:    i,
			Col:     utf8.RuneCountInString(text),
			Key:     key,
			Value:   value,
			Address: address,
		}, tree, nav)
		if !ok {
			continue
		}
		s.ctx.Sink.Attach(w)
		out = append(out, w)
	}
	s.last = out
	s.ctx.Log.V(2).Info("widgets synchronized", "count", len(out), "lines", s.ctx.Buffer.LineCount())
	return out
}

// Widgets returns the widgets of the last pass.
func (s *Synchronizer) Widgets() []Widget {
	return append([]Widget(nil), s.last...)
}

// At returns the widget on line, if any.
func (s *Synchronizer) At(line int) (Widget, bool) {
	for _, w := range s.last {
		if w.Line == line {
			return w, true
		}
	}
	return Widget{}, false
}

// Find relocates a widget after a pass: the widget on line with the same
// path, or else the widget with that path closest to line.
func (s *Synchronizer) Find(line int, path document.Address) (Widget, bool) {
	best, found := Widget{}, false
	bestDist := 0
	for _, w := range s.last {
		if !w.Path().Equal(path) {
			continue
		}
		d := w.Line - line
		if d < 0 {
			d = -d
		}
		if !found || d < bestDist {
			best, bestDist, found = w, d, true
		}
	}
	return best, found
}

type discard struct{}

func (discard) Clear()        {}
func (discard) Attach(Widget) {}
