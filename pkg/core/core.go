// Package core is the headless scene API: the buffer, scene engine, widget
// synchronizer and suggestion engine the editor wires, without a terminal.
package core

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/scenex/internal/buffer"
	"github.com/oakwood-commons/scenex/internal/color"
	"github.com/oakwood-commons/scenex/internal/document"
	"github.com/oakwood-commons/scenex/internal/rules"
	"github.com/oakwood-commons/scenex/internal/scene"
	"github.com/oakwood-commons/scenex/internal/suggest"
	"github.com/oakwood-commons/scenex/internal/widgets"
	"github.com/oakwood-commons/scenex/pkg/settings"
)

var (
	// ErrNoWidget is returned by SetValue for a line without a widget.
	ErrNoWidget = errors.New("no widget on this line")
	// ErrInvalidValue is returned when a value does not fit a widget.
	ErrInvalidValue = errors.New("invalid widget value")
	// ErrLineRange is returned for a line outside the document.
	ErrLineRange = errors.New("line out of range")
)

// Scene is one scene document with its widgets kept in sync.
type Scene struct {
	buf      *buffer.Buffer
	engine   *scene.Engine
	sync     *widgets.Synchronizer
	suggest  *suggest.Engine
	tabWidth int
	warnings []scene.Event
	log      logr.Logger
}

type options struct {
	rules    *rules.Registry
	tabWidth int
	log      logr.Logger
}

// Option configures Open.
type Option func(*options)

// WithRules sets the rule registry. The default is the built-in rules.
func WithRules(r *rules.Registry) Option {
	return func(o *options) {
		o.rules = r
	}
}

// WithTabWidth sets the spaces per indent level.
func WithTabWidth(n int) Option {
	return func(o *options) {
		o.tabWidth = n
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(l logr.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// Open parses text and runs one widget pass. Text that does not parse is an
// error; duplicate keys are kept as warnings.
func Open(text string, opts ...Option) (*Scene, error) {
	o := options{tabWidth: settings.DefaultTabWidth, log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tabWidth < 1 {
		o.tabWidth = settings.DefaultTabWidth
	}
	if o.rules == nil {
		reg, err := rules.Load(o.log.WithName("rules"), "")
		if err != nil {
			return nil, err
		}
		o.rules = reg
	}

	s := &Scene{
		buf:      buffer.New(text, buffer.Options{HistoryLimit: -1}),
		engine:   scene.NewEngine(o.log.WithName("scene")),
		tabWidth: o.tabWidth,
		log:      o.log,
	}
	s.sync = widgets.NewSynchronizer(widgets.Context{
		Buffer:   s.buf,
		Scene:    s.engine,
		Rules:    o.rules,
		TabWidth: s.tabWidth,
		Log:      o.log.WithName("widgets"),
	})
	s.suggest = suggest.NewEngine(suggest.Config{
		Buffer:   s.buf,
		Scene:    s.engine,
		Rules:    o.rules,
		Sync:     s.sync,
		TabWidth: s.tabWidth,
		Log:      o.log.WithName("suggest"),
	})
	if err := s.reparse(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) reparse() error {
	res, err := s.engine.Load(s.buf.Text())
	if err != nil {
		return err
	}
	s.warnings = res.Warnings
	s.sync.Sync()
	return nil
}

// Text returns the document.
func (s *Scene) Text() string { return s.buf.Text() }

// LineCount returns the number of lines.
func (s *Scene) LineCount() int { return s.buf.LineCount() }

// Line returns line i, or "" when i is out of range.
func (s *Scene) Line(i int) string { return s.buf.Line(i) }

// TabWidth returns the spaces per indent level.
func (s *Scene) TabWidth() int { return s.tabWidth }

// Tree returns the parsed scene.
func (s *Scene) Tree() any { return s.engine.Tree() }

// Warnings returns the warnings of the last parse.
func (s *Scene) Warnings() []scene.Event {
	return append([]scene.Event(nil), s.warnings...)
}

// Parents returns the keys above line i.
func (s *Scene) Parents(i int) document.Address {
	return document.NewResolver(s.buf, s.tabWidth).AddressOf(i)
}

// Address returns the keys above line i followed by its own key, if any.
func (s *Scene) Address(i int) document.Address {
	return document.NewResolver(s.buf, s.tabWidth).FullAddress(i)
}

// Key returns the key declared on line i.
func (s *Scene) Key(i int) (string, bool) {
	key, _, ok := document.NewResolver(s.buf, s.tabWidth).KeyLine(i)
	return key, ok
}

// Widgets returns the widgets of the last pass in line order.
func (s *Scene) Widgets() []widgets.Widget { return s.sync.Widgets() }

// WidgetAt returns the widget on line i.
func (s *Scene) WidgetAt(i int) (widgets.Widget, bool) { return s.sync.At(i) }

// Suggest returns the key suggestions for line i, or nil when there are none.
func (s *Scene) Suggest(i int) *suggest.Panel {
	p := s.suggest.Show(i)
	s.suggest.Hide()
	return p
}

// AcceptSuggestion inserts key below line i the way the suggestion panel
// does and returns the new line index. key must be one of the suggestions.
func (s *Scene) AcceptSuggestion(i int, key string) (int, error) {
	p := s.suggest.Show(i)
	if p == nil || !slices.Contains(p.Candidates, key) {
		s.suggest.Hide()
		return 0, fmt.Errorf("%w: %q is not suggested for line %d", ErrInvalidValue, key, i+1)
	}
	line, err := s.suggest.Accept(key)
	if err != nil {
		return 0, err
	}
	return line, s.reparse()
}

// SetValue writes text through the widget on line i and reparses. Colors take
// any color notation, dropdowns one of their options and toggles a boolean.
func (s *Scene) SetValue(i int, text string) (widgets.Widget, error) {
	if i < 0 || i >= s.buf.LineCount() {
		return widgets.Widget{}, fmt.Errorf("%w: %d", ErrLineRange, i+1)
	}
	w, ok := s.sync.At(i)
	if !ok {
		return widgets.Widget{}, fmt.Errorf("line %d: %w", i+1, ErrNoWidget)
	}
	value, err := ParseValue(w, text)
	if err != nil {
		return w, err
	}
	if err := widgets.Apply(s.buf, w, value); err != nil {
		return w, fmt.Errorf("line %d: %w", i+1, err)
	}
	s.log.V(1).Info("widget value written", "line", i+1, "kind", string(w.Kind), "address", w.Path().String())
	if err := s.reparse(); err != nil {
		return w, err
	}
	if nw, ok := s.sync.Find(i, w.Path()); ok {
		return nw, nil
	}
	return w, nil
}

// ParseValue converts text to the value type w writes.
func ParseValue(w widgets.Widget, text string) (any, error) {
	switch w.Kind {
	case widgets.KindColor:
		c, err := color.ParseString(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidValue, text, err)
		}
		return c, nil
	case widgets.KindDropdown:
		if !slices.Contains(w.Options, text) {
			return nil, fmt.Errorf("%w: %q is not one of %s", ErrInvalidValue, text, strings.Join(w.Options, ", "))
		}
		return text, nil
	case widgets.KindToggle:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, text)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown widget kind %q", w.Kind)
}
