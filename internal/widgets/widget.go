// Package widgets decides which scene lines carry an inline control and
// writes control changes back into the text.
package widgets

import (
	"strings"

	"github.com/oakwood-commons/scenex/internal/color"
	"github.com/oakwood-commons/scenex/internal/document"
	"github.com/oakwood-commons/scenex/internal/navigator"
	"github.com/oakwood-commons/scenex/internal/rules"
)

// Kind is the control a widget renders as.
type Kind string

const (
	KindColor    Kind = "color"
	KindDropdown Kind = "dropdown"
	KindToggle   Kind = "toggle"
)

// Widget is one control attached at the end of a key line. Widgets are
// rebuilt from scratch on every pass.
type Widget struct {
	Line    int
	Col     int
	Kind    Kind
	Rule    string
	Key     string
	Value   string
	Address document.Address

	// Options and Selected are set for dropdowns; Selected is -1 when the
	// current value is not one of the options.
	Options  []string
	Selected int
	// Checked is set for toggles.
	Checked bool
	// Color is set for color swatches.
	Color color.Color
}

// Path is the address of the widget's own key.
func (w Widget) Path() document.Address {
	out := make(document.Address, 0, len(w.Address)+1)
	out = append(out, w.Address...)
	return append(out, w.Key)
}

// Same reports whether two widgets would render identically.
func (w Widget) Same(o Widget) bool {
	if w.Line != o.Line || w.Col != o.Col || w.Kind != o.Kind || w.Key != o.Key ||
		w.Value != o.Value || w.Selected != o.Selected || w.Checked != o.Checked ||
		w.Color != o.Color || !w.Address.Equal(o.Address) || len(w.Options) != len(o.Options) {
		return false
	}
	for i := range w.Options {
		if w.Options[i] != o.Options[i] {
			return false
		}
	}
	return true
}

// build creates the widget for a matched rule, or reports false when the
// rule type has no control or the value does not fit it.
func build(rule rules.Rule, base Widget, tree any, nav navigator.Navigator) (Widget, bool) {
	w := base
	w.Rule = rule.Name()
	switch rule.Type() {
	case rules.TypeColor:
		c, err := color.Parse(w.Value)
		if err != nil {
			return Widget{}, false
		}
		w.Kind = KindColor
		w.Color = c
	case rules.TypeString:
		opts := rules.OptionsFor(rule, tree, nav)
		if len(opts) == 0 {
			return Widget{}, false
		}
		w.Kind = KindDropdown
		w.Options = opts
		w.Selected = -1
		current := unquote(w.Value)
		for i, o := range opts {
			if o == current {
				w.Selected = i
				break
			}
		}
	case rules.TypeBoolean:
		w.Kind = KindToggle
		w.Checked = w.Value == "true"
	default:
		return Widget{}, false
	}
	return w, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
