package ui

import (
	"github.com/oakwood-commons/scenex/internal/color"
	"github.com/oakwood-commons/scenex/internal/widgets"
)

// decorations is the widget sink of the editor pane: one control per line,
// rendered after the line text.
type decorations struct {
	byLine map[int]widgets.Widget
}

func newDecorations() *decorations {
	return &decorations{byLine: map[int]widgets.Widget{}}
}

func (d *decorations) Clear() {
	d.byLine = map[int]widgets.Widget{}
}

func (d *decorations) Attach(w widgets.Widget) {
	d.byLine[w.Line] = w
}

func (d *decorations) at(line int) (widgets.Widget, bool) {
	w, ok := d.byLine[line]
	return w, ok
}

func (d *decorations) len() int { return len(d.byLine) }

// renderWidget draws the inline control for w.
func renderWidget(w widgets.Widget, st styles) string {
	switch w.Kind {
	case widgets.KindColor:
		return st.swatch(color.CSS(w.Color)) + " " + st.widget.Render(color.CSS(w.Color))
	case widgets.KindDropdown:
		current := "?"
		if w.Selected >= 0 && w.Selected < len(w.Options) {
			current = w.Options[w.Selected]
		}
		return st.widget.Render("[" + current + " ▾]")
	case widgets.KindToggle:
		if w.Checked {
			return st.widget.Render("[x]")
		}
		return st.widget.Render("[ ]")
	}
	return ""
}
