package suggest

import (
	"github.com/sahilm/fuzzy"

	"github.com/oakwood-commons/scenex/internal/document"
)

// Panel is the list of keys offered for one line. Only one panel exists at
// a time; showing suggestions replaces it.
type Panel struct {
	Line       int
	Address    document.Address
	Candidates []string

	// Indent is the indentation level new keys are inserted at.
	Indent int

	query    string
	visible  []int
	selected int
}

func newPanel(line, indent int, address document.Address, candidates []string) *Panel {
	p := &Panel{Line: line, Indent: indent, Address: address, Candidates: candidates}
	p.Filter("")
	return p
}

// Filter narrows the visible candidates to fuzzy matches of query, best match
// first. An empty query shows every candidate in order.
func (p *Panel) Filter(query string) {
	p.query = query
	p.selected = 0
	p.visible = p.visible[:0]
	if query == "" {
		for i := range p.Candidates {
			p.visible = append(p.visible, i)
		}
		return
	}
	for _, m := range fuzzy.Find(query, p.Candidates) {
		p.visible = append(p.visible, m.Index)
	}
}

// Query returns the current filter text.
func (p *Panel) Query() string { return p.query }

// Visible returns the candidates that pass the filter.
func (p *Panel) Visible() []string {
	out := make([]string, 0, len(p.visible))
	for _, i := range p.visible {
		out = append(out, p.Candidates[i])
	}
	return out
}

// SelectedIndex returns the position of the selection within Visible.
func (p *Panel) SelectedIndex() int { return p.selected }

// Selected returns the highlighted candidate.
func (p *Panel) Selected() (string, bool) {
	if len(p.visible) == 0 {
		return "", false
	}
	return p.Candidates[p.visible[p.selected]], true
}

// Next moves the selection down, wrapping at the end.
func (p *Panel) Next() {
	if n := len(p.visible); n > 0 {
		p.selected = (p.selected + 1) % n
	}
}

// Prev moves the selection up, wrapping at the start.
func (p *Panel) Prev() {
	if n := len(p.visible); n > 0 {
		p.selected = (p.selected - 1 + n) % n
	}
}
