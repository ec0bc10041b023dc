package document

import "strings"

// Lines is the read side of a text buffer.
type Lines interface {
	LineCount() int
	Line(i int) string
}

// Address is a root-first sequence of keys.
type Address []string

// String joins the keys with ':' (the form rule patterns match against).
func (a Address) String() string {
	return strings.Join(a, ":")
}

// Equal reports whether two addresses hold the same keys in the same order.
func (a Address) Equal(b Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Resolver answers structural questions about a buffer.
type Resolver struct {
	doc      Lines
	tabWidth int
}

// NewResolver binds a resolver to a buffer and an indent width.
func NewResolver(doc Lines, tabWidth int) *Resolver {
	if tabWidth < 1 {
		tabWidth = 1
	}
	return &Resolver{doc: doc, tabWidth: tabWidth}
}

// TabWidth returns the indent width used for level computation.
func (r *Resolver) TabWidth() int {
	return r.tabWidth
}

func (r *Resolver) valid(i int) bool {
	return i >= 0 && i < r.doc.LineCount()
}

// Line classifies line i.
func (r *Resolver) Line(i int) Line {
	text := r.doc.Line(i)
	return Line{
		Index:   i,
		Text:    text,
		Level:   IndentLevel(text, r.tabWidth),
		Empty:   IsEmpty(text),
		Comment: IsComment(text),
	}
}

// Indent returns the indent level of line i.
func (r *Resolver) Indent(i int) int {
	return IndentLevel(r.doc.Line(i), r.tabWidth)
}

// ParentLine returns the nearest line above i that is neither empty nor a
// comment and sits exactly one level shallower. A line without one is its
// own parent.
func (r *Resolver) ParentLine(i int) int {
	if !r.valid(i) {
		return i
	}
	want := r.Indent(i) - 1
	if want < 0 {
		return i
	}
	for j := i - 1; j >= 0; j-- {
		l := r.Line(j)
		if l.Structural() && l.Level == want {
			return j
		}
	}
	return i
}

// ResolveKey returns line i when it declares a key, otherwise the nearest key
// line above it.
func (r *Resolver) ResolveKey(i int) (KeyDecl, bool) {
	if i >= r.doc.LineCount() {
		i = r.doc.LineCount() - 1
	}
	for ; i >= 0; i-- {
		if name, ok := KeyOf(r.doc.Line(i)); ok {
			return KeyDecl{Line: i, Name: name}, true
		}
	}
	return KeyDecl{}, false
}

// AddressOf reconstructs the keys from the document root down to the parent
// of line i. A line at depth d gets d keys; the walk stops early and returns
// what it has when an ancestor cannot be found.
func (r *Resolver) AddressOf(i int) Address {
	if !r.valid(i) {
		return Address{}
	}
	var keys []string
	cur := i
	level := r.Indent(i)
	for level > 0 {
		parent := r.ParentLine(cur)
		if parent == cur {
			break
		}
		decl, ok := r.ResolveKey(parent)
		if !ok {
			break
		}
		keys = append(keys, decl.Name)
		level = r.Indent(decl.Line)
		cur = decl.Line
	}
	addr := make(Address, len(keys))
	for k, name := range keys {
		addr[len(keys)-1-k] = name
	}
	return addr
}

// FullAddress is AddressOf(i) followed by the key declared on line i, if any.
func (r *Resolver) FullAddress(i int) Address {
	addr := r.AddressOf(i)
	if !r.valid(i) {
		return addr
	}
	if name, ok := KeyOf(r.doc.Line(i)); ok {
		addr = append(addr, name)
	}
	return addr
}

// KeyLine returns the key declared on line i and its value.
func (r *Resolver) KeyLine(i int) (key, value string, ok bool) {
	if !r.valid(i) {
		return "", "", false
	}
	text := r.doc.Line(i)
	key, ok = KeyOf(text)
	if !ok {
		return "", "", false
	}
	return key, ValueOf(text), true
}

// Strings adapts a slice of lines to Lines.
type Strings []string

// SplitLines splits text on newlines into Strings.
func SplitLines(text string) Strings {
	return Strings(strings.Split(text, "\n"))
}

func (s Strings) LineCount() int { return len(s) }

func (s Strings) Line(i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}
	return s[i]
}
