package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedScene = `styles:
  s1:
    shaders:
      blocks:
        color: |
          color.rgb *= 0.5;
layers:
  water:

    draw:
      polygons:
        color: blue
        visible: true`

func TestParentLine(t *testing.T) {
	r := NewResolver(SplitLines(nestedScene), 2)

	assert.Equal(t, 0, r.ParentLine(0), "root line is its own parent")
	assert.Equal(t, 0, r.ParentLine(1))
	assert.Equal(t, 3, r.ParentLine(4))
	assert.Equal(t, 7, r.ParentLine(9), "blank lines are skipped")
	assert.Equal(t, 10, r.ParentLine(12))
}

func TestResolveKey(t *testing.T) {
	lines := SplitLines("styles:\n  - one\n  - two")
	r := NewResolver(lines, 2)

	decl, ok := r.ResolveKey(2)
	require.True(t, ok)
	assert.Equal(t, KeyDecl{Line: 0, Name: "styles"}, decl)

	_, ok = NewResolver(SplitLines("- a\n- b"), 2).ResolveKey(1)
	assert.False(t, ok)

	_, ok = r.ResolveKey(-1)
	assert.False(t, ok)
}

func TestAddressOfNested(t *testing.T) {
	r := NewResolver(SplitLines(nestedScene), 2)

	assert.Equal(t, Address{"styles", "s1", "shaders", "blocks"}, r.AddressOf(4))
	assert.Equal(t, Address{"layers", "water", "draw", "polygons"}, r.AddressOf(12))
	assert.Equal(t, Address{}, r.AddressOf(0))
	assert.Equal(t, Address{"layers", "water", "draw", "polygons", "visible"}, r.FullAddress(12))
}

func TestAddressOfRootScenario(t *testing.T) {
	r := NewResolver(SplitLines("color: red\n  shade: light"), 2)

	assert.Empty(t, r.AddressOf(0))
	key, value, ok := r.KeyLine(0)
	require.True(t, ok)
	assert.Equal(t, "color", key)
	assert.Equal(t, "red", value)
	assert.Equal(t, Address{"color"}, r.AddressOf(1))
}

func TestAddressLengthMatchesDepth(t *testing.T) {
	var b strings.Builder
	keys := []string{"a", "b", "c", "d", "e", "f"}
	for depth, k := range keys {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(k)
		b.WriteString(":\n")
	}
	b.WriteString(strings.Repeat("  ", len(keys)))
	b.WriteString("leaf: 1")
	r := NewResolver(SplitLines(b.String()), 2)

	for i := 0; i <= len(keys); i++ {
		addr := r.AddressOf(i)
		assert.Len(t, addr, r.Indent(i), "line %d", i)
		assert.Equal(t, Address(keys[:i]), addr)
	}
}

func TestAddressOfWithoutAncestorKeys(t *testing.T) {
	r := NewResolver(SplitLines("- a\n  - b\n    - c"), 2)

	assert.NotPanics(t, func() {
		assert.Empty(t, r.AddressOf(2))
	})
	assert.Empty(t, r.AddressOf(99))
	assert.Empty(t, r.AddressOf(-1))
}

func TestAddressOfMalformedIndent(t *testing.T) {
	// "deep" skips a level, so its parent cannot be found and the walk stops.
	r := NewResolver(SplitLines("root:\n      deep: 1"), 2)
	assert.Empty(t, r.AddressOf(1))
}

func TestAddressOfRecomputesAfterEdit(t *testing.T) {
	lines := Strings{"a:", "  b: 1"}
	r := NewResolver(&lines, 2)
	assert.Equal(t, Address{"a"}, r.AddressOf(1))

	lines[0] = "z:"
	assert.Equal(t, Address{"z"}, r.AddressOf(1))
}

func TestAddressString(t *testing.T) {
	assert.Equal(t, "styles:s1:shaders", Address{"styles", "s1", "shaders"}.String())
	assert.Equal(t, "", Address{}.String())
	assert.True(t, Address{"a", "b"}.Equal(Address{"a", "b"}))
	assert.False(t, Address{"a"}.Equal(Address{"a", "b"}))
}

func TestParentLineSkipsComments(t *testing.T) {
	text := "lights:\n  sun:\n  # keyed lights below\n    diffuse: red\n"
	r := NewResolver(SplitLines(text), 2)

	assert.Equal(t, 1, r.ParentLine(3))
	assert.Equal(t, Address{"lights", "sun"}, r.AddressOf(3))
	assert.Equal(t, "lights:sun:diffuse", r.FullAddress(3).String())
}

func TestResolverLine(t *testing.T) {
	r := NewResolver(SplitLines("a:\n  # note\n\n  b: 1"), 2)

	l := r.Line(1)
	assert.Equal(t, Line{Index: 1, Text: "  # note", Level: 1, Comment: true}, l)
	assert.False(t, l.Structural())

	assert.True(t, r.Line(2).Empty)
	assert.False(t, r.Line(2).Structural())

	l = r.Line(3)
	assert.Equal(t, 1, l.Level)
	assert.True(t, l.Structural())
}
