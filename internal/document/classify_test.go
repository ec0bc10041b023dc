package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndentLevel(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		tabWidth int
		want     int
	}{
		{name: "root", text: "styles:", tabWidth: 2, want: 0},
		{name: "one level", text: "  water:", tabWidth: 2, want: 1},
		{name: "floored", text: "   base: polygons", tabWidth: 2, want: 1},
		{name: "four space indent", text: "        color: red", tabWidth: 4, want: 2},
		{name: "tab characters count once", text: "\t\tcolor: red", tabWidth: 1, want: 2},
		{name: "zero width treated as one", text: "   x: 1", tabWidth: 0, want: 3},
		{name: "blank line", text: "", tabWidth: 2, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IndentLevel(tt.text, tt.tabWidth))
		})
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("    "))
	assert.True(t, IsEmpty("  - ---"))
	assert.False(t, IsEmpty("  color: red"))
	assert.False(t, IsEmpty("# comment"))
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{text: "color: red", want: "color", wantOK: true},
		{text: "    line-width: 2px", want: "line-width", wantOK: true},
		{text: "styles:", want: "styles", wantOK: true},
		{text: "  url: https://example.com/tiles/{z}/{x}/{y}", want: "url", wantOK: true},
		{text: "- color: red", wantOK: false},
		{text: "  # color: red", wantOK: false},
		{text: "  plain text", wantOK: false},
		{text: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := KeyOf(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "color: red", want: "red"},
		{text: "  color: [0.5, 0.5, 1.0]  ", want: "[0.5, 0.5, 1.0]"},
		{text: "  visible: true # hide later", want: "true"},
		{text: `  name: "a # b"`, want: `"a # b"`},
		{text: "  color: '#ff0000'", want: "'#ff0000'"},
		{text: "  color: #ff0000", want: ""},
		{text: "styles:", want: ""},
		{text: "no key here", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueOf(tt.text))
		})
	}
}

func TestValueSpan(t *testing.T) {
	span, ok := ValueSpan("  color: red # note")
	assert.True(t, ok)
	assert.Equal(t, Span{Start: 9, End: 12}, span)

	span, ok = ValueSpan("  order:")
	assert.True(t, ok)
	assert.Equal(t, Span{Start: 8, End: 8}, span)

	span, ok = ValueSpan("  name: café")
	assert.True(t, ok)
	assert.Equal(t, Span{Start: 8, End: 12}, span)

	_, ok = ValueSpan("- item")
	assert.False(t, ok)
}

func TestIsPlaceholder(t *testing.T) {
	for _, v := range []string{"", " ", "|", ">", "|-", ">-", "&base"} {
		assert.True(t, IsPlaceholder(v), "IsPlaceholder(%q)", v)
	}
	for _, v := range []string{"red", "true", "[1, 0, 0]", "&base red", "|x"} {
		assert.False(t, IsPlaceholder(v), "IsPlaceholder(%q)", v)
	}
}

func TestIsComment(t *testing.T) {
	assert.True(t, IsComment("# top"))
	assert.True(t, IsComment("    # nested"))
	assert.True(t, IsComment("\t#"))
	assert.False(t, IsComment("color: red # trailing"))
	assert.False(t, IsComment(""))
	assert.False(t, IsComment("  '#ff0000'"))
}
