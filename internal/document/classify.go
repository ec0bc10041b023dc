package document

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	keyPattern  = regexp.MustCompile(`^\s*([\w-]+):`)
	wordPattern = regexp.MustCompile(`\w`)
)

// Line is a classified row of the buffer.
type Line struct {
	Index   int
	Text    string
	Level   int
	Empty   bool
	Comment bool
}

// Structural reports whether the line can own nested keys: it is neither
// empty nor a comment.
func (l Line) Structural() bool {
	return !l.Empty && !l.Comment
}

// KeyDecl is a line that declares a key.
type KeyDecl struct {
	Line int
	Name string
}

// Span is a half-open rune range [Start, End) within one line.
type Span struct {
	Start int
	End   int
}

// IndentLevel counts leading whitespace characters and divides by tabWidth.
// A tabWidth below 1 counts every character as one level.
func IndentLevel(text string, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n / tabWidth
}

// IsEmpty reports whether the line has no word characters.
func IsEmpty(text string) bool {
	return !wordPattern.MatchString(text)
}

// IsComment reports whether the first non-blank character is '#'.
func IsComment(text string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(text, unicode.IsSpace), "#")
}

// KeyOf returns the key declared at the start of the line, if any.
func KeyOf(text string) (string, bool) {
	m := keyPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ValueOf returns the value text of a key line, without a trailing comment.
func ValueOf(text string) string {
	span, ok := ValueSpan(text)
	if !ok {
		return ""
	}
	runes := []rune(text)
	return string(runes[span.Start:span.End])
}

// ValueSpan locates the value of a key line in runes. For a key with no value
// the span is empty and sits right after the colon.
func ValueSpan(text string) (Span, bool) {
	loc := keyPattern.FindStringIndex(text)
	if loc == nil {
		return Span{}, false
	}
	colonEnd := loc[1]
	rest := stripComment(text[colonEnd:])
	trimmedLeft := strings.TrimLeftFunc(rest, unicode.IsSpace)
	value := strings.TrimRightFunc(trimmedLeft, unicode.IsSpace)
	if value == "" {
		at := utf8.RuneCountInString(text[:colonEnd])
		return Span{Start: at, End: at}, true
	}
	startByte := colonEnd + (len(rest) - len(trimmedLeft))
	start := utf8.RuneCountInString(text[:startByte])
	return Span{Start: start, End: start + utf8.RuneCountInString(value)}, true
}

// IsPlaceholder reports values that open a nested block rather than holding
// a scalar: block scalar indicators and bare anchors.
func IsPlaceholder(value string) bool {
	switch strings.TrimSpace(value) {
	case "", "|", ">", "|-", ">-", "|+", ">+":
		return true
	}
	v := strings.TrimSpace(value)
	return strings.HasPrefix(v, "&") && !strings.ContainsAny(v, " \t")
}

// stripComment cuts a "# comment" that starts at the beginning or after
// whitespace, ignoring '#' inside quoted strings.
func stripComment(s string) string {
	var quote rune
	prevSpace := true
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '#' && prevSpace:
			return s[:i]
		}
		prevSpace = r == ' ' || r == '\t'
	}
	return s
}
