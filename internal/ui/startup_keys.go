package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyKeys feeds key tokens to the model before it renders or runs.
// Tokens mix <...> keys with literal text, e.g. "<Down><C-w>" or "name<CR>".
// A leading backslash forces the whole token to be typed literally.
func ApplyKeys(m *Model, keys []string) {
	if m == nil {
		return
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, `\`) {
			typeText(m, strings.TrimPrefix(token, `\`))
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isKey {
				typeText(m, segment.text)
				continue
			}
			if msg, ok := keyMsgFromToken(segment.text); ok {
				m.Update(msg)
			}
		}
	}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// tokenSegment is either a <...> key or a run of literal text.
type tokenSegment struct {
	text  string
	isKey bool
}

// parseTokenSegments splits a token into keys and literal text.
// Example: "<C-w>abc" -> [{"<C-w>", true}, {"abc", false}]
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for len(remaining) > 0 {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end == -1 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

var namedKeys = map[string]rune{
	"esc":       tea.KeyEscape,
	"escape":    tea.KeyEscape,
	"cr":        tea.KeyEnter,
	"enter":     tea.KeyEnter,
	"return":    tea.KeyEnter,
	"tab":       tea.KeyTab,
	"bs":        tea.KeyBackspace,
	"backspace": tea.KeyBackspace,
	"del":       tea.KeyDelete,
	"delete":    tea.KeyDelete,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"f1":        tea.KeyF1,
}

// keyMsgFromToken parses a Vim-like token such as "<Esc>", "<CR>", "<S-Tab>",
// "<Space>" or "<C-s>" into a key press.
func keyMsgFromToken(token string) (tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return tea.KeyPressMsg{}, false
	}
	inner := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">"))
	switch {
	case inner == "space":
		return tea.KeyPressMsg{Code: ' ', Text: " "}, true
	case inner == "s-tab":
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}, true
	case strings.HasPrefix(inner, "c-") && len([]rune(inner)) == 3:
		return tea.KeyPressMsg{Code: []rune(inner)[2], Mod: tea.ModCtrl}, true
	}
	if code, ok := namedKeys[inner]; ok {
		return tea.KeyPressMsg{Code: code}, true
	}
	return tea.KeyPressMsg{}, false
}
