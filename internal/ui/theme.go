package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme defines the colors used by the editor. Host apps can supply their own.
type Theme struct {
	GutterFG      color.Color // Line numbers
	CursorLineFG  color.Color // Line number of the cursor row
	KeyFG         color.Color // Widget labels and panel text
	WidgetFG      color.Color // Dropdown and toggle controls
	PanelFG       color.Color // Suggestion panel text
	PanelBG       color.Color // Suggestion panel background
	SelectedFG    color.Color // Highlighted panel row
	SelectedBG    color.Color // Highlighted panel row background
	StatusFG      color.Color // Normal status bar text
	StatusBG      color.Color // Status bar background
	StatusError   color.Color // Scene parse errors
	StatusWarning color.Color // Scene warnings
	StatusSuccess color.Color // Saves and copies
}

// DefaultTheme returns the dark palette.
func DefaultTheme() Theme {
	return Theme{
		GutterFG:      lipgloss.Color("241"),
		CursorLineFG:  lipgloss.Color("214"),
		KeyFG:         lipgloss.Color("81"),
		WidgetFG:      lipgloss.Color("150"),
		PanelFG:       lipgloss.Color("252"),
		PanelBG:       lipgloss.Color("236"),
		SelectedFG:    lipgloss.Color("232"),
		SelectedBG:    lipgloss.Color("214"),
		StatusFG:      lipgloss.Color("252"),
		StatusBG:      lipgloss.Color("237"),
		StatusError:   lipgloss.Color("203"),
		StatusWarning: lipgloss.Color("221"),
		StatusSuccess: lipgloss.Color("114"),
	}
}

// styles is the resolved set of lipgloss styles for one model. With noColor
// every style is empty so frames carry no ANSI sequences.
type styles struct {
	noColor    bool
	gutter     lipgloss.Style
	cursorNum  lipgloss.Style
	cursor     lipgloss.Style
	widget     lipgloss.Style
	panel      lipgloss.Style
	selected   lipgloss.Style
	status     lipgloss.Style
	statusErr  lipgloss.Style
	statusWarn lipgloss.Style
	statusOK   lipgloss.Style
}

func newStyles(t Theme, noColor bool) styles {
	if noColor {
		return styles{noColor: true}
	}
	return styles{
		gutter:     lipgloss.NewStyle().Foreground(t.GutterFG),
		cursorNum:  lipgloss.NewStyle().Foreground(t.CursorLineFG).Bold(true),
		cursor:     lipgloss.NewStyle().Reverse(true),
		widget:     lipgloss.NewStyle().Foreground(t.WidgetFG),
		panel:      lipgloss.NewStyle().Foreground(t.PanelFG).Background(t.PanelBG),
		selected:   lipgloss.NewStyle().Foreground(t.SelectedFG).Background(t.SelectedBG).Bold(true),
		status:     lipgloss.NewStyle().Foreground(t.StatusFG).Background(t.StatusBG),
		statusErr:  lipgloss.NewStyle().Foreground(t.StatusError).Background(t.StatusBG),
		statusWarn: lipgloss.NewStyle().Foreground(t.StatusWarning).Background(t.StatusBG),
		statusOK:   lipgloss.NewStyle().Foreground(t.StatusSuccess).Background(t.StatusBG),
	}
}

// swatch paints a block in the CSS color of a widget.
func (s styles) swatch(css string) string {
	if s.noColor {
		return "■"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(css)).Render("■")
}
