package ui

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/scenex/internal/color"
	"github.com/oakwood-commons/scenex/internal/document"
)

// Picker channels, in the order up/down cycles through them.
const (
	channelHue = iota
	channelSaturation
	channelLightness
	channelAlpha
	channelCount
)

var channelNames = [channelCount]string{"hue", "saturation", "lightness", "alpha"}

// Step sizes for one left/right press.
const (
	hueStep   = 5.0
	levelStep = 0.05
)

// picker is the color overlay. It stores the line and key path of the widget
// it edits so it can find that widget again after every resync.
type picker struct {
	line    int
	path    document.Address
	color   color.Color
	channel int
}

func (p *picker) nextChannel(delta int) {
	p.channel = (p.channel + delta + channelCount) % channelCount
}

// adjust moves the selected channel by steps and returns the new color.
func (p *picker) adjust(steps int) color.Color {
	d := float64(steps)
	switch p.channel {
	case channelHue:
		p.color = p.color.Adjust(d*hueStep, 0, 0, 0)
	case channelSaturation:
		p.color = p.color.Adjust(0, d*levelStep, 0, 0)
	case channelLightness:
		p.color = p.color.Adjust(0, 0, d*levelStep, 0)
	case channelAlpha:
		p.color = p.color.Adjust(0, 0, 0, d*levelStep)
	}
	return p.color
}

func (p *picker) render(st styles, indent int) []string {
	h, s, l := p.color.HSL()
	values := [channelCount]string{
		fmt.Sprintf("%3.0f°", h),
		fmt.Sprintf("%3.0f%%", s*100),
		fmt.Sprintf("%3.0f%%", l*100),
		fmt.Sprintf("%4.2f", p.color.A),
	}
	pad := strings.Repeat(" ", indent)
	out := []string{pad + st.panel.Render(" "+st.swatch(color.CSS(p.color))+" "+color.Vector(p.color)+" ")}
	for i := 0; i < channelCount; i++ {
		row := fmt.Sprintf(" %-10s %s ", channelNames[i], values[i])
		if i == p.channel {
			out = append(out, pad+st.selected.Render("›"+row))
			continue
		}
		out = append(out, pad+st.panel.Render(" "+row))
	}
	return out
}

// dropdown is the option overlay of a string widget.
type dropdown struct {
	line     int
	path     document.Address
	options  []string
	selected int
}

func (d *dropdown) move(delta int) {
	if len(d.options) == 0 {
		return
	}
	d.selected = (d.selected + delta + len(d.options)) % len(d.options)
}

func (d *dropdown) current() (string, bool) {
	if d.selected < 0 || d.selected >= len(d.options) {
		return "", false
	}
	return d.options[d.selected], true
}

func (d *dropdown) render(st styles, indent int) []string {
	return renderList(st, indent, d.options, d.selected)
}

// renderList draws a vertical list with the selected row highlighted.
func renderList(st styles, indent int, items []string, selected int) []string {
	pad := strings.Repeat(" ", indent)
	width := 0
	for _, it := range items {
		if len([]rune(it)) > width {
			width = len([]rune(it))
		}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		row := fmt.Sprintf(" %-*s ", width, it)
		if i == selected {
			out = append(out, pad+st.selected.Render("›"+row))
			continue
		}
		out = append(out, pad+st.panel.Render(" "+row))
	}
	return out
}
