// Package color converts between the color notations found in scene files
// and the RGBA value the picker edits.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// ErrUnknownColor is returned when a value is not a recognized color.
var ErrUnknownColor = errors.New("unknown color")

// Color is a straight-alpha color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Opaque returns an opaque color.
func Opaque(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Parse reads a color from a scene value. Accepted forms are vectors of three
// or four numbers in [0, 1] (as a sequence or its flow text), hex strings
// (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb()/rgba() and CSS color names.
func Parse(value any) (Color, error) {
	switch v := value.(type) {
	case nil:
		return Color{}, ErrUnknownColor
	case string:
		return ParseString(v)
	case []any:
		return fromComponents(v)
	case []float64:
		items := make([]any, len(v))
		for i, f := range v {
			items[i] = f
		}
		return fromComponents(items)
	case Color:
		return v, nil
	}
	return Color{}, fmt.Errorf("%w: %v", ErrUnknownColor, value)
}

// ParseString reads a color from its textual form.
func ParseString(s string) (Color, error) {
	text := strings.TrimSpace(s)
	text = strings.Trim(text, `"'`)
	lower := strings.ToLower(text)
	switch {
	case text == "":
		return Color{}, ErrUnknownColor
	case strings.HasPrefix(text, "["):
		var items []any
		if err := yaml.Unmarshal([]byte(text), &items); err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
		}
		return fromComponents(items)
	case strings.HasPrefix(text, "#"):
		return parseHex(text)
	case strings.HasPrefix(lower, "rgb"):
		return parseFunc(lower)
	}
	if rgba, ok := colornames.Map[lower]; ok {
		return Color{
			R: float64(rgba.R) / 255,
			G: float64(rgba.G) / 255,
			B: float64(rgba.B) / 255,
			A: float64(rgba.A) / 255,
		}, nil
	}
	return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

func fromComponents(items []any) (Color, error) {
	if len(items) != 3 && len(items) != 4 {
		return Color{}, fmt.Errorf("%w: vector needs 3 or 4 components, got %d", ErrUnknownColor, len(items))
	}
	ch := [4]float64{0, 0, 0, 1}
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return Color{}, fmt.Errorf("%w: component %d is %T", ErrUnknownColor, i, item)
		}
		ch[i] = f
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func parseHex(text string) (Color, error) {
	digits := text[1:]
	var alpha float64 = 1
	switch len(digits) {
	case 4:
		a, err := strconv.ParseUint(strings.Repeat(digits[3:], 2), 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, text)
		}
		alpha = float64(a) / 255
		digits = digits[:3]
	case 8:
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, text)
		}
		alpha = float64(a) / 255
		digits = digits[:6]
	}
	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, text)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func parseFunc(lower string) (Color, error) {
	open := strings.IndexByte(lower, '(')
	end := strings.LastIndexByte(lower, ')')
	if open < 0 || end < open {
		return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, lower)
	}
	parts := strings.FieldsFunc(lower[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, lower)
	}
	ch := [4]float64{0, 0, 0, 1}
	for i, p := range parts {
		pct := strings.HasSuffix(p, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, lower)
		}
		switch {
		case pct:
			f /= 100
		case i < 3:
			f /= 255
		}
		ch[i] = f
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// CSS renders c as #rrggbb, dropping alpha.
func CSS(c Color) string {
	return c.colorful().Clamped().Hex()
}

// Vector renders c in the native scene form: [r, g, b] when opaque and
// [r, g, b, a] otherwise, each with at most three decimals.
func Vector(c Color) string {
	parts := []string{formatChannel(c.R), formatChannel(c.G), formatChannel(c.B)}
	if formatChannel(c.A) != "1" {
		parts = append(parts, formatChannel(c.A))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatChannel(v float64) string {
	v = math.Round(clamp01(v)*1000) / 1000
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// HSL returns hue in degrees and saturation and lightness in [0, 1].
func (c Color) HSL() (h, s, l float64) {
	return c.colorful().Clamped().Hsl()
}

// FromHSL builds a color from hue in degrees, saturation, lightness and alpha.
func FromHSL(h, s, l, a float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	out := colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped()
	return Color{R: out.R, G: out.G, B: out.B, A: clamp01(a)}
}

// Adjust shifts hue, saturation and lightness and alpha by the given deltas.
func (c Color) Adjust(dh, ds, dl, da float64) Color {
	h, s, l := c.HSL()
	return FromHSL(h+dh, s+ds, l+dl, c.A+da)
}

// Equal reports whether two colors agree within tol on every channel.
func (c Color) Equal(o Color, tol float64) bool {
	return math.Abs(c.R-o.R) <= tol &&
		math.Abs(c.G-o.G) <= tol &&
		math.Abs(c.B-o.B) <= tol &&
		math.Abs(c.A-o.A) <= tol
}
