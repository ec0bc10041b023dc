package widgets

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/oakwood-commons/scenex/internal/buffer"
	"github.com/oakwood-commons/scenex/internal/color"
	"github.com/oakwood-commons/scenex/internal/document"
)

// ErrNotKeyLine is returned when writing to a line without a key.
var ErrNotKeyLine = errors.New("line does not declare a key")

// WriteValue replaces the value of the key on line with text. A key without
// a value gets one after the colon.
func WriteValue(buf Buffer, line int, text string) error {
	if line < 0 || line >= buf.LineCount() {
		return fmt.Errorf("line %d out of range", line)
	}
	span, ok := document.ValueSpan(buf.Line(line))
	if !ok {
		return fmt.Errorf("line %d: %w", line, ErrNotKeyLine)
	}
	if span.Start == span.End {
		text = " " + text
	}
	buf.Replace(buffer.LineRange(line, span.Start, span.End), text)
	return nil
}

// WriteColor writes c in vector form.
func WriteColor(buf Buffer, line int, c color.Color) error {
	return WriteValue(buf, line, color.Vector(c))
}

// WriteOption writes the literal option text.
func WriteOption(buf Buffer, line int, option string) error {
	return WriteValue(buf, line, option)
}

// WriteToggle writes a lowercase boolean.
func WriteToggle(buf Buffer, line int, on bool) error {
	return WriteValue(buf, line, strconv.FormatBool(on))
}

// Apply writes a new value for w according to its kind. value must be a
// color.Color for swatches, a string for dropdowns and a bool for toggles.
func Apply(buf Buffer, w Widget, value any) error {
	switch w.Kind {
	case KindColor:
		c, ok := value.(color.Color)
		if !ok {
			return fmt.Errorf("color widget needs color.Color, got %T", value)
		}
		return WriteColor(buf, w.Line, c)
	case KindDropdown:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("dropdown widget needs string, got %T", value)
		}
		return WriteOption(buf, w.Line, s)
	case KindToggle:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("toggle widget needs bool, got %T", value)
		}
		return WriteToggle(buf, w.Line, b)
	}
	return fmt.Errorf("unknown widget kind %q", w.Kind)
}
