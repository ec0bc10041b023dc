package color

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const tol = 0.001

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Color
	}{
		{"vector text", "[1, 0.5, 0]", Opaque(1, 0.5, 0)},
		{"vector text with alpha", "[0, 0, 1, 0.25]", Color{B: 1, A: 0.25}},
		{"vector value", []any{0.2, 0.4, 0.6}, Opaque(0.2, 0.4, 0.6)},
		{"integer vector", []any{1, 0, 0}, Opaque(1, 0, 0)},
		{"float slice", []float64{0, 1, 0, 1}, Opaque(0, 1, 0)},
		{"short hex", "#f00", Opaque(1, 0, 0)},
		{"short hex alpha", "#f008", Color{R: 1, A: 136.0 / 255}},
		{"long hex", "#00ff00", Opaque(0, 1, 0)},
		{"long hex alpha", "#0000ff80", Color{B: 1, A: 128.0 / 255}},
		{"quoted hex", `"#ffffff"`, Opaque(1, 1, 1)},
		{"rgb", "rgb(255, 0, 0)", Opaque(1, 0, 0)},
		{"rgba", "rgba(0, 0, 255, 0.5)", Color{B: 1, A: 0.5}},
		{"rgb percent", "rgb(100%, 50%, 0%)", Opaque(1, 0.5, 0)},
		{"rgb slash alpha", "rgb(0 255 0 / 0.5)", Color{G: 1, A: 0.5}},
		{"css name", "red", Opaque(1, 0, 0)},
		{"css name mixed case", "White", Opaque(1, 1, 1)},
		{"color passthrough", Opaque(0.1, 0.2, 0.3), Opaque(0.1, 0.2, 0.3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want, tol), "got %+v want %+v", got, tt.want)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []any{nil, "", "notacolor", "#12", "#zzzzzz", "[1, 2]", "[1, a, 0]", "rgb(1,2)", []any{"x", 0, 0}, 42} {
		_, err := Parse(input)
		require.Error(t, err, "%v", input)
		assert.True(t, errors.Is(err, ErrUnknownColor), "%v", input)
	}
}

func TestCSS(t *testing.T) {
	assert.Equal(t, "#ff0000", CSS(Opaque(1, 0, 0)))
	assert.Equal(t, "#0080ff", CSS(Opaque(0, 0.5, 1)))
	assert.Equal(t, "#ffffff", CSS(Color{R: 2, G: 2, B: 2, A: 1}))
}

func TestVector(t *testing.T) {
	assert.Equal(t, "[1, 0, 0]", Vector(Opaque(1, 0, 0)))
	assert.Equal(t, "[0.333, 0.5, 0.667]", Vector(Opaque(1.0/3, 0.5, 2.0/3)))
	assert.Equal(t, "[0, 0, 1, 0.5]", Vector(Color{B: 1, A: 0.5}))
	assert.Equal(t, "[1, 1, 1]", Vector(Color{R: 1.2, G: 1, B: 1, A: 0.9999}))
}

func TestVectorRoundTripThroughYAML(t *testing.T) {
	picks := []Color{
		Opaque(0.123, 0.456, 0.789),
		{R: 0.9, G: 0.1, B: 0.3333, A: 0.75},
		FromHSL(210, 0.6, 0.4, 1),
	}
	for _, c := range picks {
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal([]byte("color: "+Vector(c)), &doc))
		back, err := Parse(doc["color"])
		require.NoError(t, err)
		assert.True(t, back.Equal(c, tol), "picked %+v reparsed %+v", c, back)
	}
}

func TestHSL(t *testing.T) {
	h, s, l := Opaque(1, 0, 0).HSL()
	assert.InDelta(t, 0, h, tol)
	assert.InDelta(t, 1, s, tol)
	assert.InDelta(t, 0.5, l, tol)

	blue := FromHSL(240, 1, 0.5, 1)
	assert.True(t, blue.Equal(Opaque(0, 0, 1), tol))

	wrapped := FromHSL(-120, 1, 0.5, 1)
	assert.True(t, wrapped.Equal(blue, tol))
}

func TestAdjust(t *testing.T) {
	red := Opaque(1, 0, 0)
	green := red.Adjust(120, 0, 0, 0)
	assert.True(t, green.Equal(Opaque(0, 1, 0), tol), "%+v", green)

	darker := red.Adjust(0, 0, -0.25, 0)
	_, _, l := darker.HSL()
	assert.InDelta(t, 0.25, l, tol)

	faded := red.Adjust(0, 0, 0, -2)
	assert.Equal(t, 0.0, faded.A)
}
