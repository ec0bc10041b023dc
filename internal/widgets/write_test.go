package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/scenex/internal/buffer"
	"github.com/oakwood-commons/scenex/internal/color"
)

func TestWriteToggle(t *testing.T) {
	buf := buffer.New("layers:\n  visible: true # keep", buffer.Options{})
	require.NoError(t, WriteToggle(buf, 1, false))
	assert.Equal(t, "  visible: false # keep", buf.Line(1))
	require.NoError(t, WriteToggle(buf, 1, true))
	assert.Equal(t, "  visible: true # keep", buf.Line(1))
}

func TestWriteValueIntoEmptyValue(t *testing.T) {
	buf := buffer.New("blend:", buffer.Options{})
	require.NoError(t, WriteOption(buf, 0, "overlay"))
	assert.Equal(t, "blend: overlay", buf.Text())
}

func TestWriteColor(t *testing.T) {
	buf := buffer.New("  color: '#ff0000'", buffer.Options{})
	require.NoError(t, WriteColor(buf, 0, color.Opaque(0, 0.5, 1)))
	assert.Equal(t, "  color: [0, 0.5, 1]", buf.Text())
}

func TestWriteErrors(t *testing.T) {
	buf := buffer.New("- item\nkey: v", buffer.Options{})
	assert.ErrorIs(t, WriteValue(buf, 0, "x"), ErrNotKeyLine)
	assert.Error(t, WriteValue(buf, 5, "x"))
	assert.Error(t, WriteValue(buf, -1, "x"))
	assert.Equal(t, "- item\nkey: v", buf.Text())
}

func TestApply(t *testing.T) {
	buf := buffer.New("a: red\nb: x\nc: true", buffer.Options{})
	require.NoError(t, Apply(buf, Widget{Line: 0, Kind: KindColor}, color.Opaque(1, 1, 1)))
	require.NoError(t, Apply(buf, Widget{Line: 1, Kind: KindDropdown}, "y"))
	require.NoError(t, Apply(buf, Widget{Line: 2, Kind: KindToggle}, false))
	assert.Equal(t, "a: [1, 1, 1]\nb: y\nc: false", buf.Text())

	assert.Error(t, Apply(buf, Widget{Line: 0, Kind: KindColor}, "red"))
	assert.Error(t, Apply(buf, Widget{Line: 1, Kind: KindDropdown}, 3))
	assert.Error(t, Apply(buf, Widget{Line: 2, Kind: KindToggle}, "true"))
	assert.Error(t, Apply(buf, Widget{Line: 2, Kind: "slider"}, 1))
}
