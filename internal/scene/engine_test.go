package scene

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) Handle(e Event) { r.events = append(r.events, e) }

func (r *recorder) types() []EventType {
	out := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func TestParseBuildsPlainTree(t *testing.T) {
	tree, warnings, err := Parse(`
cameras:
  main:
    type: perspective
    position: [-74.0, 40.7, 16]
styles:
  water:
    base: polygons
    animated: true
`)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	root, ok := tree.(map[string]any)
	require.True(t, ok)
	cam := root["cameras"].(map[string]any)["main"].(map[string]any)
	assert.Equal(t, "perspective", cam["type"])
	assert.Equal(t, []any{-74.0, 40.7, 16}, cam["position"])
	assert.Equal(t, true, root["styles"].(map[string]any)["water"].(map[string]any)["animated"])
}

func TestParseEmptyText(t *testing.T) {
	for _, text := range []string{"", "# only a comment\n"} {
		tree, _, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, tree)
	}
}

func TestParseDuplicateKeysLastWins(t *testing.T) {
	tree, warnings, err := Parse("color: red\nwidth: 2\ncolor: blue\n")
	require.NoError(t, err)
	assert.Equal(t, "blue", tree.(map[string]any)["color"])
	require.Len(t, warnings, 1)
	assert.Equal(t, EventWarning, warnings[0].Type)
	assert.Equal(t, 2, warnings[0].Line)
	assert.Contains(t, warnings[0].Message, `duplicate key "color"`)
}

func TestParseAnchorsAndMerges(t *testing.T) {
	tree, _, err := Parse(`
base: &base
  order: 1
  color: red
roads:
  <<: *base
  color: blue
copy: *base
`)
	require.NoError(t, err)
	root := tree.(map[string]any)
	roads := root["roads"].(map[string]any)
	assert.Equal(t, 1, roads["order"])
	assert.Equal(t, "blue", roads["color"])
	assert.Equal(t, root["base"], root["copy"])
}

func TestEngineKeyOrder(t *testing.T) {
	e := NewEngine(logr.Discard())
	assert.Nil(t, e.KeyOrder(nil))

	_, err := e.Load(`
styles:
  zeta: {}
  alpha:
    base: polygons
  zeta: {}
layers:
  - name: roads
    draw: {lines: {}, points: {}}
base: &base
  order: 1
roads:
  color: red
  <<: *base
`)
	require.NoError(t, err)

	assert.Equal(t, []string{"styles", "layers", "base", "roads"}, e.KeyOrder(nil))
	assert.Equal(t, []string{"zeta", "alpha"}, e.KeyOrder([]string{"styles"}))
	assert.Equal(t, []string{"base"}, e.KeyOrder([]string{"styles", "alpha"}))
	assert.Equal(t, []string{"lines", "points"}, e.KeyOrder([]string{"layers", "0", "draw"}))
	assert.Equal(t, []string{"color"}, e.KeyOrder([]string{"roads"}), "merged keys have no declared position")
	assert.Nil(t, e.KeyOrder([]string{"styles", "alpha", "base"}))

	got := e.KeyOrder([]string{"styles"})
	got[0] = "changed"
	assert.Equal(t, "zeta", e.KeyOrder([]string{"styles"})[0])

	_, err = e.Load("a: b\n  c: d\n")
	require.Error(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, e.KeyOrder([]string{"styles"}), "order kept with the tree on error")
}

func TestParseError(t *testing.T) {
	_, _, err := Parse("a: b\n  c: d\n")
	require.Error(t, err)
}

func TestEngineLoadPublishesEvents(t *testing.T) {
	e := NewEngine(logr.Discard())
	rec := &recorder{}
	e.Subscribe(rec)
	assert.Nil(t, e.Tree())

	res, err := e.Load("a: 1\na: 2\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 2}, res.Tree)
	assert.Equal(t, res.Tree, e.Tree())
	assert.Equal(t, []EventType{EventWarning, EventChanged}, rec.types())
	assert.NoError(t, e.Err())
}

func TestEngineKeepsTreeOnError(t *testing.T) {
	e := NewEngine(logr.Discard())
	var got []Event
	e.Subscribe(ListenerFunc(func(ev Event) { got = append(got, ev) }))

	_, err := e.Load("styles:\n  water: {}\n")
	require.NoError(t, err)
	before := e.Tree()

	_, err = e.Load("styles:\n  water: [\n")
	require.Error(t, err)
	assert.Equal(t, before, e.Tree())
	assert.Error(t, e.Err())

	last := got[len(got)-1]
	assert.Equal(t, EventError, last.Type)
	assert.NotEmpty(t, last.Message)
}

func TestErrorLine(t *testing.T) {
	_, err := NewEngine(logr.Discard()).Load("a: b\n  c: d\n")
	require.Error(t, err)
	assert.Equal(t, 1, errorLine(err))
	assert.Equal(t, -1, errorLine(assert.AnError))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "line 3: duplicate key", Summary(Event{Message: "duplicate key", Line: 2}))
	assert.Equal(t, "line 2: mapping values are not allowed in this context",
		Summary(Event{Message: "parse scene: yaml: line 2: mapping values are not allowed in this context", Line: 1}))
	assert.Equal(t, "boom", Summary(Event{Message: "boom", Line: -1}))
}
