package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func nestedScene() map[string]interface{} {
	return map[string]interface{}{
		"styles": map[string]interface{}{
			"s1": map[string]interface{}{
				"shaders": map[string]interface{}{
					"blocks": map[string]interface{}{"color": "..."},
				},
			},
		},
		"color": "red",
		"empty": nil,
	}
}

func TestLookupPrefixesAreDefined(t *testing.T) {
	tree := nestedScene()
	address := []string{"styles", "s1", "shaders", "blocks"}
	for i := 1; i <= len(address); i++ {
		assert.NotNil(t, Lookup(tree, address[:i]), "prefix %v", address[:i])
	}
	assert.Equal(t, map[string]interface{}{"color": "..."}, Lookup(tree, address))
}

func TestLookupEdgeCases(t *testing.T) {
	tree := nestedScene()

	tests := []struct {
		name    string
		tree    interface{}
		address []string
		want    interface{}
	}{
		{"nil tree", nil, []string{"styles"}, nil},
		{"empty address returns tree", map[string]interface{}{"a": 1}, nil, map[string]interface{}{"a": 1}},
		{"missing first key", tree, []string{"textures"}, nil},
		{"past scalar returns scalar", tree, []string{"color", "r"}, "red"},
		{"null value", tree, []string{"empty"}, nil},
		{
			"missing middle key returns deepest",
			tree,
			[]string{"styles", "s1", "nope", "blocks"},
			tree["styles"].(map[string]interface{})["s1"],
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lookup(tt.tree, tt.address))
		})
	}
}

func TestLookupDoesNotIndexSequences(t *testing.T) {
	tree := map[string]interface{}{"list": []interface{}{"a", "b"}}
	assert.Equal(t, []interface{}{"a", "b"}, Lookup(tree, []string{"list", "0"}))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"color", "empty", "styles"}, Keys(nestedScene()))
	assert.Equal(t, []string{"a", "b"}, Keys(map[string]int{"b": 1, "a": 2}))
	assert.Nil(t, Keys(nil))
	assert.Nil(t, Keys("scalar"))
	assert.Nil(t, Keys([]interface{}{"a"}))
	assert.Empty(t, Keys(map[string]interface{}{}))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Names(map[string]interface{}{"b": 1, "a": 2}))
	assert.Equal(t, []string{"x", "1", "true"}, Names([]interface{}{"x", 1, true, map[string]interface{}{}}))
	assert.Equal(t, []string{"only"}, Names("only"))
	assert.Equal(t, []string{"p", "q"}, Names([]string{"p", "q"}))
	assert.Nil(t, Names(nil))
	assert.Nil(t, Names(12))
}

func TestLookupStopsAtLeaves(t *testing.T) {
	tree := map[string]interface{}{
		"cameras": map[string]interface{}{
			"main": map[string]interface{}{"type": "perspective", "zoom": 16},
		},
		"typed": map[string]int{"a": 1},
	}
	assert.Equal(t, "perspective", Lookup(tree, []string{"cameras", "main", "type", "more", "keys"}))
	assert.Equal(t, 16, Lookup(tree, []string{"cameras", "main", "zoom", "x"}))
	assert.Equal(t, map[string]int{"a": 1}, Lookup(tree, []string{"typed", "a"}))
}

func TestChild(t *testing.T) {
	v, ok := child(map[string]interface{}{"a": 1}, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	for _, cur := range []interface{}{nil, "red", 3, []interface{}{"a"}, map[string]int{"a": 1}} {
		_, ok := child(cur, "a")
		assert.False(t, ok, "%T", cur)
	}
}
