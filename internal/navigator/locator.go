package navigator

import (
	"fmt"
	"reflect"
	"sort"
)

// Lookup walks address through tree and returns the value at the deepest
// key that exists. A nil tree or a first key that is not present yields nil.
// When a later key is missing, or the walk reaches a scalar, the last value
// reached is returned instead of an error so a half-typed address still
// resolves to something useful.
func Lookup(tree interface{}, address []string) interface{} {
	if tree == nil {
		return nil
	}
	if len(address) == 0 {
		return tree
	}
	cur, ok := child(tree, address[0])
	if !ok {
		return nil
	}
	for _, key := range address[1:] {
		next, ok := child(cur, key)
		if !ok {
			return cur
		}
		cur = next
	}
	return cur
}

// Keys returns the sorted child keys of a mapping value, or nil when value
// is not a mapping.
func Keys(value interface{}) []string {
	switch t := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	case nil:
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, fmt.Sprint(k.Interface()))
	}
	sort.Strings(keys)
	return keys
}

// Names lists the entries a value offers as choices: the keys of a mapping,
// the scalar items of a sequence, or the value itself for a scalar string.
func Names(value interface{}) []string {
	switch t := value.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			switch item.(type) {
			case map[string]interface{}, []interface{}, nil:
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	case []string:
		return append([]string(nil), t...)
	}
	return Keys(value)
}

// child returns the value under key when cur is a mapping. Sequences and
// scalars hold no addressable keys.
func child(cur interface{}, key string) (interface{}, bool) {
	m, ok := cur.(map[string]interface{})
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}
