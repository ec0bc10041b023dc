// Package navigator reads values out of a parsed scene tree, either by a key
// address or by a source path. Source paths are dotted or bracketed key
// chains; anything else is taken as a CEL expression over the tree.
package navigator

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/oakwood-commons/scenex/internal/cel"
)

// EvaluateFunc evaluates a CEL expression with the tree bound to '_'.
type EvaluateFunc func(expr string, root interface{}) (interface{}, error)

// KeyOrder returns the keys of the mapping at address in declaration order,
// or nil when the order is not known.
type KeyOrder func(address []string) []string

// Navigator resolves source paths against a tree. The zero value evaluates
// expressions with the shared standard CEL environment and sorts mapping
// keys.
type Navigator struct {
	Evaluate EvaluateFunc
	Order    KeyOrder
}

// New returns a Navigator that evaluates expressions with fn and orders
// mapping keys with order. Either may be nil.
func New(fn EvaluateFunc, order KeyOrder) Navigator {
	return Navigator{Evaluate: fn, Order: order}
}

var standardEvaluator = sync.OnceValues(cel.NewEvaluator)

func evaluateStandard(expr string, root interface{}) (interface{}, error) {
	e, err := standardEvaluator()
	if err != nil {
		return nil, err
	}
	return e.Evaluate(expr, root)
}

// NodeAtPath resolves path with a zero Navigator.
func NodeAtPath(root interface{}, path string) (interface{}, error) {
	return Navigator{}.NodeAtPath(root, path)
}

// NodeAtPath returns the value path names in root. An empty path or "_" is
// the root itself.
func (n Navigator) NodeAtPath(root interface{}, path string) (interface{}, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "_" {
		return root, nil
	}
	if !isExpression(path) {
		return walk(root, splitPath(path))
	}
	eval := n.Evaluate
	if eval == nil {
		eval = evaluateStandard
	}
	v, err := eval(path, root)
	if err != nil {
		return nil, fmt.Errorf("evaluate source %q: %w", path, err)
	}
	return v, nil
}

// Options resolves path and lists the names the value there offers, as
// Names does. A mapping reached by a key walk lists its keys in declaration
// order when n.Order knows it; keys it does not know follow in sorted order.
func (n Navigator) Options(root interface{}, path string) ([]string, error) {
	v, err := n.NodeAtPath(root, path)
	if err != nil {
		return nil, err
	}
	m, isMap := v.(map[string]interface{})
	if !isMap || n.Order == nil {
		return Names(v), nil
	}
	address, ok := walkAddress(path)
	if !ok {
		return Names(v), nil
	}
	return orderedKeys(m, n.Order(address)), nil
}

// walkAddress turns a walk path into the address it visits. Expressions
// have none.
func walkAddress(path string) ([]string, bool) {
	path = strings.TrimSpace(path)
	if path == "" || path == "_" {
		return []string{}, true
	}
	if isExpression(path) {
		return nil, false
	}
	keys := splitPath(path)
	for i, k := range keys {
		if isQuoted(k) {
			keys[i] = k[1 : len(k)-1]
		}
	}
	return keys, true
}

func orderedKeys(m map[string]interface{}, order []string) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, k := range Keys(m) {
		if !seen[k] {
			out = append(out, k)
		}
	}
	return out
}

// isExpression reports whether path needs CEL rather than a key walk.
// Bracketed indexes and quoted keys are walks; literals, calls, '_'
// references and operators are expressions.
func isExpression(path string) bool {
	switch {
	case len(path) >= 2 && path[0] == '"' && path[len(path)-1] == '"':
		return true
	case strings.HasPrefix(path, "{"):
		return true
	case strings.HasPrefix(path, "_.") || strings.HasPrefix(path, "_["):
		return true
	case strings.ContainsAny(path, "()"):
		return true
	case strings.HasPrefix(path, "["):
		end := strings.IndexByte(path, ']')
		if end < 0 {
			return true
		}
		if inner := path[1:end]; !isIndex(inner) && !isQuoted(inner) {
			return true
		}
	}
	for _, op := range []string{"==", "!=", "<", ">", "&&", "||"} {
		if strings.Contains(path, op) {
			return true
		}
	}
	return false
}

func isIndex(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// splitPath breaks a walk path into keys: "layers[0].draw" and
// "layers.0.draw" both give [layers 0 draw]. Bracketed keys keep their
// quotes so dots inside them survive.
func splitPath(path string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				cur.WriteString(path[i+1:])
				i = len(path)
				continue
			}
			parts = append(parts, path[i+1:i+end])
			i += end
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return parts
}

func walk(root interface{}, keys []string) (interface{}, error) {
	cur := root
	for _, k := range keys {
		next, err := step(cur, k)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// step descends one key into a mapping or one index into a sequence.
func step(cur interface{}, key string) (interface{}, error) {
	switch t := cur.(type) {
	case map[string]interface{}:
		if isQuoted(key) {
			key = key[1 : len(key)-1]
		}
		v, ok := t[key]
		if !ok {
			return nil, fmt.Errorf("key %q not found", key)
		}
		return v, nil
	case []interface{}:
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("expected an index into a sequence, got %q", key)
		}
		if idx < 0 || idx >= len(t) {
			return nil, fmt.Errorf("index %d out of range", idx)
		}
		return t[idx], nil
	}
	return nil, fmt.Errorf("cannot descend into %T at %q", cur, key)
}
