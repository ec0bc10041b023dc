// Package scene parses scene text into the configuration tree the editor
// reads, and reports parse results to subscribers.
package scene

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"
)

// Source gives read access to the current tree.
type Source interface {
	Tree() any
	KeyOrder(address []string) []string
}

// Result summarizes one Load.
type Result struct {
	Tree     any
	Warnings []Event
}

var errLinePattern = regexp.MustCompile(`line (\d+)`)

// Engine owns the scene tree. Only Load writes it.
type Engine struct {
	mu   sync.RWMutex
	tree  any
	order map[string][]string
	err   error
	bus  bus
	log  logr.Logger
	now  func() time.Time
}

// NewEngine creates an engine with no tree.
func NewEngine(log logr.Logger) *Engine {
	return &Engine{log: log, now: time.Now}
}

// Subscribe registers l for every subsequent event.
func (e *Engine) Subscribe(l Listener) {
	e.bus.subscribe(l)
}

// Tree returns the last successfully parsed tree, which is nil before the
// first successful parse.
func (e *Engine) Tree() any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree
}

// KeyOrder returns the keys of the mapping at address in the order the text
// declares them, or nil when address is not a mapping of the current tree.
func (e *Engine) KeyOrder(address []string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	keys, ok := e.order[orderKey(address)]
	if !ok {
		return nil
	}
	return append([]string(nil), keys...)
}

// Err returns the error of the most recent Load, if it failed.
func (e *Engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.err
}

// Load parses text and replaces the tree on success. On failure the previous
// tree is kept, an error event is published and the error is returned.
func (e *Engine) Load(text string) (Result, error) {
	tree, order, warnings, err := parse(text)
	if err != nil {
		e.mu.Lock()
		e.err = err
		e.mu.Unlock()
		e.log.V(1).Info("scene parse failed", "error", err.Error())
		e.bus.publish(Event{Type: EventError, Message: err.Error(), Line: errorLine(err), Timestamp: e.now()})
		return Result{}, err
	}

	e.mu.Lock()
	e.tree = tree
	e.order = order
	e.err = nil
	e.mu.Unlock()

	stamp := e.now()
	for i := range warnings {
		warnings[i].Timestamp = stamp
		e.bus.publish(warnings[i])
	}
	e.log.V(1).Info("scene parsed", "warnings", len(warnings))
	e.bus.publish(Event{Type: EventChanged, Line: -1, Timestamp: stamp})
	return Result{Tree: tree, Warnings: warnings}, nil
}

// Parse decodes scene text into maps, slices and scalars. Later duplicate
// keys replace earlier ones and are reported as warnings. Empty text yields
// an empty mapping.
func Parse(text string) (any, []Event, error) {
	tree, _, warnings, err := parse(text)
	return tree, warnings, err
}

// parse is Parse plus the declaration order of every mapping, keyed by
// orderKey of its address.
func parse(text string) (any, map[string][]string, []Event, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, nil, nil, fmt.Errorf("parse scene: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return map[string]any{}, map[string][]string{}, nil, nil
	}
	c := &converter{order: map[string][]string{}}
	tree, err := c.convert(doc.Content[0])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse scene: %w", err)
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, c.order, c.warnings, nil
}

func orderKey(address []string) string {
	return strings.Join(address, "\x00")
}

type converter struct {
	warnings []Event
	depth    int
	path     []string
	order    map[string][]string
}

// within converts n as the value under key.
func (c *converter) within(key string, n *yaml.Node) (any, error) {
	c.path = append(c.path, key)
	defer func() { c.path = c.path[:len(c.path)-1] }()
	return c.convert(n)
}

const maxAliasDepth = 64

func (c *converter) convert(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		if c.depth >= maxAliasDepth {
			return nil, errors.New("alias nesting too deep")
		}
		c.depth++
		defer func() { c.depth-- }()
		return c.convert(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for i, item := range n.Content {
			v, err := c.within(strconv.Itoa(i), item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return c.mapping(n)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

func (c *converter) mapping(n *yaml.Node) (map[string]any, error) {
	out := make(map[string]any, len(n.Content)/2)
	seen := make(map[string]int, len(n.Content)/2)
	var (
		merges []*yaml.Node
		keys   []string
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.Tag == "!!merge" || (keyNode.Kind == yaml.ScalarNode && keyNode.Value == "<<" && keyNode.Style == 0) {
			merges = append(merges, valNode)
			continue
		}
		key, err := c.keyString(keyNode)
		if err != nil {
			return nil, err
		}
		v, err := c.within(key, valNode)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[key]; dup {
			c.warnings = append(c.warnings, Event{
				Type:    EventWarning,
				Message: fmt.Sprintf("duplicate key %q (first defined on line %d)", key, first),
				Line:    keyNode.Line - 1,
			})
		}
		if _, dup := seen[key]; !dup {
			keys = append(keys, key)
		}
		seen[key] = keyNode.Line
		out[key] = v
	}
	for _, m := range merges {
		if err := c.merge(out, m); err != nil {
			return nil, err
		}
	}
	if c.order != nil {
		c.order[orderKey(c.path)] = keys
	}
	return out, nil
}

// merge copies entries from a merge source without overriding keys the
// mapping sets itself.
func (c *converter) merge(out map[string]any, src *yaml.Node) error {
	v, err := c.within("<<", src)
	if err != nil {
		return err
	}
	var sources []map[string]any
	switch t := v.(type) {
	case map[string]any:
		sources = append(sources, t)
	case []any:
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("line %d: merge sequence must hold mappings", src.Line)
			}
			sources = append(sources, m)
		}
	default:
		return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
	}
	for _, m := range sources {
		for k, val := range m {
			if _, ok := out[k]; !ok {
				out[k] = val
			}
		}
	}
	return nil
}

func (c *converter) keyString(n *yaml.Node) (string, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: mapping keys must be scalars", n.Line)
	}
	return n.Value, nil
}

func errorLine(err error) int {
	m := errLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return -1
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil || n < 1 {
		return -1
	}
	return n - 1
}

// Summary formats a warning or error event for a status line.
func Summary(e Event) string {
	msg := strings.TrimPrefix(e.Message, "parse scene: ")
	msg = strings.TrimPrefix(msg, "yaml: ")
	if e.Line >= 0 && !strings.Contains(msg, "line ") {
		return fmt.Sprintf("line %d: %s", e.Line+1, msg)
	}
	return msg
}
