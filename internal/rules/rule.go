// Package rules holds the widget rule registry: declarative descriptors that
// decide which lines of a scene get a widget and which keys get suggested.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/oakwood-commons/scenex/internal/cel"
)

// Type names the widget a rule produces.
type Type string

const (
	TypeColor   Type = "color"
	TypeBoolean Type = "boolean"
	TypeString  Type = "string"
	TypeSuggest Type = "suggest"
)

// ErrNoPattern is returned for a descriptor without any pattern field.
var ErrNoPattern = errors.New("rule has no value, key, address or content pattern")

// Descriptor is the declarative form of a rule as written in a rules file.
type Descriptor struct {
	Name    string   `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Type    string   `yaml:"type" json:"type" toml:"type"`
	Value   string   `yaml:"value,omitempty" json:"value,omitempty" toml:"value,omitempty"`
	Key     string   `yaml:"key,omitempty" json:"key,omitempty" toml:"key,omitempty"`
	Address string   `yaml:"address,omitempty" json:"address,omitempty" toml:"address,omitempty"`
	Content string   `yaml:"content,omitempty" json:"content,omitempty" toml:"content,omitempty"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty" toml:"options,omitempty"`
	Source  string   `yaml:"source,omitempty" json:"source,omitempty" toml:"source,omitempty"`
	When    string   `yaml:"when,omitempty" json:"when,omitempty" toml:"when,omitempty"`
}

// Target is the line a rule is tested against.
type Target struct {
	Line    int
	Key     string
	Value   string
	Address []string
	Content string
	Tree    any
}

// AddressTarget builds a target for the suggestion engine, where every
// pattern is tested against the joined address.
func AddressTarget(line int, address []string, tree any) Target {
	joined := JoinAddress(address)
	return Target{
		Line:    line,
		Key:     joined,
		Value:   joined,
		Address: address,
		Content: joined,
		Tree:    tree,
	}
}

// JoinAddress renders an address the way address patterns see it.
func JoinAddress(address []string) string {
	return strings.Join(address, ":")
}

// Rule is one of AddressRule, KeyRule, ValueRule or ContentRule.
type Rule interface {
	Name() string
	Type() Type
	Options() []string
	Source() string
	Pattern() *regexp.Regexp
	When() string
	Offers() bool

	base() *common
	subject(t Target) string
}

type common struct {
	name    string
	typ     Type
	options []string
	source  string
	pattern *regexp.Regexp
	guard   *cel.Guard
}

func (c *common) base() *common { return c }

// Name returns the descriptor name, or an empty string.
func (c *common) Name() string { return c.name }

// Type returns the widget type.
func (c *common) Type() Type { return c.typ }

// Options returns a copy of the static options.
func (c *common) Options() []string { return append([]string(nil), c.options...) }

// Source returns the source path for dynamic options.
func (c *common) Source() string { return c.source }

// Pattern returns the compiled pattern.
func (c *common) Pattern() *regexp.Regexp { return c.pattern }

// When returns the guard expression, or an empty string.
func (c *common) When() string { return c.guard.String() }

// Offers reports whether the rule can contribute suggestion candidates.
func (c *common) Offers() bool { return len(c.options) > 0 || c.source != "" }

// AddressRule matches the address joined with ':'.
type AddressRule struct{ common }

// KeyRule matches the key of the line.
type KeyRule struct{ common }

// ValueRule matches the value of the line.
type ValueRule struct{ common }

// ContentRule matches the raw text of the line.
type ContentRule struct{ common }

func (r *AddressRule) subject(t Target) string { return JoinAddress(t.Address) }
func (r *KeyRule) subject(t Target) string     { return t.Key }
func (r *ValueRule) subject(t Target) string   { return t.Value }
func (r *ContentRule) subject(t Target) string { return t.Content }

// Field names the pattern field a rule was built from.
func Field(r Rule) string {
	switch r.(type) {
	case *ValueRule:
		return "value"
	case *KeyRule:
		return "key"
	case *AddressRule:
		return "address"
	case *ContentRule:
		return "content"
	}
	return ""
}

// Compile turns a descriptor into a rule. The pattern field is chosen in the
// order value, key, address, content.
func Compile(d Descriptor) (Rule, error) {
	field, expr := d.Pattern()
	if field == "" {
		return nil, ErrNoPattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern %q: %w", field, expr, err)
	}
	c := common{
		name:    d.Name,
		typ:     Type(strings.TrimSpace(d.Type)),
		options: append([]string(nil), d.Options...),
		source:  strings.TrimSpace(d.Source),
		pattern: re,
	}
	if strings.TrimSpace(d.When) != "" {
		g, err := cel.CompileGuard(d.When)
		if err != nil {
			return nil, fmt.Errorf("invalid when: %w", err)
		}
		c.guard = g
	}
	switch field {
	case "value":
		return &ValueRule{c}, nil
	case "key":
		return &KeyRule{c}, nil
	case "address":
		return &AddressRule{c}, nil
	default:
		return &ContentRule{c}, nil
	}
}

// Pattern returns the pattern field that decides matching and its
// expression, or empty strings when none is set.
func (d Descriptor) Pattern() (field, expr string) {
	switch {
	case d.Value != "":
		return "value", d.Value
	case d.Key != "":
		return "key", d.Key
	case d.Address != "":
		return "address", d.Address
	case d.Content != "":
		return "content", d.Content
	}
	return "", ""
}

// Describe converts a rule back to its descriptor form.
func Describe(r Rule) Descriptor {
	c := r.base()
	d := Descriptor{
		Name:    c.name,
		Type:    string(c.typ),
		Options: c.Options(),
		Source:  c.source,
		When:    c.guard.String(),
	}
	expr := c.pattern.String()
	switch r.(type) {
	case *ValueRule:
		d.Value = expr
	case *KeyRule:
		d.Key = expr
	case *AddressRule:
		d.Address = expr
	case *ContentRule:
		d.Content = expr
	}
	return d
}
