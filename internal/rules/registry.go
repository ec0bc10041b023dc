package rules

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/scenex/internal/cel"
	"github.com/oakwood-commons/scenex/internal/navigator"
	"github.com/oakwood-commons/scenex/pkg/loader"
)

//go:embed default_rules.yaml
var embeddedDefaultRules []byte

var (
	embeddedRulesOnce sync.Once
	embeddedRules     []Descriptor
	embeddedRulesErr  error
)

// File is the layout of a rules resource.
type File struct {
	Rules []Descriptor `yaml:"rules" json:"rules" toml:"rules"`
}

// DefaultRulesYAML returns a copy of the embedded default rules.
func DefaultRulesYAML() []byte {
	return append([]byte(nil), embeddedDefaultRules...)
}

// DefaultDescriptors parses the embedded default rules once.
func DefaultDescriptors() ([]Descriptor, error) {
	embeddedRulesOnce.Do(func() {
		if len(embeddedDefaultRules) == 0 {
			embeddedRulesErr = fmt.Errorf("embedded default rules are empty")
			return
		}
		var f File
		if err := yaml.Unmarshal(embeddedDefaultRules, &f); err != nil {
			embeddedRulesErr = fmt.Errorf("decode embedded default rules: %w", err)
			return
		}
		embeddedRules = f.Rules
	})
	return append([]Descriptor(nil), embeddedRules...), embeddedRulesErr
}

// Registry is an ordered, immutable list of rules.
type Registry struct {
	rules []Rule
	log   logr.Logger
	eval  *cel.Evaluator
}

// New compiles descs in order. The error names the index of the first bad
// descriptor.
func New(log logr.Logger, descs ...Descriptor) (*Registry, error) {
	eval, err := cel.NewEvaluator()
	if err != nil {
		return nil, err
	}
	reg := &Registry{log: log, eval: eval, rules: make([]Rule, 0, len(descs))}
	for i, d := range descs {
		r, err := Compile(d)
		if err != nil {
			if d.Name != "" {
				return nil, fmt.Errorf("rule %d (%s): %w", i, d.Name, err)
			}
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		reg.rules = append(reg.rules, r)
	}
	return reg, nil
}

// Load builds the registry from the user rules file at path, if any,
// followed by the embedded defaults. User rules come first so they win.
func Load(log logr.Logger, path string) (*Registry, error) {
	defaults, err := DefaultDescriptors()
	if err != nil {
		return nil, err
	}
	var descs []Descriptor
	if path != "" {
		var f File
		if err := loader.DecodeFile(path, &f); err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		log.V(1).Info("loaded user rules", "path", path, "count", len(f.Rules))
		descs = append(descs, f.Rules...)
	}
	descs = append(descs, defaults...)
	return New(log, descs...)
}

// Rules returns the rules in declared order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Len returns the number of rules.
func (r *Registry) Len() int { return len(r.rules) }

// First returns the first rule, in declared order, that matches t.
func (r *Registry) First(t Target) (Rule, bool) {
	return r.first(t, nil)
}

// FirstOffering is First restricted to rules that can contribute
// suggestion candidates.
func (r *Registry) FirstOffering(t Target) (Rule, bool) {
	return r.first(t, Rule.Offers)
}

// Navigator returns a navigator that evaluates CEL sources in the
// registry's environment and orders mapping keys with order.
func (r *Registry) Navigator(order navigator.KeyOrder) navigator.Navigator {
	return navigator.New(r.evaluate, order)
}

func (r *Registry) evaluate(expr string, root any) (any, error) {
	v, err := r.eval.Evaluate(expr, root)
	if err != nil {
		r.log.V(2).Info("source expression failed", "expr", expr, "error", err.Error())
	}
	return v, err
}

// Descriptors returns the registry in descriptor form.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, Describe(rule))
	}
	return out
}

func (r *Registry) first(t Target, keep func(Rule) bool) (Rule, bool) {
	for i, rule := range r.rules {
		if keep != nil && !keep(rule) {
			continue
		}
		ok, err := Evaluate(rule, t)
		if err != nil {
			r.log.V(1).Info("rule guard failed", "rule", i, "name", rule.Name(), "line", t.Line, "error", err.Error())
			continue
		}
		if ok {
			return rule, true
		}
	}
	return nil, false
}
