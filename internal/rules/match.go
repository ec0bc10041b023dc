package rules

import (
	"github.com/oakwood-commons/scenex/internal/cel"
	"github.com/oakwood-commons/scenex/internal/navigator"
)

// Evaluate tests the rule pattern against the selected target string with
// containment semantics, then the when guard. A guard error is returned
// together with a false result.
func Evaluate(r Rule, t Target) (bool, error) {
	c := r.base()
	if !c.pattern.MatchString(r.subject(t)) {
		return false, nil
	}
	return c.guard.Allows(cel.GuardInput{
		Tree:    t.Tree,
		Address: t.Address,
		Key:     t.Key,
		Value:   t.Value,
		Line:    t.Line,
	})
}

// Match reports whether r matches t. Guard errors count as no match.
func Match(r Rule, t Target) bool {
	ok, err := Evaluate(r, t)
	return ok && err == nil
}

// OptionsFor lists the static options of r followed by the names nav finds
// at its source in tree. Missing sources contribute nothing.
func OptionsFor(r Rule, tree any, nav navigator.Navigator) []string {
	c := r.base()
	out := append([]string(nil), c.options...)
	if c.source == "" || tree == nil {
		return out
	}
	names, err := nav.Options(tree, c.source)
	if err != nil {
		return out
	}
	return append(out, names...)
}
