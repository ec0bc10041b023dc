// Package cel wraps cel-go for the two places scene expressions show up:
// option sources that query the scene tree and rule guards that decide
// whether a matched line should get a widget.
package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"
)

// Variable names bound when a guard runs.
const (
	VarTree    = "_"
	VarAddress = "address"
	VarKey     = "key"
	VarValue   = "value"
	VarLine    = "line"
)

// Evaluator compiles and evaluates CEL expressions against a scene tree.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates a new CEL evaluator with standard library functions.
func NewEvaluator() (*Evaluator, error) {
	env, err := newStandardCELEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// newStandardCELEnv creates a standard CEL environment with common extensions.
// Additional options can be provided to extend the environment.
func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 5+len(opts))
	allOpts = append(allOpts,
		cel.Variable(VarTree, cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// EvaluateExpressionWithEnv evaluates a CEL expression using the given environment
// with data bound to '_'.
func EvaluateExpressionWithEnv(env *cel.Env, expr string, data interface{}) (interface{}, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	result, _, err := prg.Eval(map[string]interface{}{
		VarTree: data,
	})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(result), nil
}

// Evaluate evaluates a CEL expression against data.
// Example: "_.styles" or "_.textures.filter(k, k.startsWith('sky'))"
func (e *Evaluator) Evaluate(expr string, data interface{}) (interface{}, error) {
	return EvaluateExpressionWithEnv(e.env, expr, data)
}

// Guard is a compiled boolean condition over a classified line.
type Guard struct {
	expr string
	prg  cel.Program
}

// GuardInput is the data a guard sees for one line.
type GuardInput struct {
	Tree    interface{}
	Address []string
	Key     string
	Value   string
	Line    int
}

// CompileGuard compiles expr once so it can be checked for every line of
// every sync. The expression must produce a bool.
func CompileGuard(expr string) (*Guard, error) {
	env, err := newStandardCELEnv(
		cel.Variable(VarAddress, cel.ListType(cel.StringType)),
		cel.Variable(VarKey, cel.StringType),
		cel.Variable(VarValue, cel.StringType),
		cel.Variable(VarLine, cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error in %q: %w", expr, issues.Err())
	}
	if out := ast.OutputType().String(); out != "bool" && out != "dyn" {
		return nil, fmt.Errorf("guard %q must return bool, got %s", expr, out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Guard{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (g *Guard) String() string {
	if g == nil {
		return ""
	}
	return g.expr
}

// Allows reports whether the guard passes for in. A nil guard always passes.
func (g *Guard) Allows(in GuardInput) (bool, error) {
	if g == nil {
		return true, nil
	}
	address := in.Address
	if address == nil {
		address = []string{}
	}
	result, _, err := g.prg.Eval(map[string]interface{}{
		VarTree:    in.Tree,
		VarAddress: address,
		VarKey:     in.Key,
		VarValue:   in.Value,
		VarLine:    in.Line,
	})
	if err != nil {
		return false, fmt.Errorf("eval error in %q: %w", g.expr, err)
	}
	b, ok := ToGo(result).(bool)
	if !ok {
		return false, fmt.Errorf("guard %q returned %T, want bool", g.expr, ToGo(result))
	}
	return b, nil
}

// ToGo converts CEL types to Go native types recursively.
func ToGo(val ref.Val) interface{} {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}

	valuer, ok := val.(interface{ Value() interface{} })
	if !ok {
		return val
	}
	return fromNative(valuer.Value())
}

func fromNative(inner interface{}) interface{} {
	switch t := inner.(type) {
	case ref.Val:
		return ToGo(t)
	case []ref.Val:
		out := make([]interface{}, len(t))
		for i, elem := range t {
			out[i] = ToGo(elem)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, elem := range t {
			out[i] = fromNative(elem)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			out[k] = fromNative(v)
		}
		return out
	case map[ref.Val]ref.Val:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			out[fmt.Sprintf("%v", ToGo(k))] = ToGo(v)
		}
		return out
	default:
		return inner
	}
}
