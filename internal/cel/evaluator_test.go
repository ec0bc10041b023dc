package cel

import (
	"testing"

	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

func TestNewEvaluator_CreatesValidEnvironment(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	if eval == nil || eval.env == nil {
		t.Fatal("NewEvaluator returned an evaluator without environment")
	}
}

func TestEvaluate_SceneExpressions(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}

	scene := map[string]interface{}{
		"name": "demo",
		"styles": map[string]interface{}{
			"water": map[string]interface{}{"draw": map[string]interface{}{"polygons": map[string]interface{}{"color": "blue"}}},
		},
		"cameras": []interface{}{"main", "overview"},
		"zoom":    16,
		"enabled": true,
	}

	tests := []struct {
		name     string
		expr     string
		expected interface{}
	}{
		{"access field", "_.name", "demo"},
		{"access number", "_.zoom", int64(16)},
		{"array index", "_.cameras[1]", "overview"},
		{"boolean", "_.enabled", true},
		{"nested field", "_.styles.water.draw.polygons.color", "blue"},
		{"has macro", "has(_.styles.water)", true},
		{"size", "size(_.cameras)", int64(2)},
		{"comparison", "_.zoom > 10 && _.enabled", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eval.Evaluate(tt.expr, scene)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %v (%T), got %v (%T)", tt.expected, tt.expected, result, result)
			}
		})
	}
}

func TestEvaluate_FilterReturnsGoSlice(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}

	data := map[string]interface{}{
		"layers": []interface{}{
			map[string]interface{}{"name": "roads", "enabled": true},
			map[string]interface{}{"name": "water", "enabled": false},
			map[string]interface{}{"name": "labels", "enabled": true},
		},
	}

	result, err := eval.Evaluate("_.layers.filter(x, x.enabled).map(x, x.name)", data)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	names, ok := result.([]interface{})
	if !ok {
		t.Fatalf("expected slice, got %T", result)
	}
	if len(names) != 2 || names[0] != "roads" || names[1] != "labels" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestEvaluate_MapLiteralKeysBecomeStrings(t *testing.T) {
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}

	result, err := eval.Evaluate(`{"a": 1, "b": [true]}`, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	m, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map, got %T", result)
	}
	if m["a"] != int64(1) {
		t.Errorf("expected a=1, got %v", m["a"])
	}
	list, ok := m["b"].([]interface{})
	if !ok || len(list) != 1 || list[0] != true {
		t.Errorf("unexpected b: %#v", m["b"])
	}
}

func TestToGo_PrimitiveTypes(t *testing.T) {
	tests := []struct {
		name     string
		input    ref.Val
		expected interface{}
	}{
		{"bool true", types.Bool(true), true},
		{"bool false", types.Bool(false), false},
		{"int", types.Int(42), int64(42)},
		{"uint", types.Uint(100), uint64(100)},
		{"double", types.Double(3.14), float64(3.14)},
		{"string", types.String("hello"), "hello"},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToGo(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v (%T), got %v (%T)", tt.expected, tt.expected, result, result)
			}
		})
	}
}

func TestToGo_BytesType(t *testing.T) {
	result := ToGo(types.Bytes([]byte("data")))
	resultBytes, ok := result.([]byte)
	if !ok {
		t.Fatalf("expected []byte, got %T", result)
	}
	if string(resultBytes) != "data" {
		t.Errorf("expected %q, got %q", "data", resultBytes)
	}
}

func TestEvaluateExpressionWithEnv_ErrorHandling(t *testing.T) {
	env, err := newStandardCELEnv()
	if err != nil {
		t.Fatalf("newStandardCELEnv failed: %v", err)
	}

	tests := []struct {
		name string
		expr string
		data interface{}
	}{
		{"invalid syntax", "_.name[", map[string]interface{}{}},
		{"undefined field", "_.nonexistent.deep.field", map[string]interface{}{}},
		{"type error", "_.count + \"string\"", map[string]interface{}{"count": 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateExpressionWithEnv(env, tt.expr, tt.data)
			if err == nil {
				t.Error("expected error for invalid expression")
			}
		})
	}
}

func TestGuard_Allows(t *testing.T) {
	tree := map[string]interface{}{
		"styles": map[string]interface{}{"water": map[string]interface{}{}},
	}

	tests := []struct {
		name     string
		expr     string
		in       GuardInput
		expected bool
	}{
		{
			name:     "address contains",
			expr:     `"draw" in address`,
			in:       GuardInput{Address: []string{"layers", "water", "draw"}, Key: "color"},
			expected: true,
		},
		{
			name:     "address length",
			expr:     `size(address) > 2`,
			in:       GuardInput{Address: []string{"layers"}, Key: "color"},
			expected: false,
		},
		{
			name:     "value prefix",
			expr:     `value.startsWith("#")`,
			in:       GuardInput{Key: "color", Value: "#ff0000"},
			expected: true,
		},
		{
			name:     "line number",
			expr:     `line >= 3`,
			in:       GuardInput{Line: 2},
			expected: false,
		},
		{
			name:     "tree lookup",
			expr:     `has(_.styles) && key in _.styles`,
			in:       GuardInput{Tree: tree, Key: "water"},
			expected: true,
		},
		{
			name:     "nil address",
			expr:     `size(address) == 0`,
			in:       GuardInput{},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := CompileGuard(tt.expr)
			if err != nil {
				t.Fatalf("CompileGuard failed: %v", err)
			}
			if g.String() != tt.expr {
				t.Errorf("String() = %q, want %q", g.String(), tt.expr)
			}
			ok, err := g.Allows(tt.in)
			if err != nil {
				t.Fatalf("Allows failed: %v", err)
			}
			if ok != tt.expected {
				t.Errorf("Allows() = %v, want %v", ok, tt.expected)
			}
		})
	}
}

func TestGuard_NilAlwaysAllows(t *testing.T) {
	var g *Guard
	ok, err := g.Allows(GuardInput{Key: "anything"})
	if err != nil || !ok {
		t.Fatalf("nil guard should allow, got %v %v", ok, err)
	}
	if g.String() != "" {
		t.Errorf("nil guard String() = %q", g.String())
	}
}

func TestCompileGuard_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"syntax", `key ==`},
		{"non bool", `size(address)`},
		{"unknown variable", `colour == "red"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CompileGuard(tt.expr); err == nil {
				t.Errorf("expected error for %q", tt.expr)
			}
		})
	}
}
