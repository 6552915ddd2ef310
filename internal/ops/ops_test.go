package ops_test

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/revgrad/internal/ops"
)

// Helper to check float64 slices are equal within epsilon.
func float64Equal(a, b []float64, epsilon float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

// TestBuiltins_ValueAndGrad checks every built-in against its closed form.
func TestBuiltins_ValueAndGrad(t *testing.T) {
	tests := []struct {
		symbol   string
		operands []float64
		value    float64
		grads    []float64
	}{
		{"+", []float64{2, 3}, 5, []float64{1, 1}},
		{"-", []float64{2, 3}, -1, []float64{1, -1}},
		{"*", []float64{2, 3}, 6, []float64{3, 2}},
		{"/", []float64{3, 2}, 1.5, []float64{0.5, -0.75}},
		{"**", []float64{3, 2}, 9, []float64{6, math.Log(3) * 9}},
		{"pow", []float64{2, 3}, 8, []float64{12, math.Log(2) * 8}},
		{"sin", []float64{2}, math.Sin(2), []float64{math.Cos(2)}},
		{"cos", []float64{3}, math.Cos(3), []float64{-math.Sin(3)}},
		{"tan", []float64{1}, math.Tan(1), []float64{1 / (math.Cos(1) * math.Cos(1))}},
		{"log", []float64{4}, math.Log(4), []float64{0.25}},
		{"exp", []float64{1}, math.E, []float64{math.E}},
		{"sqrt", []float64{16}, 4, []float64{0.125}},
	}

	reg := ops.NewRegistry()
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			def, err := reg.Lookup(tt.symbol)
			if err != nil {
				t.Fatalf("Lookup(%q) failed: %v", tt.symbol, err)
			}
			if def.Arity != len(tt.operands) {
				t.Fatalf("Arity = %d, want %d", def.Arity, len(tt.operands))
			}
			if got := def.Value(tt.operands); math.Abs(got-tt.value) > 1e-12 {
				t.Errorf("Value(%v) = %v, want %v", tt.operands, got, tt.value)
			}
			if got := def.Grad(tt.operands); !float64Equal(got, tt.grads, 1e-12) {
				t.Errorf("Grad(%v) = %v, want %v", tt.operands, got, tt.grads)
			}
		})
	}
}

// TestPow_NonPositiveBase documents the NaN from ln(a) in the exponent partial.
func TestPow_NonPositiveBase(t *testing.T) {
	def, _ := ops.Pow.Def()
	grads := def.Grad([]float64{-2, 2})
	if grads[0] != -4 {
		t.Errorf("d/da = %v, want -4", grads[0])
	}
	if !math.IsNaN(grads[1]) {
		t.Errorf("d/db = %v, want NaN", grads[1])
	}
}

// TestSqrt_MatchesPowHalf checks sqrt against the power rule with exponent 1/2.
func TestSqrt_MatchesPowHalf(t *testing.T) {
	sqrt, _ := ops.Sqrt.Def()
	pow, _ := ops.Pow.Def()
	for _, x := range []float64{0.25, 1, 2, 9, 100} {
		if got, want := sqrt.Grad([]float64{x})[0], pow.Grad([]float64{x, 0.5})[0]; math.Abs(got-want) > 1e-12 {
			t.Errorf("sqrt'(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestRegistry_UnknownOperator(t *testing.T) {
	_, err := ops.NewRegistry().Lookup("%")
	if !errors.Is(err, ops.ErrUnknownOperator) {
		t.Fatalf("Lookup(%%) error = %v, want ErrUnknownOperator", err)
	}
}

func TestRegistry_PowAliases(t *testing.T) {
	reg := ops.NewRegistry()
	a, _ := reg.Lookup("**")
	b, _ := reg.Lookup("pow")
	if a.Op != ops.Pow || b.Op != ops.Pow {
		t.Errorf("** -> %v, pow -> %v, want both Pow", a.Op, b.Op)
	}
	if b.Symbol != "pow" {
		t.Errorf("alias symbol = %q, want pow", b.Symbol)
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := ops.NewRegistry()

	err := reg.Register(ops.Def{
		Symbol: "sq",
		Arity:  1,
		Value:  func(xs []float64) float64 { return xs[0] * xs[0] },
		Grad:   func(xs []float64) []float64 { return []float64{2 * xs[0]} },
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	def, err := reg.Lookup("sq")
	if err != nil {
		t.Fatalf("Lookup(sq) failed: %v", err)
	}
	if def.Op != ops.Custom {
		t.Errorf("Op = %v, want custom", def.Op)
	}
	if got := def.Grad([]float64{3})[0]; got != 6 {
		t.Errorf("sq'(3) = %v, want 6", got)
	}

	// The shared default registry is untouched.
	if _, err := ops.Default().Lookup("sq"); !errors.Is(err, ops.ErrUnknownOperator) {
		t.Errorf("default registry sees custom op: %v", err)
	}
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	value := func(xs []float64) float64 { return xs[0] }
	grad := func(_ []float64) []float64 { return []float64{1} }

	bad := []ops.Def{
		{Arity: 1, Value: value, Grad: grad},
		{Symbol: "id", Arity: 0, Value: value, Grad: grad},
		{Symbol: "id", Arity: 1, Grad: grad},
		{Symbol: "id", Arity: 1, Value: value},
	}
	reg := ops.NewRegistry()
	for i, d := range bad {
		if err := reg.Register(d); !errors.Is(err, ops.ErrInvalidDefinition) {
			t.Errorf("case %d: error = %v, want ErrInvalidDefinition", i, err)
		}
	}
}

func TestRegistry_Symbols(t *testing.T) {
	want := []string{"*", "**", "+", "-", "/", "cos", "exp", "log", "pow", "sin", "sqrt", "tan"}
	got := ops.NewRegistry().Symbols()
	if len(got) != len(want) {
		t.Fatalf("Symbols() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Symbols()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOp_String(t *testing.T) {
	if ops.Mul.String() != "*" {
		t.Errorf("Mul.String() = %q", ops.Mul.String())
	}
	if ops.Custom.String() != "custom" {
		t.Errorf("Custom.String() = %q", ops.Custom.String())
	}
	if _, ok := ops.Op(200).Def(); ok {
		t.Error("Op(200).Def() reported a definition")
	}
}
