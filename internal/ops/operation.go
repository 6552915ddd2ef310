// Package ops defines the elementary operations of a computation graph.
//
// Each operation provides:
//   - Value: the result for the current operand values
//   - Grad: the local partial derivative with respect to each operand,
//     holding the other operands fixed
//
// Supported operations:
//   - Add, Sub, Mul, Div: binary arithmetic
//   - Pow ("**" and "pow"): general power rule, the exponent may itself be differentiated
//   - Sin, Cos, Tan, Log, Exp, Sqrt: unary math functions
package ops

// Op identifies a built-in elementary operation.
type Op uint8

// Built-in operations. Custom marks a definition added through Registry.Register.
const (
	Custom Op = iota
	Add
	Sub
	Mul
	Div
	Pow
	Sin
	Cos
	Tan
	Log
	Exp
	Sqrt
)

// ValueFunc computes an operation's result from its ordered operand values.
type ValueFunc func(operands []float64) float64

// GradFunc computes ∂result/∂operand_i for every operand, in operand order.
type GradFunc func(operands []float64) []float64

// Def binds a symbol to the value and local-gradient functions of an operation.
type Def struct {
	Op     Op
	Symbol string
	Arity  int
	Value  ValueFunc
	Grad   GradFunc
}

// builtins is indexed by Op so every built-in has exactly one entry.
var builtins = [...]Def{
	Custom: {},
	Add:    {Op: Add, Symbol: "+", Arity: 2, Value: addValue, Grad: addGrad},
	Sub:    {Op: Sub, Symbol: "-", Arity: 2, Value: subValue, Grad: subGrad},
	Mul:    {Op: Mul, Symbol: "*", Arity: 2, Value: mulValue, Grad: mulGrad},
	Div:    {Op: Div, Symbol: "/", Arity: 2, Value: divValue, Grad: divGrad},
	Pow:    {Op: Pow, Symbol: "**", Arity: 2, Value: powValue, Grad: powGrad},
	Sin:    {Op: Sin, Symbol: "sin", Arity: 1, Value: sinValue, Grad: sinGrad},
	Cos:    {Op: Cos, Symbol: "cos", Arity: 1, Value: cosValue, Grad: cosGrad},
	Tan:    {Op: Tan, Symbol: "tan", Arity: 1, Value: tanValue, Grad: tanGrad},
	Log:    {Op: Log, Symbol: "log", Arity: 1, Value: logValue, Grad: logGrad},
	Exp:    {Op: Exp, Symbol: "exp", Arity: 1, Value: expValue, Grad: expGrad},
	Sqrt:   {Op: Sqrt, Symbol: "sqrt", Arity: 1, Value: sqrtValue, Grad: sqrtGrad},
}

// Def returns the definition of a built-in operation.
// It reports false for Custom and for values outside the enumeration.
func (o Op) Def() (Def, bool) {
	if o == Custom || int(o) >= len(builtins) {
		return Def{}, false
	}
	return builtins[o], true
}

// String returns the operation's primary symbol.
func (o Op) String() string {
	if d, ok := o.Def(); ok {
		return d.Symbol
	}
	return "custom"
}
