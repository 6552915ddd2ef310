package ops

import (
	"fmt"
	"maps"
	"slices"
)

// Registry maps operator and function symbols to their definitions.
//
// A Registry is safe for concurrent lookups. Register must not run
// concurrently with Lookup.
type Registry struct {
	defs map[string]Def
}

var defaultRegistry = NewRegistry()

// Default returns the shared registry holding the built-in operations.
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry creates a registry with all built-in operations.
func NewRegistry() *Registry {
	r := &Registry{
		defs: make(map[string]Def),
	}

	r.registerArithmetic()
	r.registerMathFuncs()

	return r
}

func (r *Registry) registerArithmetic() {
	for _, op := range []Op{Add, Sub, Mul, Div, Pow} {
		d, _ := op.Def()
		r.defs[d.Symbol] = d
	}
}

func (r *Registry) registerMathFuncs() {
	for _, op := range []Op{Sin, Cos, Tan, Log, Exp, Sqrt} {
		d, _ := op.Def()
		r.defs[d.Symbol] = d
	}

	// pow(x, y) is the call form of x ** y.
	pow, _ := Pow.Def()
	pow.Symbol = "pow"
	r.defs[pow.Symbol] = pow
}

// Register adds a custom operation, replacing any definition with the same symbol.
func (r *Registry) Register(d Def) error {
	switch {
	case d.Symbol == "":
		return fmt.Errorf("%w: empty symbol", ErrInvalidDefinition)
	case d.Arity < 1:
		return fmt.Errorf("%w: %s: arity %d", ErrInvalidDefinition, d.Symbol, d.Arity)
	case d.Value == nil || d.Grad == nil:
		return fmt.Errorf("%w: %s: value and gradient functions are required", ErrInvalidDefinition, d.Symbol)
	}
	d.Op = Custom
	r.defs[d.Symbol] = d
	return nil
}

// Lookup returns the definition registered for symbol.
func (r *Registry) Lookup(symbol string) (Def, error) {
	d, ok := r.defs[symbol]
	if !ok {
		return Def{}, fmt.Errorf("%w: %q", ErrUnknownOperator, symbol)
	}
	return d, nil
}

// Symbols returns all registered symbols in sorted order.
func (r *Registry) Symbols() []string {
	return slices.Sorted(maps.Keys(r.defs))
}
