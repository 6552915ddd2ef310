package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/revgrad/internal/expr"
)

func ident(name string) *expr.Ident { return &expr.Ident{Name: name} }

func lit(v float64) *expr.Literal { return &expr.Literal{Value: v} }

func bin(op string, l, r expr.Node) *expr.Binary {
	return &expr.Binary{Op: op, Left: l, Right: r}
}

func mathCall(name string, args ...expr.Node) *expr.Call {
	return &expr.Call{Namespace: expr.MathNamespace, Name: name, Args: args}
}

// eval runs one forward and backward pass and returns the value and the
// gradients for names, in order.
func eval(t *testing.T, g *Graph, args map[string]float64, names ...string) (float64, []float64) {
	t.Helper()
	require.NoError(t, g.Forward(args))
	require.NoError(t, g.Backward())

	grads := make([]float64, len(names))
	for i, name := range names {
		grads[i] = g.Gradient(name)
	}
	return g.Value(), grads
}
