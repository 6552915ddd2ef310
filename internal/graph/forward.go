package graph

import (
	"fmt"

	"github.com/born-ml/revgrad/internal/ops"
)

// Forward binds arguments and evaluates the graph in evaluation order.
//
// Every Variable's adjoint is reset. Named Variables take their value from
// bindings; each binding is consumed once. Every Operation recomputes its
// value and overwrites its incoming edge weights with fresh local partials.
//
// Forward fails with ErrEmptyBindings when the expression references
// parameters but no bindings are given. Names the graph does not reference
// are ignored.
func (g *Graph) Forward(bindings map[string]float64) error {
	if len(bindings) == 0 && len(g.inputs) > 0 {
		return ErrEmptyBindings
	}

	g.state = Unevaluated
	clear(g.bindings)
	for name, v := range bindings {
		g.bindings[name] = v
	}
	defer clear(g.bindings)

	operands := make([]float64, 0, 2)
	for _, id := range g.order {
		n := &g.nodes[id]

		switch n.Kind {
		case Variable:
			n.Adjoint = 0
			if !n.Named() {
				continue
			}
			if v, ok := g.bindings[n.Name]; ok {
				n.Value = v
				delete(g.bindings, n.Name)
			}

		case Operation:
			if n.Outgoing == none {
				return fmt.Errorf("%w: node %d (%s)", ErrDanglingOperation, id, n.Op.Symbol)
			}

			operands = operands[:0]
			for _, e := range n.Incoming {
				operands = append(operands, g.nodes[e.From].Value)
			}

			value := n.Op.Value(operands)
			partials := n.Op.Grad(operands)
			if len(partials) != len(n.Incoming) {
				return fmt.Errorf("%w: %s returned %d partials for %d operands",
					ops.ErrInvalidDefinition, n.Op.Symbol, len(partials), len(n.Incoming))
			}
			for i := range n.Incoming {
				n.Incoming[i].Weight = partials[i]
			}

			g.nodes[n.Outgoing].Value = value

		default:
			return fmt.Errorf("graph: node %d has invalid kind %d", id, n.Kind)
		}
	}

	g.state = Forwarded
	return nil
}
