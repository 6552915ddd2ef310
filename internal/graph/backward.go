package graph

// Backward accumulates ∂output/∂node into every node's adjoint.
//
// Algorithm:
//  1. Seed the output Variable's adjoint with 1.
//  2. Walk the evaluation order in reverse. For each result Variable v,
//     follow its passthrough edge to the Operation op that produced it.
//  3. For each operand edge (input, w) of op, add v.Adjoint * w to
//     input.Adjoint.
//
// Every consumer of a Variable comes later in evaluation order, so its
// adjoint is complete before it is propagated. A shared Variable receives
// one term per use, which gives the sum rule across distinct uses and the
// product rule for self-products.
//
// Backward must directly follow a successful Forward.
func (g *Graph) Backward() error {
	if g.state != Forwarded {
		return ErrNotEvaluated
	}

	g.nodes[g.Output()].Adjoint = 1

	for i := len(g.order) - 1; i >= 0; i-- {
		v := &g.nodes[g.order[i]]
		if v.Kind != Variable || len(v.Incoming) == 0 {
			continue
		}

		pass := v.Incoming[0]
		adjoint := v.Adjoint * pass.Weight
		for _, e := range g.nodes[pass.From].Incoming {
			g.nodes[e.From].Adjoint += adjoint * e.Weight
		}
	}

	g.state = Accumulated
	return nil
}
