// Package graph implements reverse-mode automatic differentiation over a
// computation graph of scalar nodes.
//
// Architecture:
//   - Arena: nodes live in one slice and reference each other by NodeID.
//     Every occurrence of a parameter name resolves to the same Variable,
//     so its adjoint collects one term per use.
//   - Evaluation order: nodes are appended in post-order while building,
//     which makes the order topological without a separate sort.
//   - Forward: a front-to-back scan computing values and local partials.
//   - Backward: a back-to-front scan of the same order applying the chain rule.
//
// A Graph is built once and replayed for any number of argument sets. It has
// no internal synchronisation: one Forward+Backward pair must complete
// before the next one starts. Use Clone for concurrent callers.
//
// Usage:
//
//	g, err := graph.Build(fn.Body)
//	if err := g.Forward(map[string]float64{"x": 3}); err != nil { ... }
//	if err := g.Backward(); err != nil { ... }
//	fmt.Println(g.Value(), g.Gradient("x"))
package graph

import (
	"maps"
	"slices"
)

// State tracks where a graph is in its per-call cycle.
type State uint8

// Graph states.
const (
	Unevaluated State = iota
	Forwarded
	Accumulated
)

func (s State) String() string {
	switch s {
	case Forwarded:
		return "forwarded"
	case Accumulated:
		return "accumulated"
	default:
		return "unevaluated"
	}
}

// Graph is a computation graph with its evaluation order and named inputs.
type Graph struct {
	nodes  []Node
	order  []NodeID
	inputs map[string]NodeID

	// bindings holds the arguments of the pass in progress. Entries are
	// removed as they are applied.
	bindings map[string]float64

	state State
}

func newGraph() *Graph {
	return &Graph{
		nodes:    make([]Node, 0, 16),
		order:    make([]NodeID, 0, 16),
		inputs:   make(map[string]NodeID),
		bindings: make(map[string]float64),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Order returns a copy of the evaluation order.
func (g *Graph) Order() []NodeID {
	return slices.Clone(g.order)
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id NodeID) Node {
	n := g.nodes[id]
	n.Incoming = slices.Clone(n.Incoming)
	return n
}

// Output returns the id of the output Variable, the last node in evaluation order.
func (g *Graph) Output() NodeID {
	return g.order[len(g.order)-1]
}

// Value returns the output value of the last forward pass.
func (g *Graph) Value() float64 {
	return g.nodes[g.Output()].Value
}

// Inputs returns the names of the parameters referenced by the expression, sorted.
func (g *Graph) Inputs() []string {
	return slices.Sorted(maps.Keys(g.inputs))
}

// Input returns the Variable bound to name.
func (g *Graph) Input(name string) (NodeID, bool) {
	id, ok := g.inputs[name]
	return id, ok
}

// Gradient returns ∂output/∂name from the last backward pass.
// Names the expression never references have gradient 0.
func (g *Graph) Gradient(name string) float64 {
	id, ok := g.inputs[name]
	if !ok {
		return 0
	}
	return g.nodes[id].Adjoint
}

// State returns the graph's position in the forward/backward cycle.
func (g *Graph) State() State {
	return g.state
}

// Clone returns an independent copy sharing no mutable state with g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:    make([]Node, len(g.nodes)),
		order:    slices.Clone(g.order),
		inputs:   maps.Clone(g.inputs),
		bindings: make(map[string]float64),
		state:    g.state,
	}
	for i, n := range g.nodes {
		n.Incoming = slices.Clone(n.Incoming)
		c.nodes[i] = n
	}
	return c
}
