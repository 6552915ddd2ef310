package graph

import "github.com/born-ml/revgrad/internal/ops"

// NodeID addresses a node in a graph's arena.
type NodeID int

// none marks an unset Outgoing reference.
const none NodeID = -1

// Kind discriminates the node variants.
type Kind uint8

// Node kinds.
const (
	Variable Kind = iota + 1
	Operation
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "var"
	case Operation:
		return "op"
	default:
		return "invalid"
	}
}

// Edge is an incoming edge: the source node and the local partial derivative
// of the receiving node with respect to it.
type Edge struct {
	From   NodeID
	Weight float64
}

// Node is a Variable or an Operation.
//
// Variables hold a scalar: a named parameter, a literal, or an operation's
// result. A result Variable has exactly one incoming edge, to the Operation
// that produced it, with weight 1. Operations have one incoming edge per
// operand and their Outgoing is the result Variable.
type Node struct {
	Kind Kind

	// Name is set only for parameter-bound variables.
	Name string

	// Value is the current value. Call-local.
	Value float64

	// Adjoint accumulates ∂output/∂node during the backward pass. Call-local.
	Adjoint float64

	// Incoming edge weights are refreshed by every forward pass.
	Incoming []Edge

	// Outgoing is the node this one was first wired into. Only Operation
	// reads it, to find its result Variable.
	Outgoing NodeID

	// Op is set for operations.
	Op ops.Def
}

// Named reports whether the node is a parameter-bound variable.
func (n *Node) Named() bool {
	return n.Kind == Variable && n.Name != ""
}

// Label describes the node for dumps: the parameter name, the literal value,
// or the operation symbol.
func (n *Node) Label() string {
	switch {
	case n.Kind == Operation:
		return n.Op.Symbol
	case n.Named():
		return n.Name
	case len(n.Incoming) == 0:
		return "const"
	default:
		return "result"
	}
}
