package graph

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/born-ml/revgrad/internal/expr"
	"github.com/born-ml/revgrad/internal/ops"
)

// Option configures Build.
type Option func(*builder)

// WithRegistry sets the operator registry. Defaults to ops.Default().
func WithRegistry(r *ops.Registry) Option {
	return func(b *builder) {
		b.registry = r
	}
}

// WithLogger sets the logger for construction diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		b.logger = l
	}
}

type builder struct {
	registry *ops.Registry
	logger   *slog.Logger
	g        *Graph
}

// Build constructs the computation graph of an expression tree.
//
// Every unsupported node kind, unknown operator and foreign callee is
// reported here, before any evaluation.
func Build(root expr.Node, opts ...Option) (*Graph, error) {
	b := &builder{
		registry: ops.Default(),
		logger:   slog.New(slog.DiscardHandler),
		g:        newGraph(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if _, err := b.visit(root); err != nil {
		return nil, err
	}

	b.logger.Debug("graph built",
		"nodes", b.g.Len(),
		"inputs", b.g.Inputs(),
		"expr", expr.Format(root))
	return b.g, nil
}

// visit appends the subgraph of n in post-order and returns the Variable holding its value.
func (b *builder) visit(n expr.Node) (NodeID, error) {
	switch n := n.(type) {
	case *expr.Literal:
		return b.appendNode(Node{Kind: Variable, Value: n.Value}), nil

	case *expr.Ident:
		// Shared: later occurrences reuse the Variable without re-appending it.
		if id, ok := b.g.inputs[n.Name]; ok {
			return id, nil
		}
		id := b.appendNode(Node{Kind: Variable, Name: n.Name})
		b.g.inputs[n.Name] = id
		return id, nil

	case *expr.Binary:
		def, err := b.registry.Lookup(n.Op)
		if err != nil {
			return none, err
		}
		return b.addOperation(def, n.Left, n.Right)

	case *expr.Call:
		symbol, err := resolveCallee(n)
		if err != nil {
			return none, err
		}
		def, err := b.registry.Lookup(symbol)
		if err != nil {
			return none, fmt.Errorf("%s: %w", n.Callee(), err)
		}
		return b.addOperation(def, n.Args...)

	case *expr.Other:
		if n.Pos != "" {
			return none, fmt.Errorf("%w: %s at %s", ErrUnsupportedExpression, n.Kind, n.Pos)
		}
		return none, fmt.Errorf("%w: %s", ErrUnsupportedExpression, n.Kind)

	case nil:
		return none, fmt.Errorf("%w: nil node", ErrUnsupportedExpression)

	default:
		return none, fmt.Errorf("%w: %T", ErrUnsupportedExpression, n)
	}
}

// resolveCallee maps a call in the math namespace to a registry symbol.
func resolveCallee(c *expr.Call) (string, error) {
	if c.Namespace != expr.MathNamespace {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCallee, c.Callee())
	}
	return strings.ToLower(c.Name), nil
}

// addOperation wires operands -> Operation -> result Variable.
func (b *builder) addOperation(def ops.Def, operands ...expr.Node) (NodeID, error) {
	if len(operands) != def.Arity {
		return none, fmt.Errorf("%w: %s takes %d, got %d", ErrOperandCount, def.Symbol, def.Arity, len(operands))
	}

	incoming := make([]Edge, len(operands))
	for i, operand := range operands {
		id, err := b.visit(operand)
		if err != nil {
			return none, err
		}
		incoming[i] = Edge{From: id, Weight: 1}
	}

	op := b.appendNode(Node{Kind: Operation, Op: def, Incoming: incoming})
	for _, e := range incoming {
		if src := &b.g.nodes[e.From]; src.Outgoing == none {
			src.Outgoing = op
		}
	}

	out := b.appendNode(Node{Kind: Variable, Incoming: []Edge{{From: op, Weight: 1}}})
	b.g.nodes[op].Outgoing = out
	return out, nil
}

func (b *builder) appendNode(n Node) NodeID {
	id := NodeID(len(b.g.nodes))
	n.Outgoing = none
	b.g.nodes = append(b.g.nodes, n)
	b.g.order = append(b.g.order, id)
	return id
}
