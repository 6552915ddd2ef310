// Package expr defines the expression tree consumed by the graph builder and
// the Parser interface implemented by the source front-ends.
//
// A tree is made of four node kinds:
//   - Literal: a numeric constant
//   - Ident: a reference to a named parameter
//   - Binary: an infix operator applied to two operands
//   - Call: a call to a function in a known namespace
//
// Front-ends map syntax they cannot express with these kinds to Other, so the
// graph builder is the single place that rejects unsupported expressions.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MathNamespace is the only namespace whose functions the graph builder resolves.
const MathNamespace = "math"

// ErrInvalidFunctionShape is returned when source is not a single-expression function.
var ErrInvalidFunctionShape = errors.New("invalid function shape")

// Node is a node of an expression tree.
type Node interface {
	// Children returns the operands of the node in evaluation order.
	Children() []Node
}

// Literal is a numeric constant.
type Literal struct {
	Value float64
}

// Ident references a parameter by name.
type Ident struct {
	Name string
}

// Binary applies an infix operator, identified by its symbol, to two operands.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Call invokes Namespace.Name with Args.
type Call struct {
	Namespace string
	Name      string
	Args      []Node
}

// Other stands for syntax the front-end recognised but the tree cannot express.
type Other struct {
	Kind string // e.g. "IndexExpr", "string literal"
	Pos  string // source position, if known
}

// Children implements Node.
func (*Literal) Children() []Node { return nil }

// Children implements Node.
func (*Ident) Children() []Node { return nil }

// Children implements Node.
func (b *Binary) Children() []Node { return []Node{b.Left, b.Right} }

// Children implements Node.
func (c *Call) Children() []Node { return c.Args }

// Children implements Node.
func (*Other) Children() []Node { return nil }

// Callee returns the qualified function name, e.g. "math.Sin".
func (c *Call) Callee() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "." + c.Name
}

// Func is a parsed single-expression function.
type Func struct {
	Params []string // declared parameter names, in order
	Body   Node
}

// Validate checks that the parameters are named and unique and the body is set.
func (f *Func) Validate() error {
	if f.Body == nil {
		return fmt.Errorf("%w: missing body expression", ErrInvalidFunctionShape)
	}
	seen := make(map[string]struct{}, len(f.Params))
	for i, p := range f.Params {
		if p == "" || p == "_" {
			return fmt.Errorf("%w: parameter %d has no usable name", ErrInvalidFunctionShape, i)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidFunctionShape, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// Parser turns function source into a Func.
type Parser interface {
	// Name identifies the source language, e.g. "go" or "hcl".
	Name() string

	// Parse fails with ErrInvalidFunctionShape unless src is a function whose
	// body is exactly one expression.
	Parse(src string) (*Func, error)
}

// Format renders a tree in fully parenthesised infix form.
func Format(n Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		sb.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *Ident:
		sb.WriteString(n.Name)
	case *Binary:
		sb.WriteByte('(')
		format(sb, n.Left)
		sb.WriteString(" " + n.Op + " ")
		format(sb, n.Right)
		sb.WriteByte(')')
	case *Call:
		sb.WriteString(n.Callee())
		sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, arg)
		}
		sb.WriteByte(')')
	case *Other:
		sb.WriteString("<" + n.Kind + ">")
	default:
		fmt.Fprintf(sb, "<%T>", n)
	}
}
