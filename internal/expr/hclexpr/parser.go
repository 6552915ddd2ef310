// Package hclexpr parses functions written as HCL attributes:
//
//	params = ["x", "y"]
//	body   = x * y + sin(pow(x, 2))
//
// Function calls resolve in the math namespace; "math::sin(x)" names the
// namespace explicitly.
package hclexpr

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/born-ml/revgrad/internal/expr"
)

const (
	paramsAttr = "params"
	bodyAttr   = "body"
)

var binaryOps = map[*hclsyntax.Operation]string{
	hclsyntax.OpAdd:                "+",
	hclsyntax.OpSubtract:           "-",
	hclsyntax.OpMultiply:           "*",
	hclsyntax.OpDivide:             "/",
	hclsyntax.OpModulo:             "%",
	hclsyntax.OpEqual:              "==",
	hclsyntax.OpNotEqual:           "!=",
	hclsyntax.OpGreaterThan:        ">",
	hclsyntax.OpGreaterThanOrEqual: ">=",
	hclsyntax.OpLessThan:           "<",
	hclsyntax.OpLessThanOrEqual:    "<=",
	hclsyntax.OpLogicalAnd:         "&&",
	hclsyntax.OpLogicalOr:          "||",
}

// Parser is the HCL front-end.
type Parser struct {
	// Filename is used in diagnostics.
	Filename string
}

// New creates an HCL parser.
func New() *Parser {
	return &Parser{Filename: "function.hcl"}
}

// Name implements expr.Parser.
func (*Parser) Name() string {
	return "hcl"
}

// Parse implements expr.Parser.
func (p *Parser) Parse(src string) (*expr.Func, error) {
	file, diags := hclsyntax.ParseConfig([]byte(src), p.Filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", expr.ErrInvalidFunctionShape, diags.Error())
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected body type %T", expr.ErrInvalidFunctionShape, file.Body)
	}
	if len(body.Blocks) > 0 {
		return nil, fmt.Errorf("%w: unexpected block %q at %s",
			expr.ErrInvalidFunctionShape, body.Blocks[0].Type, body.Blocks[0].DefRange())
	}
	for name, attr := range body.Attributes {
		if name != paramsAttr && name != bodyAttr {
			return nil, fmt.Errorf("%w: unexpected attribute %q at %s",
				expr.ErrInvalidFunctionShape, name, attr.NameRange)
		}
	}

	params, err := decodeParams(body.Attributes[paramsAttr])
	if err != nil {
		return nil, err
	}

	bodyExpr, ok := body.Attributes[bodyAttr]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q attribute", expr.ErrInvalidFunctionShape, bodyAttr)
	}

	fn := &expr.Func{
		Params: params,
		Body:   convertExpr(bodyExpr.Expr),
	}
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	return fn, nil
}

func decodeParams(attr *hclsyntax.Attribute) ([]string, error) {
	if attr == nil {
		return nil, fmt.Errorf("%w: missing %q attribute", expr.ErrInvalidFunctionShape, paramsAttr)
	}

	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s: %s", expr.ErrInvalidFunctionShape, paramsAttr, diags.Error())
	}

	list, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a list of names: %v", expr.ErrInvalidFunctionShape, paramsAttr, err)
	}

	var params []string
	if err := gocty.FromCtyValue(list, &params); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", expr.ErrInvalidFunctionShape, paramsAttr, err)
	}
	return params, nil
}

func convertExpr(e hclsyntax.Expression) expr.Node {
	switch e := e.(type) {
	case *hclsyntax.LiteralValueExpr:
		return literal(e)
	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return other(e, "attribute traversal")
		}
		return &expr.Ident{Name: e.Traversal.RootName()}
	case *hclsyntax.ParenthesesExpr:
		return convertExpr(e.Expression)
	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return other(e, "logical not")
		}
		x := convertExpr(e.Val)
		if lit, ok := x.(*expr.Literal); ok {
			return &expr.Literal{Value: -lit.Value}
		}
		return &expr.Binary{Op: "-", Left: &expr.Literal{Value: 0}, Right: x}
	case *hclsyntax.BinaryOpExpr:
		op, ok := binaryOps[e.Op]
		if !ok {
			return other(e, "binary operator")
		}
		return &expr.Binary{
			Op:    op,
			Left:  convertExpr(e.LHS),
			Right: convertExpr(e.RHS),
		}
	case *hclsyntax.FunctionCallExpr:
		return call(e)
	default:
		return other(e, strings.TrimPrefix(fmt.Sprintf("%T", e), "*hclsyntax."))
	}
}

func literal(e *hclsyntax.LiteralValueExpr) expr.Node {
	if e.Val.IsNull() || !e.Val.IsKnown() || e.Val.Type() != cty.Number {
		return other(e, e.Val.Type().FriendlyName()+" literal")
	}
	v, _ := e.Val.AsBigFloat().Float64()
	return &expr.Literal{Value: v}
}

func call(e *hclsyntax.FunctionCallExpr) expr.Node {
	if e.ExpandFinal {
		return other(e, "expanded call")
	}

	namespace, name := expr.MathNamespace, e.Name
	if i := strings.LastIndex(name, "::"); i >= 0 {
		namespace, name = name[:i], name[i+2:]
	}

	out := &expr.Call{
		Namespace: namespace,
		Name:      name,
		Args:      make([]expr.Node, len(e.Args)),
	}
	for i, arg := range e.Args {
		out.Args[i] = convertExpr(arg)
	}
	return out
}

func other(e hclsyntax.Expression, kind string) *expr.Other {
	return &expr.Other{
		Kind: kind,
		Pos:  e.Range().String(),
	}
}
