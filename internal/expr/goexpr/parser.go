// Package goexpr parses Go function source into an expression tree.
//
// Accepted forms:
//
//	func(x, y float64) float64 { return x*y + math.Sin(x) }
//	func f(x, y float64) float64 { return x*y + math.Sin(x) }
//
// The body must be a single return statement with one result. Calls into the
// math package (math.Sin, math.Pow, ...) become calls in the math namespace.
package goexpr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/born-ml/revgrad/internal/expr"
)

// Parser is the Go-source front-end. The zero value is ready to use.
type Parser struct{}

// New creates a Go-source parser.
func New() *Parser {
	return &Parser{}
}

// Name implements expr.Parser.
func (*Parser) Name() string {
	return "go"
}

// Parse implements expr.Parser.
func (*Parser) Parse(src string) (*expr.Func, error) {
	fset := token.NewFileSet()

	ftype, body, err := parseFunc(fset, src)
	if err != nil {
		return nil, err
	}

	params, err := paramNames(ftype)
	if err != nil {
		return nil, err
	}

	result, err := singleResult(body)
	if err != nil {
		return nil, err
	}

	c := converter{fset: fset}
	fn := &expr.Func{
		Params: params,
		Body:   c.convert(result),
	}
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	return fn, nil
}

// parseFunc accepts a function literal first and falls back to a declaration.
func parseFunc(fset *token.FileSet, src string) (*ast.FuncType, *ast.BlockStmt, error) {
	if e, err := parser.ParseExprFrom(fset, "", src, 0); err == nil {
		lit, ok := e.(*ast.FuncLit)
		if !ok {
			return nil, nil, fmt.Errorf("%w: expected a function, got %s", expr.ErrInvalidFunctionShape, kindOf(e))
		}
		return lit.Type, lit.Body, nil
	}

	file, err := parser.ParseFile(fset, "", "package p\n"+src, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", expr.ErrInvalidFunctionShape, err)
	}
	if len(file.Decls) != 1 {
		return nil, nil, fmt.Errorf("%w: expected one function declaration, got %d declarations",
			expr.ErrInvalidFunctionShape, len(file.Decls))
	}
	decl, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok || decl.Body == nil {
		return nil, nil, fmt.Errorf("%w: expected a function declaration with a body", expr.ErrInvalidFunctionShape)
	}
	if decl.Recv != nil {
		return nil, nil, fmt.Errorf("%w: methods are not supported", expr.ErrInvalidFunctionShape)
	}
	return decl.Type, decl.Body, nil
}

func paramNames(ftype *ast.FuncType) ([]string, error) {
	if ftype.TypeParams != nil && len(ftype.TypeParams.List) > 0 {
		return nil, fmt.Errorf("%w: type parameters are not supported", expr.ErrInvalidFunctionShape)
	}

	var names []string
	for _, field := range ftype.Params.List {
		if _, variadic := field.Type.(*ast.Ellipsis); variadic {
			return nil, fmt.Errorf("%w: variadic parameters are not supported", expr.ErrInvalidFunctionShape)
		}
		if len(field.Names) == 0 {
			return nil, fmt.Errorf("%w: unnamed parameter", expr.ErrInvalidFunctionShape)
		}
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return names, nil
}

func singleResult(body *ast.BlockStmt) (ast.Expr, error) {
	if len(body.List) != 1 {
		return nil, fmt.Errorf("%w: body must be a single return statement, got %d statements",
			expr.ErrInvalidFunctionShape, len(body.List))
	}
	ret, ok := body.List[0].(*ast.ReturnStmt)
	if !ok {
		return nil, fmt.Errorf("%w: body must be a single return statement, got %s",
			expr.ErrInvalidFunctionShape, kindOf(body.List[0]))
	}
	if len(ret.Results) != 1 {
		return nil, fmt.Errorf("%w: return must have exactly one result, got %d",
			expr.ErrInvalidFunctionShape, len(ret.Results))
	}
	return ret.Results[0], nil
}

type converter struct {
	fset *token.FileSet
}

func (c converter) convert(e ast.Expr) expr.Node {
	switch e := e.(type) {
	case *ast.BasicLit:
		return c.literal(e)
	case *ast.Ident:
		return &expr.Ident{Name: e.Name}
	case *ast.ParenExpr:
		return c.convert(e.X)
	case *ast.UnaryExpr:
		return c.unary(e)
	case *ast.BinaryExpr:
		return &expr.Binary{
			Op:    e.Op.String(),
			Left:  c.convert(e.X),
			Right: c.convert(e.Y),
		}
	case *ast.CallExpr:
		return c.call(e)
	default:
		return c.other(e, kindOf(e))
	}
}

func (c converter) literal(lit *ast.BasicLit) expr.Node {
	var (
		v   float64
		err error
	)
	switch lit.Kind {
	case token.INT:
		var i int64
		if i, err = strconv.ParseInt(lit.Value, 0, 64); err == nil {
			v = float64(i)
		} else {
			v, err = strconv.ParseFloat(strings.ReplaceAll(lit.Value, "_", ""), 64)
		}
	case token.FLOAT:
		v, err = strconv.ParseFloat(lit.Value, 64)
	default:
		return c.other(lit, strings.ToLower(lit.Kind.String())+" literal")
	}
	if err != nil {
		return c.other(lit, "literal "+lit.Value)
	}
	return &expr.Literal{Value: v}
}

// unary folds -literal into a negative literal and lowers -x to 0 - x.
func (c converter) unary(u *ast.UnaryExpr) expr.Node {
	switch u.Op {
	case token.ADD:
		return c.convert(u.X)
	case token.SUB:
		x := c.convert(u.X)
		if lit, ok := x.(*expr.Literal); ok {
			return &expr.Literal{Value: -lit.Value}
		}
		return &expr.Binary{Op: "-", Left: &expr.Literal{Value: 0}, Right: x}
	default:
		return c.other(u, "unary "+u.Op.String())
	}
}

func (c converter) call(call *ast.CallExpr) expr.Node {
	if call.Ellipsis.IsValid() {
		return c.other(call, "variadic call")
	}

	out := &expr.Call{Args: make([]expr.Node, len(call.Args))}
	switch fun := call.Fun.(type) {
	case *ast.SelectorExpr:
		pkg, ok := fun.X.(*ast.Ident)
		if !ok {
			return c.other(call, "call of "+kindOf(fun.X))
		}
		out.Namespace, out.Name = pkg.Name, fun.Sel.Name
	case *ast.Ident:
		out.Name = fun.Name
	default:
		return c.other(call, "call of "+kindOf(fun))
	}

	for i, arg := range call.Args {
		out.Args[i] = c.convert(arg)
	}
	return out
}

func (c converter) other(n ast.Node, kind string) *expr.Other {
	return &expr.Other{
		Kind: kind,
		Pos:  c.fset.Position(n.Pos()).String(),
	}
}

// kindOf names an AST node by its type, e.g. "IndexExpr".
func kindOf(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}
