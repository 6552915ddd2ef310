// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package revgrad

import (
	"github.com/born-ml/revgrad/internal/expr"
	"github.com/born-ml/revgrad/internal/expr/goexpr"
	"github.com/born-ml/revgrad/internal/expr/hclexpr"
	"github.com/born-ml/revgrad/internal/gradfn"
	"github.com/born-ml/revgrad/internal/graph"
	"github.com/born-ml/revgrad/internal/ops"
)

// Func is a gradient function. Calls are safe for concurrent use.
type Func = gradfn.Func

// Result is a function value and its gradient, one entry per parameter.
type Result = gradfn.Result

// Option configures a Func.
type Option = gradfn.Option

// PointError reports the failing point of Func.Batch.
type PointError = gradfn.PointError

// Cache memoises Funcs by source text.
type Cache = gradfn.Cache

// Registry maps operator symbols to their value and gradient functions.
type Registry = ops.Registry

// Def defines an operator for Registry.Register.
type Def = ops.Def

// Parser turns function source into an expression tree.
type Parser = expr.Parser

// Errors.
var (
	ErrArityMismatch         = gradfn.ErrArityMismatch
	ErrUnboundIdentifier     = gradfn.ErrUnboundIdentifier
	ErrInvalidFunctionShape  = expr.ErrInvalidFunctionShape
	ErrUnknownOperator       = ops.ErrUnknownOperator
	ErrInvalidDefinition     = ops.ErrInvalidDefinition
	ErrUnsupportedExpression = graph.ErrUnsupportedExpression
	ErrUnsupportedCallee     = graph.ErrUnsupportedCallee
	ErrOperandCount          = graph.ErrOperandCount
	ErrEmptyBindings         = graph.ErrEmptyBindings
	ErrDanglingOperation     = graph.ErrDanglingOperation
)

// WithRegistry builds Funcs against r instead of the built-in operators.
var WithRegistry = gradfn.WithRegistry

// WithLogger sets the logger of a Func.
var WithLogger = gradfn.WithLogger

// NewRegistry creates a registry holding the built-in operators.
func NewRegistry() *Registry {
	return ops.NewRegistry()
}

// GoParser returns the parser for Go function source.
func GoParser() Parser {
	return goexpr.New()
}

// HCLParser returns the parser for HCL function definitions.
func HCLParser() Parser {
	return hclexpr.New()
}

// MakeGradFn builds the gradient function of a Go function literal or
// declaration such as
//
//	func(x, y float64) float64 { return x * math.Sin(y) }
//
// Malformed source and unsupported expressions fail here, never at call time.
func MakeGradFn(src string, opts ...Option) (*Func, error) {
	return gradfn.Make(src, goexpr.New(), opts...)
}

// MakeGradFnHCL builds the gradient function of an HCL definition with a
// params list and a body expression.
func MakeGradFnHCL(src string, opts ...Option) (*Func, error) {
	return gradfn.Make(src, hclexpr.New(), opts...)
}

// NewCache creates a cache of Funcs parsed with p.
func NewCache(p Parser, opts ...Option) *Cache {
	return gradfn.NewCache(p, opts...)
}
