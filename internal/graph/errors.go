package graph

import "errors"

// Construction errors.
var (
	ErrUnsupportedExpression = errors.New("unsupported expression")
	ErrUnsupportedCallee     = errors.New("unsupported callee")
	ErrOperandCount          = errors.New("wrong number of operands")
)

// Evaluation errors.
var (
	ErrEmptyBindings     = errors.New("no argument bindings supplied")
	ErrNotEvaluated      = errors.New("backward pass requires a fresh forward pass")
	ErrDanglingOperation = errors.New("operation has no output variable")
)
