package ops

import "errors"

// Registry errors.
var (
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrInvalidDefinition = errors.New("invalid operator definition")
)
