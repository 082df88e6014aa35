package engine

import "errors"

var (
	ErrUndefinedMemory  = errors.New("recall of undeclared memory slot")
	ErrInvalidAttribute = errors.New("invalid attribute")
	ErrRecursionLimit   = errors.New("recursion limit exceeded")
	ErrNoAlternatives   = errors.New("no element alternatives to choose from")
)
