package ybus

import "errors"

var (
	// ErrSingularMatrix is returned when the admittance matrix cannot be
	// factored, which indicates an electrically isolated node.
	ErrSingularMatrix = errors.New("ybus: matrix is singular")

	// ErrDimensionMismatch is returned for mismatched operand sizes.
	ErrDimensionMismatch = errors.New("ybus: dimension mismatch")

	// ErrUnknownNode is returned when a branch references a node missing
	// from the matrix ordering.
	ErrUnknownNode = errors.New("ybus: branch references unknown node")
)
