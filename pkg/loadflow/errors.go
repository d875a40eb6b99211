package loadflow

import "errors"

var (
	// ErrNoSlackBus is returned when no bus is tagged as the reference.
	ErrNoSlackBus = errors.New("loadflow: no slack bus defined")

	// ErrMultipleSlackBuses is returned when more than one bus claims the
	// reference role.
	ErrMultipleSlackBuses = errors.New("loadflow: multiple slack buses defined")

	// ErrBusNotInMatrix is returned when a bus has no row in the Y-bus.
	ErrBusNotInMatrix = errors.New("loadflow: bus missing from admittance matrix")

	// ErrSizeMismatch is returned when the bus set and the Y-bus dimension
	// disagree.
	ErrSizeMismatch = errors.New("loadflow: bus count does not match matrix size")
)
