package shortcircuit

import "errors"

var (
	// ErrZeroFaultImpedance is returned when the total impedance to the
	// fault point is zero and the fault current would be unbounded.
	ErrZeroFaultImpedance = errors.New("shortcircuit: zero total impedance at fault point")

	// ErrNonPositiveVoltage is returned for a non-physical nominal voltage.
	ErrNonPositiveVoltage = errors.New("shortcircuit: voltage must be positive")

	// ErrNonPositiveRating is returned when a breaker rating is zero or
	// negative, which would make the utilization undefined.
	ErrNonPositiveRating = errors.New("shortcircuit: breaker rating must be positive")
)
