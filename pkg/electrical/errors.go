package electrical

import "errors"

var (
	// ErrPowerFactorRange is returned when cos(φ) falls outside [0, 1].
	ErrPowerFactorRange = errors.New("electrical: power factor must be within [0, 1]")

	// ErrNonPositiveVoltage is returned for a zero or negative nominal voltage.
	ErrNonPositiveVoltage = errors.New("electrical: voltage must be positive")

	// ErrNonPositiveAmpacity is returned for a zero or negative cable ampacity.
	ErrNonPositiveAmpacity = errors.New("electrical: ampacity must be positive")

	// ErrNegativeCurrent is returned for a negative load current.
	ErrNegativeCurrent = errors.New("electrical: current must not be negative")
)
