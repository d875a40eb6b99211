package perunit

import "errors"

var (
	// ErrNonPositivePower is returned for a base power of zero or less.
	ErrNonPositivePower = errors.New("perunit: base power must be positive")

	// ErrNonPositiveVoltage is returned for a voltage level of zero or less.
	ErrNonPositiveVoltage = errors.New("perunit: voltage must be positive")

	// ErrNonPositiveRating is returned for a nameplate rating of zero or less.
	ErrNonPositiveRating = errors.New("perunit: rating must be positive")

	// ErrNegativeImpedance is returned for a negative impedance magnitude.
	ErrNegativeImpedance = errors.New("perunit: impedance must not be negative")
)
