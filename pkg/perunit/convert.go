package perunit

import (
	"fmt"
	"math"
)

// CableImpedancePU converts a cable's nameplate impedance (Ω/km resistance
// and reactance over a length) to per-unit at its operating voltage.
// A zero-length cable converts to zero impedance.
func (c *Context) CableImpedancePU(rPerKm, xPerKm, lengthKm, voltageKV float64) (complex128, error) {
	if rPerKm < 0 || xPerKm < 0 {
		return 0, fmt.Errorf("%w: R=%g X=%g Ω/km", ErrNegativeImpedance, rPerKm, xPerKm)
	}
	if lengthKm < 0 {
		return 0, fmt.Errorf("%w: length %g km", ErrNegativeImpedance, lengthKm)
	}
	if lengthKm == 0 {
		return 0, nil
	}

	zOhms := complex(rPerKm*lengthKm, xPerKm*lengthKm)
	return c.ImpedanceToPU(zOhms, voltageKV)
}

// TransformerImpedancePU converts a transformer impedance, given as Z% on
// the transformer's own MVA rating, to per-unit on the system base:
// Z_sys = (Z%/100) × (S_base / S_tx), split into R and X by the X/R ratio.
func (c *Context) TransformerImpedancePU(zPercent, transformerMVA, xrRatio float64) (complex128, error) {
	if transformerMVA <= 0 {
		return 0, fmt.Errorf("%w: transformer %g MVA", ErrNonPositiveRating, transformerMVA)
	}
	if zPercent < 0 {
		return 0, fmt.Errorf("%w: Z%%=%g", ErrNegativeImpedance, zPercent)
	}
	if xrRatio <= 0 {
		return 0, fmt.Errorf("%w: X/R ratio %g", ErrNonPositiveRating, xrRatio)
	}

	zPU := (zPercent / 100.0) * (c.baseMVA / transformerMVA)

	denom := math.Sqrt(1 + xrRatio*xrRatio)
	r := zPU / denom
	x := zPU * xrRatio / denom
	return complex(r, x), nil
}

// MotorImpedancePU converts a motor nameplate (kW, power factor, efficiency,
// subtransient reactance on the motor base) into a fault-contribution
// impedance on the system base via the motor's own MVA rating.
func (c *Context) MotorImpedancePU(motorKW, powerFactor, efficiency, subtransientX, resistancePU float64) (complex128, error) {
	if motorKW <= 0 {
		return 0, fmt.Errorf("%w: motor %g kW", ErrNonPositiveRating, motorKW)
	}
	if powerFactor <= 0 || powerFactor > 1 {
		return 0, fmt.Errorf("perunit: power factor %g outside (0, 1]", powerFactor)
	}
	if efficiency <= 0 || efficiency > 1 {
		return 0, fmt.Errorf("perunit: efficiency %g outside (0, 1]", efficiency)
	}
	if subtransientX <= 0 {
		return 0, fmt.Errorf("%w: subtransient reactance %g", ErrNonPositiveRating, subtransientX)
	}

	motorMVA := (motorKW / 1000.0) / (powerFactor * efficiency)
	zMotorBase := complex(resistancePU, subtransientX)
	return zMotorBase * complex(c.baseMVA/motorMVA, 0), nil
}
