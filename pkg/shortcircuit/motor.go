package shortcircuit

import (
	"math/cmplx"

	"github.com/pwrsyspro/gridcalc/pkg/config"
)

// Motor is the nameplate data of one contributing induction motor. Zero
// fields fall back to the configured motor defaults.
type Motor struct {
	PowerKW            float64
	VoltageKV          float64
	PowerFactor        float64
	Efficiency         float64
	ContributionFactor float64
}

// MotorContribution reduces a set of motors to one equivalent per-unit
// impedance by summing admittances. Each motor's impedance on its own base
// is the inverse of its contribution factor, rescaled to the system base.
// The second return is false when no motor supplies usable data.
func MotorContribution(motors []Motor, baseMVA float64, defaults config.MotorDefaults) (complex128, bool) {
	var yTotal complex128

	for _, m := range motors {
		if m.PowerKW <= 0 {
			continue
		}
		pf := m.PowerFactor
		if pf <= 0 || pf > 1 {
			pf = defaults.PowerFactor
		}
		eff := m.Efficiency
		if eff <= 0 || eff > 1 {
			eff = defaults.Efficiency
		}
		cf := m.ContributionFactor
		if cf <= 0 {
			cf = defaults.ContributionFactor
		}

		motorMVA := (m.PowerKW / 1000.0) / (pf * eff)
		if motorMVA <= 0 {
			continue
		}

		xMotorPU := (1.0 / cf) * (baseMVA / motorMVA)
		yTotal += 1.0 / complex(defaults.ResistancePU, xMotorPU)
	}

	if cmplx.Abs(yTotal) < 1e-10 {
		return 0, false
	}
	return 1.0 / yTotal, true
}
