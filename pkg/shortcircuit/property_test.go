package shortcircuit

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: increasing the total fault impedance strictly decreases I''k3
// for a fixed voltage and voltage factor.
func TestFaultCurrentMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("larger impedance means smaller fault current", prop.ForAll(
		func(r, x, scale float64) bool {
			calc, err := NewCalculator(Params{
				VoltageKV:         11,
				BaseMVA:           100,
				SourceImpedancePU: complex(0.05, 0.5),
				VoltageFactor:     VoltageFactorMax,
			}, nil)
			if err != nil {
				return false
			}

			near, err := calc.ThreePhaseFault(complex(r, x))
			if err != nil {
				return false
			}
			far, err := calc.ThreePhaseFault(complex(r*scale, x*scale))
			if err != nil {
				return false
			}
			return far.InitialKA < near.InitialKA
		},
		gen.Float64Range(0.001, 5.0),
		gen.Float64Range(0.01, 50.0),
		gen.Float64Range(1.5, 10.0),
	))

	properties.TestingRun(t)
}

// Property: the peak factor stays within [1, 2] for any physical R and X.
func TestPeakFactorBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("kappa in [1, 2]", prop.ForAll(
		func(r, x float64) bool {
			k := PeakFactor(complex(r, x))
			return k >= 1.0 && k <= 2.0
		},
		gen.Float64Range(0, 10.0),
		gen.Float64Range(0, 10.0),
	))

	properties.TestingRun(t)
}
