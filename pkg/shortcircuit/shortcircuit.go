// Package shortcircuit computes fault currents per IEC 60909 for
// three-phase, single line-to-ground and line-to-line faults, including
// motor contribution and breaker adequacy checks.
package shortcircuit

import (
	"fmt"
	"math"
	"math/cmplx"
)

const sqrt3 = 1.7320508075688772

// VoltageFactorMax and VoltageFactorMin are the IEC 60909 voltage factors
// for maximum and minimum fault conditions on medium-voltage systems.
const (
	VoltageFactorMax = 1.1
	VoltageFactorMin = 1.0
)

// DecayFunc maps the total fault impedance to the AC decay factor μ used
// for the symmetrical breaking current. Far-from-generator faults use
// FarFromGeneratorDecay; near-to-generator models plug in here.
type DecayFunc func(zTotalPU complex128) float64

// FarFromGeneratorDecay is the decay factor for utility-fed networks,
// where the AC component does not decay before breaking time.
func FarFromGeneratorDecay(complex128) float64 { return 1.0 }

// Params holds the system-side inputs of one fault calculation.
type Params struct {
	// VoltageKV is the nominal voltage at the fault point.
	VoltageKV float64
	// BaseMVA is the per-unit system base power.
	BaseMVA float64
	// SourceImpedancePU is the upstream network impedance.
	SourceImpedancePU complex128
	// VoltageFactor is the IEC 60909 c factor.
	VoltageFactor float64
	// FrequencyHz is informational; the equations are frequency-independent.
	FrequencyHz float64
}

// Result carries every current component of a three-phase fault, in kA.
type Result struct {
	InitialKA     float64    `json:"i_k3_initial_ka"`
	PeakKA        float64    `json:"i_k3_peak_ka"`
	BreakingKA    float64    `json:"i_k3_breaking_ka"`
	SteadyStateKA float64    `json:"i_k3_steady_state_ka"`
	DCKA          float64    `json:"i_dc_ka"`
	PowerMVA      float64    `json:"s_k3_mva"`
	PeakFactor    float64    `json:"kappa"`
	DecayFactor   float64    `json:"mu"`
	ZTotalPU      complex128 `json:"-"`
}

// Calculator evaluates IEC 60909 fault equations for one system
// parameterization. It is stateless between calls and safe to reuse.
type Calculator struct {
	params Params
	decay  DecayFunc
}

// NewCalculator builds a calculator. A nil decay function selects the
// far-from-generator model.
func NewCalculator(params Params, decay DecayFunc) (*Calculator, error) {
	if params.VoltageKV <= 0 {
		return nil, fmt.Errorf("%w: %g kV", ErrNonPositiveVoltage, params.VoltageKV)
	}
	if params.BaseMVA <= 0 {
		return nil, fmt.Errorf("shortcircuit: base power must be positive, got %g MVA", params.BaseMVA)
	}
	if params.VoltageFactor == 0 {
		params.VoltageFactor = VoltageFactorMax
	}
	if decay == nil {
		decay = FarFromGeneratorDecay
	}
	return &Calculator{params: params, decay: decay}, nil
}

// baseImpedanceOhms mirrors the per-unit system's base-impedance formula.
func (c *Calculator) baseImpedanceOhms() float64 {
	u := c.params.VoltageKV
	return u * u * 1000 / c.params.BaseMVA
}

// ThreePhaseFault computes the three-phase fault at a point reached through
// the given per-unit path impedance:
//
//	I″k3 = (c·Un) / (√3·|Zk|)
func (c *Calculator) ThreePhaseFault(faultImpedancePU complex128) (Result, error) {
	return c.threePhase(c.params.SourceImpedancePU + faultImpedancePU)
}

// ThreePhaseFaultWithMotors combines the network impedance in parallel with
// an equivalent motor impedance before evaluating the fault.
func (c *Calculator) ThreePhaseFaultWithMotors(faultImpedancePU, motorImpedancePU complex128) (Result, error) {
	zNet := c.params.SourceImpedancePU + faultImpedancePU
	if zNet == 0 || motorImpedancePU == 0 {
		return Result{}, ErrZeroFaultImpedance
	}
	zTotal := 1.0 / (1.0/zNet + 1.0/motorImpedancePU)
	return c.threePhase(zTotal)
}

func (c *Calculator) threePhase(zTotalPU complex128) (Result, error) {
	zOhms := zTotalPU * complex(c.baseImpedanceOhms(), 0)
	magOhms := cmplx.Abs(zOhms)
	if magOhms == 0 {
		return Result{}, ErrZeroFaultImpedance
	}

	cUn := c.params.VoltageFactor * c.params.VoltageKV
	initialKA := (cUn * 1000) / (sqrt3 * magOhms) / 1000

	kappa := PeakFactor(zTotalPU)
	mu := c.decay(zTotalPU)

	return Result{
		InitialKA:     initialKA,
		PeakKA:        kappa * math.Sqrt2 * initialKA,
		BreakingKA:    mu * initialKA,
		SteadyStateKA: initialKA,
		DCKA:          math.Sqrt2 * initialKA,
		PowerMVA:      sqrt3 * c.params.VoltageKV * initialKA,
		PeakFactor:    kappa,
		DecayFactor:   mu,
		ZTotalPU:      zTotalPU,
	}, nil
}

// LineToGroundFault computes the single line-to-ground fault current in kA:
//
//	I″k1 = (√3·c·Un) / |2·Z1 + Z0|
//
// The caller supplies the zero-sequence impedance model.
func (c *Calculator) LineToGroundFault(faultImpedancePU, zeroSequencePU complex128) (float64, error) {
	z1 := c.params.SourceImpedancePU + faultImpedancePU
	zTotal := 2*z1 + zeroSequencePU
	zOhms := cmplx.Abs(zTotal * complex(c.baseImpedanceOhms(), 0))
	if zOhms == 0 {
		return 0, ErrZeroFaultImpedance
	}
	cUn := c.params.VoltageFactor * c.params.VoltageKV
	return (sqrt3 * cUn * 1000) / zOhms / 1000, nil
}

// LineToLineFault computes the line-to-line fault current in kA:
//
//	I″k2 = (c·Un) / (2·|Z1|)
//
// For balanced systems this is about 0.866 of the three-phase current.
func (c *Calculator) LineToLineFault(faultImpedancePU complex128) (float64, error) {
	z1 := c.params.SourceImpedancePU + faultImpedancePU
	zOhms := cmplx.Abs(z1 * complex(c.baseImpedanceOhms(), 0))
	if zOhms == 0 {
		return 0, ErrZeroFaultImpedance
	}
	cUn := c.params.VoltageFactor * c.params.VoltageKV
	return (cUn * 1000) / (2 * zOhms) / 1000, nil
}

// PeakFactor returns κ = 1.02 + 0.98·e^(−3·R/X). A purely resistive
// impedance (X = 0) has no DC offset and returns 1.0.
func PeakFactor(z complex128) float64 {
	r := real(z)
	x := imag(z)
	if x == 0 {
		return 1.0
	}
	return 1.02 + 0.98*math.Exp(-3*r/x)
}
