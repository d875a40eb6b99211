// Package electrical holds the circuit-level sizing checks that sit beside
// the network solvers: voltage drop, cable derating and ampacity checks
// per IEC 60364-5-52.
package electrical

import (
	"fmt"
	"math"
)

// Voltage-drop limits for final circuits and distribution circuits.
const (
	DropLimitFinalPercent        = 5.0
	DropLimitDistributionPercent = 3.0
)

// Cable describes one cable run by its per-kilometre constants.
type Cable struct {
	ResistancePerKm float64
	ReactancePerKm  float64
	LengthKm        float64
}

// TotalResistance returns R·L in ohms.
func (c Cable) TotalResistance() float64 { return c.ResistancePerKm * c.LengthKm }

// TotalReactance returns X·L in ohms.
func (c Cable) TotalReactance() float64 { return c.ReactancePerKm * c.LengthKm }

// TotalImpedance returns |R + jX| in ohms.
func (c Cable) TotalImpedance() float64 {
	r := c.TotalResistance()
	x := c.TotalReactance()
	return math.Sqrt(r*r + x*x)
}

// Load describes the current drawn at the far end of a cable run.
type Load struct {
	CurrentAmps    float64
	PowerFactor    float64
	VoltageNominal float64
}

// VoltageDrop is the outcome of one voltage-drop evaluation.
type VoltageDrop struct {
	DropVolts     float64 `json:"voltage_drop_volts"`
	DropPercent   float64 `json:"voltage_drop_percent"`
	VoltageAtLoad float64 `json:"voltage_at_load"`
	PowerLossW    float64 `json:"power_loss_watts"`

	WithinFinalLimit        bool `json:"within_5_percent_limit"`
	WithinDistributionLimit bool `json:"within_3_percent_limit"`
}

func checkLoad(load Load) error {
	if load.PowerFactor < 0 || load.PowerFactor > 1 {
		return fmt.Errorf("%w: %g", ErrPowerFactorRange, load.PowerFactor)
	}
	if load.VoltageNominal <= 0 {
		return fmt.Errorf("%w: %g V", ErrNonPositiveVoltage, load.VoltageNominal)
	}
	if load.CurrentAmps < 0 {
		return fmt.Errorf("%w: %g A", ErrNegativeCurrent, load.CurrentAmps)
	}
	return nil
}

// ThreePhaseVoltageDrop computes ΔV = √3·I·(R·cosφ + X·sinφ) with the
// 3·I²·R conductor loss.
func ThreePhaseVoltageDrop(cable Cable, load Load) (VoltageDrop, error) {
	if err := checkLoad(load); err != nil {
		return VoltageDrop{}, err
	}
	cosPhi := load.PowerFactor
	sinPhi := math.Sqrt(1 - cosPhi*cosPhi)

	drop := math.Sqrt(3) * load.CurrentAmps *
		(cable.TotalResistance()*cosPhi + cable.TotalReactance()*sinPhi)
	loss := 3 * load.CurrentAmps * load.CurrentAmps * cable.TotalResistance()

	return compileDrop(drop, loss, load), nil
}

// SinglePhaseVoltageDrop computes ΔV = 2·I·(R·cosφ + X·sinφ); the factor
// of two covers the go and return conductors, as does the 2·I²·R loss.
func SinglePhaseVoltageDrop(cable Cable, load Load) (VoltageDrop, error) {
	if err := checkLoad(load); err != nil {
		return VoltageDrop{}, err
	}
	cosPhi := load.PowerFactor
	sinPhi := math.Sqrt(1 - cosPhi*cosPhi)

	drop := 2 * load.CurrentAmps *
		(cable.TotalResistance()*cosPhi + cable.TotalReactance()*sinPhi)
	loss := 2 * load.CurrentAmps * load.CurrentAmps * cable.TotalResistance()

	return compileDrop(drop, loss, load), nil
}

func compileDrop(dropVolts, lossWatts float64, load Load) VoltageDrop {
	pct := dropVolts / load.VoltageNominal * 100
	return VoltageDrop{
		DropVolts:               dropVolts,
		DropPercent:             pct,
		VoltageAtLoad:           load.VoltageNominal - dropVolts,
		PowerLossW:              lossWatts,
		WithinFinalLimit:        pct <= DropLimitFinalPercent,
		WithinDistributionLimit: pct <= DropLimitDistributionPercent,
	}
}
