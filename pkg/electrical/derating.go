package electrical

import "fmt"

// InstallationMethod codes per IEC 60364-5-52.
type InstallationMethod string

const (
	InstallPerforatedTray InstallationMethod = "E"
	InstallLadderTray     InstallationMethod = "F"
	InstallConduit        InstallationMethod = "C"
	InstallBuried         InstallationMethod = "D"
)

// groupingFactors follows IEC 60364-5-52 Table 52-19; more than six
// grouped cables fall back to a conservative 0.50.
var groupingFactors = map[int]float64{
	1: 1.00,
	2: 0.80,
	3: 0.70,
	4: 0.65,
	5: 0.60,
	6: 0.57,
}

var installationFactors = map[InstallationMethod]float64{
	InstallPerforatedTray: 1.00,
	InstallLadderTray:     0.95,
	InstallConduit:        0.90,
	InstallBuried:         0.85,
}

// DeratingFactors is the set of ampacity corrections for one cable run.
type DeratingFactors struct {
	Temperature  float64 `json:"temperature_factor"`
	Grouping     float64 `json:"grouping_factor"`
	Installation float64 `json:"installation_factor"`
	Overall      float64 `json:"overall_factor"`
}

// DeratingInput describes the conditions the cable is installed under.
// The reference temperature defaults to the 30 °C table basis.
type DeratingInput struct {
	AmbientTempC   float64
	ReferenceTempC float64
	GroupedCables  int
	Method         InstallationMethod
}

// Derating computes the temperature, grouping and installation factors and
// their product. The temperature factor is the linear approximation
// 1 − 0.02·ΔT, floored at 0.5.
func Derating(in DeratingInput) DeratingFactors {
	ref := in.ReferenceTempC
	if ref == 0 {
		ref = 30.0
	}
	// Cooler-than-reference ambients uprate the cable, so no upper cap.
	temp := 1.0 - 0.02*(in.AmbientTempC-ref)
	if temp < 0.5 {
		temp = 0.5
	}

	grouped := in.GroupedCables
	if grouped < 1 {
		grouped = 1
	}
	grouping, ok := groupingFactors[grouped]
	if !ok {
		grouping = 0.50
	}

	installation, ok := installationFactors[in.Method]
	if !ok {
		installation = 0.90
	}

	return DeratingFactors{
		Temperature:  temp,
		Grouping:     grouping,
		Installation: installation,
		Overall:      temp * grouping * installation,
	}
}

// SizingCheck reports whether a cable's derated ampacity covers the design
// current (I_z ≥ I_b).
type SizingCheck struct {
	LoadCurrentA       float64 `json:"load_current"`
	BaseAmpacityA      float64 `json:"cable_ampacity_base"`
	EffectiveAmpacityA float64 `json:"cable_ampacity_effective"`
	UtilizationPercent float64 `json:"utilization_percent"`
	MarginA            float64 `json:"margin_amps"`
	MarginPercent      float64 `json:"margin_percent"`
	IsAdequate         bool    `json:"is_adequate"`
}

// CheckCableSizing applies the overall derating factor to the base
// ampacity and compares against the design current.
func CheckCableSizing(loadCurrentA, baseAmpacityA float64, factors DeratingFactors) (SizingCheck, error) {
	if baseAmpacityA <= 0 {
		return SizingCheck{}, fmt.Errorf("%w: %g A", ErrNonPositiveAmpacity, baseAmpacityA)
	}
	if loadCurrentA < 0 {
		return SizingCheck{}, fmt.Errorf("%w: %g A", ErrNegativeCurrent, loadCurrentA)
	}

	effective := baseAmpacityA * factors.Overall
	return SizingCheck{
		LoadCurrentA:       loadCurrentA,
		BaseAmpacityA:      baseAmpacityA,
		EffectiveAmpacityA: effective,
		UtilizationPercent: loadCurrentA / effective * 100,
		MarginA:            effective - loadCurrentA,
		MarginPercent:      (effective - loadCurrentA) / effective * 100,
		IsAdequate:         loadCurrentA <= effective,
	}, nil
}
