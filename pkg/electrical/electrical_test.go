package electrical

import (
	"errors"
	"math"
	"testing"
)

// 100 A at unity power factor over 0.1 km of 0.5 Ω/km cable:
// ΔV = √3·100·(0.05·1 + 0) and loss = 3·100²·0.05.
func TestThreePhaseVoltageDrop(t *testing.T) {
	cable := Cable{ResistancePerKm: 0.5, ReactancePerKm: 0.08, LengthKm: 0.1}
	load := Load{CurrentAmps: 100, PowerFactor: 1.0, VoltageNominal: 400}

	vd, err := ThreePhaseVoltageDrop(cable, load)
	if err != nil {
		t.Fatalf("ThreePhaseVoltageDrop failed: %v", err)
	}

	wantDrop := math.Sqrt(3) * 100 * 0.05
	if math.Abs(vd.DropVolts-wantDrop) > 1e-9 {
		t.Errorf("drop = %g V, want %g", vd.DropVolts, wantDrop)
	}
	if math.Abs(vd.PowerLossW-3*100*100*0.05) > 1e-9 {
		t.Errorf("loss = %g W, want 1500", vd.PowerLossW)
	}
	if math.Abs(vd.VoltageAtLoad-(400-wantDrop)) > 1e-9 {
		t.Errorf("voltage at load = %g V", vd.VoltageAtLoad)
	}
	wantPct := wantDrop / 400 * 100
	if math.Abs(vd.DropPercent-wantPct) > 1e-9 {
		t.Errorf("drop%% = %g, want %g", vd.DropPercent, wantPct)
	}
	if !vd.WithinFinalLimit || !vd.WithinDistributionLimit {
		t.Errorf("a %.2f%% drop should pass both limits", vd.DropPercent)
	}
}

// Lagging power factor brings the reactance term into the drop.
func TestThreePhaseVoltageDropReactiveTerm(t *testing.T) {
	cable := Cable{ResistancePerKm: 0.2, ReactancePerKm: 0.1, LengthKm: 1.0}
	load := Load{CurrentAmps: 50, PowerFactor: 0.8, VoltageNominal: 400}

	vd, err := ThreePhaseVoltageDrop(cable, load)
	if err != nil {
		t.Fatalf("ThreePhaseVoltageDrop failed: %v", err)
	}
	want := math.Sqrt(3) * 50 * (0.2*0.8 + 0.1*0.6)
	if math.Abs(vd.DropVolts-want) > 1e-9 {
		t.Errorf("drop = %g V, want %g", vd.DropVolts, want)
	}
}

// Single phase doubles the conductor path relative to the per-phase drop.
func TestSinglePhaseVoltageDrop(t *testing.T) {
	cable := Cable{ResistancePerKm: 1.0, ReactancePerKm: 0, LengthKm: 0.05}
	load := Load{CurrentAmps: 20, PowerFactor: 1.0, VoltageNominal: 230}

	vd, err := SinglePhaseVoltageDrop(cable, load)
	if err != nil {
		t.Fatalf("SinglePhaseVoltageDrop failed: %v", err)
	}
	if math.Abs(vd.DropVolts-2*20*0.05) > 1e-9 {
		t.Errorf("drop = %g V, want 2", vd.DropVolts)
	}
	if math.Abs(vd.PowerLossW-2*20*20*0.05) > 1e-9 {
		t.Errorf("loss = %g W, want 40", vd.PowerLossW)
	}
}

func TestVoltageDropDomainErrors(t *testing.T) {
	cable := Cable{ResistancePerKm: 0.5, LengthKm: 0.1}

	_, err := ThreePhaseVoltageDrop(cable, Load{CurrentAmps: 10, PowerFactor: 1.2, VoltageNominal: 400})
	if !errors.Is(err, ErrPowerFactorRange) {
		t.Errorf("expected ErrPowerFactorRange, got %v", err)
	}
	_, err = ThreePhaseVoltageDrop(cable, Load{CurrentAmps: 10, PowerFactor: 0.9, VoltageNominal: -400})
	if !errors.Is(err, ErrNonPositiveVoltage) {
		t.Errorf("expected ErrNonPositiveVoltage, got %v", err)
	}
	_, err = SinglePhaseVoltageDrop(cable, Load{CurrentAmps: -1, PowerFactor: 0.9, VoltageNominal: 230})
	if !errors.Is(err, ErrNegativeCurrent) {
		t.Errorf("expected ErrNegativeCurrent, got %v", err)
	}
}

func TestCableImpedance(t *testing.T) {
	cable := Cable{ResistancePerKm: 3, ReactancePerKm: 4, LengthKm: 1}
	if got := cable.TotalImpedance(); math.Abs(got-5) > 1e-12 {
		t.Errorf("|Z| = %g, want 5", got)
	}
}

func TestDerating(t *testing.T) {
	// Reference conditions: no derating at all.
	f := Derating(DeratingInput{AmbientTempC: 30, GroupedCables: 1, Method: InstallPerforatedTray})
	if f.Overall != 1.0 {
		t.Errorf("reference conditions overall = %g, want 1.0", f.Overall)
	}

	// 40 °C ambient, 3 grouped cables in conduit.
	f = Derating(DeratingInput{AmbientTempC: 40, GroupedCables: 3, Method: InstallConduit})
	if math.Abs(f.Temperature-0.8) > 1e-12 {
		t.Errorf("temperature factor = %g, want 0.8", f.Temperature)
	}
	if f.Grouping != 0.70 {
		t.Errorf("grouping factor = %g, want 0.70", f.Grouping)
	}
	if f.Installation != 0.90 {
		t.Errorf("installation factor = %g, want 0.90", f.Installation)
	}
	if math.Abs(f.Overall-0.8*0.70*0.90) > 1e-12 {
		t.Errorf("overall = %g", f.Overall)
	}
}

func TestDeratingExtremes(t *testing.T) {
	// Temperature factor never drops below the 0.5 floor.
	f := Derating(DeratingInput{AmbientTempC: 90, GroupedCables: 1, Method: InstallPerforatedTray})
	if f.Temperature != 0.5 {
		t.Errorf("temperature factor = %g, want floor 0.5", f.Temperature)
	}
	// More than six grouped cables fall back to 0.50.
	f = Derating(DeratingInput{AmbientTempC: 30, GroupedCables: 9, Method: InstallPerforatedTray})
	if f.Grouping != 0.50 {
		t.Errorf("grouping factor = %g, want 0.50", f.Grouping)
	}
	// Unknown method defaults to 0.90.
	f = Derating(DeratingInput{AmbientTempC: 30, GroupedCables: 1, Method: "Z"})
	if f.Installation != 0.90 {
		t.Errorf("installation factor = %g, want 0.90", f.Installation)
	}
	// Cool ambient uprates the cable.
	f = Derating(DeratingInput{AmbientTempC: 20, GroupedCables: 1, Method: InstallPerforatedTray})
	if f.Temperature <= 1.0 {
		t.Errorf("temperature factor = %g, want > 1.0 for cool ambient", f.Temperature)
	}
}

func TestCheckCableSizing(t *testing.T) {
	factors := Derating(DeratingInput{AmbientTempC: 30, GroupedCables: 1, Method: InstallPerforatedTray})

	ok, err := CheckCableSizing(80, 100, factors)
	if err != nil {
		t.Fatalf("CheckCableSizing failed: %v", err)
	}
	if !ok.IsAdequate {
		t.Error("80 A on a 100 A cable reported undersized")
	}
	if math.Abs(ok.UtilizationPercent-80) > 1e-9 {
		t.Errorf("utilization = %g%%, want 80", ok.UtilizationPercent)
	}

	bad, err := CheckCableSizing(120, 100, factors)
	if err != nil {
		t.Fatalf("CheckCableSizing failed: %v", err)
	}
	if bad.IsAdequate {
		t.Error("120 A on a 100 A cable reported adequate")
	}
	if bad.MarginPercent >= 0 {
		t.Errorf("margin = %g%%, want negative", bad.MarginPercent)
	}

	if _, err := CheckCableSizing(10, 0, factors); !errors.Is(err, ErrNonPositiveAmpacity) {
		t.Errorf("expected ErrNonPositiveAmpacity, got %v", err)
	}
}
