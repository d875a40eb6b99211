// Package perunit normalizes network impedances onto a single system-wide
// base power, one base-impedance/base-current pair per voltage level.
package perunit

import (
	"fmt"
	"math"
	"sort"
)

// Base holds the per-unit base quantities for one voltage level.
type Base struct {
	VoltageKV float64
	PowerMVA  float64
}

// ImpedanceOhms returns the base impedance: Z_base = V² × 1000 / S.
func (b Base) ImpedanceOhms() float64 {
	return b.VoltageKV * b.VoltageKV * 1000 / b.PowerMVA
}

// CurrentAmps returns the base current: I_base = S × 1000 / (√3 × V).
func (b Base) CurrentAmps() float64 {
	return b.PowerMVA * 1000 / (math.Sqrt(3) * b.VoltageKV)
}

func (b Base) String() string {
	return fmt.Sprintf("Base(%gkV, %gMVA, Z=%.4fΩ)", b.VoltageKV, b.PowerMVA, b.ImpedanceOhms())
}

// Context owns every per-unit base for one analysis run. Bases are created
// lazily, one per distinct voltage level, all sharing the context's base
// power. A Context is built once per analysis and must not be shared between
// concurrently running analyses.
type Context struct {
	baseMVA float64
	bases   map[float64]Base
}

// NewContext creates a per-unit context on the given system base power.
func NewContext(baseMVA float64) (*Context, error) {
	if baseMVA <= 0 {
		return nil, fmt.Errorf("%w: base power %g MVA", ErrNonPositivePower, baseMVA)
	}
	return &Context{
		baseMVA: baseMVA,
		bases:   make(map[float64]Base),
	}, nil
}

// BaseMVA returns the system-wide base power.
func (c *Context) BaseMVA() float64 {
	return c.baseMVA
}

// AddVoltageLevel registers a voltage level, creating its base on first use.
func (c *Context) AddVoltageLevel(voltageKV float64) (Base, error) {
	if voltageKV <= 0 {
		return Base{}, fmt.Errorf("%w: %g kV", ErrNonPositiveVoltage, voltageKV)
	}
	base, ok := c.bases[voltageKV]
	if !ok {
		base = Base{VoltageKV: voltageKV, PowerMVA: c.baseMVA}
		c.bases[voltageKV] = base
	}
	return base, nil
}

// Base returns the base for a voltage level, creating it if needed.
func (c *Context) Base(voltageKV float64) (Base, error) {
	return c.AddVoltageLevel(voltageKV)
}

// VoltageLevels returns the registered voltage levels, ascending.
func (c *Context) VoltageLevels() []float64 {
	out := make([]float64, 0, len(c.bases))
	for v := range c.bases {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// ImpedanceToPU converts an impedance in ohms to per-unit at a voltage level.
func (c *Context) ImpedanceToPU(zOhms complex128, voltageKV float64) (complex128, error) {
	base, err := c.Base(voltageKV)
	if err != nil {
		return 0, err
	}
	return zOhms / complex(base.ImpedanceOhms(), 0), nil
}

// ImpedanceToOhms converts a per-unit impedance back to ohms.
func (c *Context) ImpedanceToOhms(zPU complex128, voltageKV float64) (complex128, error) {
	base, err := c.Base(voltageKV)
	if err != nil {
		return 0, err
	}
	return zPU * complex(base.ImpedanceOhms(), 0), nil
}

// CurrentToPU converts a current in amps to per-unit.
func (c *Context) CurrentToPU(amps, voltageKV float64) (float64, error) {
	base, err := c.Base(voltageKV)
	if err != nil {
		return 0, err
	}
	return amps / base.CurrentAmps(), nil
}

// CurrentToAmps converts a per-unit current to amps.
func (c *Context) CurrentToAmps(pu, voltageKV float64) (float64, error) {
	base, err := c.Base(voltageKV)
	if err != nil {
		return 0, err
	}
	return pu * base.CurrentAmps(), nil
}

// VoltageToPU converts a voltage in kV to per-unit of the base voltage.
func VoltageToPU(voltageKV, baseKV float64) (float64, error) {
	if baseKV <= 0 {
		return 0, fmt.Errorf("%w: base voltage %g kV", ErrNonPositiveVoltage, baseKV)
	}
	return voltageKV / baseKV, nil
}

// VoltageToKV converts a per-unit voltage to kV.
func VoltageToKV(pu, baseKV float64) float64 {
	return pu * baseKV
}

// PowerToPU converts a power in MVA to per-unit.
func (c *Context) PowerToPU(mva float64) float64 {
	return mva / c.baseMVA
}

// PowerToMVA converts a per-unit power to MVA.
func (c *Context) PowerToMVA(pu float64) float64 {
	return pu * c.baseMVA
}
