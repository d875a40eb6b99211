package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// VoltageFactorBand maps a nominal-voltage band to its IEC 60909 voltage
// factors. Bands are matched in order; the first band whose MaxKV is greater
// than or equal to the nominal voltage applies.
type VoltageFactorBand struct {
	MaxKV float64 `yaml:"max_kv"`
	CMax  float64 `yaml:"c_max"`
	CMin  float64 `yaml:"c_min"`
}

// TransformerDefaults holds assumed transformer parameters used when the
// component record does not supply them.
type TransformerDefaults struct {
	XRRatio float64 `yaml:"xr_ratio"`
}

// MotorDefaults holds assumed motor parameters for fault-contribution
// modelling when nameplate data is incomplete.
type MotorDefaults struct {
	SubtransientReactance float64 `yaml:"subtransient_reactance"`
	PowerFactor           float64 `yaml:"power_factor"`
	Efficiency            float64 `yaml:"efficiency"`
	ContributionFactor    float64 `yaml:"contribution_factor"`
	ResistancePU          float64 `yaml:"resistance_pu"`
}

// LoadFlowConfig bounds the Newton-Raphson iteration.
type LoadFlowConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	TolerancePU   float64 `yaml:"tolerance_pu"`
}

// EngineConfig is the full configuration of one analysis engine instance.
// A config value is read-only once handed to the engine.
type EngineConfig struct {
	BaseMVA     float64 `yaml:"base_mva"`
	FrequencyHz float64 `yaml:"frequency_hz"`

	VoltageFactors []VoltageFactorBand `yaml:"voltage_factors"`
	Transformer    TransformerDefaults `yaml:"transformer"`
	Motor          MotorDefaults       `yaml:"motor"`
	LoadFlow       LoadFlowConfig      `yaml:"load_flow"`

	BreakerSafetyMargin float64       `yaml:"breaker_safety_margin"`
	FaultScanWorkers    int           `yaml:"fault_scan_workers"`
	WallClockBudget     time.Duration `yaml:"wall_clock_budget"`
}

// Default returns the engine configuration with standards-table defaults.
// Voltage factors follow IEC 60909-0 Table 1; the transformer X/R ratio and
// motor constants are typical distribution-system assumptions.
func Default() *EngineConfig {
	return &EngineConfig{
		BaseMVA:     100.0,
		FrequencyHz: 50.0,
		VoltageFactors: []VoltageFactorBand{
			{MaxKV: 1.0, CMax: 1.05, CMin: 0.95},
			{MaxKV: 35.0, CMax: 1.10, CMin: 1.00},
			{MaxKV: 230.0, CMax: 1.10, CMin: 1.00},
		},
		Transformer: TransformerDefaults{
			XRRatio: 10.0,
		},
		Motor: MotorDefaults{
			SubtransientReactance: 0.15,
			PowerFactor:           0.85,
			Efficiency:            0.95,
			ContributionFactor:    5.0,
			ResistancePU:          0.01,
		},
		LoadFlow: LoadFlowConfig{
			MaxIterations: 20,
			TolerancePU:   1e-6,
		},
		BreakerSafetyMargin: 1.10,
		FaultScanWorkers:    runtime.NumCPU(),
		WallClockBudget:     30 * time.Second,
	}
}

// Load reads an engine configuration from a YAML file, applying defaults
// for any field the file leaves unset.
func Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for physically meaningless values.
func (c *EngineConfig) Validate() error {
	if c.BaseMVA <= 0 {
		return fmt.Errorf("base_mva must be positive, got %v", c.BaseMVA)
	}
	if c.FrequencyHz <= 0 {
		return fmt.Errorf("frequency_hz must be positive, got %v", c.FrequencyHz)
	}
	if len(c.VoltageFactors) == 0 {
		return fmt.Errorf("voltage_factors must not be empty")
	}
	for i, band := range c.VoltageFactors {
		if band.MaxKV <= 0 || band.CMax <= 0 || band.CMin <= 0 {
			return fmt.Errorf("voltage_factors[%d]: values must be positive", i)
		}
		if band.CMin > band.CMax {
			return fmt.Errorf("voltage_factors[%d]: c_min %v exceeds c_max %v", i, band.CMin, band.CMax)
		}
	}
	if c.Transformer.XRRatio <= 0 {
		return fmt.Errorf("transformer.xr_ratio must be positive, got %v", c.Transformer.XRRatio)
	}
	if c.Motor.PowerFactor <= 0 || c.Motor.PowerFactor > 1 {
		return fmt.Errorf("motor.power_factor must be in (0, 1], got %v", c.Motor.PowerFactor)
	}
	if c.Motor.Efficiency <= 0 || c.Motor.Efficiency > 1 {
		return fmt.Errorf("motor.efficiency must be in (0, 1], got %v", c.Motor.Efficiency)
	}
	if c.Motor.SubtransientReactance <= 0 {
		return fmt.Errorf("motor.subtransient_reactance must be positive, got %v", c.Motor.SubtransientReactance)
	}
	if c.LoadFlow.MaxIterations <= 0 {
		return fmt.Errorf("load_flow.max_iterations must be positive, got %v", c.LoadFlow.MaxIterations)
	}
	if c.LoadFlow.TolerancePU <= 0 {
		return fmt.Errorf("load_flow.tolerance_pu must be positive, got %v", c.LoadFlow.TolerancePU)
	}
	if c.BreakerSafetyMargin < 1.0 {
		return fmt.Errorf("breaker_safety_margin must be at least 1.0, got %v", c.BreakerSafetyMargin)
	}
	if c.FaultScanWorkers <= 0 {
		c.FaultScanWorkers = 1
	}
	return nil
}

// VoltageFactor returns (cmax, cmin) for the given nominal voltage.
// Voltages above the last band reuse the last band's factors.
func (c *EngineConfig) VoltageFactor(voltageKV float64) (cmax, cmin float64) {
	for _, band := range c.VoltageFactors {
		if voltageKV <= band.MaxKV {
			return band.CMax, band.CMin
		}
	}
	last := c.VoltageFactors[len(c.VoltageFactors)-1]
	return last.CMax, last.CMin
}
