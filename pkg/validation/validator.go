// Package validation checks the input records handed to the analysis
// engine by the persistence/API layer before any calculation runs.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxIDLength      = 100
	MaxComponentType = 50
	MaxProperties    = 100
	MaxPropertyKey   = 100
	MaxVoltageKV     = 1000.0
	MaxLengthM       = 1_000_000.0

	// Regular expressions
	idPattern      = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)
	propKeyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

func init() {
	validate = validator.New()
}

// NodeRecord is one network node as delivered by the persistence layer.
type NodeRecord struct {
	ID             string         `json:"id" validate:"required,min=1,max=100"`
	Type           string         `json:"type" validate:"required,min=1,max=50"`
	VoltageLevelKV float64        `json:"voltage_level_kv" validate:"gt=0"`
	Properties     map[string]any `json:"properties" validate:"omitempty,max=100"`
}

// EdgeRecord is one network edge as delivered by the persistence layer.
type EdgeRecord struct {
	ID          string  `json:"id" validate:"required,min=1,max=100"`
	SourceID    string  `json:"source_id" validate:"required,min=1,max=100"`
	TargetID    string  `json:"target_id" validate:"required,min=1,max=100"`
	CableSpecID string  `json:"cable_spec_id" validate:"omitempty,max=100"`
	LengthM     float64 `json:"length_m" validate:"gte=0"`
}

// ComponentSpec carries the electrical ratings of one catalogued component.
type ComponentSpec struct {
	ImpedanceR           float64 `json:"impedance_r" validate:"gte=0"`
	ImpedanceX           float64 `json:"impedance_x" validate:"gte=0"`
	ImpedanceZPercent    float64 `json:"impedance_z_percent" validate:"gte=0,lte=100"`
	ShortCircuitRatingKA float64 `json:"short_circuit_rating_ka" validate:"gte=0"`
	AmpacityBaseA        float64 `json:"ampacity_base_a" validate:"gte=0"`
	RatingKVA            float64 `json:"rating_kva" validate:"gte=0"`
	PowerKW              float64 `json:"power_kw" validate:"gte=0"`
}

// SystemParams are the per-run analysis parameters.
type SystemParams struct {
	BaseMVA     float64 `json:"base_mva" validate:"required,gt=0"`
	FrequencyHz float64 `json:"frequency_hz" validate:"required,oneof=50 60"`
}

// ValidateNodeRecord validates one node record.
func ValidateNodeRecord(rec *NodeRecord) error {
	if rec == nil {
		return errors.New("node record cannot be nil")
	}
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}

	if !idPattern.MatchString(rec.ID) {
		return fmt.Errorf("ID: '%s' contains invalid characters", rec.ID)
	}
	if rec.VoltageLevelKV > MaxVoltageKV {
		return fmt.Errorf("VoltageLevelKV: %g kV exceeds the %g kV ceiling", rec.VoltageLevelKV, MaxVoltageKV)
	}
	if len(rec.Properties) > MaxProperties {
		return fmt.Errorf("Properties: maximum %d properties allowed, got %d", MaxProperties, len(rec.Properties))
	}
	for key := range rec.Properties {
		if err := ValidatePropertyKey(key); err != nil {
			return fmt.Errorf("Properties: %w", err)
		}
	}
	return nil
}

// ValidateEdgeRecord validates one edge record. Zero length is legal: it
// models a busbar link with negligible impedance.
func ValidateEdgeRecord(rec *EdgeRecord) error {
	if rec == nil {
		return errors.New("edge record cannot be nil")
	}
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}

	if !idPattern.MatchString(rec.ID) {
		return fmt.Errorf("ID: '%s' contains invalid characters", rec.ID)
	}
	if rec.SourceID == rec.TargetID {
		return fmt.Errorf("TargetID: edge '%s' connects node '%s' to itself", rec.ID, rec.SourceID)
	}
	if rec.LengthM > MaxLengthM {
		return fmt.Errorf("LengthM: %g m exceeds the %g m ceiling", rec.LengthM, MaxLengthM)
	}
	return nil
}

// ValidateComponentSpec validates one component specification.
func ValidateComponentSpec(spec *ComponentSpec) error {
	if spec == nil {
		return errors.New("component spec cannot be nil")
	}
	if err := validate.Struct(spec); err != nil {
		return formatValidationError(err)
	}

	// A spec must describe at least one electrical quantity.
	if spec.ImpedanceR == 0 && spec.ImpedanceX == 0 && spec.ImpedanceZPercent == 0 &&
		spec.ShortCircuitRatingKA == 0 && spec.AmpacityBaseA == 0 &&
		spec.RatingKVA == 0 && spec.PowerKW == 0 {
		return errors.New("component spec is empty")
	}
	return nil
}

// ValidateSystemParams validates the analysis parameters.
func ValidateSystemParams(params *SystemParams) error {
	if params == nil {
		return errors.New("system parameters cannot be nil")
	}
	if err := validate.Struct(params); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidatePropertyKey validates a property key.
func ValidatePropertyKey(key string) error {
	if key == "" {
		return errors.New("property key cannot be empty")
	}
	if len(key) > MaxPropertyKey {
		return fmt.Errorf("property key '%s' exceeds maximum length of %d characters", key, MaxPropertyKey)
	}
	if !propKeyPattern.MatchString(key) {
		return fmt.Errorf("property key '%s' is invalid (must start with letter or underscore, followed by alphanumeric or underscore)", key)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
