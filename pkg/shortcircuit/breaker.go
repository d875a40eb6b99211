package shortcircuit

import "fmt"

// Breaker validation status strings.
const (
	BreakerStatusPass = "PASS"
	BreakerStatusFail = "FAIL - UNDERSIZED"
)

// BreakerValidation reports whether a breaker's interrupting rating covers
// the computed fault current with a safety margin applied.
type BreakerValidation struct {
	FaultCurrentKA     float64 `json:"fault_current_ka"`
	RatingKA           float64 `json:"breaker_rating_ka"`
	RequiredRatingKA   float64 `json:"required_rating_ka"`
	IsAdequate         bool    `json:"is_adequate"`
	UtilizationPercent float64 `json:"utilization_percent"`
	MarginKA           float64 `json:"margin_ka"`
	MarginPercent      float64 `json:"margin_percent"`
	Status             string  `json:"status"`
}

// ValidateBreaker checks a breaker against a fault current. The required
// rating is the fault current scaled by the safety margin (1.10 for the
// standard 10% margin). A breaker facing a fault above its rating reports
// IsAdequate=false and a negative margin.
func ValidateBreaker(faultCurrentKA, ratingKA, safetyMargin float64) (BreakerValidation, error) {
	if ratingKA <= 0 {
		return BreakerValidation{}, fmt.Errorf("%w: %g kA", ErrNonPositiveRating, ratingKA)
	}
	if safetyMargin <= 0 {
		safetyMargin = 1.1
	}

	required := faultCurrentKA * safetyMargin
	adequate := ratingKA >= required
	status := BreakerStatusPass
	if !adequate {
		status = BreakerStatusFail
	}

	return BreakerValidation{
		FaultCurrentKA:     faultCurrentKA,
		RatingKA:           ratingKA,
		RequiredRatingKA:   required,
		IsAdequate:         adequate,
		UtilizationPercent: faultCurrentKA / ratingKA * 100,
		MarginKA:           ratingKA - faultCurrentKA,
		MarginPercent:      (ratingKA - faultCurrentKA) / ratingKA * 100,
		Status:             status,
	}, nil
}
