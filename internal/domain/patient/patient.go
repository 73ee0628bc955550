// Package patient resolves the working patient context for an assessment:
// age, unit preferences, and the working weight used by every downstream
// dose and threshold derivation.
package patient

// GlucoseUnit is the provider's preferred unit for blood glucose values.
type GlucoseUnit string

const (
	GlucoseMmolL GlucoseUnit = "mmol/L"
	GlucoseMgDl  GlucoseUnit = "mg/dL"
)

// Context holds the patient parameters gathered at setup. It is frozen once
// the assessment starts; a new case reset is the only way to change it.
type Context struct {
	AgeYears    int         `json:"age_years"`
	AgeMonths   int         `json:"age_months"`
	WeightKG    float64     `json:"weight_kg,omitempty"`
	GlucoseUnit GlucoseUnit `json:"glucose_unit"`
}

// TotalMonths returns the patient age in whole months.
func (c Context) TotalMonths() int {
	return c.AgeYears*12 + c.AgeMonths
}

// WorkingWeight returns the explicit weight when one was entered, otherwise
// the age-based estimate.
func (c Context) WorkingWeight() float64 {
	if c.WeightKG > 0 {
		return c.WeightKG
	}
	return EstimateWeight(c.TotalMonths())
}

// EstimateWeight estimates body weight in kg from age in months using the
// standard three-band formula:
//
//	< 12 months:  (months + 9) / 2
//	< 60 months:  (years + 4) × 2
//	otherwise:    years × 4
//
// The result is monotonic non-decreasing in age and always a finite positive
// number for non-negative input.
func EstimateWeight(totalMonths int) float64 {
	if totalMonths < 0 {
		totalMonths = 0
	}
	switch {
	case totalMonths < 12:
		return (float64(totalMonths) + 9) / 2
	case totalMonths < 60:
		return (float64(totalMonths/12) + 4) * 2
	default:
		return float64(totalMonths/12) * 4
	}
}
