// Package dosing provides the weight- and age-scaled dose, energy, and
// vital-sign threshold calculations used by the assessment engine. Every
// function clamps its result to a published maximum; callers must never
// surface an unclamped value in a patient-facing recommendation.
package dosing

import "math"

// Published caps. These are the maximums the corresponding functions clamp
// to, exported so content tables and tests reference the same numbers.
const (
	EpinephrineIMCapMG       = 0.5
	EpinephrineArrestCapMG   = 1.0
	DexamethasoneCapMG       = 10.0
	NebEpinephrineCapML      = 5.0
	AmiodaroneCapMG          = 300.0
	MidazolamCapMG           = 10.0
	DefibrillationCapJ       = 200.0
	DefibrillationRepeatCapJ = 360.0
	CardioversionCapJ        = 200.0
	FluidBolusCapML          = 1000.0
	DextroseCapML            = 100.0
)

// FluidCapPerKGML is the default per-session fluid volume cap multiplier:
// a fluid-bolus intervention caps total volume at weight × 60 mL.
const FluidCapPerKGML = 60.0

// EpinephrineIM returns the intramuscular epinephrine dose in mg
// (0.01 mg/kg, max 0.5 mg) for anaphylaxis.
func EpinephrineIM(weightKG float64) float64 {
	return math.Min(weightKG*0.01, EpinephrineIMCapMG)
}

// EpinephrineArrest returns the IV/IO epinephrine dose in mg
// (0.01 mg/kg of 1:10,000, max 1 mg) for cardiac arrest.
func EpinephrineArrest(weightKG float64) float64 {
	return math.Min(weightKG*0.01, EpinephrineArrestCapMG)
}

// Dexamethasone returns the oral/IM dexamethasone dose in mg
// (0.6 mg/kg, max 10 mg) for croup.
func Dexamethasone(weightKG float64) float64 {
	return math.Min(weightKG*0.6, DexamethasoneCapMG)
}

// NebEpinephrine returns the nebulized epinephrine volume in mL
// (0.5 mL/kg of 1:1,000, max 5 mL) for croup.
func NebEpinephrine(weightKG float64) float64 {
	return math.Min(weightKG*0.5, NebEpinephrineCapML)
}

// Amiodarone returns the amiodarone dose in mg (5 mg/kg, max 300 mg) for
// shock-refractory VF/pVT.
func Amiodarone(weightKG float64) float64 {
	return math.Min(weightKG*5, AmiodaroneCapMG)
}

// Midazolam returns the midazolam dose in mg (0.1 mg/kg, max 10 mg) for
// active seizures.
func Midazolam(weightKG float64) float64 {
	return math.Min(weightKG*0.1, MidazolamCapMG)
}

// DefibrillationFirst returns the first defibrillation energy in joules
// (2 J/kg, max 200 J), rounded to the nearest joule.
func DefibrillationFirst(weightKG float64) float64 {
	return math.Min(math.Round(weightKG*2), DefibrillationCapJ)
}

// DefibrillationRepeat returns the energy for second and subsequent shocks
// in joules (4 J/kg, max 360 J), rounded to the nearest joule.
func DefibrillationRepeat(weightKG float64) float64 {
	return math.Min(math.Round(weightKG*4), DefibrillationRepeatCapJ)
}

// CardioversionRange returns the synchronized cardioversion energy range in
// joules: 0.5–1 J/kg initially, escalating to 2 J/kg, each value clamped
// to the published cap and rounded.
func CardioversionRange(weightKG float64) (initialLow, initialHigh, escalated float64) {
	initialLow = math.Min(math.Round(weightKG*0.5), CardioversionCapJ)
	initialHigh = math.Min(math.Round(weightKG*1), CardioversionCapJ)
	escalated = math.Min(math.Round(weightKG*2), CardioversionCapJ)
	return initialLow, initialHigh, escalated
}

// FluidBolus returns a single fluid bolus volume in mL (10 mL/kg, max
// 1000 mL), rounded to the nearest mL.
func FluidBolus(weightKG float64) float64 {
	return math.Min(math.Round(weightKG*10), FluidBolusCapML)
}

// FluidSessionCap returns the default per-session fluid volume cap in mL
// (weight × 60 mL).
func FluidSessionCap(weightKG float64) float64 {
	return weightKG * FluidCapPerKGML
}

// Dextrose10 returns the 10% dextrose volume in mL (2 mL/kg, max 100 mL)
// for hypoglycaemia.
func Dextrose10(weightKG float64) float64 {
	return math.Min(math.Round(weightKG*2), DextroseCapML)
}

// SalbutamolCapMG is the nebulized salbutamol maximum single dose.
const SalbutamolCapMG = 5.0

// Salbutamol returns the nebulized salbutamol dose in mg: 2.5 mg under
// 20 kg, 5 mg otherwise.
func Salbutamol(weightKG float64) float64 {
	if weightKG < 20 {
		return 2.5
	}
	return SalbutamolCapMG
}
