// Package scenario provides named quick-launch presets that seed engine
// state directly, bypassing question-by-question derivation for the first
// action before the flow re-enters the normal sequence.
package scenario

import (
	"errors"
	"fmt"

	"github.com/acutepeds/assessment/internal/domain/action"
	"github.com/acutepeds/assessment/internal/domain/dosing"
	"github.com/acutepeds/assessment/internal/domain/flow"
	"github.com/acutepeds/assessment/internal/domain/intervention"
	"github.com/acutepeds/assessment/internal/domain/module"
)

// Name identifies a quick-launch scenario.
type Name string

const (
	CardiacArrest Name = "cardiac_arrest"
	Anaphylaxis   Name = "anaphylaxis"
	SepticShock   Name = "septic_shock"
)

// DefaultWeightKG is used when no weight is available at launch.
const DefaultWeightKG = 4.5

// ErrUnknown is returned for an unregistered scenario name.
var ErrUnknown = errors.New("unknown scenario")

// Seed is the state a scenario injects: the phase and question the flow
// resumes at, the immediate action, and the immediate intervention.
type Seed struct {
	Phase        flow.Phase
	QuestionID   string
	Action       *action.Triggered
	Intervention intervention.TemplateKey
}

// Launch builds the seed for a scenario. Doses are pre-computed from the
// given weight, falling back to the 4.5 kg default when none is set.
func Launch(name Name, weightKG float64) (*Seed, error) {
	if weightKG <= 0 {
		weightKG = DefaultWeightKG
	}
	switch name {
	case CardiacArrest:
		return cardiacArrest(weightKG), nil
	case Anaphylaxis:
		return anaphylaxis(weightKG), nil
	case SepticShock:
		return septicShock(weightKG), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

// Names lists the registered scenarios.
func Names() []Name {
	return []Name{CardiacArrest, Anaphylaxis, SepticShock}
}

func cardiacArrest(w float64) *Seed {
	return &Seed{
		Phase:      flow.PhaseCirculation,
		QuestionID: flow.QRhythm,
		Action: &action.Triggered{
			ID:           action.StartResuscitationID,
			Severity:     action.SeverityCritical,
			Title:        "Cardiac arrest: start CPR",
			Instruction:  "Start compressions, attach the defibrillator, and give epinephrine every 3-5 minutes.",
			TimerSeconds: 120,
			ReassessHint: "Rhythm check every 2 minutes.",
			Template:     intervention.KeyCompressions,
			DoseCards: []action.DoseCard{
				{Label: "Epinephrine IV/IO", Value: dosing.EpinephrineArrest(w), Unit: "mg"},
				{Label: "Defibrillation (first)", Value: dosing.DefibrillationFirst(w), Unit: "J"},
				{Label: "Defibrillation (subsequent)", Value: dosing.DefibrillationRepeat(w), Unit: "J"},
				{Label: "Amiodarone", Value: dosing.Amiodarone(w), Unit: "mg"},
			},
		},
		Intervention: intervention.KeyCompressions,
	}
}

func anaphylaxis(w float64) *Seed {
	epi := dosing.EpinephrineIM(w)
	return &Seed{
		Phase:      flow.PhaseBreathing,
		QuestionID: "bre-effort",
		Action: &action.Triggered{
			ID:          "act-anaphylaxis",
			Severity:    action.SeverityCritical,
			Title:       "Anaphylaxis: give epinephrine",
			Instruction: fmt.Sprintf("Give epinephrine %.2f mg IM into the anterolateral thigh now; lay flat, high-flow oxygen.", epi),
			Dose:        fmt.Sprintf("%.2f mg", epi),
			Route:       "IM",
			DoseCards: []action.DoseCard{
				{Label: "Epinephrine IM", Value: epi, Unit: "mg"},
			},
		},
		Intervention: intervention.KeyMonitoring,
	}
}

func septicShock(w float64) *Seed {
	vol := dosing.FluidBolus(w)
	return &Seed{
		Phase:      flow.PhaseCirculation,
		QuestionID: "cir-access",
		Action: &action.Triggered{
			ID:           "act-fluid-bolus",
			Severity:     action.SeverityCritical,
			Title:        "Septic shock: fluid bolus",
			Instruction:  fmt.Sprintf("Give %.0f mL isotonic crystalloid IV/IO over 10 minutes and give antibiotics early.", vol),
			Dose:         fmt.Sprintf("%.0f mL", vol),
			Route:        "IV/IO",
			ReassessHint: "Reassess perfusion and for fluid overload after every bolus.",
			Template:     intervention.KeyFluidBolus,
			Module:       module.Shock,
		},
		Intervention: intervention.KeyFluidBolus,
	}
}
