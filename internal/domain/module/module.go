// Package module hands control to named external specialized engines
// (shock, asthma, airway, ...) and reconciles their completion callbacks
// back into intervention state.
package module

import (
	"github.com/google/uuid"

	"github.com/acutepeds/assessment/internal/domain/intervention"
)

// Name identifies an external decision-support module. The registry is a
// closed enumeration: adding a module means adding a constant here and a
// case to the orchestrator's outcome switch.
type Name string

const (
	Shock        Name = "shock"
	Asthma       Name = "asthma"
	IVIOAccess   Name = "iv-io-access"
	FluidTracker Name = "fluid-bolus-tracker"
	Inotrope     Name = "inotrope"
	LabSampling  Name = "lab-sampling"
	Arrhythmia   Name = "arrhythmia"
	Airway       Name = "airway"
)

var registry = map[Name]struct{}{
	Shock: {}, Asthma: {}, IVIOAccess: {}, FluidTracker: {},
	Inotrope: {}, LabSampling: {}, Arrhythmia: {}, Airway: {},
}

// Known reports whether n names a registered module.
func Known(n Name) bool {
	_, ok := registry[n]
	return ok
}

// Outcome is the terminal callback of an external module run.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeEscalated Outcome = "escalated"
	OutcomeReferral  Outcome = "referral"
)

// ValidOutcome reports whether o is one of the three callback outcomes.
func ValidOutcome(o Outcome) bool {
	return o == OutcomeCompleted || o == OutcomeEscalated || o == OutcomeReferral
}

// Request asks the UI layer to open a module overlay with its context.
type Request struct {
	Module         Name                          `json:"module"`
	WeightKG       float64                       `json:"weight_kg"`
	InterventionID *uuid.UUID                    `json:"intervention_id,omitempty"`
	Reassess       *intervention.ReassessPayload `json:"reassess,omitempty"`
}

// Result is what an outcome callback changed in engine state.
type Result struct {
	Handled   bool
	Emergency bool
	Resolved  *intervention.Active
	Appended  *intervention.Active
	FollowUp  *Request
}
