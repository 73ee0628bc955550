package module

import (
	"github.com/google/uuid"

	"github.com/acutepeds/assessment/internal/domain/intervention"
)

// Orchestrator mediates between one session's intervention manager and the
// external modules. A clinical session must never crash mid-resuscitation,
// so unknown names and missing interventions degrade to no-ops.
type Orchestrator struct {
	mgr      *intervention.Manager
	weightKG float64
}

// NewOrchestrator creates an orchestrator bound to one session's
// intervention manager and working weight.
func NewOrchestrator(mgr *intervention.Manager, weightKG float64) *Orchestrator {
	return &Orchestrator{mgr: mgr, weightKG: weightKG}
}

// Open builds the overlay request for a module. Unknown module names
// return nil.
func (o *Orchestrator) Open(name Name, interventionID *uuid.UUID, reassess *intervention.ReassessPayload) *Request {
	if !Known(name) {
		return nil
	}
	return &Request{
		Module:         name,
		WeightKG:       o.weightKG,
		InterventionID: interventionID,
		Reassess:       reassess,
	}
}

// HandleOutcome applies a module's completion/escalation/referral callback
// to intervention state. The switch over module names is exhaustive over
// the closed registry; anything else is a no-op.
func (o *Orchestrator) HandleOutcome(name Name, outcome Outcome, interventionID *uuid.UUID) Result {
	if !Known(name) || !ValidOutcome(outcome) {
		return Result{}
	}

	switch name {
	case FluidTracker:
		return o.fluidOutcome(outcome, interventionID)
	case IVIOAccess:
		return o.accessOutcome(outcome, interventionID)
	case Shock, Asthma, Inotrope, LabSampling, Arrhythmia, Airway:
		return o.genericOutcome(outcome, interventionID)
	}
	return Result{}
}

// fluidOutcome finalizes a fluid bolus. Escalation (overload or
// non-response) chains to the inotrope module; referral also activates
// emergency care.
func (o *Orchestrator) fluidOutcome(outcome Outcome, id *uuid.UUID) Result {
	if id == nil {
		return Result{Handled: true}
	}
	switch outcome {
	case OutcomeCompleted:
		resolved, _ := o.mgr.ResolveFluid(*id, intervention.StatusCompleted)
		return Result{Handled: true, Resolved: resolved}
	case OutcomeEscalated:
		resolved, ok := o.mgr.ResolveFluid(*id, intervention.StatusEscalated)
		res := Result{Handled: true, Resolved: resolved}
		if ok {
			res.FollowUp = o.Open(Inotrope, id, nil)
		}
		return res
	case OutcomeReferral:
		resolved, _ := o.mgr.ResolveFluid(*id, intervention.StatusCompleted)
		return Result{Handled: true, Emergency: true, Resolved: resolved}
	}
	return Result{}
}

// accessOutcome reconciles the IV/IO module: escalation swaps to the
// additive IO chain, completion closes the access intervention.
func (o *Orchestrator) accessOutcome(outcome Outcome, id *uuid.UUID) Result {
	if id == nil {
		return Result{Handled: true}
	}
	switch outcome {
	case OutcomeCompleted:
		cr := o.mgr.Complete(*id)
		return Result{Handled: true, Resolved: cr.Intervention}
	case OutcomeEscalated:
		escalated, appended, _ := o.mgr.Escalate(*id, o.weightKG)
		return Result{Handled: true, Resolved: escalated, Appended: appended}
	case OutcomeReferral:
		cr := o.mgr.Complete(*id)
		return Result{Handled: true, Emergency: true, Resolved: cr.Intervention}
	}
	return Result{}
}

func (o *Orchestrator) genericOutcome(outcome Outcome, id *uuid.UUID) Result {
	res := Result{Handled: true}
	if outcome == OutcomeReferral {
		res.Emergency = true
	}
	if id == nil {
		return res
	}
	switch outcome {
	case OutcomeCompleted, OutcomeReferral:
		cr := o.mgr.Complete(*id)
		res.Resolved = cr.Intervention
		// A fluid bolus attached to a generic module still may not complete
		// directly; route it through the reassessment tracker.
		if cr.Outcome == intervention.CompleteReassess {
			res.Resolved = nil
			res.FollowUp = o.Open(FluidTracker, id, cr.Reassess)
		}
	case OutcomeEscalated:
		escalated, appended, _ := o.mgr.Escalate(*id, o.weightKG)
		res.Resolved = escalated
		res.Appended = appended
	}
	return res
}
