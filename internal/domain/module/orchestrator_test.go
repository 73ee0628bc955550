package module

import (
	"testing"

	"github.com/google/uuid"

	"github.com/acutepeds/assessment/internal/domain/intervention"
)

func newOrch(t *testing.T) (*Orchestrator, *intervention.Manager) {
	t.Helper()
	mgr := intervention.NewManager(false)
	return NewOrchestrator(mgr, 8), mgr
}

func TestOpen_UnknownModuleIsNoOp(t *testing.T) {
	o, _ := newOrch(t)
	if req := o.Open(Name("teleporter"), nil, nil); req != nil {
		t.Errorf("unknown module should return nil, got %+v", req)
	}
}

func TestOpen_CarriesContext(t *testing.T) {
	o, _ := newOrch(t)
	id := uuid.New()
	req := o.Open(Shock, &id, nil)
	if req == nil || req.Module != Shock || req.WeightKG != 8 || *req.InterventionID != id {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestHandleOutcome_FluidCompleted(t *testing.T) {
	o, mgr := newOrch(t)
	b, _ := mgr.Trigger(intervention.KeyFluidBolus, 8)

	res := o.HandleOutcome(FluidTracker, OutcomeCompleted, &b.ID)
	if !res.Handled {
		t.Fatal("expected outcome to be handled")
	}
	if b.Status != intervention.StatusCompleted {
		t.Errorf("bolus status = %s, want completed", b.Status)
	}
}

func TestHandleOutcome_FluidEscalatedChainsToInotrope(t *testing.T) {
	o, mgr := newOrch(t)
	b, _ := mgr.Trigger(intervention.KeyFluidBolus, 8)

	res := o.HandleOutcome(FluidTracker, OutcomeEscalated, &b.ID)
	if b.Status != intervention.StatusEscalated {
		t.Errorf("bolus status = %s, want escalated", b.Status)
	}
	if res.FollowUp == nil || res.FollowUp.Module != Inotrope {
		t.Fatalf("expected inotrope follow-up, got %+v", res.FollowUp)
	}
}

func TestHandleOutcome_ReferralActivatesEmergency(t *testing.T) {
	o, mgr := newOrch(t)
	a, _ := mgr.Trigger(intervention.KeyMonitoring, 8)

	res := o.HandleOutcome(Shock, OutcomeReferral, &a.ID)
	if !res.Emergency {
		t.Error("referral must activate emergency")
	}
	if a.Status != intervention.StatusCompleted {
		t.Errorf("intervention status = %s, want completed", a.Status)
	}
}

func TestHandleOutcome_AccessEscalationAppendsIO(t *testing.T) {
	o, mgr := newOrch(t)
	iv, _ := mgr.Trigger(intervention.KeyIVAccess, 8)

	res := o.HandleOutcome(IVIOAccess, OutcomeEscalated, &iv.ID)
	if iv.Status != intervention.StatusEscalated {
		t.Errorf("IV status = %s, want escalated", iv.Status)
	}
	if res.Appended == nil || res.Appended.Type != intervention.TypeIOAccess {
		t.Fatal("expected appended IO intervention")
	}
	if len(mgr.All()) != 2 {
		t.Errorf("chain must be additive, got %d interventions", len(mgr.All()))
	}
}

func TestHandleOutcome_GenericCompleteOnFluidRedirects(t *testing.T) {
	o, mgr := newOrch(t)
	b, _ := mgr.Trigger(intervention.KeyFluidBolus, 8)

	res := o.HandleOutcome(Shock, OutcomeCompleted, &b.ID)
	if b.Status != intervention.StatusActive {
		t.Error("fluid bolus must not complete through a generic module")
	}
	if res.FollowUp == nil || res.FollowUp.Module != FluidTracker {
		t.Fatalf("expected fluid tracker redirect, got %+v", res.FollowUp)
	}
	if res.FollowUp.Reassess == nil || res.FollowUp.Reassess.VolumeCapML != 480 {
		t.Errorf("reassessment payload missing or wrong: %+v", res.FollowUp.Reassess)
	}
}

func TestHandleOutcome_UnknownsAreNoOps(t *testing.T) {
	o, _ := newOrch(t)
	if res := o.HandleOutcome(Name("teleporter"), OutcomeCompleted, nil); res.Handled {
		t.Error("unknown module must be a no-op")
	}
	if res := o.HandleOutcome(Shock, Outcome("exploded"), nil); res.Handled {
		t.Error("unknown outcome must be a no-op")
	}
	id := uuid.New()
	if res := o.HandleOutcome(Shock, OutcomeCompleted, &id); res.Resolved != nil {
		t.Error("missing intervention must not resolve anything")
	}
}
