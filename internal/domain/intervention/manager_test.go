package intervention

import (
	"testing"

	"github.com/google/uuid"
)

func TestManager_TriggerAppendsDuplicates(t *testing.T) {
	m := NewManager(false)
	a1, ok := m.Trigger(KeyMonitoring, 10)
	if !ok || a1 == nil {
		t.Fatal("expected monitoring intervention")
	}
	a2, ok := m.Trigger(KeyMonitoring, 10)
	if !ok || a2 == nil {
		t.Fatal("expected second monitoring intervention")
	}
	if a1.ID == a2.ID {
		t.Error("duplicate triggers must append distinct instances")
	}
	if len(m.All()) != 2 {
		t.Errorf("expected 2 interventions, got %d", len(m.All()))
	}
}

func TestManager_TriggerUnknownKeyNoOp(t *testing.T) {
	m := NewManager(false)
	if a, ok := m.Trigger(TemplateKey("does-not-exist"), 10); ok || a != nil {
		t.Error("unknown template key must be a no-op")
	}
	if len(m.All()) != 0 {
		t.Error("no intervention should be created")
	}
}

func TestManager_FluidBolusNumbersAndCap(t *testing.T) {
	m := NewManager(false)
	b1, _ := m.Trigger(KeyFluidBolus, 8)
	b2, _ := m.Trigger(KeyFluidBolus, 8)

	if b1.BolusNumber != 1 || b2.BolusNumber != 2 {
		t.Errorf("bolus numbers = %d, %d; want 1, 2", b1.BolusNumber, b2.BolusNumber)
	}
	if b1.VolumeGivenML != 80 {
		t.Errorf("bolus volume = %v, want 80", b1.VolumeGivenML)
	}
	if b1.VolumeCapML != 480 {
		t.Errorf("volume cap = %v, want 480", b1.VolumeCapML)
	}
}

func TestManager_CompleteDirectForNonFluid(t *testing.T) {
	m := NewManager(false)
	a, _ := m.Trigger(KeyIVAccess, 10)

	res := m.Complete(a.ID)
	if res.Outcome != CompleteDone {
		t.Fatalf("outcome = %s, want %s", res.Outcome, CompleteDone)
	}
	if a.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", a.Status)
	}
}

func TestManager_FluidCompletionRequiresReassessment(t *testing.T) {
	m := NewManager(false)
	b, _ := m.Trigger(KeyFluidBolus, 8)

	res := m.Complete(b.ID)
	if res.Outcome != CompleteReassess {
		t.Fatalf("outcome = %s, want %s", res.Outcome, CompleteReassess)
	}
	if b.Status != StatusActive {
		t.Error("fluid bolus must stay active until the module reports")
	}
	if res.Reassess == nil || res.Reassess.BolusNumber != 1 || res.Reassess.VolumeCapML != 480 {
		t.Errorf("unexpected reassessment payload: %+v", res.Reassess)
	}

	// Repeated direct completion attempts still do not transition it.
	if again := m.Complete(b.ID); again.Outcome != CompleteReassess {
		t.Errorf("second completion attempt = %s, want %s", again.Outcome, CompleteReassess)
	}

	if _, ok := m.ResolveFluid(b.ID, StatusCompleted); !ok {
		t.Fatal("ResolveFluid should succeed after module event")
	}
	if b.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", b.Status)
	}
}

func TestManager_ResolveFluidRejectsBadStates(t *testing.T) {
	m := NewManager(false)
	b, _ := m.Trigger(KeyFluidBolus, 8)
	if _, ok := m.ResolveFluid(b.ID, StatusCancelled); ok {
		t.Error("cancelled is not a valid reassessment verdict")
	}
	iv, _ := m.Trigger(KeyIVAccess, 8)
	if _, ok := m.ResolveFluid(iv.ID, StatusCompleted); ok {
		t.Error("ResolveFluid must only apply to fluid boluses")
	}
}

func TestManager_EscalateIVAppendsIO(t *testing.T) {
	m := NewManager(false)
	iv, _ := m.Trigger(KeyIVAccess, 10)

	escalated, appended, ok := m.Escalate(iv.ID, 10)
	if !ok {
		t.Fatal("escalation failed")
	}
	if escalated.Status != StatusEscalated {
		t.Errorf("IV status = %s, want escalated", escalated.Status)
	}
	if appended == nil || appended.Type != TypeIOAccess {
		t.Fatal("expected an IO access intervention to be appended")
	}
	if len(m.All()) != 2 {
		t.Errorf("escalation chain must be additive; got %d interventions", len(m.All()))
	}
}

func TestManager_EscalateNonIVAppendsNothing(t *testing.T) {
	m := NewManager(false)
	mon, _ := m.Trigger(KeyMonitoring, 10)
	_, appended, ok := m.Escalate(mon.ID, 10)
	if !ok || appended != nil {
		t.Errorf("monitoring escalation should mark only; appended=%v ok=%v", appended, ok)
	}
}

func TestManager_CancelDiscardsByDefault(t *testing.T) {
	m := NewManager(false)
	a, _ := m.Trigger(KeyMonitoring, 10)
	if _, ok := m.Cancel(a.ID); !ok {
		t.Fatal("cancel failed")
	}
	if len(m.All()) != 0 {
		t.Error("cancelled intervention should be discarded")
	}
}

func TestManager_CancelRetainsWhenConfigured(t *testing.T) {
	m := NewManager(true)
	a, _ := m.Trigger(KeyMonitoring, 10)
	cancelled, ok := m.Cancel(a.ID)
	if !ok {
		t.Fatal("cancel failed")
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if len(m.All()) != 1 {
		t.Error("cancelled intervention should be retained for audit")
	}
}

func TestManager_UnknownIDsNoOp(t *testing.T) {
	m := NewManager(false)
	id := uuid.New()
	if res := m.Complete(id); res.Outcome != CompleteUnknown {
		t.Errorf("Complete(unknown) = %s, want unknown", res.Outcome)
	}
	if _, _, ok := m.Escalate(id, 10); ok {
		t.Error("Escalate(unknown) should fail")
	}
	if _, ok := m.Cancel(id); ok {
		t.Error("Cancel(unknown) should fail")
	}
}
