package intervention

import (
	"time"

	"github.com/google/uuid"
)

// CompleteOutcome describes what a completion request resulted in.
type CompleteOutcome string

const (
	// CompleteDone: the intervention transitioned directly to completed.
	CompleteDone CompleteOutcome = "completed"
	// CompleteReassess: a fluid bolus may not complete directly; the caller
	// must open the reassessment module and wait for its event.
	CompleteReassess CompleteOutcome = "reassessment-required"
	// CompleteUnknown: no active intervention with that id.
	CompleteUnknown CompleteOutcome = "unknown"
)

// ReassessPayload is the context handed to the fluid reassessment module.
type ReassessPayload struct {
	InterventionID uuid.UUID `json:"intervention_id"`
	BolusNumber    int       `json:"bolus_number"`
	VolumeGivenML  float64   `json:"volume_given_ml"`
	VolumeCapML    float64   `json:"volume_cap_ml"`
}

// CompleteResult is the outcome of a completion request.
type CompleteResult struct {
	Outcome      CompleteOutcome
	Intervention *Active
	Reassess     *ReassessPayload
}

// Manager owns the intervention set of a single session. It is not
// internally synchronized; the session serializes access.
type Manager struct {
	items           []*Active
	retainCancelled bool
	fluidBoluses    int
	now             func() time.Time
}

// NewManager creates an empty manager. When retainCancelled is true a
// cancelled intervention is kept with status cancelled instead of being
// dropped from the set.
func NewManager(retainCancelled bool) *Manager {
	return &Manager{retainCancelled: retainCancelled, now: time.Now}
}

// Trigger instantiates the template and appends the new intervention.
// Duplicate triggers append additional instances rather than merging.
// An unknown template key is a no-op.
func (m *Manager) Trigger(key TemplateKey, weightKG float64) (*Active, bool) {
	tpl, ok := LookupTemplate(key)
	if !ok {
		return nil, false
	}
	a := tpl.instantiate(weightKG, m.now())
	if a.Type == TypeFluidBolus {
		m.fluidBoluses++
		a.BolusNumber = m.fluidBoluses
	}
	m.items = append(m.items, a)
	return a, true
}

// Get returns the intervention with the given id.
func (m *Manager) Get(id uuid.UUID) (*Active, bool) {
	for _, a := range m.items {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// All returns every retained intervention in creation order.
func (m *Manager) All() []*Active {
	out := make([]*Active, len(m.items))
	copy(out, m.items)
	return out
}

// ActiveCount returns the number of interventions still in the active state.
func (m *Manager) ActiveCount() int {
	n := 0
	for _, a := range m.items {
		if a.Status == StatusActive {
			n++
		}
	}
	return n
}

// Complete requests completion. Non-fluid interventions transition directly;
// a fluid bolus instead yields a reassessment payload and stays active until
// ResolveFluid is called with the module's verdict.
func (m *Manager) Complete(id uuid.UUID) CompleteResult {
	a, ok := m.Get(id)
	if !ok || a.Status != StatusActive {
		return CompleteResult{Outcome: CompleteUnknown}
	}
	if a.Type == TypeFluidBolus {
		return CompleteResult{
			Outcome:      CompleteReassess,
			Intervention: a,
			Reassess: &ReassessPayload{
				InterventionID: a.ID,
				BolusNumber:    a.BolusNumber,
				VolumeGivenML:  a.VolumeGivenML,
				VolumeCapML:    a.VolumeCapML,
			},
		}
	}
	a.Status = StatusCompleted
	return CompleteResult{Outcome: CompleteDone, Intervention: a}
}

// ResolveFluid finalizes a fluid bolus after the reassessment module has
// reported. Only completed and escalated are valid terminal states here.
func (m *Manager) ResolveFluid(id uuid.UUID, status Status) (*Active, bool) {
	a, ok := m.Get(id)
	if !ok || a.Type != TypeFluidBolus || a.Status != StatusActive {
		return nil, false
	}
	if status != StatusCompleted && status != StatusEscalated {
		return nil, false
	}
	a.Status = status
	return a, true
}

// Escalate marks the intervention escalated. Escalating IV access appends a
// new IO access intervention; the chain is additive, never destructive.
func (m *Manager) Escalate(id uuid.UUID, weightKG float64) (escalated, appended *Active, ok bool) {
	a, found := m.Get(id)
	if !found || a.Status != StatusActive {
		return nil, nil, false
	}
	a.Status = StatusEscalated
	if a.Type == TypeIVAccess {
		appended, _ = m.Trigger(KeyIOAccess, weightKG)
	}
	return a, appended, true
}

// Cancel removes the intervention from the set, or retains it with status
// cancelled when the manager was configured to keep an audit record.
func (m *Manager) Cancel(id uuid.UUID) (*Active, bool) {
	for i, a := range m.items {
		if a.ID != id {
			continue
		}
		if a.Status != StatusActive {
			return nil, false
		}
		if m.retainCancelled {
			a.Status = StatusCancelled
			return a, true
		}
		m.items = append(m.items[:i], m.items[i+1:]...)
		return a, true
	}
	return nil, false
}
