package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acutepeds/assessment/internal/domain/action"
	"github.com/acutepeds/assessment/internal/domain/flow"
	"github.com/acutepeds/assessment/internal/domain/intervention"
	"github.com/acutepeds/assessment/internal/domain/module"
	"github.com/acutepeds/assessment/internal/domain/patient"
	"github.com/acutepeds/assessment/internal/domain/scenario"
	"github.com/acutepeds/assessment/internal/domain/trigger"
)

// Finding is one entry of the append-only findings log. Moving back through
// the flow never removes findings; re-answering appends a new entry.
type Finding struct {
	Seq             int            `json:"seq"`
	QuestionID      string         `json:"question_id"`
	Prompt          string         `json:"prompt"`
	Phase           flow.Phase     `json:"phase"`
	Answer          flow.Answer    `json:"answer"`
	Severity        flow.Severity  `json:"severity"`
	Skipped         bool           `json:"skipped,omitempty"`
	RecordedAt      time.Time      `json:"recorded_at"`
	ActionID        string         `json:"action_id,omitempty"`
	Suppressed      bool           `json:"suppressed,omitempty"`
	InterventionIDs []uuid.UUID    `json:"intervention_ids,omitempty"`
	FlagsSet        []trigger.Flag `json:"flags_set,omitempty"`
}

// Session is one live assessment. All mutating access goes through the
// service, which serializes on mu; concurrent requests against the same
// session are applied one at a time.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	Patient  patient.Context
	WeightKG float64
	Variant  string
	Scenario scenario.Name

	mu sync.Mutex

	nav   *flow.Navigator
	flags *trigger.FlagSet
	mgr   *intervention.Manager
	orch  *module.Orchestrator

	findings []Finding
	// pendingAction is the action surfaced by the most recent finding. An
	// answer or skip that surfaces nothing clears it, so a snapshot never
	// shows a stale recommendation next to a newer benign finding.
	pendingAction *action.Triggered
	openModules   []*module.Request

	emergency bool
	completed bool

	// gaugedActive is the last active-intervention count reported to the
	// engine gauge, so only deltas are applied.
	gaugedActive int
}

func (s *Session) lock()   { s.mu.Lock() }
func (s *Session) unlock() { s.mu.Unlock() }

// appendFinding stamps the sequence number and timestamp and appends.
func (s *Session) appendFinding(f Finding) Finding {
	f.Seq = len(s.findings) + 1
	f.RecordedAt = time.Now().UTC()
	s.findings = append(s.findings, f)
	s.UpdatedAt = f.RecordedAt
	return f
}

// openModule records an overlay request. The same module may be open only
// once at a time; a duplicate request replaces the older entry.
func (s *Session) openModule(req *module.Request) {
	if req == nil {
		return
	}
	for i, m := range s.openModules {
		if m.Module == req.Module {
			s.openModules[i] = req
			return
		}
	}
	s.openModules = append(s.openModules, req)
}

// closeModule drops the overlay request for the named module.
func (s *Session) closeModule(name module.Name) {
	for i, m := range s.openModules {
		if m.Module == name {
			s.openModules = append(s.openModules[:i], s.openModules[i+1:]...)
			return
		}
	}
}

// Snapshot is the serializable view of a session.
type Snapshot struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Patient   patient.Context `json:"patient"`
	WeightKG  float64         `json:"weight_kg"`
	Variant   string          `json:"variant"`
	Scenario  scenario.Name   `json:"scenario,omitempty"`

	CurrentQuestion *flow.Question         `json:"current_question,omitempty"`
	Progress        float64                `json:"progress"`
	Completed       bool                   `json:"completed"`
	Emergency       bool                   `json:"emergency"`
	PendingAction   *action.Triggered      `json:"pending_action,omitempty"`
	OpenModules     []*module.Request      `json:"open_modules,omitempty"`
	Flags           []trigger.Flag         `json:"flags"`
	Interventions   []*intervention.Active `json:"interventions"`
	FindingCount    int                    `json:"finding_count"`
}

// snapshotLocked builds the view. Callers hold s.mu.
func (s *Session) snapshotLocked() *Snapshot {
	return &Snapshot{
		ID:              s.ID,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Patient:         s.Patient,
		WeightKG:        s.WeightKG,
		Variant:         s.Variant,
		Scenario:        s.Scenario,
		CurrentQuestion: s.nav.Current(),
		Progress:        s.nav.Progress(),
		Completed:       s.completed,
		Emergency:       s.emergency,
		PendingAction:   s.pendingAction,
		OpenModules:     append([]*module.Request(nil), s.openModules...),
		Flags:           s.flags.List(),
		Interventions:   s.mgr.All(),
		FindingCount:    len(s.findings),
	}
}

// Summary is the handover view generated at any point of the assessment.
type Summary struct {
	SessionID     uuid.UUID              `json:"session_id"`
	GeneratedAt   time.Time              `json:"generated_at"`
	Patient       patient.Context        `json:"patient"`
	WeightKG      float64                `json:"weight_kg"`
	Emergency     bool                   `json:"emergency"`
	Completed     bool                   `json:"completed"`
	Flags         []trigger.Flag         `json:"flags"`
	Abnormal      []Finding              `json:"abnormal_findings"`
	Critical      []Finding              `json:"critical_findings"`
	Skipped       []Finding              `json:"skipped_questions"`
	Interventions []*intervention.Active `json:"interventions"`
}
