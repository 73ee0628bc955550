package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/acutepeds/assessment/internal/domain/action"
	"github.com/acutepeds/assessment/internal/domain/flow"
	"github.com/acutepeds/assessment/internal/domain/intervention"
	"github.com/acutepeds/assessment/internal/domain/module"
	"github.com/acutepeds/assessment/internal/domain/patient"
	"github.com/acutepeds/assessment/internal/domain/scenario"
	"github.com/acutepeds/assessment/internal/domain/trigger"
	"github.com/acutepeds/assessment/internal/platform/alerting"
	"github.com/acutepeds/assessment/internal/platform/telemetry"
	"github.com/acutepeds/assessment/internal/platform/websocket"
)

var (
	// ErrSessionComplete is returned for inbound operations on a finished
	// assessment.
	ErrSessionComplete = errors.New("assessment is complete")
	// ErrQuestionMismatch is returned when the answered question is not the
	// current one.
	ErrQuestionMismatch = errors.New("answer does not match the current question")
	// ErrInterventionNotFound is returned for lifecycle requests against an
	// id that is not an active intervention of the session.
	ErrInterventionNotFound = errors.New("no active intervention with that id")
)

// Options configures engine behaviour per deployment.
type Options struct {
	DefaultVariant               string
	RetainCancelledInterventions bool
	DefaultScenarioWeightKG      float64
}

// Service owns session lifecycle and applies every inbound operation under
// the session's mutex, so concurrent requests against one session are
// serialized.
type Service struct {
	repo     Repository
	graph    *flow.Graph
	validate *validator.Validate
	logger   zerolog.Logger
	opts     Options

	publisher websocket.EventPublisher
	alerts    *alerting.Dispatcher
	metrics   *telemetry.Provider
}

func NewService(repo Repository, graph *flow.Graph, logger zerolog.Logger, opts Options) *Service {
	if opts.DefaultVariant == "" {
		opts.DefaultVariant = flow.VariantABCDE
	}
	if opts.DefaultScenarioWeightKG <= 0 {
		opts.DefaultScenarioWeightKG = scenario.DefaultWeightKG
	}
	return &Service{
		repo:     repo,
		graph:    graph,
		validate: validator.New(),
		logger:   logger,
		opts:     opts,
	}
}

// SetPublisher attaches an optional event publisher to the service.
func (s *Service) SetPublisher(p websocket.EventPublisher) { s.publisher = p }

// SetAlerts attaches an optional alert dispatcher to the service.
func (s *Service) SetAlerts(d *alerting.Dispatcher) { s.alerts = d }

// SetMetrics attaches an optional telemetry provider to the service.
func (s *Service) SetMetrics(tp *telemetry.Provider) { s.metrics = tp }

// -- Session lifecycle --

type CreateSessionInput struct {
	AgeYears    int     `json:"age_years" validate:"min=0,max=17"`
	AgeMonths   int     `json:"age_months" validate:"min=0,max=11"`
	WeightKG    float64 `json:"weight_kg" validate:"min=0,max=250"`
	GlucoseUnit string  `json:"glucose_unit" validate:"omitempty,oneof=mmol/L mg/dL"`
	Variant     string  `json:"variant" validate:"omitempty,oneof=abcde branching"`
}

func (s *Service) CreateSession(ctx context.Context, in CreateSessionInput) (*Snapshot, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid session input: %w", err)
	}

	variant := in.Variant
	if variant == "" {
		variant = s.opts.DefaultVariant
	}
	policy, err := flow.PolicyFor(variant)
	if err != nil {
		return nil, err
	}

	pc := patient.Context{
		AgeYears:    in.AgeYears,
		AgeMonths:   in.AgeMonths,
		WeightKG:    in.WeightKG,
		GlucoseUnit: patient.GlucoseUnit(in.GlucoseUnit),
	}
	if pc.GlucoseUnit == "" {
		pc.GlucoseUnit = patient.GlucoseMmolL
	}
	weight := pc.WorkingWeight()

	mgr := intervention.NewManager(s.opts.RetainCancelledInterventions)
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Patient:   pc,
		WeightKG:  weight,
		Variant:   variant,
		nav:       flow.NewNavigator(s.graph, policy),
		flags:     trigger.NewFlagSet(),
		mgr:       mgr,
		orch:      module.NewOrchestrator(mgr, weight),
	}
	sess.nav.Start()

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.EngineMetrics().AddSessionsActive(1)
		s.metrics.OperationCounter("create_session", "ok")
	}
	s.logger.Info().
		Str("session_id", sess.ID.String()).
		Str("variant", variant).
		Float64("weight_kg", weight).
		Msg("session created")

	sess.lock()
	defer sess.unlock()
	return sess.snapshotLocked(), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.lock()
	defer sess.unlock()
	return sess.snapshotLocked(), nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Snapshot, int, error) {
	sessions, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*Snapshot, 0, len(sessions))
	for _, sess := range sessions {
		sess.lock()
		out = append(out, sess.snapshotLocked())
		sess.unlock()
	}
	return out, total, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.EngineMetrics().AddSessionsActive(-1)
		sess.lock()
		if sess.gaugedActive != 0 {
			s.metrics.EngineMetrics().AddInterventionsActive(int64(-sess.gaugedActive))
			sess.gaugedActive = 0
		}
		sess.unlock()
	}
	s.logger.Info().Str("session_id", id.String()).Msg("session deleted")
	return nil
}

// -- Answer flow --

type SubmitAnswerInput struct {
	QuestionID string      `json:"question_id"`
	Answer     flow.Answer `json:"answer"`
}

// AnswerResult is what one answered (or skipped) question changed.
type AnswerResult struct {
	Finding      Finding              `json:"finding"`
	Action       *action.Triggered    `json:"action,omitempty"`
	Suppressed   bool                 `json:"suppressed,omitempty"`
	Intervention *intervention.Active `json:"intervention,omitempty"`
	ModuleOpened *module.Request      `json:"module_opened,omitempty"`
	FlagsSet     []trigger.Flag       `json:"flags_set,omitempty"`
	Emergency    bool                 `json:"emergency"`
	NextQuestion *flow.Question       `json:"next_question,omitempty"`
	Progress     float64              `json:"progress"`
	Completed    bool                 `json:"completed"`
}

func (s *Service) SubmitAnswer(ctx context.Context, id uuid.UUID, in SubmitAnswerInput) (*AnswerResult, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.countOp("submit_answer", err)
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	cur := sess.nav.Current()
	if sess.completed || cur == nil {
		s.countOp("submit_answer", ErrSessionComplete)
		return nil, ErrSessionComplete
	}
	if in.QuestionID != "" && in.QuestionID != cur.ID {
		s.countOp("submit_answer", ErrQuestionMismatch)
		return nil, fmt.Errorf("%w: current is %q", ErrQuestionMismatch, cur.ID)
	}
	if err := cur.ValidateAnswer(in.Answer); err != nil {
		s.countOp("submit_answer", err)
		return nil, err
	}

	// Branching variants may extend the remaining sequence.
	sess.nav.ObserveAnswer(cur.ID, in.Answer)

	out := trigger.Evaluate(cur, in.Answer, sess.Patient, sess.WeightKG, sess.flags)

	finding := Finding{
		QuestionID: cur.ID,
		Prompt:     cur.Prompt,
		Phase:      cur.Phase,
		Answer:     in.Answer,
		Severity:   cur.ResolveSeverity(in.Answer),
		Suppressed: out.Suppressed,
		FlagsSet:   out.FlagsSet,
	}

	res := &AnswerResult{
		Suppressed: out.Suppressed,
		FlagsSet:   out.FlagsSet,
	}

	// The pending action always reflects the most recent finding: an answer
	// that surfaces nothing clears it.
	sess.pendingAction = out.Action

	if out.Action != nil {
		finding.ActionID = out.Action.ID
		res.Action = out.Action

		var iid *uuid.UUID
		if out.Action.Template != "" {
			if act, ok := sess.mgr.Trigger(out.Action.Template, sess.WeightKG); ok {
				finding.InterventionIDs = append(finding.InterventionIDs, act.ID)
				res.Intervention = act
				iid = &act.ID
			}
		}
		if out.Action.Module != "" {
			if req := sess.orch.Open(out.Action.Module, iid, nil); req != nil {
				sess.openModule(req)
				res.ModuleOpened = req
			}
		}
	}

	finding = sess.appendFinding(finding)
	res.Finding = finding

	if out.Emergency {
		sess.emergency = true
		if s.metrics != nil {
			s.metrics.EmergencyActivation()
		}
		if s.alerts != nil {
			s.alerts.EmergencyTone(sess.ID.String())
		}
		s.publish(sess, websocket.EventEmergencyActivated, out.Action)
	}
	if out.StartCompressionTimer && s.alerts != nil {
		s.alerts.CompressionTimer(sess.ID.String(), out.Action.ID)
	}
	if out.Action != nil {
		s.publish(sess, websocket.EventActionTriggered, out.Action)
	}
	if out.Suppressed {
		s.publish(sess, websocket.EventActionSuppressed, finding)
	}
	if res.ModuleOpened != nil {
		s.publish(sess, websocket.EventModuleOpened, res.ModuleOpened)
	}

	res.NextQuestion = sess.nav.Next()
	sess.completed = sess.nav.Complete()
	res.Progress = sess.nav.Progress()
	res.Completed = sess.completed
	res.Emergency = sess.emergency

	if sess.completed {
		s.publish(sess, websocket.EventSessionCompleted, nil)
	} else {
		s.publish(sess, websocket.EventQuestionAdvanced, res.NextQuestion)
	}
	s.updateInterventionGauge(sess)
	s.countOp("submit_answer", nil)

	s.logger.Debug().
		Str("session_id", sess.ID.String()).
		Str("question_id", finding.QuestionID).
		Str("severity", string(finding.Severity)).
		Bool("emergency", sess.emergency).
		Msg("answer recorded")

	return res, nil
}

// Skip records the current question as skipped and advances. Skips never
// run triggers and never raise flags.
func (s *Service) Skip(ctx context.Context, id uuid.UUID, questionID string) (*AnswerResult, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.countOp("skip", err)
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	cur := sess.nav.Current()
	if sess.completed || cur == nil {
		s.countOp("skip", ErrSessionComplete)
		return nil, ErrSessionComplete
	}
	if questionID != "" && questionID != cur.ID {
		s.countOp("skip", ErrQuestionMismatch)
		return nil, fmt.Errorf("%w: current is %q", ErrQuestionMismatch, cur.ID)
	}

	finding := sess.appendFinding(Finding{
		QuestionID: cur.ID,
		Prompt:     cur.Prompt,
		Phase:      cur.Phase,
		Severity:   flow.SeverityNormal,
		Skipped:    true,
	})
	sess.pendingAction = nil

	res := &AnswerResult{Finding: finding, Emergency: sess.emergency}
	res.NextQuestion = sess.nav.Next()
	sess.completed = sess.nav.Complete()
	res.Progress = sess.nav.Progress()
	res.Completed = sess.completed

	if sess.completed {
		s.publish(sess, websocket.EventSessionCompleted, nil)
	} else {
		s.publish(sess, websocket.EventQuestionAdvanced, res.NextQuestion)
	}
	s.countOp("skip", nil)
	return res, nil
}

// GoBack moves the pointer to the previous question. Earlier findings,
// interventions, and flags are untouched.
func (s *Service) GoBack(ctx context.Context, id uuid.UUID) (*flow.Question, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.countOp("go_back", err)
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	q, err := sess.nav.Previous()
	if err != nil {
		s.countOp("go_back", err)
		return nil, err
	}
	sess.completed = false
	sess.UpdatedAt = time.Now().UTC()
	s.publish(sess, websocket.EventQuestionAdvanced, q)
	s.countOp("go_back", nil)
	return q, nil
}

// -- Scenarios --

// ScenarioResult is the state a quick-launch injected.
type ScenarioResult struct {
	Scenario     scenario.Name        `json:"scenario"`
	Action       *action.Triggered    `json:"action"`
	Intervention *intervention.Active `json:"intervention,omitempty"`
	ModuleOpened *module.Request      `json:"module_opened,omitempty"`
	Question     *flow.Question       `json:"question,omitempty"`
	Emergency    bool                 `json:"emergency"`
}

// StartScenario seeds the session from a named preset and resumes the flow
// at the scenario's entry question. A positive weightKG overrides the
// session's working weight for all subsequent dose derivations.
func (s *Service) StartScenario(ctx context.Context, id uuid.UUID, name scenario.Name, weightKG float64) (*ScenarioResult, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.countOp("start_scenario", err)
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	if weightKG > 0 {
		sess.WeightKG = weightKG
		sess.Patient.WeightKG = weightKG
		sess.orch = module.NewOrchestrator(sess.mgr, weightKG)
	}
	weight := sess.WeightKG
	if weight <= 0 {
		weight = s.opts.DefaultScenarioWeightKG
	}

	seed, err := scenario.Launch(name, weight)
	if err != nil {
		s.countOp("start_scenario", err)
		return nil, err
	}

	sess.Scenario = name
	sess.pendingAction = seed.Action
	sess.completed = false
	sess.UpdatedAt = time.Now().UTC()

	res := &ScenarioResult{Scenario: name, Action: seed.Action}

	var iid *uuid.UUID
	if act, ok := sess.mgr.Trigger(seed.Intervention, weight); ok {
		res.Intervention = act
		iid = &act.ID
	}
	if seed.Action.Module != "" {
		if req := sess.orch.Open(seed.Action.Module, iid, nil); req != nil {
			sess.openModule(req)
			res.ModuleOpened = req
		}
	}

	if seed.Action.Severity == action.SeverityCritical {
		sess.emergency = true
		if s.metrics != nil {
			s.metrics.EmergencyActivation()
		}
		if s.alerts != nil {
			s.alerts.EmergencyTone(sess.ID.String())
		}
		s.publish(sess, websocket.EventEmergencyActivated, seed.Action)
	}
	if seed.Action.ID == action.StartResuscitationID && s.alerts != nil {
		s.alerts.CompressionTimer(sess.ID.String(), seed.Action.ID)
	}

	if sess.nav.JumpTo(seed.QuestionID) {
		res.Question = sess.nav.Current()
	}
	res.Emergency = sess.emergency

	s.publish(sess, websocket.EventActionTriggered, seed.Action)
	s.updateInterventionGauge(sess)
	s.countOp("start_scenario", nil)

	s.logger.Info().
		Str("session_id", sess.ID.String()).
		Str("scenario", string(name)).
		Float64("weight_kg", weight).
		Msg("scenario launched")

	return res, nil
}

// -- Intervention lifecycle --

// InterventionResult is the outcome of a lifecycle request.
type InterventionResult struct {
	Outcome      intervention.CompleteOutcome `json:"outcome,omitempty"`
	Intervention *intervention.Active         `json:"intervention,omitempty"`
	Appended     *intervention.Active         `json:"appended,omitempty"`
	ModuleOpened *module.Request              `json:"module_opened,omitempty"`
	Reason       string                       `json:"reason,omitempty"`
}

// CompleteIntervention requests completion. A fluid bolus does not complete
// directly: the reassessment module is opened and the intervention stays
// active until its outcome arrives.
func (s *Service) CompleteIntervention(ctx context.Context, id, interventionID uuid.UUID) (*InterventionResult, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.countOp("complete_intervention", err)
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	cr := sess.mgr.Complete(interventionID)
	if cr.Outcome == intervention.CompleteUnknown {
		s.countOp("complete_intervention", ErrInterventionNotFound)
		return nil, ErrInterventionNotFound
	}

	res := &InterventionResult{Outcome: cr.Outcome, Intervention: cr.Intervention}
	if cr.Outcome == intervention.CompleteReassess {
		if req := sess.orch.Open(module.FluidTracker, &interventionID, cr.Reassess); req != nil {
			sess.openModule(req)
			res.ModuleOpened = req
			s.publish(sess, websocket.EventModuleOpened, req)
		}
	}

	sess.UpdatedAt = time.Now().UTC()
	s.publish(sess, websocket.EventInterventionUpdated, cr.Intervention)
	s.updateInterventionGauge(sess)
	s.countOp("complete_intervention", nil)
	return res, nil
}

// EscalateIntervention marks the intervention escalated. Escalating IV
// access appends IO access; the chain is additive. The reason is free text
// from the clinician and may be empty.
func (s *Service) EscalateIntervention(ctx context.Context, id, interventionID uuid.UUID, reason string) (*InterventionResult, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.countOp("escalate_intervention", err)
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	escalated, appended, ok := sess.mgr.Escalate(interventionID, sess.WeightKG)
	if !ok {
		s.countOp("escalate_intervention", ErrInterventionNotFound)
		return nil, ErrInterventionNotFound
	}

	sess.UpdatedAt = time.Now().UTC()
	s.logger.Info().
		Str("session_id", id.String()).
		Str("intervention_id", interventionID.String()).
		Str("reason", reason).
		Msg("intervention escalated")
	s.publish(sess, websocket.EventInterventionUpdated, escalated)
	if appended != nil {
		s.publish(sess, websocket.EventInterventionUpdated, appended)
	}
	s.updateInterventionGauge(sess)
	s.countOp("escalate_intervention", nil)
	return &InterventionResult{Intervention: escalated, Appended: appended, Reason: reason}, nil
}

// CancelIntervention cancels an active intervention.
func (s *Service) CancelIntervention(ctx context.Context, id, interventionID uuid.UUID) (*InterventionResult, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.countOp("cancel_intervention", err)
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	cancelled, ok := sess.mgr.Cancel(interventionID)
	if !ok {
		s.countOp("cancel_intervention", ErrInterventionNotFound)
		return nil, ErrInterventionNotFound
	}

	sess.UpdatedAt = time.Now().UTC()
	s.publish(sess, websocket.EventInterventionUpdated, cancelled)
	s.updateInterventionGauge(sess)
	s.countOp("cancel_intervention", nil)
	return &InterventionResult{Intervention: cancelled}, nil
}

// -- Module outcomes --

// ModuleResult is what an outcome callback changed.
type ModuleResult struct {
	Handled   bool                 `json:"handled"`
	Emergency bool                 `json:"emergency"`
	Resolved  *intervention.Active `json:"resolved,omitempty"`
	Appended  *intervention.Active `json:"appended,omitempty"`
	FollowUp  *module.Request      `json:"follow_up,omitempty"`
}

// HandleModuleOutcome applies an external module's completion callback.
// Unknown module names and outcomes degrade to a no-op.
func (s *Service) HandleModuleOutcome(ctx context.Context, id uuid.UUID, name module.Name, outcome module.Outcome, interventionID *uuid.UUID) (*ModuleResult, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.countOp("module_outcome", err)
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	out := sess.orch.HandleOutcome(name, outcome, interventionID)
	res := &ModuleResult{
		Handled:   out.Handled,
		Emergency: out.Emergency,
		Resolved:  out.Resolved,
		Appended:  out.Appended,
		FollowUp:  out.FollowUp,
	}
	if !out.Handled {
		// Degrade silently; the caller still gets a well-formed response.
		s.logger.Warn().
			Str("session_id", sess.ID.String()).
			Str("module", string(name)).
			Str("outcome", string(outcome)).
			Msg("unhandled module outcome ignored")
		s.countOp("module_outcome", nil)
		return res, nil
	}

	sess.closeModule(name)
	if out.FollowUp != nil {
		sess.openModule(out.FollowUp)
		s.publish(sess, websocket.EventModuleOpened, out.FollowUp)
	}
	if out.Emergency {
		sess.emergency = true
		if s.metrics != nil {
			s.metrics.EmergencyActivation()
		}
		if s.alerts != nil {
			s.alerts.EmergencyTone(sess.ID.String())
		}
		s.publish(sess, websocket.EventEmergencyActivated, nil)
	}
	if out.Resolved != nil {
		s.publish(sess, websocket.EventInterventionUpdated, out.Resolved)
	}
	if out.Appended != nil {
		s.publish(sess, websocket.EventInterventionUpdated, out.Appended)
	}

	sess.UpdatedAt = time.Now().UTC()
	s.updateInterventionGauge(sess)
	s.countOp("module_outcome", nil)
	return res, nil
}

// -- Views --

// Findings returns a copy of the findings log.
func (s *Service) Findings(ctx context.Context, id uuid.UUID) ([]Finding, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.lock()
	defer sess.unlock()
	out := make([]Finding, len(sess.findings))
	copy(out, sess.findings)
	return out, nil
}

// Summarize builds the handover summary at the current point of the
// assessment.
func (s *Service) Summarize(ctx context.Context, id uuid.UUID) (*Summary, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.lock()
	defer sess.unlock()

	sum := &Summary{
		SessionID:     sess.ID,
		GeneratedAt:   time.Now().UTC(),
		Patient:       sess.Patient,
		WeightKG:      sess.WeightKG,
		Emergency:     sess.emergency,
		Completed:     sess.completed,
		Flags:         sess.flags.List(),
		Interventions: sess.mgr.All(),
	}
	for _, f := range sess.findings {
		switch {
		case f.Skipped:
			sum.Skipped = append(sum.Skipped, f)
		case f.Severity == flow.SeverityCritical:
			sum.Critical = append(sum.Critical, f)
		case f.Severity == flow.SeverityAbnormal:
			sum.Abnormal = append(sum.Abnormal, f)
		}
	}
	return sum, nil
}

// -- Internals --

func (s *Service) publish(sess *Session, evType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	var data json.RawMessage
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			data = b
		}
	}
	_ = s.publisher.Publish(context.Background(), websocket.Event{
		Type:      evType,
		Topic:     sess.ID.String(),
		SessionID: sess.ID.String(),
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}

// updateInterventionGauge reports the session's change in active
// interventions. Callers hold the session lock.
func (s *Service) updateInterventionGauge(sess *Session) {
	if s.metrics == nil {
		return
	}
	cur := sess.mgr.ActiveCount()
	if delta := cur - sess.gaugedActive; delta != 0 {
		s.metrics.EngineMetrics().AddInterventionsActive(int64(delta))
		sess.gaugedActive = cur
	}
}

func (s *Service) countOp(op string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.OperationCounter(op, outcome)
}
