// Package flow defines the branching physical-exam questionnaire: the
// question graph, the flow policies that order its phases, and the
// navigator that walks a session through them.
package flow

import (
	"fmt"

	"github.com/acutepeds/assessment/internal/domain/action"
	"github.com/acutepeds/assessment/internal/domain/patient"
)

// Phase is a named grouping of related questions.
type Phase string

const (
	PhaseTriage      Phase = "triage"
	PhasePresenting  Phase = "presenting"
	PhaseAirway      Phase = "airway"
	PhaseBreathing   Phase = "breathing"
	PhaseCirculation Phase = "circulation"
	PhaseDisability  Phase = "disability"
	PhaseExposure    Phase = "exposure"
)

// Kind is the input type of a question.
type Kind string

const (
	KindBool    Kind = "bool"
	KindSingle  Kind = "single"
	KindMulti   Kind = "multi"
	KindNumeric Kind = "numeric"
)

// Severity classifies a finding. Options carry it; numeric and untagged
// answers default to normal.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityAbnormal Severity = "abnormal"
	SeverityCritical Severity = "critical"
)

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityAbnormal:
		return 1
	default:
		return 0
	}
}

// Option is one selectable answer value. Bool questions use the values
// "true" and "false" to tag severities.
type Option struct {
	Value    string   `json:"value"`
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// Answer is the raw value supplied for a question. Exactly one field is
// set according to the question's kind; a zero Answer is a skip.
type Answer struct {
	Bool    *bool    `json:"bool,omitempty"`
	Number  *float64 `json:"number,omitempty"`
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
}

// IsZero reports whether the answer is empty (a skip).
func (a Answer) IsZero() bool {
	return a.Bool == nil && a.Number == nil && a.Option == "" && len(a.Options) == 0
}

// Has reports whether a multi-select answer contains value.
func (a Answer) Has(value string) bool {
	for _, v := range a.Options {
		if v == value {
			return true
		}
	}
	return false
}

// TriggerFunc derives a candidate recommended action from a non-skipped
// answer and the patient context. It must be pure.
type TriggerFunc func(ans Answer, pc patient.Context, weightKG float64) *action.Triggered

// Question is one node of the exam graph.
type Question struct {
	ID      string      `json:"id"`
	Phase   Phase       `json:"phase"`
	Prompt  string      `json:"prompt"`
	Kind    Kind        `json:"kind"`
	Options []Option    `json:"options,omitempty"`
	Min     float64     `json:"min,omitempty"`
	Max     float64     `json:"max,omitempty"`
	Unit    string      `json:"unit,omitempty"`
	Trigger TriggerFunc `json:"-"`
}

// ValidateAnswer checks that a non-skip answer matches the question's kind
// and constraints. Numeric values outside the declared range are rejected
// here, before any trigger can see them.
func (q *Question) ValidateAnswer(a Answer) error {
	switch q.Kind {
	case KindBool:
		if a.Bool == nil {
			return fmt.Errorf("question %s expects a boolean answer", q.ID)
		}
	case KindNumeric:
		if a.Number == nil {
			return fmt.Errorf("question %s expects a numeric answer", q.ID)
		}
		if *a.Number < q.Min || *a.Number > q.Max {
			return fmt.Errorf("question %s: value %v outside range %v-%v %s", q.ID, *a.Number, q.Min, q.Max, q.Unit)
		}
	case KindSingle:
		if a.Option == "" {
			return fmt.Errorf("question %s expects a selected option", q.ID)
		}
		if !q.hasOption(a.Option) {
			return fmt.Errorf("question %s: unknown option %q", q.ID, a.Option)
		}
	case KindMulti:
		if len(a.Options) == 0 {
			return fmt.Errorf("question %s expects at least one selected option", q.ID)
		}
		for _, v := range a.Options {
			if !q.hasOption(v) {
				return fmt.Errorf("question %s: unknown option %q", q.ID, v)
			}
		}
	default:
		return fmt.Errorf("question %s has unknown kind %q", q.ID, q.Kind)
	}
	return nil
}

func (q *Question) hasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// ResolveSeverity maps an answer to the severity of the matched option.
// Multi-select answers resolve to the worst selected severity; anything
// unmatched defaults to normal.
func (q *Question) ResolveSeverity(a Answer) Severity {
	switch q.Kind {
	case KindBool:
		if a.Bool == nil {
			return SeverityNormal
		}
		return q.optionSeverity(fmt.Sprintf("%t", *a.Bool))
	case KindSingle:
		return q.optionSeverity(a.Option)
	case KindMulti:
		worst := SeverityNormal
		for _, v := range a.Options {
			if s := q.optionSeverity(v); severityRank(s) > severityRank(worst) {
				worst = s
			}
		}
		return worst
	default:
		return SeverityNormal
	}
}

func (q *Question) optionSeverity(value string) Severity {
	for _, o := range q.Options {
		if o.Value == value {
			return o.Severity
		}
	}
	return SeverityNormal
}
