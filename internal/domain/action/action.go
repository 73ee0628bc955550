// Package action defines the one-shot recommended actions the engine
// derives from findings, distinct from the longer-lived interventions
// they may spawn.
package action

import (
	"github.com/acutepeds/assessment/internal/domain/intervention"
	"github.com/acutepeds/assessment/internal/domain/module"
)

// Severity of a triggered action.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityUrgent   Severity = "urgent"
	SeverityRoutine  Severity = "routine"
)

// DoseCard is a pre-computed dose line shown alongside an action.
type DoseCard struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Triggered is a derived recommendation. Template references an
// intervention to open; Module references an external engine to hand
// control to. Both are optional.
type Triggered struct {
	ID           string                   `json:"id"`
	Severity     Severity                 `json:"severity"`
	Title        string                   `json:"title"`
	Instruction  string                   `json:"instruction"`
	Rationale    string                   `json:"rationale,omitempty"`
	Dose         string                   `json:"dose,omitempty"`
	Route        string                   `json:"route,omitempty"`
	TimerSeconds int                      `json:"timer_seconds,omitempty"`
	ReassessHint string                   `json:"reassess_hint,omitempty"`
	DoseCards    []DoseCard               `json:"dose_cards,omitempty"`
	Template     intervention.TemplateKey `json:"template,omitempty"`
	Module       module.Name              `json:"module,omitempty"`

	// ReplacesID carries the original candidate's id when the safety gate
	// substituted this action; used for flag bookkeeping only.
	ReplacesID string `json:"-"`
}

// StartResuscitationID is the action id that denotes start of resuscitation
// and triggers the compression-timer side effect.
const StartResuscitationID = "act-start-cpr"
