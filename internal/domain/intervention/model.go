// Package intervention tracks the concurrently active clinical interventions
// of one assessment session: creation from templates, lifecycle transitions,
// additive escalation, and the reassessment gating of fluid boluses.
package intervention

import (
	"time"

	"github.com/google/uuid"
)

// TemplateKey identifies an intervention template. The set is closed;
// triggers referencing an unknown key are ignored rather than failing.
type TemplateKey string

const (
	KeyCompressions TemplateKey = "compressions"
	KeyVentilation  TemplateKey = "ventilation"
	KeyFluidBolus   TemplateKey = "fluid-bolus"
	KeyIVAccess     TemplateKey = "iv-access"
	KeyIOAccess     TemplateKey = "io-access"
	KeyMonitoring   TemplateKey = "monitoring"
)

// Type tags an intervention by the kind of clinical action it tracks.
type Type string

const (
	TypeCompressions Type = "compressions"
	TypeVentilation  Type = "ventilation"
	TypeFluidBolus   Type = "fluid-bolus"
	TypeIVAccess     Type = "iv-access"
	TypeIOAccess     Type = "io-access"
	TypeMonitoring   Type = "monitoring"
)

// Status of an intervention. Active interventions transition to exactly one
// of the other states.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusEscalated Status = "escalated"
	StatusCancelled Status = "cancelled"
)

// Priority mirrors the severity of the action that spawned the intervention.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityUrgent   Priority = "urgent"
	PriorityRoutine  Priority = "routine"
)

// Active is one tracked intervention. Fluid-bolus instances additionally
// carry the bolus number, volume given, and the per-session volume cap.
type Active struct {
	ID          uuid.UUID   `json:"id"`
	Key         TemplateKey `json:"key"`
	Type        Type        `json:"type"`
	Title       string      `json:"title"`
	Instruction string      `json:"instruction"`
	StartedAt   time.Time   `json:"started_at"`
	Status      Status      `json:"status"`
	Priority    Priority    `json:"priority"`
	ModuleRef   string      `json:"module_ref,omitempty"`

	BolusNumber   int     `json:"bolus_number,omitempty"`
	VolumeGivenML float64 `json:"volume_given_ml,omitempty"`
	VolumeCapML   float64 `json:"volume_cap_ml,omitempty"`
}
