package intervention

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/acutepeds/assessment/internal/domain/dosing"
)

// Template is a parameterized intervention definition. Instantiation scales
// the instruction by the working weight where the template calls for it.
type Template struct {
	Key       TemplateKey
	Type      Type
	Title     string
	Priority  Priority
	ModuleRef string
	// build fills the weight-dependent fields.
	build func(a *Active, weightKG float64)
}

var templates = map[TemplateKey]Template{
	KeyCompressions: {
		Key: KeyCompressions, Type: TypeCompressions,
		Title: "Chest compressions", Priority: PriorityCritical,
		build: func(a *Active, _ float64) {
			a.Instruction = "Start high-quality chest compressions at 100-120/min, compress one third of chest depth, minimise interruptions."
		},
	},
	KeyVentilation: {
		Key: KeyVentilation, Type: TypeVentilation,
		Title: "Bag-mask ventilation", Priority: PriorityCritical,
		ModuleRef: "airway",
		build: func(a *Active, _ float64) {
			a.Instruction = "Ventilate with bag and mask at age-appropriate rate with 100% oxygen; watch for chest rise."
		},
	},
	KeyFluidBolus: {
		Key: KeyFluidBolus, Type: TypeFluidBolus,
		Title: "Fluid bolus", Priority: PriorityCritical,
		ModuleRef: "fluid-bolus-tracker",
		build: func(a *Active, weightKG float64) {
			vol := dosing.FluidBolus(weightKG)
			a.VolumeGivenML = vol
			a.VolumeCapML = dosing.FluidSessionCap(weightKG)
			a.Instruction = fmt.Sprintf("Give %.0f mL isotonic crystalloid IV/IO over 10 minutes, reassess after the bolus.", vol)
		},
	},
	KeyIVAccess: {
		Key: KeyIVAccess, Type: TypeIVAccess,
		Title: "Peripheral IV access", Priority: PriorityUrgent,
		ModuleRef: "iv-io-access",
		build: func(a *Active, _ float64) {
			a.Instruction = "Obtain peripheral IV access; limit to two attempts before escalating to IO."
		},
	},
	KeyIOAccess: {
		Key: KeyIOAccess, Type: TypeIOAccess,
		Title: "Intraosseous access", Priority: PriorityCritical,
		ModuleRef: "iv-io-access",
		build: func(a *Active, _ float64) {
			a.Instruction = "Insert IO needle in the proximal tibia; confirm position and secure."
		},
	},
	KeyMonitoring: {
		Key: KeyMonitoring, Type: TypeMonitoring,
		Title: "Continuous monitoring", Priority: PriorityRoutine,
		build: func(a *Active, _ float64) {
			a.Instruction = "Attach continuous ECG, SpO2 and non-invasive BP monitoring."
		},
	},
}

// LookupTemplate returns the template for key, if one exists.
func LookupTemplate(key TemplateKey) (Template, bool) {
	t, ok := templates[key]
	return t, ok
}

func (t Template) instantiate(weightKG float64, now time.Time) *Active {
	a := &Active{
		ID:        uuid.New(),
		Key:       t.Key,
		Type:      t.Type,
		Title:     t.Title,
		StartedAt: now,
		Status:    StatusActive,
		Priority:  t.Priority,
		ModuleRef: t.ModuleRef,
	}
	if t.build != nil {
		t.build(a, weightKG)
	}
	return a
}
