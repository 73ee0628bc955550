package flow

import (
	"fmt"

	"github.com/acutepeds/assessment/internal/domain/action"
	"github.com/acutepeds/assessment/internal/domain/dosing"
	"github.com/acutepeds/assessment/internal/domain/intervention"
	"github.com/acutepeds/assessment/internal/domain/module"
	"github.com/acutepeds/assessment/internal/domain/patient"
)

// Question ids referenced outside this file (gate flag table, scenarios).
const (
	QTriageResponsive = "tri-responsive"
	QTriageBreathing  = "tri-breathing"
	QMainProblem      = "pre-main-problem"
	QAuscultation     = "bre-auscultation"
	QRhythm           = "cir-rhythm"
	QPerfusion        = "cir-perfusion"
	QJVP              = "cir-jvp"
	QHepatomegaly     = "cir-hepatomegaly"
	QGallop           = "cir-gallop"
)

// Rhythm option values used by the safety-flag table.
const (
	OptRhythmSVT      = "svt"
	OptCrackles       = "crackles"
	OptPerfusionShock = "shock"
)

var boolOptions = func(trueSev, falseSev Severity) []Option {
	return []Option{
		{Value: "true", Label: "Yes", Severity: trueSev},
		{Value: "false", Label: "No", Severity: falseSev},
	}
}

// DefaultGraph builds the pediatric emergency exam graph shared by both
// flow variants.
func DefaultGraph() *Graph {
	return NewGraph([]*Question{
		// --- Triage: signs of life. Back navigation is disabled here. ---
		{
			ID: QTriageResponsive, Phase: PhaseTriage, Kind: KindBool,
			Prompt:  "Does the child respond to voice or touch?",
			Options: boolOptions(SeverityNormal, SeverityCritical),
			Trigger: func(ans Answer, _ patient.Context, w float64) *action.Triggered {
				if ans.Bool == nil || *ans.Bool {
					return nil
				}
				return &action.Triggered{
					ID:           action.StartResuscitationID,
					Severity:     action.SeverityCritical,
					Title:        "Start CPR",
					Instruction:  "Unresponsive child: open airway, give 5 rescue breaths, start compressions.",
					Rationale:    "No response to voice or touch indicates possible cardiorespiratory arrest.",
					TimerSeconds: 120,
					ReassessHint: "Rhythm check every 2 minutes.",
					Template:     intervention.KeyCompressions,
					DoseCards: []action.DoseCard{
						{Label: "Epinephrine IV/IO", Value: dosing.EpinephrineArrest(w), Unit: "mg"},
						{Label: "Defibrillation (first)", Value: dosing.DefibrillationFirst(w), Unit: "J"},
						{Label: "Defibrillation (subsequent)", Value: dosing.DefibrillationRepeat(w), Unit: "J"},
					},
				}
			},
		},
		{
			ID: QTriageBreathing, Phase: PhaseTriage, Kind: KindBool,
			Prompt:  "Is the child breathing effectively?",
			Options: boolOptions(SeverityNormal, SeverityCritical),
			Trigger: func(ans Answer, _ patient.Context, _ float64) *action.Triggered {
				if ans.Bool == nil || *ans.Bool {
					return nil
				}
				return &action.Triggered{
					ID:          "act-rescue-ventilation",
					Severity:    action.SeverityCritical,
					Title:       "Support breathing now",
					Instruction: "Position the airway and start bag-mask ventilation with 100% oxygen.",
					Template:    intervention.KeyVentilation,
					Module:      module.Airway,
				}
			},
		},

		// --- Presenting problem (branching variant only). ---
		{
			ID: QMainProblem, Phase: PhasePresenting, Kind: KindSingle,
			Prompt: "What is the main problem?",
			Options: []Option{
				{Value: "breathing-problem", Label: "Breathing difficulty", Severity: SeverityNormal},
				{Value: "circulation-problem", Label: "Circulation / shock", Severity: SeverityNormal},
				{Value: "neuro-problem", Label: "Reduced consciousness / seizure", Severity: SeverityNormal},
				{Value: "unclear", Label: "Unclear / multiple", Severity: SeverityNormal},
			},
		},

		// --- Airway. ---
		{
			ID: "air-patency", Phase: PhaseAirway, Kind: KindSingle,
			Prompt: "Airway patency?",
			Options: []Option{
				{Value: "clear", Label: "Clear", Severity: SeverityNormal},
				{Value: "partial", Label: "Partially obstructed", Severity: SeverityAbnormal},
				{Value: "obstructed", Label: "Obstructed", Severity: SeverityCritical},
			},
			Trigger: func(ans Answer, _ patient.Context, _ float64) *action.Triggered {
				if ans.Option != "obstructed" {
					return nil
				}
				return &action.Triggered{
					ID:          "act-airway-obstruction",
					Severity:    action.SeverityCritical,
					Title:       "Relieve airway obstruction",
					Instruction: "Open the airway with positioning, suction if secretions visible, prepare airway adjuncts.",
					Module:      module.Airway,
				}
			},
		},
		{
			ID: "air-stridor", Phase: PhaseAirway, Kind: KindBool,
			Prompt:  "Is stridor audible?",
			Options: boolOptions(SeverityAbnormal, SeverityNormal),
			Trigger: func(ans Answer, _ patient.Context, w float64) *action.Triggered {
				if ans.Bool == nil || !*ans.Bool {
					return nil
				}
				dex := dosing.Dexamethasone(w)
				neb := dosing.NebEpinephrine(w)
				return &action.Triggered{
					ID:          "act-croup",
					Severity:    action.SeverityUrgent,
					Title:       "Treat croup",
					Instruction: fmt.Sprintf("Give dexamethasone %.1f mg PO/IM and nebulized epinephrine %.1f mL of 1:1,000.", dex, neb),
					Rationale:   "Stridor with barking cough suggests moderate to severe croup.",
					Dose:        fmt.Sprintf("%.1f mg", dex),
					Route:       "PO/IM",
					DoseCards: []action.DoseCard{
						{Label: "Dexamethasone", Value: dex, Unit: "mg"},
						{Label: "Nebulized epinephrine", Value: neb, Unit: "mL"},
					},
				}
			},
		},

		// --- Breathing. ---
		{
			ID: "bre-effort", Phase: PhaseBreathing, Kind: KindSingle,
			Prompt: "Work of breathing?",
			Options: []Option{
				{Value: "normal", Label: "Normal", Severity: SeverityNormal},
				{Value: "increased", Label: "Increased", Severity: SeverityAbnormal},
				{Value: "exhausted", Label: "Exhausted / failing", Severity: SeverityCritical},
			},
			Trigger: func(ans Answer, _ patient.Context, _ float64) *action.Triggered {
				if ans.Option != "exhausted" {
					return nil
				}
				return &action.Triggered{
					ID:          "act-support-ventilation",
					Severity:    action.SeverityCritical,
					Title:       "Take over ventilation",
					Instruction: "Exhaustion is pre-arrest: start bag-mask ventilation and call for senior help.",
					Template:    intervention.KeyVentilation,
					Module:      module.Airway,
				}
			},
		},
		{
			ID: "bre-resp-rate", Phase: PhaseBreathing, Kind: KindNumeric,
			Prompt: "Respiratory rate?", Min: 0, Max: 150, Unit: "/min",
			Trigger: func(ans Answer, pc patient.Context, _ float64) *action.Triggered {
				if ans.Number == nil {
					return nil
				}
				switch dosing.ClassifyRespRate(*ans.Number, pc.TotalMonths()) {
				case dosing.Above:
					return &action.Triggered{
						ID:          "act-tachypnoea",
						Severity:    action.SeverityUrgent,
						Title:       "Tachypnoea",
						Instruction: "Respiratory rate above the normal band for age: assess work of breathing and start continuous monitoring.",
						Template:    intervention.KeyMonitoring,
					}
				case dosing.Below:
					return &action.Triggered{
						ID:          "act-hypoventilation",
						Severity:    action.SeverityCritical,
						Title:       "Hypoventilation",
						Instruction: "Respiratory rate below the normal band for age: support ventilation immediately.",
						Template:    intervention.KeyVentilation,
						Module:      module.Airway,
					}
				}
				return nil
			},
		},
		{
			ID: QAuscultation, Phase: PhaseBreathing, Kind: KindMulti,
			Prompt: "Auscultation findings?",
			Options: []Option{
				{Value: "clear", Label: "Clear air entry", Severity: SeverityNormal},
				{Value: "wheeze", Label: "Wheeze", Severity: SeverityAbnormal},
				{Value: OptCrackles, Label: "Crackles", Severity: SeverityAbnormal},
				{Value: "silent", Label: "Silent chest", Severity: SeverityCritical},
			},
			Trigger: func(ans Answer, _ patient.Context, w float64) *action.Triggered {
				sal := dosing.Salbutamol(w)
				if ans.Has("silent") {
					return &action.Triggered{
						ID:          "act-silent-chest",
						Severity:    action.SeverityCritical,
						Title:       "Critical asthma",
						Instruction: fmt.Sprintf("Silent chest: give continuous nebulized salbutamol %.1f mg with oxygen and prepare for ventilation.", sal),
						Template:    intervention.KeyVentilation,
						Module:      module.Asthma,
					}
				}
				if ans.Has("wheeze") {
					return &action.Triggered{
						ID:          "act-asthma",
						Severity:    action.SeverityUrgent,
						Title:       "Treat bronchospasm",
						Instruction: fmt.Sprintf("Give nebulized salbutamol %.1f mg driven by oxygen; repeat per response.", sal),
						Dose:        fmt.Sprintf("%.1f mg", sal),
						Route:       "nebulized",
						Module:      module.Asthma,
					}
				}
				return nil
			},
		},
		{
			ID: "bre-spo2", Phase: PhaseBreathing, Kind: KindNumeric,
			Prompt: "Oxygen saturation?", Min: 50, Max: 100, Unit: "%",
			Trigger: func(ans Answer, _ patient.Context, _ float64) *action.Triggered {
				if ans.Number == nil || *ans.Number >= 94 {
					return nil
				}
				return &action.Triggered{
					ID:          "act-oxygen",
					Severity:    action.SeverityUrgent,
					Title:       "Give oxygen",
					Instruction: "SpO2 below 94%: start high-flow oxygen via face mask and monitor continuously.",
					Template:    intervention.KeyMonitoring,
				}
			},
		},

		// --- Circulation. ---
		{
			ID: "cir-heart-rate", Phase: PhaseCirculation, Kind: KindNumeric,
			Prompt: "Heart rate?", Min: 20, Max: 300, Unit: "bpm",
			Trigger: func(ans Answer, pc patient.Context, _ float64) *action.Triggered {
				if ans.Number == nil {
					return nil
				}
				switch dosing.ClassifyHeartRate(*ans.Number, pc.TotalMonths()) {
				case dosing.Above:
					return &action.Triggered{
						ID:          "act-tachycardia",
						Severity:    action.SeverityUrgent,
						Title:       "Tachycardia",
						Instruction: "Heart rate above the normal band for age: assess perfusion and rhythm, start continuous monitoring.",
						Template:    intervention.KeyMonitoring,
					}
				case dosing.Below:
					return &action.Triggered{
						ID:          "act-bradycardia",
						Severity:    action.SeverityCritical,
						Title:       "Bradycardia",
						Instruction: "Bradycardia in a child is usually hypoxic: ventilate with oxygen and prepare for resuscitation.",
						Module:      module.Arrhythmia,
					}
				}
				return nil
			},
		},
		{
			ID: QRhythm, Phase: PhaseCirculation, Kind: KindSingle,
			Prompt: "Rhythm on the monitor?",
			Options: []Option{
				{Value: "sinus", Label: "Sinus", Severity: SeverityNormal},
				{Value: OptRhythmSVT, Label: "SVT suspected", Severity: SeverityCritical},
				{Value: "irregular", Label: "Irregular", Severity: SeverityAbnormal},
			},
			Trigger: func(ans Answer, _ patient.Context, w float64) *action.Triggered {
				if ans.Option != OptRhythmSVT {
					return nil
				}
				lo, hi, esc := dosing.CardioversionRange(w)
				return &action.Triggered{
					ID:          "act-svt",
					Severity:    action.SeverityCritical,
					Title:       "Suspected SVT",
					Instruction: "Narrow-complex tachycardia: attempt vagal manoeuvres, prepare adenosine and synchronized cardioversion.",
					Module:      module.Arrhythmia,
					DoseCards: []action.DoseCard{
						{Label: "Cardioversion (initial, low)", Value: lo, Unit: "J"},
						{Label: "Cardioversion (initial, high)", Value: hi, Unit: "J"},
						{Label: "Cardioversion (escalated)", Value: esc, Unit: "J"},
					},
				}
			},
		},
		{
			ID: QPerfusion, Phase: PhaseCirculation, Kind: KindSingle,
			Prompt: "Perfusion status?",
			Options: []Option{
				{Value: "good", Label: "Good", Severity: SeverityNormal},
				{Value: "delayed", Label: "Delayed capillary refill", Severity: SeverityAbnormal},
				{Value: OptPerfusionShock, Label: "Shock", Severity: SeverityCritical},
			},
			Trigger: func(ans Answer, _ patient.Context, w float64) *action.Triggered {
				if ans.Option != OptPerfusionShock {
					return nil
				}
				vol := dosing.FluidBolus(w)
				return &action.Triggered{
					ID:           "act-fluid-bolus",
					Severity:     action.SeverityCritical,
					Title:        "Give fluid bolus",
					Instruction:  fmt.Sprintf("Shock: give %.0f mL isotonic crystalloid IV/IO over 10 minutes.", vol),
					Rationale:    "Impaired perfusion with shock signs requires rapid volume expansion.",
					Dose:         fmt.Sprintf("%.0f mL", vol),
					Route:        "IV/IO",
					ReassessHint: "Reassess perfusion, liver edge and breath sounds after every bolus.",
					Template:     intervention.KeyFluidBolus,
				}
			},
		},
		{
			ID: QJVP, Phase: PhaseCirculation, Kind: KindBool,
			Prompt:  "Is jugular venous pressure elevated?",
			Options: boolOptions(SeverityAbnormal, SeverityNormal),
		},
		{
			ID: QHepatomegaly, Phase: PhaseCirculation, Kind: KindBool,
			Prompt:  "Is the liver enlarged?",
			Options: boolOptions(SeverityAbnormal, SeverityNormal),
		},
		{
			ID: QGallop, Phase: PhaseCirculation, Kind: KindBool,
			Prompt:  "Is a gallop rhythm audible?",
			Options: boolOptions(SeverityAbnormal, SeverityNormal),
		},
		{
			ID: "cir-access", Phase: PhaseCirculation, Kind: KindSingle,
			Prompt: "Vascular access?",
			Options: []Option{
				{Value: "present", Label: "In place", Severity: SeverityNormal},
				{Value: "none", Label: "None", Severity: SeverityAbnormal},
			},
			Trigger: func(ans Answer, _ patient.Context, _ float64) *action.Triggered {
				if ans.Option != "none" {
					return nil
				}
				return &action.Triggered{
					ID:          "act-iv-access",
					Severity:    action.SeverityUrgent,
					Title:       "Obtain vascular access",
					Instruction: "Place a peripheral IV; after two failed attempts move straight to IO.",
					Template:    intervention.KeyIVAccess,
					Module:      module.IVIOAccess,
				}
			},
		},

		// --- Disability. ---
		{
			ID: "dis-avpu", Phase: PhaseDisability, Kind: KindSingle,
			Prompt: "AVPU level?",
			Options: []Option{
				{Value: "alert", Label: "Alert", Severity: SeverityNormal},
				{Value: "voice", Label: "Responds to voice", Severity: SeverityAbnormal},
				{Value: "pain", Label: "Responds to pain", Severity: SeverityCritical},
				{Value: "unresponsive", Label: "Unresponsive", Severity: SeverityCritical},
			},
			Trigger: func(ans Answer, _ patient.Context, _ float64) *action.Triggered {
				if ans.Option != "pain" && ans.Option != "unresponsive" {
					return nil
				}
				return &action.Triggered{
					ID:          "act-protect-airway",
					Severity:    action.SeverityCritical,
					Title:       "Protect the airway",
					Instruction: "AVPU of P or U cannot protect the airway: position, consider adjuncts, anticipate intubation.",
					Module:      module.Airway,
				}
			},
		},
		{
			ID: "dis-glucose", Phase: PhaseDisability, Kind: KindNumeric,
			Prompt: "Blood glucose?", Min: 0, Max: 35, Unit: "mmol/L",
			Trigger: func(ans Answer, _ patient.Context, w float64) *action.Triggered {
				if ans.Number == nil || *ans.Number >= 3 {
					return nil
				}
				vol := dosing.Dextrose10(w)
				return &action.Triggered{
					ID:          "act-hypoglycaemia",
					Severity:    action.SeverityUrgent,
					Title:       "Correct hypoglycaemia",
					Instruction: fmt.Sprintf("Glucose below 3 mmol/L: give %.0f mL of 10%% dextrose IV and recheck in 15 minutes.", vol),
					Dose:        fmt.Sprintf("%.0f mL", vol),
					Route:       "IV",
					Module:      module.LabSampling,
				}
			},
		},
		{
			ID: "dis-seizure", Phase: PhaseDisability, Kind: KindBool,
			Prompt:  "Is the child seizing now?",
			Options: boolOptions(SeverityCritical, SeverityNormal),
			Trigger: func(ans Answer, _ patient.Context, w float64) *action.Triggered {
				if ans.Bool == nil || !*ans.Bool {
					return nil
				}
				mid := dosing.Midazolam(w)
				return &action.Triggered{
					ID:          "act-seizure",
					Severity:    action.SeverityCritical,
					Title:       "Terminate the seizure",
					Instruction: fmt.Sprintf("Give midazolam %.1f mg IV/IM; protect the airway and check glucose.", mid),
					Dose:        fmt.Sprintf("%.1f mg", mid),
					Route:       "IV/IM",
				}
			},
		},

		// --- Exposure. ---
		{
			ID: "exp-temp", Phase: PhaseExposure, Kind: KindNumeric,
			Prompt: "Core temperature?", Min: 25, Max: 43, Unit: "°C",
			Trigger: func(ans Answer, _ patient.Context, _ float64) *action.Triggered {
				if ans.Number == nil {
					return nil
				}
				switch {
				case *ans.Number > 38.5:
					return &action.Triggered{
						ID:          "act-fever",
						Severity:    action.SeverityRoutine,
						Title:       "Fever",
						Instruction: "Give an antipyretic and look for a source; reassess perfusion for early sepsis.",
					}
				case *ans.Number < 35:
					return &action.Triggered{
						ID:          "act-hypothermia",
						Severity:    action.SeverityUrgent,
						Title:       "Hypothermia",
						Instruction: "Remove wet clothing and start active external rewarming.",
					}
				}
				return nil
			},
		},
		{
			ID: "exp-rash", Phase: PhaseExposure, Kind: KindSingle,
			Prompt: "Skin findings?",
			Options: []Option{
				{Value: "none", Label: "None", Severity: SeverityNormal},
				{Value: "urticaria", Label: "Urticaria / swelling", Severity: SeverityAbnormal},
				{Value: "petechiae", Label: "Petechiae / purpura", Severity: SeverityCritical},
			},
			Trigger: func(ans Answer, _ patient.Context, w float64) *action.Triggered {
				switch ans.Option {
				case "urticaria":
					epi := dosing.EpinephrineIM(w)
					return &action.Triggered{
						ID:          "act-anaphylaxis",
						Severity:    action.SeverityCritical,
						Title:       "Treat anaphylaxis",
						Instruction: fmt.Sprintf("Give epinephrine %.2f mg IM into the anterolateral thigh; repeat after 5 minutes if needed.", epi),
						Dose:        fmt.Sprintf("%.2f mg", epi),
						Route:       "IM",
						DoseCards: []action.DoseCard{
							{Label: "Epinephrine IM", Value: epi, Unit: "mg"},
						},
					}
				case "petechiae":
					return &action.Triggered{
						ID:          "act-sepsis",
						Severity:    action.SeverityCritical,
						Title:       "Suspect septic shock",
						Instruction: "Petechial rash with illness: take cultures, give broad-spectrum antibiotics, assess for shock.",
						Module:      module.Shock,
					}
				}
				return nil
			},
		},
	})
}
