package flow

import (
	"testing"

	"github.com/acutepeds/assessment/internal/domain/patient"
)

func TestDefaultGraph_Validates(t *testing.T) {
	if err := DefaultGraph().Validate(); err != nil {
		t.Fatalf("default graph invalid: %v", err)
	}
}

func TestGraph_ValidateCatchesBadContent(t *testing.T) {
	tests := []struct {
		name string
		q    *Question
	}{
		{"empty prompt", &Question{ID: "x", Phase: PhaseAirway, Kind: KindBool}},
		{"bad kind", &Question{ID: "x", Phase: PhaseAirway, Prompt: "p", Kind: Kind("slider")}},
		{"numeric bounds", &Question{ID: "x", Phase: PhaseAirway, Prompt: "p", Kind: KindNumeric, Min: 5, Max: 5}},
		{"select without options", &Question{ID: "x", Phase: PhaseAirway, Prompt: "p", Kind: KindSingle}},
		{"bad severity", &Question{ID: "x", Phase: PhaseAirway, Prompt: "p", Kind: KindSingle,
			Options: []Option{{Value: "a", Label: "A", Severity: Severity("catastrophic")}}}},
	}
	for _, tt := range tests {
		g := NewGraph([]*Question{tt.q})
		if err := g.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestQuestion_ValidateAnswer(t *testing.T) {
	g := DefaultGraph()

	rr, _ := g.Question("bre-resp-rate")
	bad := 999.0
	if err := rr.ValidateAnswer(Answer{Number: &bad}); err == nil {
		t.Error("out-of-range numeric answer must be rejected")
	}
	okVal := 40.0
	if err := rr.ValidateAnswer(Answer{Number: &okVal}); err != nil {
		t.Errorf("in-range numeric answer rejected: %v", err)
	}
	if err := rr.ValidateAnswer(Answer{Option: "fast"}); err == nil {
		t.Error("wrong answer kind must be rejected")
	}

	rhythm, _ := g.Question(QRhythm)
	if err := rhythm.ValidateAnswer(Answer{Option: "pacemaker"}); err == nil {
		t.Error("unknown option must be rejected")
	}
	if err := rhythm.ValidateAnswer(Answer{Option: OptRhythmSVT}); err != nil {
		t.Errorf("valid option rejected: %v", err)
	}

	ausc, _ := g.Question(QAuscultation)
	if err := ausc.ValidateAnswer(Answer{Options: []string{"wheeze", OptCrackles}}); err != nil {
		t.Errorf("valid multi answer rejected: %v", err)
	}
	if err := ausc.ValidateAnswer(Answer{Options: []string{"gurgle"}}); err == nil {
		t.Error("unknown multi option must be rejected")
	}
}

func TestQuestion_ResolveSeverity(t *testing.T) {
	g := DefaultGraph()

	rhythm, _ := g.Question(QRhythm)
	if s := rhythm.ResolveSeverity(Answer{Option: OptRhythmSVT}); s != SeverityCritical {
		t.Errorf("svt severity = %s, want critical", s)
	}

	ausc, _ := g.Question(QAuscultation)
	if s := ausc.ResolveSeverity(Answer{Options: []string{"clear", "silent"}}); s != SeverityCritical {
		t.Errorf("multi severity resolves to worst; got %s", s)
	}

	tri, _ := g.Question(QTriageResponsive)
	f := false
	if s := tri.ResolveSeverity(Answer{Bool: &f}); s != SeverityCritical {
		t.Errorf("unresponsive severity = %s, want critical", s)
	}

	rr, _ := g.Question("bre-resp-rate")
	v := 40.0
	if s := rr.ResolveSeverity(Answer{Number: &v}); s != SeverityNormal {
		t.Errorf("numeric severity defaults to normal, got %s", s)
	}
}

func TestTriggers_KnownDoseValues(t *testing.T) {
	g := DefaultGraph()
	pc := patient.Context{AgeYears: 2}

	// Croup at 20 kg: dexamethasone capped at 10 mg, neb epi capped at 5 mL.
	stridor, _ := g.Question("air-stridor")
	yes := true
	act := stridor.Trigger(Answer{Bool: &yes}, pc, 20)
	if act == nil {
		t.Fatal("stridor should trigger croup action")
	}
	if len(act.DoseCards) != 2 || act.DoseCards[0].Value != 10 || act.DoseCards[1].Value != 5 {
		t.Errorf("croup dose cards wrong: %+v", act.DoseCards)
	}

	// Shock at 8 kg: 80 mL bolus.
	perf, _ := g.Question(QPerfusion)
	act = perf.Trigger(Answer{Option: OptPerfusionShock}, pc, 8)
	if act == nil || act.Dose != "80 mL" {
		t.Fatalf("shock trigger dose = %+v, want 80 mL", act)
	}
	if act.Template == "" {
		t.Error("shock action must reference the fluid-bolus template")
	}

	// Unresponsive at 4.5 kg: epinephrine 0.045 mg, defib 9 J.
	tri, _ := g.Question(QTriageResponsive)
	no := false
	act = tri.Trigger(Answer{Bool: &no}, pc, 4.5)
	if act == nil || act.ID != "act-start-cpr" {
		t.Fatalf("unresponsive should trigger CPR, got %+v", act)
	}
	if act.DoseCards[0].Value != 0.045 {
		t.Errorf("arrest epinephrine = %v, want 0.045", act.DoseCards[0].Value)
	}
	if act.DoseCards[1].Value != 9 {
		t.Errorf("first shock = %v, want 9", act.DoseCards[1].Value)
	}
}

func TestTriggers_NormalAnswersProduceNothing(t *testing.T) {
	g := DefaultGraph()
	pc := patient.Context{AgeYears: 2}
	yes := true

	tri, _ := g.Question(QTriageResponsive)
	if act := tri.Trigger(Answer{Bool: &yes}, pc, 12); act != nil {
		t.Errorf("responsive child should not trigger, got %+v", act)
	}

	rr, _ := g.Question("bre-resp-rate")
	v := 30.0 // normal for a 2-year-old
	if act := rr.Trigger(Answer{Number: &v}, pc, 12); act != nil {
		t.Errorf("in-band respiratory rate should not trigger, got %+v", act)
	}
}
