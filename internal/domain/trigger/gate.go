package trigger

import (
	"github.com/acutepeds/assessment/internal/domain/action"
	"github.com/acutepeds/assessment/internal/domain/flow"
	"github.com/acutepeds/assessment/internal/domain/intervention"
	"github.com/acutepeds/assessment/internal/domain/module"
	"github.com/acutepeds/assessment/internal/domain/patient"
)

// flagRule raises a flag when a specific finding is observed.
type flagRule struct {
	questionID string
	flag       Flag
	match      func(ans flow.Answer) bool
}

func boolTrue(ans flow.Answer) bool { return ans.Bool != nil && *ans.Bool }

// The fixed set of originating findings that raise safety flags.
var flagRules = []flagRule{
	{flow.QRhythm, FlagSVTSuspected, func(a flow.Answer) bool { return a.Option == flow.OptRhythmSVT }},
	{flow.QJVP, FlagHeartFailureSigns, boolTrue},
	{flow.QHepatomegaly, FlagHeartFailureSigns, boolTrue},
	{flow.QGallop, FlagHeartFailureSigns, boolTrue},
	{flow.QAuscultation, FlagHeartFailureSigns, func(a flow.Answer) bool { return a.Has(flow.OptCrackles) }},
}

// rewrite describes the contraindication substitute for a flagged
// fluid-bolus action.
type rewrite struct {
	id          string
	title       string
	instruction string
	rationale   string
	module      module.Name
}

// Rewrite rules in priority order. SVT wins over heart failure when both
// flags are raised.
var fluidRewrites = []struct {
	flag Flag
	rw   rewrite
}{
	{FlagSVTSuspected, rewrite{
		id:          "act-fluid-contra-svt",
		title:       "Fluid bolus withheld: suspected SVT",
		instruction: "Do not give a fluid bolus. Treat the rhythm first: open the arrhythmia pathway.",
		rationale:   "Volume loading in SVT can worsen cardiac output; rhythm control takes priority.",
		module:      module.Arrhythmia,
	}},
	{FlagHeartFailureSigns, rewrite{
		id:          "act-fluid-contra-heart-failure",
		title:       "Fluid bolus withheld: heart failure signs",
		instruction: "Do not give further fluid. Start inotropic support assessment instead.",
		rationale:   "Raised venous pressure, hepatomegaly, gallop or crackles indicate fluid overload risk.",
		module:      module.Inotrope,
	}},
}

// Outcome is the gate's verdict for one answered question.
type Outcome struct {
	// Action is the surfaced action, possibly a contraindication rewrite.
	// Nil when nothing triggered or the candidate was suppressed.
	Action *action.Triggered
	// Suppressed is true when a candidate existed but was blocked with no
	// matching rewrite: the gate fails closed.
	Suppressed bool
	// FlagsSet lists flags newly raised by this finding.
	FlagsSet []Flag
	// Emergency is true when the surfaced action is critical.
	Emergency bool
	// StartCompressionTimer is true for the start-of-resuscitation action.
	StartCompressionTimer bool
}

// Evaluate runs the question's trigger for a non-skipped answer and applies
// the safety gate. Flags raised by this very finding are visible to the
// gate immediately. Callers must not invoke Evaluate for skips.
func Evaluate(q *flow.Question, ans flow.Answer, pc patient.Context, weightKG float64, flags *FlagSet) Outcome {
	var out Outcome

	for _, r := range flagRules {
		if r.questionID == q.ID && r.match(ans) && !flags.Has(r.flag) {
			flags.Set(r.flag)
			out.FlagsSet = append(out.FlagsSet, r.flag)
		}
	}

	if q.Trigger == nil {
		return out
	}
	candidate := q.Trigger(ans, pc, weightKG)
	if candidate == nil {
		return out
	}

	surfaced := candidate
	if candidate.Template == intervention.KeyFluidBolus && flags.Any(FlagSVTSuspected, FlagHeartFailureSigns) {
		surfaced = rewriteFluid(candidate, flags)
		if surfaced == nil {
			// No rewrite rule matched: block the unsafe action entirely.
			out.Suppressed = true
			return out
		}
	}

	out.Action = surfaced
	out.Emergency = surfaced.Severity == action.SeverityCritical
	out.StartCompressionTimer = surfaced.ID == action.StartResuscitationID
	return out
}

func rewriteFluid(candidate *action.Triggered, flags *FlagSet) *action.Triggered {
	for _, fr := range fluidRewrites {
		if !flags.Has(fr.flag) {
			continue
		}
		return &action.Triggered{
			ID:          fr.rw.id,
			Severity:    candidate.Severity,
			Title:       fr.rw.title,
			Instruction: fr.rw.instruction,
			Rationale:   fr.rw.rationale,
			Module:      fr.rw.module,
			ReplacesID:  candidate.ID,
		}
	}
	return nil
}
