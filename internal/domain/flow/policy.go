package flow

import "fmt"

// Policy decides the phase order of an assessment and whether an answer
// branches the remaining sequence. Exactly one policy is selected at
// session start.
type Policy interface {
	Name() string
	// PhaseOrder is the initial phase sequence.
	PhaseOrder() []Phase
	// BranchOn returns the phases to append after answering questionID,
	// and whether this answer branches at all.
	BranchOn(questionID string, ans Answer) ([]Phase, bool)
}

// Policy names accepted at session creation.
const (
	VariantABCDE     = "abcde"
	VariantBranching = "branching"
)

// PolicyFor returns the policy for a variant name.
func PolicyFor(variant string) (Policy, error) {
	switch variant {
	case VariantABCDE, "":
		return abcdePolicy{}, nil
	case VariantBranching:
		return branchingPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown flow variant %q", variant)
	}
}

// abcdePolicy visits every question in the fixed airway→breathing→
// circulation→disability→exposure order.
type abcdePolicy struct{}

func (abcdePolicy) Name() string { return VariantABCDE }

func (abcdePolicy) PhaseOrder() []Phase {
	return []Phase{PhaseTriage, PhaseAirway, PhaseBreathing, PhaseCirculation, PhaseDisability, PhaseExposure}
}

func (abcdePolicy) BranchOn(string, Answer) ([]Phase, bool) { return nil, false }

// branchingPolicy asks for the main problem first and appends only the
// pathway phases relevant to it.
type branchingPolicy struct{}

func (branchingPolicy) Name() string { return VariantBranching }

func (branchingPolicy) PhaseOrder() []Phase {
	return []Phase{PhaseTriage, PhasePresenting}
}

var branchPathways = map[string][]Phase{
	"breathing-problem":   {PhaseAirway, PhaseBreathing, PhaseExposure},
	"circulation-problem": {PhaseCirculation, PhaseDisability, PhaseExposure},
	"neuro-problem":       {PhaseDisability, PhaseCirculation, PhaseExposure},
	"unclear":             {PhaseAirway, PhaseBreathing, PhaseCirculation, PhaseDisability, PhaseExposure},
}

func (branchingPolicy) BranchOn(questionID string, ans Answer) ([]Phase, bool) {
	if questionID != QMainProblem {
		return nil, false
	}
	phases, ok := branchPathways[ans.Option]
	if !ok {
		// Unrecognized main problem: fall back to the full pathway rather
		// than dead-ending the exam.
		return branchPathways["unclear"], true
	}
	return phases, true
}
