package flow

import (
	"fmt"

	"github.com/acutepeds/assessment/internal/domain/intervention"
	"github.com/acutepeds/assessment/internal/domain/module"
	"github.com/acutepeds/assessment/internal/domain/patient"
)

// Graph is an ordered map from phase to its question ids, plus the question
// definitions themselves. It is static configuration, built once.
type Graph struct {
	phaseOrder []Phase
	byPhase    map[Phase][]string
	questions  map[string]*Question
}

// NewGraph builds a graph from questions, preserving their order of
// appearance within each phase.
func NewGraph(questions []*Question) *Graph {
	g := &Graph{
		byPhase:   make(map[Phase][]string),
		questions: make(map[string]*Question),
	}
	for _, q := range questions {
		if _, seen := g.byPhase[q.Phase]; !seen {
			g.phaseOrder = append(g.phaseOrder, q.Phase)
		}
		g.byPhase[q.Phase] = append(g.byPhase[q.Phase], q.ID)
		g.questions[q.ID] = q
	}
	return g
}

// Question returns the question with the given id.
func (g *Graph) Question(id string) (*Question, bool) {
	q, ok := g.questions[id]
	return q, ok
}

// PhaseQuestions returns the ordered question ids of a phase.
func (g *Graph) PhaseQuestions(p Phase) []string {
	return g.byPhase[p]
}

// Phases returns every phase in order of first appearance.
func (g *Graph) Phases() []Phase {
	return g.phaseOrder
}

// Len returns the number of questions in the graph.
func (g *Graph) Len() int {
	return len(g.questions)
}

// Validate checks the graph's static integrity: ids unique (enforced by
// construction), prompts present, kinds and option severities known,
// numeric bounds sane, and every trigger's template and module references
// resolvable. Triggers are probed with representative answers.
func (g *Graph) Validate() error {
	validKinds := map[Kind]bool{KindBool: true, KindSingle: true, KindMulti: true, KindNumeric: true}
	validSeverities := map[Severity]bool{SeverityNormal: true, SeverityAbnormal: true, SeverityCritical: true}

	for id, q := range g.questions {
		if q.Prompt == "" {
			return fmt.Errorf("question %s: empty prompt", id)
		}
		if !validKinds[q.Kind] {
			return fmt.Errorf("question %s: unknown kind %q", id, q.Kind)
		}
		if q.Kind == KindNumeric && q.Min >= q.Max {
			return fmt.Errorf("question %s: numeric bounds %v-%v are not sane", id, q.Min, q.Max)
		}
		if (q.Kind == KindSingle || q.Kind == KindMulti) && len(q.Options) == 0 {
			return fmt.Errorf("question %s: select question without options", id)
		}
		for _, o := range q.Options {
			if !validSeverities[o.Severity] {
				return fmt.Errorf("question %s: option %q has unknown severity %q", id, o.Value, o.Severity)
			}
		}
		if q.Trigger == nil {
			continue
		}
		for _, ans := range probeAnswers(q) {
			cand := q.Trigger(ans, patient.Context{AgeYears: 1}, 10)
			if cand == nil {
				continue
			}
			if cand.Template != "" {
				if _, ok := intervention.LookupTemplate(cand.Template); !ok {
					return fmt.Errorf("question %s: trigger references unknown template %q", id, cand.Template)
				}
			}
			if cand.Module != "" && !module.Known(cand.Module) {
				return fmt.Errorf("question %s: trigger references unknown module %q", id, cand.Module)
			}
		}
	}
	return nil
}

// probeAnswers builds one answer per reachable branch of a question so
// Validate can exercise its trigger.
func probeAnswers(q *Question) []Answer {
	switch q.Kind {
	case KindBool:
		tr, fa := true, false
		return []Answer{{Bool: &tr}, {Bool: &fa}}
	case KindNumeric:
		lo, hi := q.Min, q.Max
		return []Answer{{Number: &lo}, {Number: &hi}}
	case KindSingle:
		out := make([]Answer, 0, len(q.Options))
		for _, o := range q.Options {
			out = append(out, Answer{Option: o.Value})
		}
		return out
	case KindMulti:
		out := make([]Answer, 0, len(q.Options))
		for _, o := range q.Options {
			out = append(out, Answer{Options: []string{o.Value}})
		}
		return out
	}
	return nil
}
