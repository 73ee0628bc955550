package flow

import "errors"

// Navigation errors.
var (
	ErrBackDisabled = errors.New("back navigation is disabled on safety-critical questions")
	ErrNotStarted   = errors.New("assessment has not started")
)

// Navigator flattens the policy's phase order into a single question
// sequence and tracks the current position. Moving back never retracts
// findings, interventions, or safety flags; it only moves the pointer.
type Navigator struct {
	graph    *Graph
	policy   Policy
	sequence []string
	cursor   int // -1 before Start, len(sequence) when complete
	// backFloor is the first index back navigation may land on: the triage
	// questions must not be skipped or revisited out of order.
	backFloor int
	// progressFloor is the highest progress reported so far. Branching
	// variants grow the sequence mid-traversal, which shrinks cursor/total;
	// reported progress must not fall while only moving forward.
	progressFloor float64
}

// NewNavigator builds a navigator for the graph under the given policy.
func NewNavigator(g *Graph, p Policy) *Navigator {
	n := &Navigator{graph: g, policy: p, cursor: -1}
	for _, phase := range p.PhaseOrder() {
		n.appendPhase(phase)
	}
	n.backFloor = 0
	for i, id := range n.sequence {
		if q, ok := g.Question(id); ok && q.Phase != PhaseTriage {
			n.backFloor = i
			break
		}
	}
	return n
}

func (n *Navigator) appendPhase(p Phase) {
	n.sequence = append(n.sequence, n.graph.PhaseQuestions(p)...)
}

// Started reports whether the first question has been shown.
func (n *Navigator) Started() bool { return n.cursor >= 0 }

// Complete reports whether the sequence is exhausted.
func (n *Navigator) Complete() bool {
	return n.cursor >= len(n.sequence)
}

// Current returns the question under the pointer, or nil before start and
// after completion.
func (n *Navigator) Current() *Question {
	if n.cursor < 0 || n.cursor >= len(n.sequence) {
		return nil
	}
	q, _ := n.graph.Question(n.sequence[n.cursor])
	return q
}

// Start moves to the first question and returns it.
func (n *Navigator) Start() *Question {
	n.cursor = 0
	return n.Current()
}

// Next advances the pointer and returns the new current question, or nil
// when the assessment is complete. Advancing is unconditional: it does not
// depend on whether the previous answer produced an action.
func (n *Navigator) Next() *Question {
	if n.cursor < 0 {
		return n.Start()
	}
	if n.cursor < len(n.sequence) {
		n.cursor++
	}
	return n.Current()
}

// Previous moves the pointer back one question. It fails on the triage
// questions and refuses to re-enter them once passed.
func (n *Navigator) Previous() (*Question, error) {
	if n.cursor < 0 {
		return nil, ErrNotStarted
	}
	if n.cursor <= n.backFloor {
		return nil, ErrBackDisabled
	}
	n.cursor--
	n.progressFloor = n.rawProgress()
	return n.Current(), nil
}

// PhaseOf resolves the phase of a question id.
func (n *Navigator) PhaseOf(id string) (Phase, bool) {
	q, ok := n.graph.Question(id)
	if !ok {
		return "", false
	}
	return q.Phase, true
}

// Progress returns position / total in [0, 1]. It never decreases while
// moving forward, even when a branch grows the sequence; Previous and
// JumpTo reset the floor to the new position.
func (n *Navigator) Progress() float64 {
	if raw := n.rawProgress(); raw > n.progressFloor {
		n.progressFloor = raw
	}
	return n.progressFloor
}

func (n *Navigator) rawProgress() float64 {
	if len(n.sequence) == 0 || n.cursor < 0 {
		return 0
	}
	return float64(n.cursor) / float64(len(n.sequence))
}

// Total returns the current sequence length.
func (n *Navigator) Total() int { return len(n.sequence) }

// ObserveAnswer lets the policy branch the remaining sequence based on an
// answer. Branch phases are appended once, after the current position.
func (n *Navigator) ObserveAnswer(questionID string, ans Answer) bool {
	phases, ok := n.policy.BranchOn(questionID, ans)
	if !ok {
		return false
	}
	for _, p := range phases {
		if !n.containsPhase(p) {
			n.appendPhase(p)
		}
	}
	return true
}

func (n *Navigator) containsPhase(p Phase) bool {
	for _, id := range n.sequence {
		if q, ok := n.graph.Question(id); ok && q.Phase == p {
			return true
		}
	}
	return false
}

// JumpTo moves the pointer to the question with the given id so the flow
// resumes mid-sequence. If the question's phase is not in the sequence yet
// (a branching variant before its branch), the phase is appended first.
func (n *Navigator) JumpTo(id string) bool {
	q, ok := n.graph.Question(id)
	if !ok {
		return false
	}
	if !n.containsPhase(q.Phase) {
		n.appendPhase(q.Phase)
	}
	for i, qid := range n.sequence {
		if qid == id {
			n.cursor = i
			n.progressFloor = n.rawProgress()
			return true
		}
	}
	return false
}
