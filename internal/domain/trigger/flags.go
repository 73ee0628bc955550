// Package trigger evaluates question triggers against answers and applies
// the session's standing safety contraindications to the result.
package trigger

// Flag is a session-scoped safety flag. Flags are monotone: once set they
// persist for the remainder of the session and gate every later fluid
// derivation. The set exposes no clear operation.
type Flag string

const (
	FlagSVTSuspected      Flag = "svt-suspected"
	FlagHeartFailureSigns Flag = "heart-failure-signs"
)

// FlagSet is a small write-once-true set of safety flags.
type FlagSet struct {
	set map[Flag]struct{}
}

// NewFlagSet returns an empty flag set.
func NewFlagSet() *FlagSet {
	return &FlagSet{set: make(map[Flag]struct{})}
}

// Set raises a flag. Raising an already-set flag is a no-op; there is no
// way to lower one.
func (s *FlagSet) Set(f Flag) {
	s.set[f] = struct{}{}
}

// Has reports whether the flag is raised.
func (s *FlagSet) Has(f Flag) bool {
	_, ok := s.set[f]
	return ok
}

// Any reports whether any of the given flags is raised.
func (s *FlagSet) Any(flags ...Flag) bool {
	for _, f := range flags {
		if s.Has(f) {
			return true
		}
	}
	return false
}

// List returns the raised flags in a stable order.
func (s *FlagSet) List() []Flag {
	var out []Flag
	for _, f := range []Flag{FlagSVTSuspected, FlagHeartFailureSigns} {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}
