package derive

type scopeKind int

const (
	scopeNone scopeKind = iota
	scopeAll
	scopeIDs
)

// Scope selects which step elements a pass derives: every step, no step, or
// an explicit id set. The tagged form replaces the string sentinels older
// definitions used, so "ALL"/"NONE" can never collide with a real step id.
type Scope struct {
	kind scopeKind
	ids  map[string]struct{}
}

// ScopeAll derives every step.
func ScopeAll() Scope { return Scope{kind: scopeAll} }

// ScopeNone derives no step.
func ScopeNone() Scope { return Scope{kind: scopeNone} }

// ScopeSteps derives exactly the named steps. No ids behaves as ScopeNone.
func ScopeSteps(stepIDs ...string) Scope {
	if len(stepIDs) == 0 {
		return ScopeNone()
	}
	ids := make(map[string]struct{}, len(stepIDs))
	for _, id := range stepIDs {
		ids[id] = struct{}{}
	}
	return Scope{kind: scopeIDs, ids: ids}
}

// All reports whether every step is in scope.
func (s Scope) All() bool { return s.kind == scopeAll }

// None reports whether no step is in scope.
func (s Scope) None() bool { return s.kind == scopeNone }

// Contains reports whether the step id is in scope.
func (s Scope) Contains(stepID string) bool {
	switch s.kind {
	case scopeAll:
		return true
	case scopeIDs:
		_, ok := s.ids[stepID]
		return ok
	default:
		return false
	}
}

// ScopeConfig holds the per-pass scopes for one Derive call.
type ScopeConfig struct {
	Visibility Scope
	Errors     Scope
	Overrides  Scope
	Values     Scope
}

// FullValidation runs every pass over every step, the configuration used at
// submission time.
func FullValidation() ScopeConfig {
	return ScopeConfig{
		Visibility: ScopeAll(),
		Errors:     ScopeAll(),
		Overrides:  ScopeAll(),
		Values:     ScopeAll(),
	}
}

// StepRecomputation recomputes visibility, overrides, and values for the
// step the user is editing while leaving error derivation off, the
// configuration used on each interaction.
func StepRecomputation(stepID string) ScopeConfig {
	return ScopeConfig{
		Visibility: ScopeSteps(stepID),
		Errors:     ScopeNone(),
		Overrides:  ScopeSteps(stepID),
		Values:     ScopeSteps(stepID),
	}
}
