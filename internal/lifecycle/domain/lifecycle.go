package domain

// Lifecycle is an immutable view of one configured lifecycle. The global
// lifecycle has the empty name and aggregates every lifecycle's statuses.
type Lifecycle struct {
	name            string
	typ             string
	statuses        StatusSet
	canonical       map[string]string
	defaultInitial  string
	defaultInactive string
	defaults        map[string]string
	transitions     TransitionGraph
	rights          RightTable
	actions         ActionTable
}

func newLifecycle(name string, def Definition) *Lifecycle {
	def = def.WithDefaults()
	typ := def.Type
	if typ == "" {
		typ = DefaultType
	}
	l := &Lifecycle{
		name:            name,
		typ:             typ,
		statuses:        NewStatusSet(def.Initial, def.Active, def.Inactive),
		defaultInitial:  def.DefaultInitial,
		defaultInactive: def.DefaultInactive,
		defaults:        copyStringMap(def.Defaults),
		transitions:     NewTransitionGraph(def.Transitions),
		rights:          NewRightTable(def.Rights),
		actions:         NewActionTable(def.Actions),
	}
	l.indexCase()
	return l
}

func (l *Lifecycle) indexCase() {
	l.canonical = make(map[string]string, len(l.statuses.all))
	for _, s := range l.statuses.all {
		l.canonical[FoldStatus(s)] = s
	}
}

// Name returns the lifecycle name; "" for the global lifecycle.
func (l *Lifecycle) Name() string { return l.name }

// Type returns the lifecycle type.
func (l *Lifecycle) Type() string { return l.typ }

// IsGlobal reports whether this is the synthetic union lifecycle.
func (l *Lifecycle) IsGlobal() bool { return l.name == "" }

// Valid returns every status with no arguments, otherwise the requested
// classes concatenated in the order given.
func (l *Lifecycle) Valid(classes ...string) []string {
	return l.statuses.Valid(classes...)
}

// IsValid is a case-insensitive membership test against Valid(classes...).
func (l *Lifecycle) IsValid(status string, classes ...string) bool {
	return l.statuses.Contains(status, classes...)
}

// StatusType returns "initial", "active", "inactive" or "".
func (l *Lifecycle) StatusType(status string) string {
	return l.statuses.Type(status)
}

func (l *Lifecycle) Initial() []string  { return l.Valid(ClassInitial) }
func (l *Lifecycle) Active() []string   { return l.Valid(ClassActive) }
func (l *Lifecycle) Inactive() []string { return l.Valid(ClassInactive) }

func (l *Lifecycle) IsInitial(status string) bool  { return l.IsValid(status, ClassInitial) }
func (l *Lifecycle) IsActive(status string) bool   { return l.IsValid(status, ClassActive) }
func (l *Lifecycle) IsInactive(status string) bool { return l.IsValid(status, ClassInactive) }

// CanonicalCase returns the configured spelling of a status, or the input
// when the status is unknown.
func (l *Lifecycle) CanonicalCase(status string) string {
	if s, ok := l.canonical[FoldStatus(status)]; ok {
		return s
	}
	return status
}

func (l *Lifecycle) DefaultInitial() string  { return l.defaultInitial }
func (l *Lifecycle) DefaultInactive() string { return l.defaultInactive }

// DefaultStatus returns the status configured for a named situation.
// on_create falls back to the default initial status.
func (l *Lifecycle) DefaultStatus(situation string) string {
	if s := l.defaults[situation]; s != "" {
		return s
	}
	if situation == DefaultOnCreate {
		return l.defaultInitial
	}
	return ""
}

// Defaults returns a copy of the named defaults.
func (l *Lifecycle) Defaults() map[string]string {
	return copyStringMap(l.defaults)
}

// Transitions returns the legal next statuses for a status.
func (l *Lifecycle) Transitions(from string) []string {
	return l.transitions.From(from)
}

// AllTransitions returns the full transition mapping.
func (l *Lifecycle) AllTransitions() map[string][]string {
	return l.transitions.All()
}

// IsTransition reports whether to is a legal next status of from. Empty
// statuses are never a transition.
func (l *Lifecycle) IsTransition(from, to string) bool {
	return l.transitions.Allows(from, to)
}

// CreateStatuses returns the statuses a new item may start in: the
// transitions listed under "", or the initial statuses when none are.
func (l *Lifecycle) CreateStatuses() []string {
	if to, ok := l.transitions.CreateStatuses(); ok {
		return to
	}
	return l.Initial()
}

// CheckRight returns the right required to move from one status to another.
func (l *Lifecycle) CheckRight(from, to string) string {
	return l.rights.Resolve(from, to)
}

// Rights returns the normalized right rules.
func (l *Lifecycle) Rights() map[string]string {
	return l.rights.Rules()
}

// Actions returns the actions offered from a status.
func (l *Lifecycle) Actions(from string) Actions {
	return l.actions.From(from)
}

// AllActions returns every configured action.
func (l *Lifecycle) AllActions() Actions {
	return l.actions.Entries()
}
