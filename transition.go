package machina

// Transition is one guarded, action-bearing edge out of a state. A
// transition with no event is a completion transition, evaluated immediately
// when its source state is entered rather than in response to a posted
// event. A transition with no target is an internal self-loop. An internal
// transition never crosses its source's exit/entry boundary even when a
// target is set.
type Transition struct {
	label    string
	event    string  // empty = completion transition
	target   StateID // invalid = internal self-loop
	internal bool
	guards   []Guard
	actions  []Action
}

// NewTransition creates a new empty transition. A transition must be given
// at least one of an event, a target or a guard before validation.
func NewTransition() *Transition {
	return &Transition{target: InvalidID()}
}

// Label returns the diagnostic label, empty if unset.
func (t *Transition) Label() string {
	return t.label
}

// Event returns the triggering event, empty for a completion transition.
func (t *Transition) Event() string {
	return t.event
}

// HasEvent reports whether the transition is event-triggered rather than a
// completion transition.
func (t *Transition) HasEvent() bool {
	return t.event != ""
}

// Target returns the target state id.
func (t *Transition) Target() StateID {
	return t.target
}

// HasTarget reports whether the transition names a target state.
func (t *Transition) HasTarget() bool {
	return t.target.IsValid()
}

// IsInternal reports whether the transition stays inside its source state's
// boundary, skipping exit and entry actions.
func (t *Transition) IsInternal() bool {
	return t.internal || !t.HasTarget()
}

// IsConditional reports whether the transition carries guards.
func (t *Transition) IsConditional() bool {
	return len(t.guards) > 0
}

// Guards returns the guard conjunction; every guard must hold for the
// transition to be enabled.
func (t *Transition) Guards() []Guard {
	return t.guards
}

// HasActions reports whether the transition carries actions.
func (t *Transition) HasActions() bool {
	return len(t.actions) > 0
}

// Actions returns the ordered action list, run once the transition is the
// confirmed unique winner.
func (t *Transition) Actions() []Action {
	return t.actions
}

// WithLabel sets the diagnostic label.
func (t *Transition) WithLabel(label string) *Transition {
	t.label = label
	return t
}

// OnEvent sets the triggering event.
func (t *Transition) OnEvent(event string) *Transition {
	t.event = event
	return t
}

// To sets the target state id.
func (t *Transition) To(target StateID) *Transition {
	t.target = target
	return t
}

// Internal marks the transition as internal.
func (t *Transition) Internal() *Transition {
	t.internal = true
	return t
}

// When appends guards to the conjunction.
func (t *Transition) When(guards ...Guard) *Transition {
	t.guards = append(t.guards, guards...)
	return t
}

// Do appends actions.
func (t *Transition) Do(actions ...Action) *Transition {
	t.actions = append(t.actions, actions...)
	return t
}
