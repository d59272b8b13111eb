package machina

import "sort"

// StateKind classifies a state within a chart. The kind decides how the
// execution engine enters the state and which structural invariants the
// validator enforces for it.
type StateKind int

const (
	// Atomic is a leaf state with no children.
	Atomic StateKind = iota
	// Composite is a state with exactly one region of children; entering it
	// enters its nominated initial child.
	Composite
	// Orthogonal is a state whose children are all entered simultaneously,
	// each child branch independently active.
	Orthogonal
	// History is a pseudo-state that restores the last-active descendant(s)
	// of its owning composite or orthogonal state when targeted.
	History
	// Initial is the pseudo-entry marker targeted by the chart's or a
	// composite's initial pointer.
	Initial
	// Final is a terminal marker; final states have no outgoing transitions.
	Final
)

// String returns the lower-case name of the kind.
func (k StateKind) String() string {
	switch k {
	case Atomic:
		return "atomic"
	case Composite:
		return "composite"
	case Orthogonal:
		return "orthogonal"
	case History:
		return "history"
	case Initial:
		return "initial"
	case Final:
		return "final"
	default:
		return "unknown"
	}
}

// State is one vertex of a chart: an id, an optional label, a kind with its
// kind-specific structure, the state's outgoing transitions, and its ordered
// entry, body and exit action lists. State identity is the id alone.
type State struct {
	id           StateID
	label        string
	kind         StateKind
	children     []StateID // Composite, Orthogonal
	initialChild StateID   // Composite
	deep         bool      // History
	defaults     []StateID // History fallback when no memory exists
	transitions  []*Transition
	onEntry      []Action
	onRun        []Action
	onExit       []Action
}

// NewState creates a new atomic state.
func NewState(id StateID) *State {
	return &State{
		id:           id,
		kind:         Atomic,
		initialChild: InvalidID(),
	}
}

// NewInitialState creates a new initial pseudo-state.
func NewInitialState(id StateID) *State {
	st := NewState(id)
	st.kind = Initial
	return st
}

// NewFinalState creates a new final state.
func NewFinalState(id StateID) *State {
	st := NewState(id)
	st.kind = Final
	return st
}

// NewCompositeState creates a new composite state with the given nominated
// initial child and child list. The children themselves are separate states
// added to the chart; the composite holds their ids only.
func NewCompositeState(id StateID, initialChild StateID, children ...StateID) *State {
	st := NewState(id)
	st.kind = Composite
	st.initialChild = initialChild
	st.children = append(st.children, children...)
	return st
}

// NewOrthogonalState creates a new orthogonal state with the given child
// branches.
func NewOrthogonalState(id StateID, children ...StateID) *State {
	st := NewState(id)
	st.kind = Orthogonal
	st.children = append(st.children, children...)
	return st
}

// NewHistoryState creates a new history pseudo-state. With deep set it
// remembers the full leaf configuration of its owner, otherwise only the
// owner's immediate child. The defaults are entered when the history has no
// memory yet.
func NewHistoryState(id StateID, deep bool, defaults ...StateID) *State {
	st := NewState(id)
	st.kind = History
	st.deep = deep
	st.defaults = append(st.defaults, defaults...)
	return st
}

// ID returns the state identifier.
func (s *State) ID() StateID {
	return s.id
}

// Label returns the diagnostic label, empty if unset.
func (s *State) Label() string {
	return s.label
}

// Kind returns the state kind.
func (s *State) Kind() StateKind {
	return s.kind
}

// HasChildren reports whether the state has a non-empty child list.
func (s *State) HasChildren() bool {
	return len(s.children) > 0
}

// Children returns the child state ids in declaration order. Only composite
// and orthogonal states have children.
func (s *State) Children() []StateID {
	return s.children
}

// InitialChild returns the nominated initial child of a composite state, or
// the invalid id for any other kind.
func (s *State) InitialChild() StateID {
	if s.kind != Composite {
		return InvalidID()
	}
	return s.initialChild
}

// IsDeep reports whether a history state records the full leaf configuration
// of its owner rather than the owner's immediate child.
func (s *State) IsDeep() bool {
	return s.deep
}

// HistoryDefaults returns the states a history pseudo-state enters when it
// has no memory.
func (s *State) HistoryDefaults() []StateID {
	return s.defaults
}

// HasTransitions reports whether the state has outgoing transitions.
func (s *State) HasTransitions() bool {
	return len(s.transitions) > 0
}

// Transitions returns the outgoing transitions in declaration order.
func (s *State) Transitions() []*Transition {
	return s.transitions
}

// AddTransition appends an outgoing transition.
func (s *State) AddTransition(t *Transition) {
	s.transitions = append(s.transitions, t)
}

// Accepts returns the sorted set of events this state's transitions respond
// to. Completion transitions carry no event and do not contribute.
func (s *State) Accepts() []string {
	seen := make(map[string]struct{})
	for _, t := range s.transitions {
		if t.HasEvent() {
			seen[t.Event()] = struct{}{}
		}
	}
	events := make([]string, 0, len(seen))
	for e := range seen {
		events = append(events, e)
	}
	sort.Strings(events)
	return events
}

// HasEntryActions reports whether the state has entry actions.
func (s *State) HasEntryActions() bool {
	return len(s.onEntry) > 0
}

// EntryActions returns the ordered entry action list.
func (s *State) EntryActions() []Action {
	return s.onEntry
}

// HasBodyActions reports whether the state has body (do-activity) actions.
func (s *State) HasBodyActions() bool {
	return len(s.onRun) > 0
}

// BodyActions returns the ordered body action list.
func (s *State) BodyActions() []Action {
	return s.onRun
}

// HasExitActions reports whether the state has exit actions.
func (s *State) HasExitActions() bool {
	return len(s.onExit) > 0
}

// ExitActions returns the ordered exit action list.
func (s *State) ExitActions() []Action {
	return s.onExit
}

// WithLabel sets the diagnostic label.
func (s *State) WithLabel(label string) *State {
	s.label = label
	return s
}

// WithEntryAction appends entry actions.
func (s *State) WithEntryAction(actions ...Action) *State {
	s.onEntry = append(s.onEntry, actions...)
	return s
}

// WithBodyAction appends body actions.
func (s *State) WithBodyAction(actions ...Action) *State {
	s.onRun = append(s.onRun, actions...)
	return s
}

// WithExitAction appends exit actions.
func (s *State) WithExitAction(actions ...Action) *State {
	s.onExit = append(s.onExit, actions...)
	return s
}
