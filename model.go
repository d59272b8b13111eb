package machina

import "sort"

// Chart is the statechart model: a flat, id-keyed table of states, the
// chart-wide initial pointer, and the machine-level init and done action
// lists. A Chart is assembled once (directly or through a ChartBuilder),
// validated once, and from the moment the first Instance is created from it
// must be treated as frozen and shared read-only.
type Chart struct {
	label   string
	states  map[StateID]*State
	initial StateID
	onInit  []Action
	onDone  []Action
}

// NewChart creates a new empty chart.
func NewChart(label string) *Chart {
	return &Chart{
		label:   label,
		states:  make(map[StateID]*State),
		initial: InvalidID(),
	}
}

// Label returns the chart label.
func (c *Chart) Label() string {
	return c.label
}

// InitialStateID returns the chart-wide initial pointer.
func (c *Chart) InitialStateID() StateID {
	return c.initial
}

// SetInitial points the chart at its initial state.
func (c *Chart) SetInitial(id StateID) {
	c.initial = id
}

// HasState reports whether a state with the given id exists.
func (c *Chart) HasState(id StateID) bool {
	_, exists := c.states[id]
	return exists
}

// GetState returns the state with the given id, nil if absent.
func (c *Chart) GetState(id StateID) *State {
	return c.states[id]
}

// AddState adds a state to the chart, replacing any state with the same id.
func (c *Chart) AddState(st *State) {
	c.states[st.ID()] = st
}

// Len returns the number of states in the chart.
func (c *Chart) Len() int {
	return len(c.states)
}

// StateIDs returns the sorted ids of all states.
func (c *Chart) StateIDs() []StateID {
	ids := make([]StateID, 0, len(c.states))
	for id := range c.states {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Accepts returns the sorted union of every state's accepted events.
func (c *Chart) Accepts() []string {
	seen := make(map[string]struct{})
	for _, st := range c.states {
		for _, e := range st.Accepts() {
			seen[e] = struct{}{}
		}
	}
	events := make([]string, 0, len(seen))
	for e := range seen {
		events = append(events, e)
	}
	sort.Strings(events)
	return events
}

// HasInitActions reports whether the chart has machine-level init actions.
func (c *Chart) HasInitActions() bool {
	return len(c.onInit) > 0
}

// InitActions returns the ordered machine-level init action list.
func (c *Chart) InitActions() []Action {
	return c.onInit
}

// OnInit appends machine-level init actions, run once when an instance
// first executes.
func (c *Chart) OnInit(actions ...Action) {
	c.onInit = append(c.onInit, actions...)
}

// HasDoneActions reports whether the chart has machine-level done actions.
func (c *Chart) HasDoneActions() bool {
	return len(c.onDone) > 0
}

// DoneActions returns the ordered machine-level done action list.
func (c *Chart) DoneActions() []Action {
	return c.onDone
}

// OnDone appends machine-level done actions, run once when an instance
// completes.
func (c *Chart) OnDone(actions ...Action) {
	c.onDone = append(c.onDone, actions...)
}

// parentIndex derives the child-to-parent lookup from the kind-specific
// child lists. The representation itself stays forward-only; the index is
// built on demand rather than stored in the state records.
func (c *Chart) parentIndex() map[StateID]StateID {
	parents := make(map[StateID]StateID)
	for id, st := range c.states {
		for _, child := range st.Children() {
			parents[child] = id
		}
	}
	return parents
}

// rootStates returns the sorted ids of states that belong to no composite or
// orthogonal parent.
func (c *Chart) rootStates() []StateID {
	parents := c.parentIndex()
	roots := make([]StateID, 0, len(c.states))
	for id := range c.states {
		if _, nested := parents[id]; !nested {
			roots = append(roots, id)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots
}
