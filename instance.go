package machina

import (
	"sort"

	"go.uber.org/zap"
)

// lifecycle tracks where an instance is in its own little state machine:
// New until Execute, Active while events may be posted, InAction for the
// duration of a single callback, then Done or Error terminally.
type lifecycle int

const (
	lifecycleNew lifecycle = iota
	lifecycleActive
	lifecycleInAction
	lifecycleDone
	lifecycleError
)

func (l lifecycle) String() string {
	switch l {
	case lifecycleNew:
		return "new"
	case lifecycleActive:
		return "active"
	case lifecycleInAction:
		return "in-action"
	case lifecycleDone:
		return "done"
	case lifecycleError:
		return "error"
	default:
		return "unknown"
	}
}

// Instance is one independent execution of a chart. It holds a read-only
// reference to the shared chart, its own active configuration (the set of
// currently active leaf state ids), its own mutable context, and the
// per-instance history memory. Instances are not safe for concurrent use;
// one Execute or Post call runs every callback it triggers to completion
// before returning.
type Instance struct {
	id      StateID
	chart   *Chart
	parents map[StateID]StateID
	active  map[StateID]struct{}
	history map[StateID][]StateID
	context *Context
	state   lifecycle
	depth   int
	logger  *zap.Logger
}

// maxEntryDepth bounds the entry recursion. Validation cannot tell whether
// completion transitions will keep firing at runtime, so a chart whose
// completion transitions form a cycle is caught here instead of overflowing
// the stack.
const maxEntryDepth = 256

// InstanceOption configures an Instance at creation time.
type InstanceOption func(*Instance)

// WithLogger attaches a logger for engine-level debug output. The default
// logger discards everything.
func WithLogger(logger *zap.Logger) InstanceOption {
	return func(in *Instance) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithInstanceID overrides the generated instance id. An id that fails
// StateID validation is ignored and the generated one is kept.
func WithInstanceID(id StateID) InstanceOption {
	return func(in *Instance) {
		if id.IsValid() {
			in.id = id
		}
	}
}

// NewInstance creates a runtime instance of the chart with the given initial
// context (nil for an empty one). The chart is validated first; a chart that
// fails validation is never promoted to an instance. From this point on the
// chart must not be mutated.
func NewInstance(chart *Chart, ctx *Context, opts ...InstanceOption) (*Instance, error) {
	if err := Validate(chart); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = NewContext()
	}
	id, err := RandomIDWithPrefix("instance")
	if err != nil {
		return nil, err
	}
	in := &Instance{
		id:      id,
		chart:   chart,
		parents: chart.parentIndex(),
		active:  make(map[StateID]struct{}),
		history: make(map[StateID][]StateID),
		context: ctx,
		state:   lifecycleNew,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.logger.Debug("instance created",
		zap.String("instance", in.id.String()),
		zap.String("chart", chart.Label()))
	return in, nil
}

// ID returns the instance identifier.
func (in *Instance) ID() StateID {
	return in.id
}

// Chart returns the shared chart this instance executes.
func (in *Instance) Chart() *Chart {
	return in.chart
}

// Context returns the instance's mutable context payload.
func (in *Instance) Context() *Context {
	return in.context
}

// IsActive reports whether the instance has executed and not yet finished.
func (in *Instance) IsActive() bool {
	return in.state == lifecycleActive
}

// IsDone reports whether the instance completed normally.
func (in *Instance) IsDone() bool {
	return in.state == lifecycleDone
}

// IsInError reports whether a callback panic forced the instance into the
// terminal error state.
func (in *Instance) IsInError() bool {
	return in.state == lifecycleError
}

// ActiveStates returns a sorted snapshot of the active configuration.
func (in *Instance) ActiveStates() []StateID {
	return in.sortedActive()
}

// Accepts returns the sorted set of events any currently active state could
// handle.
func (in *Instance) Accepts() []string {
	seen := make(map[string]struct{})
	for id := range in.active {
		st := in.chart.GetState(id)
		if st == nil {
			continue
		}
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

// Execute starts the instance: it runs the chart's init actions, performs
// the entry sequence from the chart's initial state, and recomputes
// completion. Valid only once, from the new state.
func (in *Instance) Execute() error {
	switch in.state {
	case lifecycleDone:
		return NewInstanceError(ErrCodeInstanceIsDone, "Execute")
	case lifecycleError:
		return NewInstanceError(ErrCodeInstanceInError, "Execute")
	case lifecycleInAction:
		return NewInstanceError(ErrCodeEventDuringAction, "Execute")
	case lifecycleActive:
		return NewInstanceError(ErrCodeInstanceIsActive, "Execute")
	}

	initial := in.chart.GetState(in.chart.InitialStateID())
	in.logger.Debug("executing instance",
		zap.String("instance", in.id.String()),
		zap.String("initial", initial.ID().String()))

	if err := in.runActions(initial.ID(), PhaseInit, in.chart.InitActions()); err != nil {
		return err
	}
	leaves, err := in.enterState(initial)
	if err != nil {
		return err
	}
	in.active = make(map[StateID]struct{}, len(leaves))
	for _, leaf := range leaves {
		in.active[leaf] = struct{}{}
	}
	return in.checkDone()
}

// Post processes one event against the active configuration. Every active
// state is evaluated; conflict detection happens before any state is exited,
// so a conflict error leaves the configuration exactly as it was. An event
// no active state responds to is a no-op.
func (in *Instance) Post(event string) error {
	switch in.state {
	case lifecycleDone:
		return NewInstanceError(ErrCodeInstanceIsDone, "Post")
	case lifecycleError:
		return NewInstanceError(ErrCodeInstanceInError, "Post")
	case lifecycleInAction:
		return NewInstanceError(ErrCodeEventDuringAction, "Post")
	case lifecycleNew:
		return NewInstanceError(ErrCodeInstanceIsNotActive, "Post")
	}
	if event == "" {
		return nil
	}
	in.logger.Debug("posting event",
		zap.String("instance", in.id.String()),
		zap.String("event", event))

	type firing struct {
		source      *State
		transition  *Transition
		sawExternal bool
	}
	var firings []firing
	for _, id := range in.sortedActive() {
		st := in.chart.GetState(id)
		if st == nil || !st.HasTransitions() {
			continue
		}
		var matching []*Transition
		sawExternal := false
		for _, t := range st.Transitions() {
			if t.Event() != event {
				continue
			}
			matching = append(matching, t)
			if !t.IsInternal() {
				sawExternal = true
			}
		}
		var enabled []*Transition
		for _, t := range matching {
			ok, err := in.evalGuards(id, event, t)
			if err != nil {
				return err
			}
			if ok {
				enabled = append(enabled, t)
			}
		}
		switch {
		case len(enabled) == 0:
			// state unchanged
		case len(enabled) == 1:
			firings = append(firings, firing{st, enabled[0], sawExternal})
		default:
			return NewConflictError(id, event, len(enabled))
		}
	}
	if len(firings) == 0 {
		return nil
	}

	newActive := make(map[StateID]struct{}, len(in.active))
	for id := range in.active {
		newActive[id] = struct{}{}
	}
	for _, f := range firings {
		leaves, err := in.fireTransition(f.source, f.transition, event, f.sawExternal)
		if err != nil {
			return err
		}
		delete(newActive, f.source.ID())
		for _, leaf := range leaves {
			newActive[leaf] = struct{}{}
		}
	}
	in.active = newActive
	return in.checkDone()
}

// enterState applies the entry sequence to a state and returns the leaf ids
// it resolves to: entry actions, body actions, then recursion into a
// composite's initial child or all of an orthogonal's branches, and finally
// the state's own completion transitions. History pseudo-states redirect
// into the remembered configuration without actions of their own.
//
// Entry depth is bounded by maxEntryDepth. A cycle of completion
// transitions would otherwise recurse forever; hitting the bound seals the
// instance in the Error lifecycle and surfaces a CompletionCycleError.
func (in *Instance) enterState(st *State) ([]StateID, error) {
	if in.depth >= maxEntryDepth {
		in.state = lifecycleError
		err := NewCompletionCycleError(st.ID(), in.depth)
		in.logger.Error("entry did not settle",
			zap.String("instance", in.id.String()),
			zap.String("state", st.ID().String()),
			zap.Int("depth", in.depth))
		return nil, err
	}
	in.depth++
	defer func() { in.depth-- }()

	if st.Kind() == History {
		var leaves []StateID
		for _, id := range in.resolveHistory(st) {
			target := in.chart.GetState(id)
			if target == nil {
				continue
			}
			sub, err := in.enterState(target)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, sub...)
		}
		return leaves, nil
	}

	in.logger.Debug("entering state",
		zap.String("instance", in.id.String()),
		zap.String("state", st.ID().String()),
		zap.String("kind", st.Kind().String()))

	if err := in.runActions(st.ID(), PhaseEntry, st.EntryActions()); err != nil {
		return nil, err
	}
	if err := in.runActions(st.ID(), PhaseRun, st.BodyActions()); err != nil {
		return nil, err
	}

	switch st.Kind() {
	case Composite:
		return in.enterState(in.chart.GetState(st.InitialChild()))
	case Orthogonal:
		var leaves []StateID
		for _, cid := range st.Children() {
			child := in.chart.GetState(cid)
			if child == nil || child.Kind() == History {
				continue
			}
			sub, err := in.enterState(child)
			if err != nil {
				return nil, err
			}
			leaves = append(leaves, sub...)
		}
		return leaves, nil
	}
	return in.resolveCompletion(st)
}

// resolveCompletion evaluates a freshly entered state's completion
// transitions (those with no event). With none enabled the state itself is
// the leaf; with one the transition fires immediately; with more than one
// the resolution is a conflict.
func (in *Instance) resolveCompletion(st *State) ([]StateID, error) {
	if !st.HasTransitions() {
		return []StateID{st.ID()}, nil
	}
	var matching []*Transition
	sawExternal := false
	for _, t := range st.Transitions() {
		if t.HasEvent() {
			continue
		}
		matching = append(matching, t)
		if !t.IsInternal() {
			sawExternal = true
		}
	}
	var enabled []*Transition
	for _, t := range matching {
		ok, err := in.evalGuards(st.ID(), "", t)
		if err != nil {
			return nil, err
		}
		if ok {
			enabled = append(enabled, t)
		}
	}
	switch {
	case len(enabled) == 0:
		return []StateID{st.ID()}, nil
	case len(enabled) == 1:
		return in.fireTransition(st, enabled[0], "", sawExternal)
	default:
		return nil, NewConflictError(st.ID(), "", len(enabled))
	}
}

// fireTransition runs one confirmed winner out of its source state and
// returns the leaves the source is replaced by. An internal transition runs
// only its own actions and keeps the source active.
func (in *Instance) fireTransition(st *State, t *Transition, event string, sawExternal bool) ([]StateID, error) {
	external := !t.IsInternal()
	in.logger.Debug("firing transition",
		zap.String("instance", in.id.String()),
		zap.String("source", st.ID().String()),
		zap.String("target", t.Target().String()),
		zap.String("event", event),
		zap.Bool("internal", !external))

	if external || sawExternal {
		if err := in.runActions(st.ID(), PhaseExit, st.ExitActions()); err != nil {
			return nil, err
		}
	}
	if external {
		in.recordHistory(st.ID())
	}
	if err := in.runActions(st.ID(), PhaseTransition, t.Actions()); err != nil {
		return nil, err
	}
	if !external {
		return []StateID{st.ID()}, nil
	}
	return in.enterState(in.chart.GetState(t.Target()))
}

// checkDone recomputes completion: a non-empty active configuration made up
// entirely of final states runs the chart's done actions and seals the
// instance.
func (in *Instance) checkDone() error {
	if len(in.active) == 0 {
		in.state = lifecycleActive
		return nil
	}
	for id := range in.active {
		st := in.chart.GetState(id)
		if st == nil || st.Kind() != Final {
			in.state = lifecycleActive
			return nil
		}
	}
	if err := in.runActions(InvalidID(), PhaseDone, in.chart.DoneActions()); err != nil {
		return err
	}
	in.state = lifecycleDone
	in.logger.Debug("instance completed", zap.String("instance", in.id.String()))
	return nil
}

// runActions invokes one ordered action list. The instance sits in the
// transient in-action lifecycle for the duration so reentrant Execute and
// Post calls are rejected, and a panicking action is contained: the
// instance moves to the terminal error state and the panic value is
// surfaced as an *ActionPanicError.
func (in *Instance) runActions(id StateID, phase Phase, actions []Action) (err error) {
	if len(actions) == 0 {
		return nil
	}
	prev := in.state
	in.state = lifecycleInAction
	defer func() {
		if r := recover(); r != nil {
			in.state = lifecycleError
			err = NewActionPanicError(id, phase, r)
			in.logger.Error("action panicked",
				zap.String("instance", in.id.String()),
				zap.String("state", id.String()),
				zap.String("phase", phase.String()),
				zap.Any("recovered", r))
			return
		}
		in.state = prev
	}()
	for _, action := range actions {
		action(id, phase, in.context)
	}
	return nil
}

// evalGuards evaluates a transition's guard conjunction with the same
// reentrancy and panic containment rules as actions.
func (in *Instance) evalGuards(id StateID, event string, t *Transition) (enabled bool, err error) {
	if !t.IsConditional() {
		return true, nil
	}
	prev := in.state
	in.state = lifecycleInAction
	defer func() {
		if r := recover(); r != nil {
			in.state = lifecycleError
			enabled = false
			err = NewActionPanicError(id, PhaseTransition, r)
			in.logger.Error("guard panicked",
				zap.String("instance", in.id.String()),
				zap.String("state", id.String()),
				zap.String("event", event),
				zap.Any("recovered", r))
			return
		}
		in.state = prev
	}()
	for _, g := range t.Guards() {
		if !g(id, event, in.context) {
			return false, nil
		}
	}
	return true, nil
}

// recordHistory walks the exiting leaf's ancestor chain and, for every
// ancestor owning a history child, stores the configuration that history
// state should restore: the full leaf for deep history, the ancestor's
// immediate child on the leaf's branch for shallow.
func (in *Instance) recordHistory(leaf StateID) {
	owner, ok := in.parents[leaf]
	for ok {
		ownerState := in.chart.GetState(owner)
		if ownerState == nil {
			return
		}
		for _, cid := range ownerState.Children() {
			child := in.chart.GetState(cid)
			if child == nil || child.Kind() != History {
				continue
			}
			value := in.branchUnder(owner, leaf)
			if child.IsDeep() {
				value = leaf
			}
			in.storeHistory(child.ID(), owner, value)
		}
		owner, ok = in.parents[owner]
	}
}

// branchUnder returns the immediate child of owner on the path down to id.
func (in *Instance) branchUnder(owner, id StateID) StateID {
	for {
		parent, ok := in.parents[id]
		if !ok {
			return id
		}
		if parent == owner {
			return id
		}
		id = parent
	}
}

// storeHistory records what the history state should restore. A composite
// owner keeps a single remembered entry; an orthogonal owner keeps one per
// region, replacing the entry on the same branch.
func (in *Instance) storeHistory(historyID, owner, value StateID) {
	ownerState := in.chart.GetState(owner)
	if ownerState == nil {
		return
	}
	if ownerState.Kind() != Orthogonal {
		in.history[historyID] = []StateID{value}
		return
	}
	branch := in.branchUnder(owner, value)
	entries := in.history[historyID]
	for i, e := range entries {
		if in.branchUnder(owner, e) == branch {
			entries[i] = value
			return
		}
	}
	in.history[historyID] = append(entries, value)
}

// resolveHistory picks what a history pseudo-state restores: its memory if
// any, its declared defaults otherwise, and as a last resort the owning
// composite's nominated initial child.
func (in *Instance) resolveHistory(h *State) []StateID {
	if mem := in.history[h.ID()]; len(mem) > 0 {
		return mem
	}
	if defaults := h.HistoryDefaults(); len(defaults) > 0 {
		return defaults
	}
	if owner, ok := in.parents[h.ID()]; ok {
		if ownerState := in.chart.GetState(owner); ownerState != nil && ownerState.InitialChild().IsValid() {
			return []StateID{ownerState.InitialChild()}
		}
	}
	return nil
}

func (in *Instance) sortedActive() []StateID {
	ids := make([]StateID, 0, len(in.active))
	for id := range in.active {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
