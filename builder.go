package machina

// ChartBuilder assembles a Chart through a fluent interface. State and
// transition declarations chain off each other; Build returns the finished
// chart after validating it. Id strings are checked as they are declared and
// the first malformed id or structural defect is reported by Build.
//
///	chart, err := NewBuilder("turnstile").
//		Initial("init").To("locked").
//		State("locked").To("unlocked").On("coin").
//		State("unlocked").To("locked").On("push").
//		Final("out").
//		Build()
type ChartBuilder struct {
	chart *Chart
	err   error
}

// NewBuilder creates a builder for a chart with the given label.
func NewBuilder(label string) *ChartBuilder {
	return &ChartBuilder{chart: NewChart(label)}
}

func (b *ChartBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *ChartBuilder) id(s string) StateID {
	id, err := ParseID(s)
	if err != nil {
		b.fail(err)
		return InvalidID()
	}
	return id
}

func (b *ChartBuilder) ids(ss []string) []StateID {
	ids := make([]StateID, 0, len(ss))
	for _, s := range ss {
		ids = append(ids, b.id(s))
	}
	return ids
}

func (b *ChartBuilder) add(st *State) *StateBuilder {
	b.chart.AddState(st)
	return &StateBuilder{chart: b, state: st}
}

// Initial declares an initial pseudo-state. The first one declared becomes
// the chart's starting point; later ones act as composite entry points only.
func (b *ChartBuilder) Initial(id string) *StateBuilder {
	st := NewInitialState(b.id(id))
	if !b.chart.InitialStateID().IsValid() {
		b.chart.SetInitial(st.ID())
	}
	return b.add(st)
}

// State declares an atomic state.
func (b *ChartBuilder) State(id string) *StateBuilder {
	return b.add(NewState(b.id(id)))
}

// Final declares a final state.
func (b *ChartBuilder) Final(id string) *StateBuilder {
	return b.add(NewFinalState(b.id(id)))
}

// Composite declares a composite state over previously or subsequently
// declared children, entered through the nominated initial child.
func (b *ChartBuilder) Composite(id, initialChild string, children ...string) *StateBuilder {
	return b.add(NewCompositeState(b.id(id), b.id(initialChild), b.ids(children)...))
}

// Orthogonal declares an orthogonal state whose children are all entered
// simultaneously.
func (b *ChartBuilder) Orthogonal(id string, children ...string) *StateBuilder {
	return b.add(NewOrthogonalState(b.id(id), b.ids(children)...))
}

// History declares a shallow history pseudo-state with optional defaults.
func (b *ChartBuilder) History(id string, defaults ...string) *StateBuilder {
	return b.add(NewHistoryState(b.id(id), false, b.ids(defaults)...))
}

// DeepHistory declares a deep history pseudo-state with optional defaults.
func (b *ChartBuilder) DeepHistory(id string, defaults ...string) *StateBuilder {
	return b.add(NewHistoryState(b.id(id), true, b.ids(defaults)...))
}

// OnInit appends machine-level init actions.
func (b *ChartBuilder) OnInit(actions ...Action) *ChartBuilder {
	b.chart.OnInit(actions...)
	return b
}

// OnDone appends machine-level done actions.
func (b *ChartBuilder) OnDone(actions ...Action) *ChartBuilder {
	b.chart.OnDone(actions...)
	return b
}

// Build validates the assembled chart and returns it, or the first defect
// recorded during construction or validation.
func (b *ChartBuilder) Build() (*Chart, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := Validate(b.chart); err != nil {
		return nil, err
	}
	return b.chart, nil
}

// StateBuilder configures one declared state and chains back into the chart
// builder for the next declaration.
type StateBuilder struct {
	chart *ChartBuilder
	state *State
}

// Label sets the state's diagnostic label.
func (sb *StateBuilder) Label(label string) *StateBuilder {
	sb.state.WithLabel(label)
	return sb
}

// OnEntry appends entry actions.
func (sb *StateBuilder) OnEntry(actions ...Action) *StateBuilder {
	sb.state.WithEntryAction(actions...)
	return sb
}

// OnRun appends body (do-activity) actions.
func (sb *StateBuilder) OnRun(actions ...Action) *StateBuilder {
	sb.state.WithBodyAction(actions...)
	return sb
}

// OnExit appends exit actions.
func (sb *StateBuilder) OnExit(actions ...Action) *StateBuilder {
	sb.state.WithExitAction(actions...)
	return sb
}

// To declares an outgoing transition to the target state.
func (sb *StateBuilder) To(target string) *TransitionBuilder {
	t := NewTransition().To(sb.chart.id(target))
	sb.state.AddTransition(t)
	return &TransitionBuilder{chart: sb.chart, source: sb, transition: t}
}

// ToSelf declares an internal self-transition.
func (sb *StateBuilder) ToSelf() *TransitionBuilder {
	t := NewTransition().Internal()
	sb.state.AddTransition(t)
	return &TransitionBuilder{chart: sb.chart, source: sb, transition: t}
}

// Initial chains into the chart builder.
func (sb *StateBuilder) Initial(id string) *StateBuilder { return sb.chart.Initial(id) }

// State chains into the chart builder.
func (sb *StateBuilder) State(id string) *StateBuilder { return sb.chart.State(id) }

// Final chains into the chart builder.
func (sb *StateBuilder) Final(id string) *StateBuilder { return sb.chart.Final(id) }

// Composite chains into the chart builder.
func (sb *StateBuilder) Composite(id, initialChild string, children ...string) *StateBuilder {
	return sb.chart.Composite(id, initialChild, children...)
}

// Orthogonal chains into the chart builder.
func (sb *StateBuilder) Orthogonal(id string, children ...string) *StateBuilder {
	return sb.chart.Orthogonal(id, children...)
}

// History chains into the chart builder.
func (sb *StateBuilder) History(id string, defaults ...string) *StateBuilder {
	return sb.chart.History(id, defaults...)
}

// DeepHistory chains into the chart builder.
func (sb *StateBuilder) DeepHistory(id string, defaults ...string) *StateBuilder {
	return sb.chart.DeepHistory(id, defaults...)
}

// Build chains into the chart builder.
func (sb *StateBuilder) Build() (*Chart, error) { return sb.chart.Build() }

// TransitionBuilder configures one declared transition and chains back into
// its source state or the chart builder.
type TransitionBuilder struct {
	chart      *ChartBuilder
	source     *StateBuilder
	transition *Transition
}

// On sets the triggering event. A transition without an event is a
// completion transition, evaluated when its source state is entered.
func (tb *TransitionBuilder) On(event string) *TransitionBuilder {
	tb.transition.OnEvent(event)
	return tb
}

// Label sets the transition's diagnostic label.
func (tb *TransitionBuilder) Label(label string) *TransitionBuilder {
	tb.transition.WithLabel(label)
	return tb
}

// When appends guards to the transition's conjunction.
func (tb *TransitionBuilder) When(guards ...Guard) *TransitionBuilder {
	tb.transition.When(guards...)
	return tb
}

// Do appends transition actions.
func (tb *TransitionBuilder) Do(actions ...Action) *TransitionBuilder {
	tb.transition.Do(actions...)
	return tb
}

// Internal marks the transition as internal; it will not cross its source's
// exit and entry boundary.
func (tb *TransitionBuilder) Internal() *TransitionBuilder {
	tb.transition.Internal()
	return tb
}

// To declares another transition from the same source state.
func (tb *TransitionBuilder) To(target string) *TransitionBuilder {
	return tb.source.To(target)
}

// ToSelf declares another, internal transition from the same source state.
func (tb *TransitionBuilder) ToSelf() *TransitionBuilder {
	return tb.source.ToSelf()
}

// Initial chains into the chart builder.
func (tb *TransitionBuilder) Initial(id string) *StateBuilder { return tb.chart.Initial(id) }

// State chains into the chart builder.
func (tb *TransitionBuilder) State(id string) *StateBuilder { return tb.chart.State(id) }

// Final chains into the chart builder.
func (tb *TransitionBuilder) Final(id string) *StateBuilder { return tb.chart.Final(id) }

// Composite chains into the chart builder.
func (tb *TransitionBuilder) Composite(id, initialChild string, children ...string) *StateBuilder {
	return tb.chart.Composite(id, initialChild, children...)
}

// Orthogonal chains into the chart builder.
func (tb *TransitionBuilder) Orthogonal(id string, children ...string) *StateBuilder {
	return tb.chart.Orthogonal(id, children...)
}

// History chains into the chart builder.
func (tb *TransitionBuilder) History(id string, defaults ...string) *StateBuilder {
	return tb.chart.History(id, defaults...)
}

// DeepHistory chains into the chart builder.
func (tb *TransitionBuilder) DeepHistory(id string, defaults ...string) *StateBuilder {
	return tb.chart.DeepHistory(id, defaults...)
}

// Build chains into the chart builder.
func (tb *TransitionBuilder) Build() (*Chart, error) { return tb.chart.Build() }
