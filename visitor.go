package machina

// Visitor receives a validated chart's structure through a read-only
// enter/exit traversal. Implementations typically embed BaseVisitor and
// override only the callbacks they need.
type Visitor interface {
	EnterChart(chart *Chart)
	ExitChart(chart *Chart)
	// EnterState is called before a state's transitions and children;
	// depth is 0 for root states and grows with nesting.
	EnterState(st *State, depth int)
	ExitState(st *State, depth int)
	VisitTransition(source *State, t *Transition)
}

// BaseVisitor is a Visitor that does nothing; embed it to implement only a
// subset of the callbacks.
type BaseVisitor struct{}

func (BaseVisitor) EnterChart(*Chart) {}

func (BaseVisitor) ExitChart(*Chart) {}

func (BaseVisitor) EnterState(*State, int) {}

func (BaseVisitor) ExitState(*State, int) {}

func (BaseVisitor) VisitTransition(*State, *Transition) {}

// Walk validates the chart and drives the visitor over it: root states in id
// order, children in declaration order, each state's transitions visited
// between its enter and its children. The chart is never mutated.
func Walk(chart *Chart, v Visitor) error {
	if err := Validate(chart); err != nil {
		return err
	}
	v.EnterChart(chart)
	for _, id := range chart.rootStates() {
		walkState(chart, chart.GetState(id), 0, v)
	}
	v.ExitChart(chart)
	return nil
}

func walkState(chart *Chart, st *State, depth int, v Visitor) {
	if st == nil {
		return
	}
	v.EnterState(st, depth)
	for _, t := range st.Transitions() {
		v.VisitTransition(st, t)
	}
	for _, cid := range st.Children() {
		walkState(chart, chart.GetState(cid), depth+1, v)
	}
	v.ExitState(st, depth)
}
