package machina

// Validate checks a chart for structural well-formedness and returns the
// first defect found as a *ValidationError, or nil. It is a pure pass over
// the model and safe to call repeatedly; NewInstance calls it before any
// instance is built. States are visited in id order so the reported defect
// is deterministic.
func Validate(chart *Chart) error {
	if chart.Len() == 0 {
		return NewValidationError(ErrCodeChartStatesEmpty, "chart has no states")
	}

	initial := chart.GetState(chart.InitialStateID())
	if initial == nil {
		return NewValidationError(ErrCodeChartInvalidInitialName,
			"initial state is not defined in the chart")
	}
	if initial.Kind() != Initial {
		return NewStateValidationError(ErrCodeChartInvalidInitialKind, initial.ID(),
			"initial state must have kind Initial")
	}

	hasFinal := false
	for _, id := range chart.StateIDs() {
		st := chart.GetState(id)
		if st.Kind() == Final {
			hasFinal = true
		}
		if err := validateState(chart, st); err != nil {
			return err
		}
	}
	if !hasFinal {
		return NewValidationError(ErrCodeChartNoFinalState, "chart has no final state")
	}
	return nil
}

func validateState(chart *Chart, st *State) error {
	switch st.Kind() {
	case Composite:
		if !st.HasChildren() {
			return NewStateValidationError(ErrCodeStateChildrenEmpty, st.ID(),
				"composite state has no child states")
		}
		if err := validateInitialChild(chart, st); err != nil {
			return err
		}
	case Orthogonal:
		if !st.HasChildren() {
			return NewStateValidationError(ErrCodeStateChildrenEmpty, st.ID(),
				"orthogonal state has no child states")
		}
	case Final:
		if st.HasTransitions() {
			return NewStateValidationError(ErrCodeFinalStateTransitions, st.ID(),
				"final state must not have outgoing transitions")
		}
	}
	for _, t := range st.Transitions() {
		if err := validateTransition(chart, st, t); err != nil {
			return err
		}
	}
	return nil
}

func validateInitialChild(chart *Chart, st *State) error {
	initial := st.InitialChild()
	if !initial.IsValid() {
		return NewStateValidationError(ErrCodeStateInvalidInitialChild, st.ID(),
			"composite state has no initial child")
	}
	owned := false
	for _, child := range st.Children() {
		if child == initial {
			owned = true
			break
		}
	}
	childState := chart.GetState(initial)
	if !owned || childState == nil {
		return NewStateValidationError(ErrCodeStateInvalidInitialChild, st.ID(),
			"initial child "+initial.String()+" is not a child of the composite state")
	}
	if childState.Kind() != Initial {
		return NewStateValidationError(ErrCodeStateInvalidInitialChild, st.ID(),
			"initial child "+initial.String()+" must have kind Initial")
	}
	return nil
}

func validateTransition(chart *Chart, st *State, t *Transition) error {
	if !t.HasEvent() && !t.HasTarget() && !t.IsConditional() {
		return NewStateValidationError(ErrCodeTransitionEmpty, st.ID(),
			"transition carries no event, target, or guard")
	}
	if t.HasTarget() && !chart.HasState(t.Target()) {
		return NewStateValidationError(ErrCodeTransitionInvalidTarget, st.ID(),
			"transition target "+t.Target().String()+" is not defined in the chart")
	}
	return nil
}
