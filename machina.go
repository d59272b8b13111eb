// Package machina models and executes hierarchical state machines
// (statecharts) following the UML State Machine formalism. A caller builds a
// Chart describing states and guarded, action-bearing transitions, validates
// it for structural well-formedness, then drives any number of independent
// Instance values against a stream of posted events. Each Instance owns its
// own active configuration and a mutable Context payload; the Chart itself is
// shared read-only between instances.
package machina

// Phase identifies the point in the execution lifecycle at which an action
// callback is invoked.
type Phase int

const (
	// PhaseInit marks actions run once when an instance first executes.
	PhaseInit Phase = iota
	// PhaseDone marks actions run once when an instance completes.
	PhaseDone
	// PhaseEntry marks a state's entry actions.
	PhaseEntry
	// PhaseRun marks a state's body (do-activity) actions.
	PhaseRun
	// PhaseExit marks a state's exit actions.
	PhaseExit
	// PhaseTransition marks a transition's own actions.
	PhaseTransition
)

// String returns the lower-case name of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseDone:
		return "done"
	case PhaseEntry:
		return "entry"
	case PhaseRun:
		return "run"
	case PhaseExit:
		return "exit"
	case PhaseTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// Guard is a predicate gating whether a transition is enabled. It receives
// the id of the state being evaluated, the event being processed (empty for
// the implicit completion pass) and the instance context. Guards must be free
// of observable side effects; all guards of a transition must return true for
// the transition to be enabled.
type Guard func(in StateID, event string, ctx *Context) bool

// Action is a callback run during instance execution. It receives the id of
// the state it runs for, the Phase marking why it runs, and the instance
// context, which it may mutate.
type Action func(in StateID, phase Phase, ctx *Context)
