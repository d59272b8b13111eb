package machina

import "fmt"

// ErrorCode identifies a specific failure condition raised by validation or
// by an execution instance.
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota

	// Structural defects raised by Chart.Validate.

	// Chart has no states at all
	ErrCodeChartStatesEmpty
	// Chart initial pointer names a nonexistent state
	ErrCodeChartInvalidInitialName
	// Chart initial pointer names a state that is not of kind Initial
	ErrCodeChartInvalidInitialKind
	// Chart contains no state of kind Final
	ErrCodeChartNoFinalState
	// Composite or orthogonal state has an empty child list
	ErrCodeStateChildrenEmpty
	// Composite state's nominated initial child is missing or not Initial
	ErrCodeStateInvalidInitialChild
	// Final state has outgoing transitions
	ErrCodeFinalStateTransitions
	// Transition carries none of event, target or guard
	ErrCodeTransitionEmpty
	// Transition target names a nonexistent state
	ErrCodeTransitionInvalidTarget

	// Lifecycle misuse raised by an Instance; the instance is left in its
	// prior well-defined state.

	// Instance already reached Done
	ErrCodeInstanceIsDone
	// Execute called on an already active instance
	ErrCodeInstanceIsActive
	// Post called before Execute
	ErrCodeInstanceIsNotActive
	// Instance is in the terminal Error state
	ErrCodeInstanceInError
	// Execute or Post called reentrantly from inside a running callback
	ErrCodeEventDuringAction

	// Runtime resolution failures.

	// More than one transition enabled for a single source state
	ErrCodeTransitionConflict
	// An action or guard callback panicked; the instance is terminally Error
	ErrCodeActionPanicked
	// Completion transitions cycle; entry could not settle on a leaf
	// configuration and the instance is terminally Error
	ErrCodeCompletionCycle
)

// ValidationError reports a structural defect found in a Chart. A chart with
// any validation error may not be promoted to an Instance.
type ValidationError struct {
	Code    ErrorCode
	StateID StateID
	Message string
}

func (e *ValidationError) Error() string {
	if e.StateID.IsValid() {
		return fmt.Sprintf("chart validation failed [%s]: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("chart validation failed: %s", e.Message)
}

// NewValidationError creates a validation error for a chart-level defect.
func NewValidationError(code ErrorCode, message string) *ValidationError {
	return &ValidationError{
		Code:    code,
		StateID: InvalidID(),
		Message: message,
	}
}

// NewStateValidationError creates a validation error attributed to a state.
func NewStateValidationError(code ErrorCode, stateID StateID, message string) *ValidationError {
	return &ValidationError{
		Code:    code,
		StateID: stateID,
		Message: message,
	}
}

// InstanceError reports a caller-contract violation on an Instance. The
// instance remains usable afterwards.
type InstanceError struct {
	Code      ErrorCode
	Operation string
	Message   string
}

func (e *InstanceError) Error() string {
	return fmt.Sprintf("instance error during %s: %s", e.Operation, e.Message)
}

// NewInstanceError creates an instance lifecycle error.
func NewInstanceError(code ErrorCode, operation string) *InstanceError {
	var message string
	switch code {
	case ErrCodeInstanceIsDone:
		message = "instance is already in a done state"
	case ErrCodeInstanceIsActive:
		message = "instance is active, Execute may only be called once"
	case ErrCodeInstanceIsNotActive:
		message = "instance is not active, Execute must be called before Post"
	case ErrCodeInstanceInError:
		message = "instance is in the terminal error state"
	case ErrCodeEventDuringAction:
		message = "an event may not be posted while an action is running"
	default:
		message = "instance operation rejected"
	}
	return &InstanceError{
		Code:      code,
		Operation: operation,
		Message:   message,
	}
}

// ConflictError reports that more than one transition was enabled for a
// single source state while processing one event. The active configuration
// is unchanged.
type ConflictError struct {
	StateID StateID
	Event   string
	Enabled int
}

func (e *ConflictError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("transition conflict in state '%s': %d completion transitions enabled", e.StateID, e.Enabled)
	}
	return fmt.Sprintf("transition conflict in state '%s' on event '%s': %d transitions enabled", e.StateID, e.Event, e.Enabled)
}

// NewConflictError creates a transition conflict error.
func NewConflictError(stateID StateID, event string, enabled int) *ConflictError {
	return &ConflictError{
		StateID: stateID,
		Event:   event,
		Enabled: enabled,
	}
}

// ActionPanicError reports that a guard or action callback panicked. The
// instance that ran it is forced into the terminal Error state and refuses
// all further Execute and Post calls.
type ActionPanicError struct {
	StateID   StateID
	Phase     Phase
	Recovered any
}

func (e *ActionPanicError) Error() string {
	return fmt.Sprintf("action panicked in state '%s' during %s: %v", e.StateID, e.Phase, e.Recovered)
}

// NewActionPanicError creates an action panic error.
func NewActionPanicError(stateID StateID, phase Phase, recovered any) *ActionPanicError {
	return &ActionPanicError{
		StateID:   stateID,
		Phase:     phase,
		Recovered: recovered,
	}
}

// CompletionCycleError reports that an entry sequence did not settle: the
// chart's completion transitions keep re-entering states without resolving
// to a leaf configuration. The instance that hit it is forced into the
// terminal Error state and refuses all further Execute and Post calls.
type CompletionCycleError struct {
	StateID StateID
	Depth   int
}

func (e *CompletionCycleError) Error() string {
	return fmt.Sprintf("completion transitions cycle through state '%s': entry did not settle after %d nested entries", e.StateID, e.Depth)
}

// NewCompletionCycleError creates a completion cycle error.
func NewCompletionCycleError(stateID StateID, depth int) *CompletionCycleError {
	return &CompletionCycleError{
		StateID: stateID,
		Depth:   depth,
	}
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// IsInstanceError checks if an error is an InstanceError.
func IsInstanceError(err error) bool {
	_, ok := err.(*InstanceError)
	return ok
}

// IsConflictError checks if an error is a ConflictError.
func IsConflictError(err error) bool {
	_, ok := err.(*ConflictError)
	return ok
}

// IsActionPanicError checks if an error is an ActionPanicError.
func IsActionPanicError(err error) bool {
	_, ok := err.(*ActionPanicError)
	return ok
}

// IsCompletionCycleError checks if an error is a CompletionCycleError.
func IsCompletionCycleError(err error) bool {
	_, ok := err.(*CompletionCycleError)
	return ok
}

// CodeOf returns the error code for known error types, ErrCodeNone otherwise.
func CodeOf(err error) ErrorCode {
	switch e := err.(type) {
	case *ValidationError:
		return e.Code
	case *InstanceError:
		return e.Code
	case *ConflictError:
		return ErrCodeTransitionConflict
	case *ActionPanicError:
		return ErrCodeActionPanicked
	case *CompletionCycleError:
		return ErrCodeCompletionCycle
	default:
		return ErrCodeNone
	}
}
