package core

import "fmt"

// The engine error taxonomy. Callers always receive one of these typed
// conditions (directly or wrapped with %w) rather than an anonymous error:
//
//   - *UserError:          the caller misconfigured an agent, tool or run;
//     detected before any model call and never retried.
//   - *MaxTurnsError:      the run loop exceeded its configured turn budget.
//   - *ModelBehaviorError: the model produced an invalid action (unknown tool
//     name, malformed strict structured output, unresolvable handoff target).
//
// Guardrail tripwire conditions live in the guardrail package; tool execution
// errors in the tool package.

// UserError reports a configuration mistake by the calling application.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return "user error: " + e.Message }

// NewUserError creates a UserError with a formatted message.
func NewUserError(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// MaxTurnsError reports exhaustion of the per-run turn budget. The run is
// cancelled at the next loop boundary, never mid model call.
type MaxTurnsError struct {
	MaxTurns int
}

func (e *MaxTurnsError) Error() string {
	return fmt.Sprintf("max turns exceeded: %d", e.MaxTurns)
}

// ModelBehaviorError reports an invalid action produced by the model, such as
// calling a tool that is not in the active agent's tool set or emitting
// structured output that fails strict validation.
type ModelBehaviorError struct {
	Reason string
}

func (e *ModelBehaviorError) Error() string { return "model behavior error: " + e.Reason }

// NewModelBehaviorError creates a ModelBehaviorError with a formatted reason.
func NewModelBehaviorError(format string, args ...any) *ModelBehaviorError {
	return &ModelBehaviorError{Reason: fmt.Sprintf(format, args...)}
}
