// Package guardrail implements input and output validation functions that can
// veto a run. Input guardrails inspect the initial input before the first
// model call; output guardrails inspect the terminal candidate output before
// it is returned to the caller. A guardrail whose result sets
// TripwireTriggered aborts the run with a typed tripwire error.
package guardrail

import (
	"fmt"

	"github.com/hupe1980/agentrun/core"
)

// Result is the info payload plus tripwire flag returned by every guardrail.
type Result struct {
	// OutputInfo carries arbitrary diagnostic data for caller inspection.
	OutputInfo any

	// TripwireTriggered aborts the run when true.
	TripwireTriggered bool
}

// InputFunc validates the initial run input. The payload is the normalized
// input history; agentName identifies the starting agent.
type InputFunc func(runCtx *core.RunContext, agentName string, input []core.RunItem) (Result, error)

// OutputFunc validates the terminal candidate output. The payload is the final
// output value (string, or the decoded structured output).
type OutputFunc func(runCtx *core.RunContext, agentName string, output any) (Result, error)

// InputGuardrail is a named input validation function.
type InputGuardrail struct {
	Name string
	Fn   InputFunc
}

// OutputGuardrail is a named output validation function.
type OutputGuardrail struct {
	Name string
	Fn   OutputFunc
}

// NewInput wraps fn as a named InputGuardrail.
func NewInput(name string, fn InputFunc) InputGuardrail {
	return InputGuardrail{Name: name, Fn: fn}
}

// NewOutput wraps fn as a named OutputGuardrail.
func NewOutput(name string, fn OutputFunc) OutputGuardrail {
	return OutputGuardrail{Name: name, Fn: fn}
}

// InputResult pairs a guardrail name with its evaluation result.
type InputResult struct {
	Guardrail string
	Result    Result
}

// OutputResult pairs a guardrail name with its evaluation result.
type OutputResult struct {
	Guardrail string
	Result    Result
}

// InputTripwireError reports that an input guardrail vetoed the run.
// The terminal output is never produced in this case.
type InputTripwireError struct {
	Guardrail string
	Result    Result
}

func (e *InputTripwireError) Error() string {
	return fmt.Sprintf("input guardrail %q tripwire triggered", e.Guardrail)
}

// OutputTripwireError reports that an output guardrail vetoed the run.
// The candidate output is carried on the Result for caller inspection but is
// not returned as a run result.
type OutputTripwireError struct {
	Guardrail string
	Result    Result
}

func (e *OutputTripwireError) Error() string {
	return fmt.Sprintf("output guardrail %q tripwire triggered", e.Guardrail)
}
