// Package tool implements the function / tool calling subsystem that lets
// agents invoke structured capabilities (APIs, computations, side effects)
// with schema validated arguments and consistent error handling.
package tool

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/agentrun/core"
)

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tools can be registered with agents to enable function calling, allowing
// agents to perform actions beyond text generation such as API calls,
// calculations, database queries, or any other programmatic operations.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be thread-safe if used concurrently
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should be descriptive and follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This description is provided to the LLM to help it understand when and how to use the tool.
	Description() string

	// Parameters returns a JSON Schema object describing the expected input
	// format. The shape (type, properties, required) is passed to the model
	// byte-for-byte as the function declaration.
	Parameters() json.RawMessage

	// IsEnabled reports whether the tool may be presented to the model for the
	// given run. Disabled tools are omitted from the declarations sent to the
	// model; a call to one is treated like an unknown tool.
	IsEnabled(runCtx *core.RunContext) bool

	// Call executes the tool with structured arguments and ToolContext.
	// Arguments are parsed from JSON and validated against the tool's schema
	// before Call is invoked.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// ErrorBehavior selects how a tool invocation failure (validation or
// execution) is folded back into the run.
type ErrorBehavior int

const (
	// ErrorReturnMessage converts the failure into a human-readable string that
	// becomes the tool output, so the model can self-correct on the next turn.
	// This is the default.
	ErrorReturnMessage ErrorBehavior = iota

	// ErrorPropagate escalates the failure to the caller, terminating the run.
	ErrorPropagate
)

// Error represents a failure that occurred while invoking a tool.
type Error struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

// Error codes used by the built-in tool implementations.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewError creates a tool Error with the specified details.
func NewError(tool, message, code string) *Error {
	return &Error{Tool: tool, Message: message, Code: code}
}
