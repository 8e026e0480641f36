package tool

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kaptinlin/jsonschema"

	"github.com/hupe1980/agentrun/core"
)

// Func is the signature of a FunctionTool implementation. It receives a
// ToolContext plus already-validated arguments and returns a JSON-serializable
// result. Implementations may block; the engine awaits completion before
// folding the output back into the conversation.
type Func func(toolCtx *core.ToolContext, args map[string]any) (any, error)

// FunctionToolOptions configures a FunctionTool instance.
//
// Use functional options with New to override defaults.
type FunctionToolOptions struct {
	// ErrorBehavior selects the failure policy. Defaults to ErrorReturnMessage.
	ErrorBehavior ErrorBehavior

	// ErrorHandler, when set, renders a failed invocation into the string fed
	// back to the model. Only consulted with ErrorReturnMessage. Defaults to a
	// generic "tool <name> failed: <error>" rendering.
	ErrorHandler func(toolCtx *core.ToolContext, err error) string

	// Enabled gates per-run availability. A nil predicate means always enabled.
	Enabled func(runCtx *core.RunContext) bool
}

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// The parameter schema is compiled once at construction using a real JSON
// Schema validator; every model-supplied argument payload is validated against
// it before the wrapped function runs. A FunctionTool has no internal mutable
// state after construction and is safe for concurrent use by multiple
// goroutines.
type FunctionTool struct {
	name        string
	description string
	parameters  json.RawMessage
	compiled    *jsonschema.Schema
	fn          Func

	errorBehavior ErrorBehavior
	errorHandler  func(toolCtx *core.ToolContext, err error) string
	enabled       func(runCtx *core.RunContext) bool
}

// New constructs a FunctionTool from an explicit JSON Schema and function.
// An invalid schema is a caller mistake and yields a *core.UserError.
//
// Example:
//
//	sumTool, err := tool.New(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  json.RawMessage(`{
//	    "type": "object",
//	    "properties": {
//	      "a": {"type": "number"},
//	      "b": {"type": "number"}
//	    },
//	    "required": ["a", "b"]
//	  }`),
//	  func(tc *core.ToolContext, args map[string]any) (any, error) {
//	    return args["a"].(float64) + args["b"].(float64), nil
//	  },
//	)
func New(name, description string, parameters json.RawMessage, fn Func, optFns ...func(o *FunctionToolOptions)) (*FunctionTool, error) {
	if name == "" {
		return nil, core.NewUserError("tool name must not be empty")
	}
	if fn == nil {
		return nil, core.NewUserError("tool %q has no function", name)
	}
	if len(parameters) == 0 {
		parameters = json.RawMessage(`{"type":"object","properties":{}}`)
	}

	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile(parameters)
	if err != nil {
		return nil, core.NewUserError("tool %q has an invalid parameter schema: %v", name, err)
	}

	opts := FunctionToolOptions{
		ErrorBehavior: ErrorReturnMessage,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &FunctionTool{
		name:          name,
		description:   description,
		parameters:    parameters,
		compiled:      compiled,
		fn:            fn,
		errorBehavior: opts.ErrorBehavior,
		errorHandler:  opts.ErrorHandler,
		enabled:       opts.Enabled,
	}, nil
}

// MustNew is like New but panics on a schema or configuration error.
// Intended for package-level tool variables and examples.
func MustNew(name, description string, parameters json.RawMessage, fn Func, optFns ...func(o *FunctionToolOptions)) *FunctionTool {
	t, err := New(name, description, parameters, fn, optFns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the unique tool name used in function call declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON Schema describing expected arguments.
func (t *FunctionTool) Parameters() json.RawMessage { return t.parameters }

// ErrorBehavior returns the configured failure policy.
func (t *FunctionTool) ErrorBehavior() ErrorBehavior { return t.errorBehavior }

// IsEnabled reports tool availability for the given run.
func (t *FunctionTool) IsEnabled(runCtx *core.RunContext) bool {
	if t.enabled == nil {
		return true
	}
	return t.enabled(runCtx)
}

// RenderError produces the in-conversation error string for a failed
// invocation, honoring a custom ErrorHandler when configured.
func (t *FunctionTool) RenderError(toolCtx *core.ToolContext, err error) string {
	if t.errorHandler != nil {
		return t.errorHandler(toolCtx, err)
	}
	return fmt.Sprintf("tool %s failed: %v", t.name, err)
}

// Call validates the provided args against the declared schema then invokes
// the underlying function. Validation or execution failures are wrapped (or
// passed through) as *Error for uniform downstream handling.
//
// Error semantics:
//
//	*Error (returned directly) -> forwarded unchanged
//	validation failure         -> *Error{Code: CodeValidation}
//	other error                -> *Error{Code: CodeExecution}
func (t *FunctionTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	logger := toolCtx.Logger()
	start := time.Now()

	logger.Debug("tool.call.start", "tool", t.name, "call_id", toolCtx.CallID())

	if args == nil {
		args = map[string]any{}
	}

	if result := t.compiled.Validate(args); !result.IsValid() {
		logger.Warn("tool.call.validation_failed", "tool", t.name, "call_id", toolCtx.CallID())

		return nil, &Error{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %s", result.Error()),
			Code:    CodeValidation,
		}
	}

	result, err := t.fn(toolCtx, args)
	if err != nil {
		if toolErr, ok := err.(*Error); ok { // Already a tool Error -> just log and forward
			logger.Error("tool.call.error", "tool", t.name, "error", toolErr.Message)

			return nil, toolErr
		}

		logger.Error("tool.call.error", "tool", t.name, "error", err.Error())

		return nil, &Error{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
		}
	}

	logger.Info("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
