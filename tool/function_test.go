package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrun/core"
)

var sumParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"a": {"type": "number"},
		"b": {"type": "number"}
	},
	"required": ["a", "b"]
}`)

func newToolContext() *core.ToolContext {
	rc := core.NewRunContext(context.Background(), core.NewID(), nil, nil)
	return core.NewToolContext(rc, "fc1")
}

func TestFunctionTool_Success(t *testing.T) {
	sumTool, err := New("sum", "Add numbers", sumParams, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return args["a"].(float64) + args["b"].(float64), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "sum", sumTool.Name())
	assert.Equal(t, "Add numbers", sumTool.Description())

	result, err := sumTool.Call(newToolContext(), map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	called := false
	sumTool := MustNew("sum", "Add numbers", sumParams, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		called = true
		return nil, nil
	})

	// Missing required field.
	_, err := sumTool.Call(newToolContext(), map[string]any{"a": 2.0})
	require.Error(t, err)
	assert.False(t, called, "function must not run on invalid args")

	var toolErr *Error
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Equal(t, "sum", toolErr.Tool)

	// Wrong type.
	_, err = sumTool.Call(newToolContext(), map[string]any{"a": "two", "b": 3.0})
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	failing := MustNew("boom", "Always fails", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, errors.New("backend unavailable")
	})

	_, err := failing.Call(newToolContext(), nil)
	require.Error(t, err)

	var toolErr *Error
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Contains(t, toolErr.Message, "backend unavailable")
}

func TestFunctionTool_ForwardsToolError(t *testing.T) {
	custom := NewError("lookup", "rate limited", "RATE_LIMITED")
	failing := MustNew("lookup", "Rate limited", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return nil, custom
	})

	_, err := failing.Call(newToolContext(), nil)
	var toolErr *Error
	require.True(t, errors.As(err, &toolErr))
	assert.Same(t, custom, toolErr)
}

func TestNew_InvalidConfig(t *testing.T) {
	var userErr *core.UserError

	_, err := New("", "no name", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) { return nil, nil })
	require.True(t, errors.As(err, &userErr))

	_, err = New("nofn", "no function", nil, nil)
	require.True(t, errors.As(err, &userErr))

	_, err = New("badschema", "broken schema", json.RawMessage(`{"type": 42}`), func(_ *core.ToolContext, _ map[string]any) (any, error) { return nil, nil })
	require.True(t, errors.As(err, &userErr))
}

func TestFunctionTool_EnabledPredicate(t *testing.T) {
	type flags struct{ allowSearch bool }

	searchTool := MustNew("search", "Search the web", nil,
		func(_ *core.ToolContext, _ map[string]any) (any, error) { return "results", nil },
		func(o *FunctionToolOptions) {
			o.Enabled = func(rc *core.RunContext) bool {
				f, ok := rc.Value.(*flags)
				return ok && f.allowSearch
			}
		},
	)

	on := core.NewRunContext(context.Background(), "r1", &flags{allowSearch: true}, nil)
	off := core.NewRunContext(context.Background(), "r2", &flags{allowSearch: false}, nil)

	assert.True(t, searchTool.IsEnabled(on))
	assert.False(t, searchTool.IsEnabled(off))
}

func TestFunctionTool_RenderError(t *testing.T) {
	plain := MustNew("plain", "", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) { return nil, nil })
	msg := plain.RenderError(newToolContext(), errors.New("nope"))
	assert.Contains(t, msg, "plain")
	assert.Contains(t, msg, "nope")

	custom := MustNew("custom", "", nil,
		func(_ *core.ToolContext, _ map[string]any) (any, error) { return nil, nil },
		func(o *FunctionToolOptions) {
			o.ErrorHandler = func(_ *core.ToolContext, err error) string { return "please retry with a city name" }
		},
	)
	assert.Equal(t, "please retry with a city name", custom.RenderError(newToolContext(), errors.New("x")))
}
