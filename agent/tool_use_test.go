package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrun/core"
)

var sampleResults = []ToolResult{
	{CallID: "c1", Name: "get_weather", Output: "sunny"},
	{CallID: "c2", Name: "save_report", Output: "saved"},
}

func TestRunLLMAgain(t *testing.T) {
	d, err := RunLLMAgain().Decide(newRunContext(), sampleResults)
	require.NoError(t, err)
	assert.False(t, d.IsFinal)
}

func TestStopOnFirstTool(t *testing.T) {
	d, err := StopOnFirstTool().Decide(newRunContext(), sampleResults)
	require.NoError(t, err)
	assert.True(t, d.IsFinal)
	assert.Equal(t, "sunny", d.FinalOutput)

	d, err = StopOnFirstTool().Decide(newRunContext(), nil)
	require.NoError(t, err)
	assert.False(t, d.IsFinal)
}

func TestStopAtTools(t *testing.T) {
	b := StopAtTools("save_report", "export_data")

	d, err := b.Decide(newRunContext(), sampleResults)
	require.NoError(t, err)
	assert.True(t, d.IsFinal)
	assert.Equal(t, "saved", d.FinalOutput)

	d, err = b.Decide(newRunContext(), sampleResults[:1])
	require.NoError(t, err)
	assert.False(t, d.IsFinal)
}

func TestCustomToolUse(t *testing.T) {
	b := CustomToolUse(func(_ *core.RunContext, results []ToolResult) (ToolUseDecision, error) {
		for _, r := range results {
			if s, ok := r.Output.(string); ok && s == "sunny" {
				return ToolUseDecision{IsFinal: true, FinalOutput: "forecast complete"}, nil
			}
		}
		return ToolUseDecision{}, nil
	})

	d, err := b.Decide(newRunContext(), sampleResults)
	require.NoError(t, err)
	assert.True(t, d.IsFinal)
	assert.Equal(t, "forecast complete", d.FinalOutput)
}
