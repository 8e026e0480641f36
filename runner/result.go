package runner

import (
	"fmt"

	"github.com/hupe1980/agentrun/agent"
	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/guardrail"
	"github.com/hupe1980/agentrun/model"
)

// RunResult is the outcome of a completed run.
type RunResult struct {
	// Input is the normalized input history the run started from, including
	// any prior session items.
	Input []core.RunItem

	// NewItems are the items generated during this run, in generation order:
	// assistant messages, tool calls, tool outputs and handoff markers.
	NewItems []core.RunItem

	// FinalOutput is the terminal result: the model's final text, the decoded
	// structured output when an output schema is declared, or a tool's raw
	// return when a tool-use behavior terminated the run.
	FinalOutput any

	// LastAgent is the agent that produced the final output. After handoffs
	// this is the last transfer target, useful as the starting agent of a
	// follow-up run.
	LastAgent *agent.Agent

	// InputGuardrailResults holds the results of all input guardrails, in
	// evaluation order.
	InputGuardrailResults []guardrail.InputResult

	// OutputGuardrailResults holds the results of all output guardrails, in
	// evaluation order.
	OutputGuardrailResults []guardrail.OutputResult

	// Usage aggregates token usage across all model calls of the run.
	Usage model.TokenUsage
}

// FinalText returns the final output rendered as a string.
func (r *RunResult) FinalText() string {
	if s, ok := r.FinalOutput.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", r.FinalOutput)
}

// ToInputList projects the run into the input of a follow-up run: the original
// input followed by everything this run generated. Prior items pass through
// unmodified; calling it repeatedly yields equal slices.
func (r *RunResult) ToInputList() []core.RunItem {
	out := make([]core.RunItem, 0, len(r.Input)+len(r.NewItems))
	out = append(out, core.CloneItems(r.Input)...)
	out = append(out, core.CloneItems(r.NewItems)...)
	return out
}
