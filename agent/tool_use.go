package agent

import "github.com/hupe1980/agentrun/core"

// ToolResult captures one resolved tool call of a turn, in the order the
// model requested the calls.
type ToolResult struct {
	CallID string
	Name   string
	Output any
}

// ToolUseDecision is the outcome of applying a ToolUseBehavior to a turn's
// tool results.
type ToolUseDecision struct {
	// IsFinal terminates the run immediately with FinalOutput, skipping
	// further model calls.
	IsFinal bool

	// FinalOutput is the terminal result when IsFinal is set.
	FinalOutput any
}

// ToolUseBehavior decides what happens after the tool calls of one model
// response have resolved. The built-in behaviors form a closed set:
// RunLLMAgain, StopOnFirstTool, StopAtTools and CustomToolUse.
type ToolUseBehavior interface {
	Decide(runCtx *core.RunContext, results []ToolResult) (ToolUseDecision, error)
}

type runLLMAgainBehavior struct{}

// RunLLMAgain is the default behavior: tool outputs are folded back into
// history and the model is called again.
func RunLLMAgain() ToolUseBehavior { return runLLMAgainBehavior{} }

// Decide implements ToolUseBehavior.
func (runLLMAgainBehavior) Decide(*core.RunContext, []ToolResult) (ToolUseDecision, error) {
	return ToolUseDecision{}, nil
}

type stopOnFirstToolBehavior struct{}

// StopOnFirstTool makes the first tool's raw output the terminal result,
// skipping any further model calls.
func StopOnFirstTool() ToolUseBehavior { return stopOnFirstToolBehavior{} }

// Decide implements ToolUseBehavior.
func (stopOnFirstToolBehavior) Decide(_ *core.RunContext, results []ToolResult) (ToolUseDecision, error) {
	if len(results) == 0 {
		return ToolUseDecision{}, nil
	}
	return ToolUseDecision{IsFinal: true, FinalOutput: results[0].Output}, nil
}

type stopAtToolsBehavior struct {
	names map[string]struct{}
}

// StopAtTools continues the default loop until any tool in the named set is
// called, then terminates with that tool's output.
func StopAtTools(names ...string) ToolUseBehavior {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return stopAtToolsBehavior{names: set}
}

// Decide implements ToolUseBehavior.
func (b stopAtToolsBehavior) Decide(_ *core.RunContext, results []ToolResult) (ToolUseDecision, error) {
	for _, r := range results {
		if _, ok := b.names[r.Name]; ok {
			return ToolUseDecision{IsFinal: true, FinalOutput: r.Output}, nil
		}
	}
	return ToolUseDecision{}, nil
}

// CustomToolUseFunc receives all tool results of the turn and decides whether
// to terminate the run and with what output.
type CustomToolUseFunc func(runCtx *core.RunContext, results []ToolResult) (ToolUseDecision, error)

type customToolUseBehavior struct {
	fn CustomToolUseFunc
}

// CustomToolUse injects a caller-defined termination policy.
func CustomToolUse(fn CustomToolUseFunc) ToolUseBehavior {
	return customToolUseBehavior{fn: fn}
}

// Decide implements ToolUseBehavior.
func (b customToolUseBehavior) Decide(runCtx *core.RunContext, results []ToolResult) (ToolUseDecision, error) {
	return b.fn(runCtx, results)
}
