package core

import (
	"context"

	"github.com/hupe1980/agentrun/logging"
)

// ToolContext provides a constrained, auditable surface for tool
// implementations invoked by an agent. It exposes the parent run's state and
// accumulates orchestration signals (currently: handoff requests) without
// directly driving control flow; the run loop interprets them after the tool
// returns.
type ToolContext struct {
	runCtx        *RunContext
	callID        string
	agentName     string
	handoffTarget string

	*loggerAdapter
}

// NewToolContext constructs a tool context bound to a parent RunContext and
// unique tool call id.
func NewToolContext(runCtx *RunContext, callID string) *ToolContext {
	return &ToolContext{
		runCtx:        runCtx,
		callID:        callID,
		agentName:     runCtx.AgentName,
		loggerAdapter: newLoggerAdapter(runCtx.Logger()),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.runCtx.Context }

// RunContext returns the parent run context.
func (tc *ToolContext) RunContext() *RunContext { return tc.runCtx }

// RunID returns the run ID associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runCtx.RunID }

// CallID returns the tool call ID associated with the tool invocation.
func (tc *ToolContext) CallID() string { return tc.callID }

// AgentName returns the name of the agent that issued the tool call.
func (tc *ToolContext) AgentName() string { return tc.agentName }

// Value returns the caller-supplied opaque run value.
func (tc *ToolContext) Value() any { return tc.runCtx.Value }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.loggerAdapter.Logger() }

// RequestHandoff signals the run loop to transfer control to the named agent
// after this tool call resolves. Used by handoff tool adapters; a plain tool
// may also request a transfer explicitly.
func (tc *ToolContext) RequestHandoff(target string) {
	tc.handoffTarget = target
	tc.LogInfo("tool.handoff.request", "from_agent", tc.agentName, "to_agent", target, "call_id", tc.callID)
}

// HandoffTarget returns the requested handoff target, or "" if none.
func (tc *ToolContext) HandoffTarget() string { return tc.handoffTarget }
