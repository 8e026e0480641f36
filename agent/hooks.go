package agent

import "github.com/hupe1980/agentrun/core"

// Hooks receives lifecycle notifications at well-defined points of a run.
// Hooks are notifications only: they are invoked in issuance order and awaited
// before the run proceeds, but they cannot alter control flow. A panicking
// hook is a programming error, not a supported veto mechanism; use guardrails
// to abort runs.
type Hooks interface {
	// OnRunStart fires once before the first model call of a run, and again
	// for the new active agent after every handoff.
	OnRunStart(runCtx *core.RunContext, a *Agent)

	// OnRunEnd fires once after the terminal output passed its guardrails.
	OnRunEnd(runCtx *core.RunContext, a *Agent, finalOutput any)

	// OnHandoff fires when the active-agent role transfers.
	OnHandoff(runCtx *core.RunContext, from, to *Agent)

	// OnToolStart fires before each tool invocation.
	OnToolStart(runCtx *core.RunContext, a *Agent, toolName string)

	// OnToolEnd fires after each tool invocation with its output.
	OnToolEnd(runCtx *core.RunContext, a *Agent, toolName string, result any)
}

// NoopHooks is a Hooks implementation that ignores all notifications.
// Embed it to implement only the hooks you care about.
type NoopHooks struct{}

// OnRunStart implements Hooks.
func (NoopHooks) OnRunStart(*core.RunContext, *Agent) {}

// OnRunEnd implements Hooks.
func (NoopHooks) OnRunEnd(*core.RunContext, *Agent, any) {}

// OnHandoff implements Hooks.
func (NoopHooks) OnHandoff(*core.RunContext, *Agent, *Agent) {}

// OnToolStart implements Hooks.
func (NoopHooks) OnToolStart(*core.RunContext, *Agent, string) {}

// OnToolEnd implements Hooks.
func (NoopHooks) OnToolEnd(*core.RunContext, *Agent, string, any) {}

// MultiHooks fans notifications out to several Hooks in order.
type MultiHooks []Hooks

// OnRunStart implements Hooks.
func (m MultiHooks) OnRunStart(runCtx *core.RunContext, a *Agent) {
	for _, h := range m {
		h.OnRunStart(runCtx, a)
	}
}

// OnRunEnd implements Hooks.
func (m MultiHooks) OnRunEnd(runCtx *core.RunContext, a *Agent, finalOutput any) {
	for _, h := range m {
		h.OnRunEnd(runCtx, a, finalOutput)
	}
}

// OnHandoff implements Hooks.
func (m MultiHooks) OnHandoff(runCtx *core.RunContext, from, to *Agent) {
	for _, h := range m {
		h.OnHandoff(runCtx, from, to)
	}
}

// OnToolStart implements Hooks.
func (m MultiHooks) OnToolStart(runCtx *core.RunContext, a *Agent, toolName string) {
	for _, h := range m {
		h.OnToolStart(runCtx, a, toolName)
	}
}

// OnToolEnd implements Hooks.
func (m MultiHooks) OnToolEnd(runCtx *core.RunContext, a *Agent, toolName string, result any) {
	for _, h := range m {
		h.OnToolEnd(runCtx, a, toolName, result)
	}
}
