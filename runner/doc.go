// Package runner drives agent runs: it owns the turn loop that sends the
// conversation to a model, executes requested tool calls, routes handoffs
// between agents, enforces the turn budget and guardrails, and assembles the
// final RunResult.
//
// Use Run for a blocking call, RunSync for a convenience wrapper with a
// background context, or RunStreamed to consume text deltas and run items as
// they are produced.
package runner
