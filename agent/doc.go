// Package agent defines the static configuration of an agent: its name,
// instructions (static or dynamic), tools, handoff targets, structured output
// schema, guardrails, lifecycle hooks and tool-use behavior.
//
// An Agent is an immutable value once constructed. The only sanctioned way to
// derive a variant is Clone, which produces a new Agent with overrides applied;
// a running agent's configuration is never mutated in place, so Agent values
// are safe to share across concurrent runs.
package agent
