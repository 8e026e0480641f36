// Package core provides the foundational domain types and execution contexts
// used by the run engine. It defines:
//
//   - RunItem (closed tagged-variant history items: messages, tool calls,
//     tool outputs, handoff transitions)
//   - RunContext / ToolContext (scoped execution state threaded through
//     instructions, tools and guardrails)
//   - TurnLimiter (per-run model call budget)
//   - The engine error taxonomy (UserError, MaxTurnsError, ModelBehaviorError)
//
// The package intentionally keeps implementation concerns (model adapters,
// the run loop, concrete tools) out of scope, exposing small types to enable
// custom backends and extensions.
package core
