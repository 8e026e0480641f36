package runner

import (
	"golang.org/x/time/rate"

	"github.com/hupe1980/agentrun/agent"
	"github.com/hupe1980/agentrun/guardrail"
	"github.com/hupe1980/agentrun/model"
)

// DefaultMaxTurns bounds the number of model calls per run when no explicit
// limit is configured.
const DefaultMaxTurns = 10

// RunConfig carries per-run overrides and policies. Zero value plus defaults
// is a valid configuration; pass option functions to Run/RunStreamed to adjust
// individual runs without touching the Runner.
type RunConfig struct {
	// MaxTurns caps the number of model calls. Exceeding it yields a
	// *core.MaxTurnsError at the next loop boundary, never mid-call.
	// Defaults to DefaultMaxTurns.
	MaxTurns int

	// Model overrides both the runner default and any per-agent model for the
	// whole run, including after handoffs.
	Model model.Model

	// InputGuardrails run once before the first model call, ahead of the
	// starting agent's own input guardrails.
	InputGuardrails []guardrail.InputGuardrail

	// OutputGuardrails run against the terminal candidate output, ahead of the
	// final agent's own output guardrails.
	OutputGuardrails []guardrail.OutputGuardrail

	// Hooks receives run-level lifecycle notifications in addition to the
	// active agent's hooks.
	Hooks agent.Hooks

	// ParallelToolCalls executes all tool calls of one model response
	// concurrently. Outputs are folded back in request order either way.
	ParallelToolCalls bool

	// Limiter, when set, is awaited before every model call.
	Limiter *rate.Limiter

	// SessionID keys conversation persistence. When set and the runner carries
	// a session store, prior history is prepended to the input and new items
	// are appended back after a successful run.
	SessionID string

	// Value is opaque caller state threaded unchanged through every tool,
	// guardrail and instruction callback of the run.
	Value any

	// stream requests partial responses from the model. Set by RunStreamed.
	stream bool
}

func (c *RunConfig) applyDefaults() {
	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
}
