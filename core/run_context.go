package core

import (
	"context"

	"github.com/hupe1980/agentrun/logging"
)

// RunContext carries per-run execution state into instructions providers,
// tools and guardrails. It aggregates:
//
//   - The ambient cancellation Context
//   - Identifiers (RunID, SessionID, active agent name)
//   - The caller-supplied opaque Value
//
// Value is owned by the caller: the engine threads it unchanged through every
// callback during one run and never reads or mutates it. Application code may
// mutate it freely (tools sharing a counter, accumulating results, ...), but
// any synchronization across concurrent callbacks is the caller's concern.
type RunContext struct {
	Context   context.Context
	RunID     string
	SessionID string

	// AgentName is the name of the currently active agent. Updated by the
	// engine at handoff boundaries.
	AgentName string

	// Value is the caller-supplied opaque state for this run.
	Value any

	*loggerAdapter
}

// NewRunContext constructs a RunContext bound to ctx with the given caller value.
func NewRunContext(ctx context.Context, runID string, value any, logger logging.Logger) *RunContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &RunContext{
		Context:       ctx,
		RunID:         runID,
		Value:         value,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }
