// Package agentrun provides a high-level façade over the run engine: agents
// with tools, handoffs, guardrails and structured outputs, executed by a turn
// loop against interchangeable model providers. Most applications interact
// with this package by:
//  1. Defining agents via agent.New() (tools, handoffs, guardrails, schema)
//  2. Picking a model (model/openai, model/anthropic, or model.ScriptedModel)
//  3. Running them via Run / RunSync / RunStreamed
//
// The façade delegates to runner.Runner while keeping setup ergonomics
// concise. Construct a runner.Runner directly to share a default model,
// session store or logger across runs.
package agentrun

import (
	"context"

	"github.com/hupe1980/agentrun/agent"
	"github.com/hupe1980/agentrun/runner"
)

// Run executes a blocking run of startAgent on input with a fresh default
// Runner. Input is a string or a []core.RunItem history; the agent (or the
// run config) must carry a model.
func Run(ctx context.Context, startAgent *agent.Agent, input any, optFns ...func(c *runner.RunConfig)) (*runner.RunResult, error) {
	return runner.New().Run(ctx, startAgent, input, optFns...)
}

// RunSync is like Run with a background context.
func RunSync(startAgent *agent.Agent, input any, optFns ...func(c *runner.RunConfig)) (*runner.RunResult, error) {
	return runner.New().RunSync(startAgent, input, optFns...)
}

// RunStreamed starts the run asynchronously and returns a stream handle for
// consuming text deltas and run items as they are produced.
func RunStreamed(ctx context.Context, startAgent *agent.Agent, input any, optFns ...func(c *runner.RunConfig)) *runner.Stream {
	return runner.New().RunStreamed(ctx, startAgent, input, optFns...)
}
