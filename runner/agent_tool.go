package runner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/agentrun/agent"
	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/tool"
)

// agentToolParameters is the argument schema of agent tools: a single input
// string handed to the nested run as its user message.
var agentToolParameters = json.RawMessage(`{"type":"object","properties":{"input":{"type":"string","description":"The input to send to the agent"}},"required":["input"]}`)

// AgentToolOptions configures an agent exposed as a tool.
//
// Use functional options with Runner.AgentTool to override defaults.
type AgentToolOptions struct {
	// Name overrides the tool name. Defaults to the snake_cased agent name.
	Name string

	// Description overrides the tool-facing description.
	Description string

	// OutputExtractor projects the nested run's result into the tool output.
	// Defaults to the run's final text.
	OutputExtractor func(result *RunResult) (string, error)

	// RunConfig options applied to every nested run.
	RunConfig []func(c *RunConfig)
}

// AgentTool exposes an agent as a regular tool on this runner. Calling it
// executes a nested run of the agent and returns its final output as the tool
// result; unlike a handoff, control stays with the calling agent. This lets an
// orchestrator consult several sub-agents in one turn and compose their
// answers.
//
// The nested run inherits the caller's RunContext value, so application state
// threads through unchanged. An error from the nested run is routed through
// the calling agent's tool error policy like any other tool failure.
func (r *Runner) AgentTool(target *agent.Agent, optFns ...func(o *AgentToolOptions)) tool.Tool {
	opts := AgentToolOptions{
		Name:        agentToolName(target.Name()),
		Description: fmt.Sprintf("Run the %s agent with an input and return its final answer.", target.Name()),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &agentTool{runner: r, target: target, opts: opts}
}

type agentTool struct {
	runner *Runner
	target *agent.Agent
	opts   AgentToolOptions
}

// Name returns the tool-facing name of the wrapped agent.
func (t *agentTool) Name() string { return t.opts.Name }

// Description returns the tool-facing description.
func (t *agentTool) Description() string { return t.opts.Description }

// Parameters returns the input schema of agent tools.
func (t *agentTool) Parameters() json.RawMessage { return agentToolParameters }

// IsEnabled implements tool.Tool. Agent tools are always available.
func (t *agentTool) IsEnabled(*core.RunContext) bool { return true }

// Call runs the wrapped agent to completion and returns its final output.
func (t *agentTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	input, _ := args["input"].(string)

	cfgFns := append([]func(c *RunConfig){
		func(c *RunConfig) { c.Value = toolCtx.Value() },
	}, t.opts.RunConfig...)

	result, err := t.runner.Run(toolCtx.Context(), t.target, input, cfgFns...)
	if err != nil {
		return nil, err
	}

	if t.opts.OutputExtractor != nil {
		return t.opts.OutputExtractor(result)
	}

	return result.FinalText(), nil
}

// agentToolName derives the default tool name for a wrapped agent,
// e.g. "Spanish Translator" -> "spanish_translator".
func agentToolName(agentName string) string {
	s := strings.ToLower(strings.TrimSpace(agentName))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
	return strings.Trim(s, "_")
}
