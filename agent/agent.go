package agent

import (
	"fmt"

	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/guardrail"
	"github.com/hupe1980/agentrun/model"
	"github.com/hupe1980/agentrun/tool"
)

// Options configures an Agent instance.
//
// Use functional options with New (or Clone) to override defaults.
type Options struct {
	// Name overrides the agent name. Mainly useful with Clone to derive a
	// renamed variant; distinct names matter for handoff tool naming and
	// audit items. Empty keeps the current name.
	Name string

	Instructions     Instruction
	Model            model.Model
	Tools            []tool.Tool
	Handoffs         []Handoff
	OutputSchema     *OutputSchema
	InputGuardrails  []guardrail.InputGuardrail
	OutputGuardrails []guardrail.OutputGuardrail
	Hooks            Hooks
	ToolUseBehavior  ToolUseBehavior
}

// Agent holds the static configuration of one agent. Construct with New;
// derive variants with Clone. The zero value is not usable.
type Agent struct {
	name             string
	instructions     Instruction
	model            model.Model
	tools            []tool.Tool
	handoffs         []Handoff
	outputSchema     *OutputSchema
	inputGuardrails  []guardrail.InputGuardrail
	outputGuardrails []guardrail.OutputGuardrail
	hooks            Hooks
	toolUseBehavior  ToolUseBehavior
}

// New creates an agent with sensible defaults: a generic assistant
// instruction, no tools or handoffs, default tool-use behavior (fold tool
// outputs back and call the model again) and no-op hooks.
func New(name string, optFns ...func(o *Options)) *Agent {
	opts := Options{
		Name:            name,
		Instructions:    NewInstructionFromText(fmt.Sprintf("You are %s, a helpful AI assistant.", name)),
		Hooks:           NoopHooks{},
		ToolUseBehavior: RunLLMAgain(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Name == "" {
		opts.Name = name
	}
	if opts.Hooks == nil {
		opts.Hooks = NoopHooks{}
	}
	if opts.ToolUseBehavior == nil {
		opts.ToolUseBehavior = RunLLMAgain()
	}

	return &Agent{
		name:             opts.Name,
		instructions:     opts.Instructions,
		model:            opts.Model,
		tools:            cloneSlice(opts.Tools),
		handoffs:         cloneSlice(opts.Handoffs),
		outputSchema:     opts.OutputSchema,
		inputGuardrails:  cloneSlice(opts.InputGuardrails),
		outputGuardrails: cloneSlice(opts.OutputGuardrails),
		hooks:            opts.Hooks,
		toolUseBehavior:  opts.ToolUseBehavior,
	}
}

// Clone returns a new Agent derived from this one with the given overrides
// applied. The receiver is left untouched; slices are copied so later
// mutations of option values cannot leak into either agent.
func (a *Agent) Clone(optFns ...func(o *Options)) *Agent {
	opts := Options{
		Name:             a.name,
		Instructions:     a.instructions,
		Model:            a.model,
		Tools:            cloneSlice(a.tools),
		Handoffs:         cloneSlice(a.handoffs),
		OutputSchema:     a.outputSchema,
		InputGuardrails:  cloneSlice(a.inputGuardrails),
		OutputGuardrails: cloneSlice(a.outputGuardrails),
		Hooks:            a.hooks,
		ToolUseBehavior:  a.toolUseBehavior,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Name == "" {
		opts.Name = a.name
	}

	return New(opts.Name, func(o *Options) { *o = opts })
}

// Name returns the agent's identifier.
func (a *Agent) Name() string { return a.name }

// ResolveInstructions produces the system prompt by resolving static or
// dynamic instruction sources.
func (a *Agent) ResolveInstructions(runCtx *core.RunContext) (string, error) {
	return a.instructions.Resolve(runCtx, a)
}

// Model returns the per-agent model override, or nil if the run default applies.
func (a *Agent) Model() model.Model { return a.model }

// Tools returns the agent's ordered tool list.
func (a *Agent) Tools() []tool.Tool { return cloneSlice(a.tools) }

// EnabledTools returns the tools presented to the model for the given run,
// preserving declaration order.
func (a *Agent) EnabledTools(runCtx *core.RunContext) []tool.Tool {
	enabled := make([]tool.Tool, 0, len(a.tools))
	for _, t := range a.tools {
		if t.IsEnabled(runCtx) {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

// FindTool returns the named tool if it is present and enabled for the run.
func (a *Agent) FindTool(runCtx *core.RunContext, name string) (tool.Tool, bool) {
	for _, t := range a.tools {
		if t.Name() == name && t.IsEnabled(runCtx) {
			return t, true
		}
	}
	return nil, false
}

// Handoffs returns the agent's ordered handoff list.
func (a *Agent) Handoffs() []Handoff { return cloneSlice(a.handoffs) }

// FindHandoff resolves a handoff by its tool-facing name. Resolution happens
// lazily at run time so cyclic agent graphs (A hands off to B which hands off
// back to A) are legal, bounded only by the turn budget.
func (a *Agent) FindHandoff(toolName string) (Handoff, bool) {
	for _, h := range a.handoffs {
		if h.ToolName() == toolName {
			return h, true
		}
	}
	return Handoff{}, false
}

// OutputSchema returns the structured output schema, or nil for free text.
func (a *Agent) OutputSchema() *OutputSchema { return a.outputSchema }

// InputGuardrails returns the per-agent input guardrails.
func (a *Agent) InputGuardrails() []guardrail.InputGuardrail {
	return cloneSlice(a.inputGuardrails)
}

// OutputGuardrails returns the per-agent output guardrails.
func (a *Agent) OutputGuardrails() []guardrail.OutputGuardrail {
	return cloneSlice(a.outputGuardrails)
}

// Hooks returns the lifecycle hooks (never nil).
func (a *Agent) Hooks() Hooks { return a.hooks }

// ToolUseBehavior returns the policy applied after tool calls resolve (never nil).
func (a *Agent) ToolUseBehavior() ToolUseBehavior { return a.toolUseBehavior }

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
