package agent

import (
	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/internal/util"
)

// Provider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from the run context, the active
// agent, the environment, etc.
//
// A Provider holding internal state (e.g. an invocation counter) is NOT safe
// for concurrent runs; use stateful providers with one run at a time, or guard
// the state yourself.
type Provider interface {
	Instructions(runCtx *core.RunContext, a *Agent) (string, error)
}

// ProviderFunc is a functional adapter to allow ordinary functions to be used
// as Providers.
type ProviderFunc func(runCtx *core.RunContext, a *Agent) (string, error)

// Instructions implements Provider.
func (f ProviderFunc) Instructions(runCtx *core.RunContext, a *Agent) (string, error) {
	return f(runCtx, a)
}

// Instruction represents either a static instruction string or a dynamic
// provider. This mirrors a union of string | provider in a Go-idiomatic way.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(runCtx *core.RunContext, a *Agent) (string, error)) Instruction {
	return Instruction{provider: ProviderFunc(f)}
}

// NewInstructionFromTemplate creates an Instruction whose text is expanded as
// a Go template before each model call. Template data carries agent_name,
// run_id and session_id, merged with the run's Value when it is a
// map[string]any.
func NewInstructionFromTemplate(text string) Instruction {
	return Instruction{provider: ProviderFunc(func(runCtx *core.RunContext, a *Agent) (string, error) {
		data := map[string]any{
			"agent_name": a.Name(),
			"run_id":     runCtx.RunID,
			"session_id": runCtx.SessionID,
		}
		if m, ok := runCtx.Value.(map[string]any); ok {
			for k, v := range m {
				data[k] = v
			}
		}

		out, err := util.RenderTemplate(text, data)
		if err != nil {
			return "", core.NewUserError("invalid instruction template: %v", err)
		}

		return out, nil
	})}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(runCtx *core.RunContext, a *Agent) (string, error) {
	if i.provider != nil {
		return i.provider.Instructions(runCtx, a)
	}
	return i.text, nil
}
