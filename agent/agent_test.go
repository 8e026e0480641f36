package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/guardrail"
	"github.com/hupe1980/agentrun/tool"
)

func newRunContext() *core.RunContext {
	return core.NewRunContext(context.Background(), core.NewID(), nil, nil)
}

func namedTool(name string) tool.Tool {
	return tool.MustNew(name, "test tool", nil, func(_ *core.ToolContext, _ map[string]any) (any, error) {
		return name, nil
	})
}

func TestNew_Defaults(t *testing.T) {
	a := New("Assistant")

	assert.Equal(t, "Assistant", a.Name())
	assert.Empty(t, a.Tools())
	assert.Empty(t, a.Handoffs())
	assert.Nil(t, a.OutputSchema())
	assert.NotNil(t, a.Hooks())
	assert.NotNil(t, a.ToolUseBehavior())

	text, err := a.ResolveInstructions(newRunContext())
	require.NoError(t, err)
	assert.Contains(t, text, "Assistant")
}

func TestClone_Overrides(t *testing.T) {
	base := New("Support", func(o *Options) {
		o.Instructions = NewInstructionFromText("You answer support questions.")
		o.Tools = []tool.Tool{namedTool("lookup_order")}
	})

	spanish := base.Clone(func(o *Options) {
		o.Instructions = NewInstructionFromText("Respondes preguntas de soporte.")
	})

	// Same identity, changed instructions, inherited tools.
	assert.Equal(t, base.Name(), spanish.Name())

	baseText, _ := base.ResolveInstructions(newRunContext())
	esText, _ := spanish.ResolveInstructions(newRunContext())
	assert.NotEqual(t, baseText, esText)
	assert.Len(t, spanish.Tools(), 1)
}

func TestClone_Rename(t *testing.T) {
	base := New("Support", func(o *Options) {
		o.Tools = []tool.Tool{namedTool("lookup_order")}
	})

	renamed := base.Clone(func(o *Options) {
		o.Name = "Support V2"
	})

	assert.Equal(t, "Support", base.Name())
	assert.Equal(t, "Support V2", renamed.Name())
	assert.Len(t, renamed.Tools(), 1)

	// The derived name flows into handoff tool naming.
	assert.Equal(t, "transfer_to_support_v2", NewHandoff(renamed).ToolName())
}

func TestClone_IsolatesSlices(t *testing.T) {
	base := New("A", func(o *Options) {
		o.Tools = []tool.Tool{namedTool("one")}
	})

	derived := base.Clone(func(o *Options) {
		o.Tools = append(o.Tools, namedTool("two"))
	})

	assert.Len(t, base.Tools(), 1)
	assert.Len(t, derived.Tools(), 2)
}

func TestEnabledTools_FiltersDisabled(t *testing.T) {
	always := namedTool("always")
	gated := tool.MustNew("gated", "disabled tool", nil,
		func(_ *core.ToolContext, _ map[string]any) (any, error) { return nil, nil },
		func(o *tool.FunctionToolOptions) {
			o.Enabled = func(*core.RunContext) bool { return false }
		},
	)

	a := New("A", func(o *Options) { o.Tools = []tool.Tool{always, gated} })

	rc := newRunContext()
	enabled := a.EnabledTools(rc)
	require.Len(t, enabled, 1)
	assert.Equal(t, "always", enabled[0].Name())

	_, ok := a.FindTool(rc, "gated")
	assert.False(t, ok, "disabled tools must not resolve")

	found, ok := a.FindTool(rc, "always")
	require.True(t, ok)
	assert.Equal(t, "always", found.Name())
}

func TestFindHandoff_LazyAndCyclic(t *testing.T) {
	a := New("PingAgent")
	b := New("PongAgent", func(o *Options) {
		o.Handoffs = []Handoff{NewHandoff(a)}
	})
	// Cycle: a -> b -> a. Legal; resolution is lazy.
	aWired := a.Clone(func(o *Options) {
		o.Handoffs = []Handoff{NewHandoff(b)}
	})

	h, ok := aWired.FindHandoff("transfer_to_pongagent")
	require.True(t, ok)
	assert.Equal(t, "PongAgent", h.Target().Name())

	back, ok := b.FindHandoff("transfer_to_pingagent")
	require.True(t, ok)
	assert.Equal(t, "PingAgent", back.Target().Name())

	_, ok = aWired.FindHandoff("transfer_to_nobody")
	assert.False(t, ok)
}

func TestGuardrailAccessors_Copy(t *testing.T) {
	g := guardrail.NewInput("g", func(*core.RunContext, string, []core.RunItem) (guardrail.Result, error) {
		return guardrail.Result{}, nil
	})
	a := New("A", func(o *Options) {
		o.InputGuardrails = []guardrail.InputGuardrail{g}
	})

	got := a.InputGuardrails()
	require.Len(t, got, 1)
	got[0] = guardrail.NewInput("mutated", nil)
	assert.Equal(t, "g", a.InputGuardrails()[0].Name)
}
