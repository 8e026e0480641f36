package agent

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrun/core"
)

func TestInstruction_Static(t *testing.T) {
	i := NewInstructionFromText("Be brief.")
	assert.True(t, i.IsStatic())

	text, err := i.Resolve(newRunContext(), New("A"))
	require.NoError(t, err)
	assert.Equal(t, "Be brief.", text)
}

func TestInstruction_Dynamic(t *testing.T) {
	i := NewInstructionFromFunc(func(rc *core.RunContext, a *Agent) (string, error) {
		return fmt.Sprintf("You are %s handling run %s.", a.Name(), rc.RunID), nil
	})
	assert.False(t, i.IsStatic())

	rc := core.NewRunContext(nil, "run-42", nil, nil)
	text, err := i.Resolve(rc, New("Helper"))
	require.NoError(t, err)
	assert.Equal(t, "You are Helper handling run run-42.", text)
}

func TestInstruction_Template(t *testing.T) {
	i := NewInstructionFromTemplate("You are {{.agent_name}} helping {{.customer}}.")
	assert.False(t, i.IsStatic())

	rc := core.NewRunContext(nil, "run-1", map[string]any{"customer": "Ada"}, nil)
	text, err := i.Resolve(rc, New("Support"))
	require.NoError(t, err)
	assert.Equal(t, "You are Support helping Ada.", text)
}

func TestInstruction_TemplateInvalid(t *testing.T) {
	i := NewInstructionFromTemplate("Broken {{.unclosed")

	_, err := i.Resolve(newRunContext(), New("A"))
	var userErr *core.UserError
	require.ErrorAs(t, err, &userErr)
}

// countingProvider demonstrates a stateful instructions source. Stateful
// providers are documented single-run-at-a-time; this test exercises exactly
// one run's worth of sequential resolutions.
type countingProvider struct{ calls int }

func (p *countingProvider) Instructions(_ *core.RunContext, a *Agent) (string, error) {
	p.calls++
	return fmt.Sprintf("%s, resolution #%d", a.Name(), p.calls), nil
}

func TestInstruction_StatefulProvider(t *testing.T) {
	p := &countingProvider{}
	i := NewInstructionFromProvider(p)

	a := New("Counter")
	rc := newRunContext()

	first, err := i.Resolve(rc, a)
	require.NoError(t, err)
	second, err := i.Resolve(rc, a)
	require.NoError(t, err)

	assert.Equal(t, "Counter, resolution #1", first)
	assert.Equal(t, "Counter, resolution #2", second)
	assert.Equal(t, 2, p.calls)
}
