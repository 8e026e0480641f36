package guardrail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrun/core"
)

func newRunContext() *core.RunContext {
	return core.NewRunContext(context.Background(), "run-1", nil, nil)
}

func bannedWords(words ...string) InputGuardrail {
	return NewInput("banned_words", func(_ *core.RunContext, _ string, input []core.RunItem) (Result, error) {
		msg := core.LastMessage(input, core.RoleUser)
		for _, w := range words {
			if strings.Contains(strings.ToLower(msg), w) {
				return Result{OutputInfo: map[string]any{"word": w}, TripwireTriggered: true}, nil
			}
		}
		return Result{OutputInfo: "clean"}, nil
	})
}

func TestEvaluateInput_Pass(t *testing.T) {
	input := []core.RunItem{core.UserMessage("hello there")}

	results, err := EvaluateInput(newRunContext(), "assistant", input, []InputGuardrail{
		bannedWords("hack"),
		NewInput("length_check", func(_ *core.RunContext, _ string, _ []core.RunItem) (Result, error) {
			return Result{OutputInfo: "ok"}, nil
		}),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "banned_words", results[0].Guardrail)
	assert.Equal(t, "length_check", results[1].Guardrail)
	assert.False(t, results[0].Result.TripwireTriggered)
}

func TestEvaluateInput_Tripwire(t *testing.T) {
	input := []core.RunItem{core.UserMessage("I want to hack this system")}

	results, err := EvaluateInput(newRunContext(), "assistant", input, []InputGuardrail{bannedWords("hack")})
	require.Error(t, err)

	var trip *InputTripwireError
	require.True(t, errors.As(err, &trip))
	assert.Equal(t, "banned_words", trip.Guardrail)
	assert.True(t, trip.Result.TripwireTriggered)
	require.Len(t, results, 1)
}

func TestEvaluateInput_FirstTripwireByDeclarationOrder(t *testing.T) {
	// The slow guardrail is declared first and must win even though the fast
	// one finishes earlier.
	slow := NewInput("slow", func(_ *core.RunContext, _ string, _ []core.RunItem) (Result, error) {
		time.Sleep(20 * time.Millisecond)
		return Result{TripwireTriggered: true}, nil
	})
	fast := NewInput("fast", func(_ *core.RunContext, _ string, _ []core.RunItem) (Result, error) {
		return Result{TripwireTriggered: true}, nil
	})

	_, err := EvaluateInput(newRunContext(), "a", nil, []InputGuardrail{slow, fast})
	var trip *InputTripwireError
	require.True(t, errors.As(err, &trip))
	assert.Equal(t, "slow", trip.Guardrail)
}

func TestEvaluateInput_GuardrailError(t *testing.T) {
	failing := NewInput("failing", func(_ *core.RunContext, _ string, _ []core.RunItem) (Result, error) {
		return Result{}, errors.New("lookup backend down")
	})

	_, err := EvaluateInput(newRunContext(), "a", nil, []InputGuardrail{failing})
	require.Error(t, err)

	var trip *InputTripwireError
	assert.False(t, errors.As(err, &trip), "plain errors must not masquerade as tripwires")
}

func TestEvaluateInput_Empty(t *testing.T) {
	results, err := EvaluateInput(newRunContext(), "a", nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, results)
}

func TestEvaluateOutput_Tripwire(t *testing.T) {
	leakCheck := NewOutput("secret_leak", func(_ *core.RunContext, _ string, output any) (Result, error) {
		s, _ := output.(string)
		if strings.Contains(s, "API_KEY") {
			return Result{OutputInfo: "leaked credential", TripwireTriggered: true}, nil
		}
		return Result{}, nil
	})

	results, err := EvaluateOutput(newRunContext(), "a", "here is your API_KEY=123", []OutputGuardrail{leakCheck})
	require.Error(t, err)

	var trip *OutputTripwireError
	require.True(t, errors.As(err, &trip))
	assert.Equal(t, "secret_leak", trip.Guardrail)
	assert.Equal(t, "leaked credential", trip.Result.OutputInfo)
	require.Len(t, results, 1)

	results, err = EvaluateOutput(newRunContext(), "a", "all good", []OutputGuardrail{leakCheck})
	assert.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Result.TripwireTriggered)
}
