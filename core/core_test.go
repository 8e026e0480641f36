package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnLimiter(t *testing.T) {
	tl := NewTurnLimiter(2)

	assert.NoError(t, tl.Increment())
	assert.NoError(t, tl.Increment())
	assert.Equal(t, 0, tl.Remaining())

	err := tl.Increment()
	assert.Error(t, err)

	var maxErr *MaxTurnsError
	assert.True(t, errors.As(err, &maxErr))
	assert.Equal(t, 2, maxErr.MaxTurns)
	assert.Equal(t, 3, tl.Count())
}

func TestTurnLimiter_Unlimited(t *testing.T) {
	tl := NewTurnLimiter(0)
	for i := 0; i < 100; i++ {
		assert.NoError(t, tl.Increment())
	}
	assert.Equal(t, -1, tl.Remaining())
}

func TestRunContext_ValueUntouched(t *testing.T) {
	type appState struct{ Counter int }

	state := &appState{}
	rc := NewRunContext(context.Background(), NewID(), state, nil)

	assert.Same(t, state, rc.Value.(*appState))

	tc := NewToolContext(rc, "call-1")
	tc.Value().(*appState).Counter++
	assert.Equal(t, 1, state.Counter)
}

func TestRunContext_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rc := NewRunContext(ctx, "run-1", nil, nil)

	assert.NoError(t, rc.Err())
	cancel()
	<-rc.Done()
	assert.Error(t, rc.Err())
}

func TestToolContext_Handoff(t *testing.T) {
	rc := NewRunContext(context.Background(), "run-1", nil, nil)
	rc.AgentName = "triage"

	tc := NewToolContext(rc, "call-1")
	assert.Equal(t, "triage", tc.AgentName())
	assert.Equal(t, "call-1", tc.CallID())
	assert.Empty(t, tc.HandoffTarget())

	tc.RequestHandoff("billing")
	assert.Equal(t, "billing", tc.HandoffTarget())
}

func TestErrorTaxonomy_Messages(t *testing.T) {
	assert.Contains(t, NewUserError("missing model for agent %q", "a").Error(), `missing model for agent "a"`)
	assert.Contains(t, (&MaxTurnsError{MaxTurns: 5}).Error(), "5")
	assert.Contains(t, NewModelBehaviorError("unknown tool %q", "ghost").Error(), `unknown tool "ghost"`)
}
