package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerModel_PassThrough(t *testing.T) {
	inner := NewScriptedModel(ScriptStep{Text: "ok"})
	m := NewBreakerModel(inner)

	respCh, errCh := m.Generate(context.Background(), Request{})
	responses, err := drain(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "ok", responses[0].Text)
	assert.Equal(t, gobreaker.StateClosed, m.State())
}

func TestBreakerModel_OpensAfterConsecutiveFailures(t *testing.T) {
	providerErr := errors.New("provider down")
	inner := NewScriptedModel(
		ScriptStep{Err: providerErr},
		ScriptStep{Err: providerErr},
		ScriptStep{Text: "never reached"},
	)

	m := NewBreakerModel(inner, func(o *BreakerOptions) {
		o.ConsecutiveFailures = 2
		o.Timeout = time.Minute
	})

	respCh, errCh := m.Generate(context.Background(), Request{})
	_, err := drain(t, respCh, errCh)
	assert.ErrorIs(t, err, providerErr)

	respCh, errCh = m.Generate(context.Background(), Request{})
	_, err = drain(t, respCh, errCh)
	assert.ErrorIs(t, err, providerErr)
	assert.Equal(t, gobreaker.StateOpen, m.State())

	// Open circuit: the wrapped model is not called again.
	respCh, errCh = m.Generate(context.Background(), Request{})
	_, err = drain(t, respCh, errCh)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, inner.Calls())
}

func TestBreakerModel_Info(t *testing.T) {
	inner := NewScriptedModel()
	m := NewBreakerModel(inner, func(o *BreakerOptions) { o.Name = "guarded-scripted" })

	info := m.Info()
	assert.Equal(t, "guarded-scripted", info.Name)
	assert.Equal(t, "scripted", info.Provider)
}
