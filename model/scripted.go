package model

import (
	"context"
	"fmt"
	"sync"
)

// ScriptStep configures one model turn in a scripted sequence.
type ScriptStep struct {
	Text      string
	ToolCalls []ToolCall
	Err       error
}

// ScriptedModel is a deterministic Model for tests and examples. Each Generate
// call consumes the next step of the script; exhausting the script is an
// error. It records every request for later assertions and is safe for
// concurrent use.
type ScriptedModel struct {
	mu       sync.Mutex
	index    int
	steps    []ScriptStep
	requests []Request
}

// NewScriptedModel creates a model that replays the given steps in order.
func NewScriptedModel(steps ...ScriptStep) *ScriptedModel {
	cloned := make([]ScriptStep, len(steps))
	copy(cloned, steps)
	return &ScriptedModel{steps: cloned}
}

// Generate implements Model; emits optional streaming char chunks then the
// final response for the current script step.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.requests = append(m.requests, req)
	var step ScriptStep
	exhausted := m.index >= len(m.steps)
	if !exhausted {
		step = m.steps[m.index]
		m.index++
	}
	stepNo := m.index
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)

		if exhausted {
			errCh <- fmt.Errorf("script exhausted at step %d", stepNo+1)
			return
		}
		if step.Err != nil {
			errCh <- step.Err
			return
		}

		if req.Stream {
			for _, r := range step.Text {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(r)}:
				}
			}
		}

		finish := "stop"
		if len(step.ToolCalls) > 0 {
			finish = "tool_calls"
		}

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- Response{
			Partial:      false,
			Text:         step.Text,
			ToolCalls:    step.ToolCalls,
			FinishReason: finish,
		}:
		}
	}()

	return respCh, errCh
}

// Info implements Model.
func (m *ScriptedModel) Info() Info {
	return Info{Name: "scripted", Provider: "scripted", SupportsTools: true}
}

// Calls returns the number of Generate invocations so far.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the recorded requests.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}
