package runner

import "github.com/hupe1980/agentrun/core"

// StreamEvent is the closed set of events emitted by a streamed run. The
// variants are TextDeltaEvent, ItemEvent and AgentUpdatedEvent.
type StreamEvent interface {
	isStreamEvent()
}

// TextDeltaEvent carries an incremental chunk of assistant text.
type TextDeltaEvent struct {
	// Agent names the agent producing the text.
	Agent string

	// Delta is the incremental text chunk.
	Delta string
}

func (TextDeltaEvent) isStreamEvent() {}

// ItemEvent signals that a run item was appended to the history: an assistant
// message, a tool call, a tool output or a handoff marker.
type ItemEvent struct {
	// Agent names the active agent when the item was produced.
	Agent string

	// Item is the appended run item.
	Item core.RunItem
}

func (ItemEvent) isStreamEvent() {}

// AgentUpdatedEvent signals that the active-agent role changed: once at run
// start and again after every handoff.
type AgentUpdatedEvent struct {
	// Agent names the new active agent.
	Agent string
}

func (AgentUpdatedEvent) isStreamEvent() {}

// Stream is the handle returned by RunStreamed. Consume Events until the
// channel closes (the completion marker), then call Wait for the terminal
// result. Wait may also be called without draining; events are then discarded
// as they are produced.
type Stream struct {
	events chan StreamEvent
	done   chan struct{}

	result *RunResult
	err    error
}

func newStream() *Stream {
	return &Stream{
		events: make(chan StreamEvent, 64),
		done:   make(chan struct{}),
	}
}

// Events returns the stream's event channel. It is closed when the run
// completes, successfully or not.
func (s *Stream) Events() <-chan StreamEvent { return s.events }

// Wait blocks until the run completes and returns the terminal result or
// error. Safe to call from multiple goroutines; all observe the same outcome.
func (s *Stream) Wait() (*RunResult, error) {
	for {
		select {
		case _, ok := <-s.events:
			if !ok {
				<-s.done
				return s.result, s.err
			}
		case <-s.done:
			return s.result, s.err
		}
	}
}

// finish records the terminal outcome and closes the event channel.
func (s *Stream) finish(result *RunResult, err error) {
	s.result = result
	s.err = err
	close(s.events)
	close(s.done)
}
