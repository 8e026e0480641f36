package runner

import (
	"context"

	"github.com/hupe1980/agentrun/agent"
	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/logging"
	"github.com/hupe1980/agentrun/model"
	"github.com/hupe1980/agentrun/session"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Model is the default model for agents without a per-agent override.
	Model model.Model

	// SessionStore persists conversation histories for runs carrying a
	// session id. Defaults to an in-memory store.
	SessionStore session.Store

	// Logger receives structured engine events.
	Logger logging.Logger
}

// Runner executes agent runs. Construct once and share; public methods are
// safe for concurrent use. Per-run behavior is adjusted through RunConfig
// option functions on each call.
type Runner struct {
	model        model.Model
	sessionStore session.Store
	logger       logging.Logger
}

// New constructs a Runner with optional overrides.
func New(optFns ...func(o *Options)) *Runner {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		model:        opts.Model,
		sessionStore: opts.SessionStore,
		logger:       opts.Logger,
	}
}

// Run executes a blocking run of startAgent on input. Input is either a
// string (wrapped as a user message) or a prepared []core.RunItem history,
// typically RunResult.ToInputList() of a previous run.
func (r *Runner) Run(ctx context.Context, startAgent *agent.Agent, input any, optFns ...func(c *RunConfig)) (*RunResult, error) {
	cfg, items, err := r.prepare(startAgent, input, optFns)
	if err != nil {
		return nil, err
	}
	return r.runLoop(ctx, startAgent, items, cfg, nil)
}

// RunSync is a convenience wrapper around Run with a background context.
func (r *Runner) RunSync(startAgent *agent.Agent, input any, optFns ...func(c *RunConfig)) (*RunResult, error) {
	return r.Run(context.Background(), startAgent, input, optFns...)
}

// RunStreamed starts the run asynchronously and returns a Stream handle.
// Consume Stream.Events until it closes, then call Stream.Wait for the
// terminal result; Wait alone also works and discards events.
func (r *Runner) RunStreamed(ctx context.Context, startAgent *agent.Agent, input any, optFns ...func(c *RunConfig)) *Stream {
	stream := newStream()

	cfg, items, err := r.prepare(startAgent, input, optFns)
	if err != nil {
		stream.finish(nil, err)
		return stream
	}
	cfg.stream = true

	go func() {
		emit := func(ev StreamEvent) {
			select {
			case stream.events <- ev:
			case <-ctx.Done():
			}
		}
		result, err := r.runLoop(ctx, startAgent, items, cfg, emit)
		stream.finish(result, err)
	}()

	return stream
}

// prepare resolves the run config and normalizes the input.
func (r *Runner) prepare(startAgent *agent.Agent, input any, optFns []func(c *RunConfig)) (RunConfig, []core.RunItem, error) {
	var cfg RunConfig
	for _, fn := range optFns {
		fn(&cfg)
	}
	cfg.applyDefaults()

	if startAgent == nil {
		return cfg, nil, core.NewUserError("start agent must not be nil")
	}

	items, err := normalizeInput(input)
	if err != nil {
		return cfg, nil, err
	}

	return cfg, items, nil
}

// normalizeInput accepts the supported input shapes.
func normalizeInput(input any) ([]core.RunItem, error) {
	switch in := input.(type) {
	case string:
		return []core.RunItem{core.UserMessage(in)}, nil
	case []core.RunItem:
		return core.CloneItems(in), nil
	case core.RunItem:
		return []core.RunItem{in}, nil
	case nil:
		return nil, core.NewUserError("run input must not be nil")
	default:
		return nil, core.NewUserError("unsupported input type %T; pass a string or []core.RunItem", input)
	}
}
