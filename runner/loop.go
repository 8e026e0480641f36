package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hupe1980/agentrun/agent"
	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/guardrail"
	"github.com/hupe1980/agentrun/model"
	"github.com/hupe1980/agentrun/tool"
)

// handoffParameters is the argument schema of handoff tools. Transfers carry
// no arguments; the conversation itself is the payload.
var handoffParameters = json.RawMessage(`{"type":"object","properties":{}}`)

// runLoop executes one run to completion: guardrails, turn loop, tool
// dispatch, handoff routing and result assembly. emit may be nil for
// non-streamed runs.
func (r *Runner) runLoop(
	ctx context.Context,
	startAgent *agent.Agent,
	input []core.RunItem,
	cfg RunConfig,
	emit func(StreamEvent),
) (*RunResult, error) {
	if emit == nil {
		emit = func(StreamEvent) {}
	}

	runCtx := core.NewRunContext(ctx, core.NewID(), cfg.Value, r.logger)
	runCtx.SessionID = cfg.SessionID
	runCtx.AgentName = startAgent.Name()

	if cfg.SessionID != "" && r.sessionStore != nil {
		prior, err := r.sessionStore.Items(cfg.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session %q: %w", cfg.SessionID, err)
		}
		input = append(prior, input...)
	}

	runCtx.LogInfo("run.start",
		"run_id", runCtx.RunID,
		"agent", startAgent.Name(),
		"max_turns", cfg.MaxTurns,
		"input_items", len(input),
	)

	// Global guardrails run ahead of the starting agent's own.
	inputGuardrails := append(append([]guardrail.InputGuardrail{}, cfg.InputGuardrails...), startAgent.InputGuardrails()...)
	inputResults, err := guardrail.EvaluateInput(runCtx, startAgent.Name(), input, inputGuardrails)
	if err != nil {
		return nil, err
	}

	st := &runState{
		runner:       r,
		cfg:          cfg,
		runCtx:       runCtx,
		limiter:      core.NewTurnLimiter(cfg.MaxTurns),
		emit:         emit,
		active:       startAgent,
		history:      core.CloneItems(input),
		inputResults: inputResults,
	}

	st.hooksFor(startAgent).OnRunStart(runCtx, startAgent)
	emit(AgentUpdatedEvent{Agent: startAgent.Name()})

	result, err := st.run(input)
	if err != nil {
		return nil, err
	}

	if cfg.SessionID != "" && r.sessionStore != nil {
		if err := r.sessionStore.Append(cfg.SessionID, result.NewItems...); err != nil {
			return nil, fmt.Errorf("failed to persist session %q: %w", cfg.SessionID, err)
		}
	}

	runCtx.LogInfo("run.complete",
		"run_id", runCtx.RunID,
		"agent", result.LastAgent.Name(),
		"turns", st.limiter.Count(),
		"new_items", len(result.NewItems),
	)

	return result, nil
}

// runState carries the mutable state of one run through the turn loop.
type runState struct {
	runner  *Runner
	cfg     RunConfig
	runCtx  *core.RunContext
	limiter *core.TurnLimiter
	emit    func(StreamEvent)

	active   *agent.Agent
	history  []core.RunItem // model-visible conversation; rewritten by handoff filters
	newItems []core.RunItem // audit trail of everything generated this run
	usage    model.TokenUsage

	inputResults []guardrail.InputResult
}

// hooksFor combines run-level hooks with the agent's own.
func (st *runState) hooksFor(a *agent.Agent) agent.Hooks {
	if st.cfg.Hooks == nil {
		return a.Hooks()
	}
	return agent.MultiHooks{st.cfg.Hooks, a.Hooks()}
}

// append records a generated item on both the model-visible history and the
// audit trail, surfacing it to stream consumers.
func (st *runState) append(item core.RunItem) {
	st.history = append(st.history, item)
	st.newItems = append(st.newItems, item)
	st.emit(ItemEvent{Agent: st.active.Name(), Item: item})
}

// run is the turn loop.
func (st *runState) run(input []core.RunItem) (*RunResult, error) {
	for {
		if err := st.limiter.Increment(); err != nil {
			st.runCtx.LogWarn("run.max_turns_exceeded", "run_id", st.runCtx.RunID, "max_turns", st.cfg.MaxTurns)
			return nil, err
		}

		if st.cfg.Limiter != nil {
			if err := st.cfg.Limiter.Wait(st.runCtx.Context); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		resp, err := st.modelTurn()
		if err != nil {
			return nil, err
		}

		if resp.Usage != nil {
			st.usage.PromptTokens += resp.Usage.PromptTokens
			st.usage.CompletionTokens += resp.Usage.CompletionTokens
			st.usage.TotalTokens += resp.Usage.TotalTokens
		}

		if resp.Text != "" {
			st.append(core.AssistantMessage(resp.Text))
		}

		if len(resp.ToolCalls) == 0 {
			return st.finish(input, resp.Text)
		}

		decision, handoff, err := st.toolTurn(resp.ToolCalls)
		if err != nil {
			return nil, err
		}

		if decision.IsFinal {
			st.runCtx.LogInfo("run.tool_use.final", "run_id", st.runCtx.RunID, "agent", st.active.Name())
			return st.finalize(input, decision.FinalOutput)
		}

		if handoff != nil {
			st.transfer(*handoff)
		}
	}
}

// modelTurn resolves instructions, builds the request and drains one model
// generation, returning the final response.
func (st *runState) modelTurn() (model.Response, error) {
	instructions, err := st.active.ResolveInstructions(st.runCtx)
	if err != nil {
		return model.Response{}, fmt.Errorf("failed to resolve instructions for agent %q: %w", st.active.Name(), err)
	}

	m := st.cfg.Model
	if m == nil {
		m = st.active.Model()
	}
	if m == nil {
		m = st.runner.model
	}
	if m == nil {
		return model.Response{}, core.NewUserError("no model configured for agent %q", st.active.Name())
	}

	req := model.Request{
		Instructions: instructions,
		Items:        st.history,
		Tools:        st.toolDefinitions(),
		Stream:       st.cfg.stream,
	}

	st.runCtx.LogDebug("run.turn",
		"run_id", st.runCtx.RunID,
		"agent", st.active.Name(),
		"turn", st.limiter.Count(),
		"model", m.Info().Name,
	)

	respCh, errCh := m.Generate(st.runCtx.Context, req)

	var final *model.Response
	for respCh != nil || errCh != nil {
		select {
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if resp.Partial {
				if resp.Text != "" {
					st.emit(TextDeltaEvent{Agent: st.active.Name(), Delta: resp.Text})
				}
				continue
			}
			f := resp
			final = &f
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return model.Response{}, fmt.Errorf("model call failed: %w", err)
			}
		case <-st.runCtx.Done():
			return model.Response{}, st.runCtx.Err()
		}
	}

	if final == nil {
		return model.Response{}, core.NewModelBehaviorError("model produced no final response")
	}

	return *final, nil
}

// toolDefinitions builds the function declarations for the active agent:
// enabled tools followed by handoff tools.
func (st *runState) toolDefinitions() []model.ToolDefinition {
	tools := st.active.EnabledTools(st.runCtx)
	handoffs := st.active.Handoffs()

	defs := make([]model.ToolDefinition, 0, len(tools)+len(handoffs))
	for _, t := range tools {
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	for _, h := range handoffs {
		defs = append(defs, model.ToolDefinition{
			Name:        h.ToolName(),
			Description: h.ToolDescription(),
			Parameters:  handoffParameters,
		})
	}
	return defs
}

// dispatch classifies one turn's tool calls before anything executes.
type dispatch struct {
	toolCalls []model.ToolCall
	tools     []tool.Tool
	handoff   *agent.Handoff
	from      string // call id of the accepted handoff
	rejected  []model.ToolCall
}

// toolTurn records the tool calls of one model response, executes them and
// applies the agent's tool-use behavior. When a handoff was requested it is
// returned for the loop to apply after plain tools have run.
func (st *runState) toolTurn(calls []model.ToolCall) (agent.ToolUseDecision, *agent.Handoff, error) {
	for _, call := range calls {
		st.append(core.ToolCallItem{CallID: call.ID, Name: call.Name, Arguments: call.Arguments})
	}

	d, err := st.classify(calls)
	if err != nil {
		return agent.ToolUseDecision{}, nil, err
	}

	results, pendingTarget, err := st.executeTools(d.toolCalls, d.tools)
	if err != nil {
		return agent.ToolUseDecision{}, nil, err
	}

	// A transfer requested mid-tool (ToolContext.RequestHandoff) resolves
	// against the active agent's declared handoffs.
	if d.handoff == nil && pendingTarget != "" {
		h, ok := st.findHandoffByTarget(pendingTarget)
		if !ok {
			return agent.ToolUseDecision{}, nil, core.NewModelBehaviorError(
				"tool requested handoff to undeclared agent %q", pendingTarget)
		}
		d.handoff = &h
	}

	if d.handoff != nil && d.from != "" {
		st.append(core.ToolOutputItem{
			CallID: d.from,
			Name:   d.handoff.ToolName(),
			Output: fmt.Sprintf(`{"assistant":%q}`, d.handoff.Target().Name()),
		})
	}
	for _, call := range d.rejected {
		st.append(core.ToolOutputItem{
			CallID: call.ID,
			Name:   call.Name,
			Output: "Transfer already in progress; this transfer was not executed.",
		})
	}

	decision, err := st.active.ToolUseBehavior().Decide(st.runCtx, results)
	if err != nil {
		return agent.ToolUseDecision{}, nil, fmt.Errorf("tool-use behavior failed: %w", err)
	}

	return decision, d.handoff, nil
}

// classify resolves every call name against the active agent's tools and
// handoffs before anything executes, so a hallucinated name fails the turn
// without recording any tool output. The first handoff wins; additional
// transfer calls are rejected.
func (st *runState) classify(calls []model.ToolCall) (dispatch, error) {
	var d dispatch
	for _, call := range calls {
		if h, ok := st.active.FindHandoff(call.Name); ok {
			if d.handoff != nil {
				d.rejected = append(d.rejected, call)
				continue
			}
			hc := h
			d.handoff = &hc
			d.from = call.ID
			continue
		}
		t, ok := st.active.FindTool(st.runCtx, call.Name)
		if !ok {
			st.runCtx.LogError("run.tool.unknown", "run_id", st.runCtx.RunID, "agent", st.active.Name(), "tool", call.Name)
			return dispatch{}, core.NewModelBehaviorError(
				"model called unknown tool %q for agent %q", call.Name, st.active.Name())
		}
		d.toolCalls = append(d.toolCalls, call)
		d.tools = append(d.tools, t)
	}
	return d, nil
}

// toolOutcome is the resolved state of one executed tool call.
type toolOutcome struct {
	raw           any
	output        string
	handoffTarget string
	err           error
}

// executeTools runs the turn's plain tool calls, sequentially or concurrently
// per ParallelToolCalls, and folds outputs back in request order.
func (st *runState) executeTools(calls []model.ToolCall, tools []tool.Tool) ([]agent.ToolResult, string, error) {
	if len(calls) == 0 {
		return nil, "", nil
	}

	outcomes := make([]toolOutcome, len(calls))

	hooks := st.hooksFor(st.active)

	// Start notifications fire sequentially in issuance order, even when the
	// calls themselves run concurrently.
	for _, call := range calls {
		hooks.OnToolStart(st.runCtx, st.active, call.Name)
	}

	if st.cfg.ParallelToolCalls && len(calls) > 1 {
		var wg sync.WaitGroup
		for i := range calls {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				outcomes[idx] = st.executeTool(calls[idx], tools[idx])
			}(i)
		}
		wg.Wait()
	} else {
		for i := range calls {
			outcomes[i] = st.executeTool(calls[i], tools[i])
		}
	}

	results := make([]agent.ToolResult, 0, len(calls))
	pendingTarget := ""
	for i, call := range calls {
		o := outcomes[i]
		if o.err != nil {
			return nil, "", o.err
		}
		st.append(core.ToolOutputItem{CallID: call.ID, Name: call.Name, Output: o.output})
		hooks.OnToolEnd(st.runCtx, st.active, call.Name, o.raw)
		results = append(results, agent.ToolResult{CallID: call.ID, Name: call.Name, Output: o.raw})
		if pendingTarget == "" && o.handoffTarget != "" {
			pendingTarget = o.handoffTarget
		}
	}
	return results, pendingTarget, nil
}

// executeTool invokes a single tool with panic safety and applies its error
// behavior. A non-nil outcome err terminates the run.
func (st *runState) executeTool(call model.ToolCall, t tool.Tool) toolOutcome {
	toolCtx := core.NewToolContext(st.runCtx, call.ID)

	args, err := parseArguments(call.Arguments)
	if err != nil {
		parseErr := core.NewModelBehaviorError(
			"arguments for tool %q are not valid JSON: %v", call.Name, err)
		st.runCtx.LogWarn("run.tool.bad_arguments", "run_id", st.runCtx.RunID, "tool", call.Name)
		if propagates(t) {
			return toolOutcome{err: parseErr}
		}
		msg := renderToolError(t, toolCtx, parseErr)
		return toolOutcome{raw: msg, output: msg}
	}

	start := time.Now()
	var (
		raw     any
		callErr error
	)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				callErr = fmt.Errorf("tool %s panicked: %v", call.Name, rec)
				st.runCtx.LogError("run.tool.panic", "tool", call.Name, "recover", rec, "stack", string(debug.Stack()))
			}
		}()
		raw, callErr = t.Call(toolCtx, args)
	}()

	st.runCtx.LogInfo("run.tool.executed",
		"run_id", st.runCtx.RunID,
		"agent", st.active.Name(),
		"tool", call.Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", callErr != nil,
	)

	if callErr != nil {
		if propagates(t) {
			return toolOutcome{err: callErr}
		}
		msg := renderToolError(t, toolCtx, callErr)
		return toolOutcome{
			raw:           msg,
			output:        msg,
			handoffTarget: toolCtx.HandoffTarget(),
		}
	}

	return toolOutcome{
		raw:           raw,
		output:        stringifyOutput(raw),
		handoffTarget: toolCtx.HandoffTarget(),
	}
}

// transfer applies a handoff: record the marker, notify hooks, filter the
// model-visible history and swap the active agent.
func (st *runState) transfer(h agent.Handoff) {
	from := st.active
	to := h.Target()

	st.append(core.HandoffItem{From: from.Name(), To: to.Name()})
	st.hooksFor(from).OnHandoff(st.runCtx, from, to)

	st.history = h.FilterInput(st.history)
	st.active = to
	st.runCtx.AgentName = to.Name()

	st.runCtx.LogInfo("run.handoff", "run_id", st.runCtx.RunID, "from_agent", from.Name(), "to_agent", to.Name())

	st.hooksFor(to).OnRunStart(st.runCtx, to)
	st.emit(AgentUpdatedEvent{Agent: to.Name()})
}

// finish handles a terminal text response: schema validation, output
// guardrails and result assembly.
func (st *runState) finish(input []core.RunItem, text string) (*RunResult, error) {
	var output any = text
	if schema := st.active.OutputSchema(); schema != nil {
		validated, err := schema.Validate(text)
		if err != nil {
			return nil, err
		}
		output = validated
	}
	return st.finalize(input, output)
}

// finalize runs output guardrails against the candidate output and builds the
// RunResult. Used by both the text-terminal and tool-use-terminal paths.
func (st *runState) finalize(input []core.RunItem, output any) (*RunResult, error) {
	outputGuardrails := append(append([]guardrail.OutputGuardrail{}, st.cfg.OutputGuardrails...), st.active.OutputGuardrails()...)
	outputResults, err := guardrail.EvaluateOutput(st.runCtx, st.active.Name(), output, outputGuardrails)
	if err != nil {
		return nil, err
	}

	st.hooksFor(st.active).OnRunEnd(st.runCtx, st.active, output)

	return &RunResult{
		Input:                  core.CloneItems(input),
		NewItems:               st.newItems,
		FinalOutput:            output,
		LastAgent:              st.active,
		InputGuardrailResults:  st.inputResults,
		OutputGuardrailResults: outputResults,
		Usage:                  st.usage,
	}, nil
}

// findHandoffByTarget resolves a handoff of the active agent by target agent name.
func (st *runState) findHandoffByTarget(name string) (agent.Handoff, bool) {
	for _, h := range st.active.Handoffs() {
		if h.Target().Name() == name {
			return h, true
		}
	}
	return agent.Handoff{}, false
}

// propagates reports whether a tool failure should terminate the run instead
// of feeding an error message back to the model.
func propagates(t tool.Tool) bool {
	type behaved interface {
		ErrorBehavior() tool.ErrorBehavior
	}
	if b, ok := t.(behaved); ok {
		return b.ErrorBehavior() == tool.ErrorPropagate
	}
	return false
}

// renderToolError produces the in-conversation error string for a failed call.
func renderToolError(t tool.Tool, toolCtx *core.ToolContext, err error) string {
	type renderer interface {
		RenderError(toolCtx *core.ToolContext, err error) string
	}
	if r, ok := t.(renderer); ok {
		return r.RenderError(toolCtx, err)
	}
	return fmt.Sprintf("tool %s failed: %v", t.Name(), err)
}

// parseArguments decodes a model-supplied argument payload.
func parseArguments(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// stringifyOutput renders a tool's return value as the tool-output text fed
// back to the model.
func stringifyOutput(v any) string {
	switch out := v.(type) {
	case nil:
		return ""
	case string:
		return out
	default:
		b, err := json.Marshal(out)
		if err != nil {
			return fmt.Sprintf("%v", out)
		}
		return string(b)
	}
}
