package guardrail

import (
	"sync"

	"github.com/hupe1980/agentrun/core"
)

// EvaluateInput runs all input guardrails concurrently and collects their
// results in declaration order. Ordering is deterministic: callers pass
// run-level guardrails before per-agent guardrails, and the first tripwire in
// declaration order wins regardless of completion order.
//
// A guardrail returning a non-nil error aborts evaluation with that error; a
// tripwire aborts with *InputTripwireError. In both cases the results
// collected so far (in order) are returned alongside.
func EvaluateInput(runCtx *core.RunContext, agentName string, input []core.RunItem, guardrails []InputGuardrail) ([]InputResult, error) {
	if len(guardrails) == 0 {
		return nil, nil
	}

	results := make([]InputResult, len(guardrails))
	errs := make([]error, len(guardrails))

	var wg sync.WaitGroup
	for i, g := range guardrails {
		wg.Add(1)
		go func(idx int, g InputGuardrail) {
			defer wg.Done()

			res, err := g.Fn(runCtx, agentName, input)
			results[idx] = InputResult{Guardrail: g.Name, Result: res}
			errs[idx] = err
		}(i, g)
	}
	wg.Wait()

	for i, g := range guardrails {
		if errs[i] != nil {
			runCtx.LogError("guardrail.input.error", "guardrail", g.Name, "error", errs[i].Error())
			return results[:i], errs[i]
		}
		if results[i].Result.TripwireTriggered {
			runCtx.LogWarn("guardrail.input.tripwire", "guardrail", g.Name, "agent", agentName)
			return results[:i+1], &InputTripwireError{Guardrail: g.Name, Result: results[i].Result}
		}
	}

	return results, nil
}

// EvaluateOutput runs all output guardrails concurrently against the terminal
// candidate output. Semantics mirror EvaluateInput.
func EvaluateOutput(runCtx *core.RunContext, agentName string, output any, guardrails []OutputGuardrail) ([]OutputResult, error) {
	if len(guardrails) == 0 {
		return nil, nil
	}

	results := make([]OutputResult, len(guardrails))
	errs := make([]error, len(guardrails))

	var wg sync.WaitGroup
	for i, g := range guardrails {
		wg.Add(1)
		go func(idx int, g OutputGuardrail) {
			defer wg.Done()

			res, err := g.Fn(runCtx, agentName, output)
			results[idx] = OutputResult{Guardrail: g.Name, Result: res}
			errs[idx] = err
		}(i, g)
	}
	wg.Wait()

	for i, g := range guardrails {
		if errs[i] != nil {
			runCtx.LogError("guardrail.output.error", "guardrail", g.Name, "error", errs[i].Error())
			return results[:i], errs[i]
		}
		if results[i].Result.TripwireTriggered {
			runCtx.LogWarn("guardrail.output.tripwire", "guardrail", g.Name, "agent", agentName)
			return results[:i+1], &OutputTripwireError{Guardrail: g.Name, Result: results[i].Result}
		}
	}

	return results, nil
}
