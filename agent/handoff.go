package agent

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentrun/core"
)

// InputFilter transforms conversation history before control transfers to a
// handoff target. It must produce a structurally valid history (role-tagged
// items) and must not invent new semantic content; typical filters strip
// tool-call/tool-output items or truncate leading history.
type InputFilter func(items []core.RunItem) []core.RunItem

// HandoffOptions configures a Handoff.
type HandoffOptions struct {
	// ToolName overrides the tool-facing name. Defaults to
	// "transfer_to_<snake_case(target name)>".
	ToolName string

	// ToolDescription overrides the description shown to the model.
	ToolDescription string

	// InputFilter transforms history at the transfer boundary.
	// Nil means identity (history passes through unchanged).
	InputFilter InputFilter
}

// Handoff declares that an agent may transfer the active-agent role to a
// target agent mid-run. Handoffs are surfaced to the model as callable tools.
type Handoff struct {
	target          *Agent
	toolName        string
	toolDescription string
	inputFilter     InputFilter
}

// NewHandoff declares a handoff to target.
func NewHandoff(target *Agent, optFns ...func(o *HandoffOptions)) Handoff {
	opts := HandoffOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	return Handoff{
		target:          target,
		toolName:        opts.ToolName,
		toolDescription: opts.ToolDescription,
		inputFilter:     opts.InputFilter,
	}
}

// Target returns the handoff target agent.
func (h Handoff) Target() *Agent { return h.target }

// ToolName returns the tool-facing name of this handoff.
func (h Handoff) ToolName() string {
	if h.toolName != "" {
		return h.toolName
	}
	return DefaultHandoffToolName(h.target.Name())
}

// ToolDescription returns the description presented to the model.
func (h Handoff) ToolDescription() string {
	if h.toolDescription != "" {
		return h.toolDescription
	}
	return fmt.Sprintf("Handoff to the %s agent. Use when it is better suited to handle the request.", h.target.Name())
}

// FilterInput applies the input filter to history, or returns it unchanged
// when no filter is configured.
func (h Handoff) FilterInput(items []core.RunItem) []core.RunItem {
	if h.inputFilter == nil {
		return items
	}
	return h.inputFilter(items)
}

// DefaultHandoffToolName derives the tool-facing name for a target agent name,
// e.g. "Billing Agent" -> "transfer_to_billing_agent".
func DefaultHandoffToolName(agentName string) string {
	s := strings.ToLower(strings.TrimSpace(agentName))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
	return "transfer_to_" + strings.Trim(s, "_")
}

// RemoveToolItems is an InputFilter that strips tool-call and tool-output
// items, leaving only messages and handoff markers. Commonly used so a
// specialist agent starts from the plain conversation.
func RemoveToolItems(items []core.RunItem) []core.RunItem {
	out := make([]core.RunItem, 0, len(items))
	for _, it := range items {
		switch it.(type) {
		case core.ToolCallItem, core.ToolOutputItem:
			continue
		default:
			out = append(out, it)
		}
	}
	return out
}

// KeepLastN returns an InputFilter that truncates history to its last n items.
func KeepLastN(n int) InputFilter {
	return func(items []core.RunItem) []core.RunItem {
		if n <= 0 || len(items) <= n {
			return items
		}
		return items[len(items)-n:]
	}
}
