package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrun/core"
)

func TestDefaultHandoffToolName(t *testing.T) {
	assert.Equal(t, "transfer_to_billing_agent", DefaultHandoffToolName("Billing Agent"))
	assert.Equal(t, "transfer_to_faq", DefaultHandoffToolName("FAQ"))
	assert.Equal(t, "transfer_to_tier_2_support", DefaultHandoffToolName("  Tier-2 Support  "))
}

func TestHandoff_Defaults(t *testing.T) {
	target := New("Refund Agent")
	h := NewHandoff(target)

	assert.Equal(t, "transfer_to_refund_agent", h.ToolName())
	assert.Contains(t, h.ToolDescription(), "Refund Agent")
	assert.Same(t, target, h.Target())
}

func TestHandoff_Overrides(t *testing.T) {
	h := NewHandoff(New("Escalation"), func(o *HandoffOptions) {
		o.ToolName = "escalate"
		o.ToolDescription = "Escalate to a human."
	})

	assert.Equal(t, "escalate", h.ToolName())
	assert.Equal(t, "Escalate to a human.", h.ToolDescription())
}

func TestHandoff_IdentityFilter(t *testing.T) {
	h := NewHandoff(New("Next"))

	history := []core.RunItem{
		core.UserMessage("hi"),
		core.ToolCallItem{CallID: "c1", Name: "lookup"},
		core.ToolOutputItem{CallID: "c1", Name: "lookup", Output: "found"},
	}

	filtered := h.FilterInput(history)
	assert.Equal(t, history, filtered)
}

func TestRemoveToolItems(t *testing.T) {
	history := []core.RunItem{
		core.UserMessage("hi"),
		core.ToolCallItem{CallID: "c1", Name: "lookup"},
		core.ToolOutputItem{CallID: "c1", Name: "lookup", Output: "found"},
		core.AssistantMessage("done"),
		core.HandoffItem{From: "a", To: "b"},
	}

	filtered := RemoveToolItems(history)
	require.Len(t, filtered, 3)
	assert.Equal(t, core.UserMessage("hi"), filtered[0])
	assert.Equal(t, core.AssistantMessage("done"), filtered[1])
	assert.Equal(t, core.HandoffItem{From: "a", To: "b"}, filtered[2])
}

func TestKeepLastN(t *testing.T) {
	history := []core.RunItem{
		core.UserMessage("1"),
		core.AssistantMessage("2"),
		core.UserMessage("3"),
	}

	assert.Len(t, KeepLastN(2)(history), 2)
	assert.Equal(t, core.UserMessage("3"), KeepLastN(1)(history)[0])
	assert.Len(t, KeepLastN(0)(history), 3)
	assert.Len(t, KeepLastN(10)(history), 3)
}
