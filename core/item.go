package core

import "github.com/google/uuid"

// Conversation roles attached to MessageItem values.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// RunItem is one entry of a run's conversation history. Concrete item types
// implement the unexported isRunItem marker enabling a closed set, so the run
// loop can match exhaustively instead of sniffing attributes.
//
// History is append-only: the engine never reorders or rewrites items already
// recorded. The only wholesale replacement point is a handoff input filter,
// which produces a new history slice for the next active agent.
type RunItem interface{ isRunItem() }

// MessageItem is a plain role-tagged text message (user, assistant or system).
type MessageItem struct {
	Role string
	Text string
}

func (MessageItem) isRunItem() {}

// ToolCallItem records a model-issued tool invocation request.
type ToolCallItem struct {
	CallID    string
	Name      string
	Arguments string // serialized JSON argument payload
}

func (ToolCallItem) isRunItem() {}

// ToolOutputItem records the result of a tool invocation, correlated to the
// originating call via CallID.
type ToolOutputItem struct {
	CallID string
	Name   string
	Output string
}

func (ToolOutputItem) isRunItem() {}

// HandoffItem marks a transfer of the active-agent role mid-run. It is
// recorded in the new-items list for auditability.
type HandoffItem struct {
	From string
	To   string
}

func (HandoffItem) isRunItem() {}

// NewID generates a unique identifier used for run and tool call correlation.
func NewID() string { return uuid.NewString() }

// UserMessage is a convenience constructor for a user-authored MessageItem.
func UserMessage(text string) MessageItem {
	return MessageItem{Role: RoleUser, Text: text}
}

// AssistantMessage is a convenience constructor for an assistant MessageItem.
func AssistantMessage(text string) MessageItem {
	return MessageItem{Role: RoleAssistant, Text: text}
}

// CloneItems returns a shallow copy of an item slice. Items themselves are
// value types and safe to share.
func CloneItems(items []RunItem) []RunItem {
	if items == nil {
		return nil
	}
	out := make([]RunItem, len(items))
	copy(out, items)
	return out
}

// LastMessage returns the text of the last MessageItem with the given role,
// or "" if none exists.
func LastMessage(items []RunItem, role string) string {
	for i := len(items) - 1; i >= 0; i-- {
		if m, ok := items[i].(MessageItem); ok && m.Role == role {
			return m.Text
		}
	}
	return ""
}
