// Package model defines the normalized boundary between the run engine and
// language model providers, plus deterministic and resilience-oriented
// implementations. Vendor adapters live in subpackages (openai, anthropic).
package model

import (
	"context"
	"encoding/json"

	"github.com/hupe1980/agentrun/core"
)

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // JSON string of arguments
}

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (type, properties, required) forwarded to
// the provider byte-for-byte.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Request captures the normalized model input produced by the run loop.
type Request struct {
	Instructions string           `json:"instructions"` // System prompt for the model
	Items        []core.RunItem   `json:"items"`        // Conversation history converted to provider messages
	Tools        []ToolDefinition `json:"tools,omitempty"`
	Stream       bool             `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model.
//
// Partial responses carry incremental Text deltas. The final response
// (Partial == false) carries the complete Text plus any ToolCalls; the run
// loop classifies a final response with tool calls as a tool dispatch turn
// and one without as a terminal message.
type Response struct {
	ID           string      `json:"id"`
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	ToolCalls    []ToolCall  `json:"tool_calls,omitempty"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the run loop to drive generation.
//
// Generate returns a response channel and an error channel. The response
// channel is closed after the final (non-partial) response; the error channel
// carries at most one terminal error then closes. Implementations must respect
// ctx cancellation at every emission.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}
