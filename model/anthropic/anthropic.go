// Package anthropic provides an implementation of model.Model using the
// Anthropic Messages API with tool use support. Streaming is emulated: the
// complete response is fetched and emitted as a single final event.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/hupe1980/agentrun/core"
	"github.com/hupe1980/agentrun/model"
)

// Options configure the Anthropic model adapter.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
		APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	return &Model{client: anthropic.NewClient(clientOpts...), opts: opts}
}

// Generate implements generation via the Messages API. Streaming requests are
// served non-incrementally: a single final response is emitted.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)

		params := m.buildParams(req)

		resp, err := m.client.Messages.New(ctx, params)
		if err != nil {
			errCh <- fmt.Errorf("anthropic api error: %w", err)
			return
		}

		var text string
		var calls []model.ToolCall
		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				text += block.AsText().Text
			case "tool_use":
				tu := block.AsToolUse()
				args := ""
				if tu.Input != nil {
					if b, err := json.Marshal(tu.Input); err == nil {
						args = string(b)
					}
				}
				calls = append(calls, model.ToolCall{
					ID:        tu.ID,
					Name:      tu.Name,
					Arguments: args,
				})
			}
		}

		out <- model.Response{
			ID:           resp.ID,
			Partial:      false,
			Text:         text,
			ToolCalls:    calls,
			FinishReason: string(resp.StopReason),
			Usage: &model.TokenUsage{
				PromptTokens:     int(resp.Usage.InputTokens),
				CompletionTokens: int(resp.Usage.OutputTokens),
				TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
			},
		}
	}()
	return out, errCh
}

func (m *Model) buildParams(req model.Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(req.Items),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}
	if req.Instructions != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Instructions}}
	}
	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
	}
	return params
}

// buildMessages converts normalized run items into Anthropic messages. System
// items merge into the user turn text since the Messages API carries the
// system prompt out of band; handoff markers are skipped.
func buildMessages(items []core.RunItem) []anthropic.MessageParam {
	var messages []anthropic.MessageParam

	var assistantBlocks []anthropic.ContentBlockParamUnion
	flushAssistant := func() {
		if len(assistantBlocks) == 0 {
			return
		}
		messages = append(messages, anthropic.NewAssistantMessage(assistantBlocks...))
		assistantBlocks = nil
	}

	for _, item := range items {
		switch it := item.(type) {
		case core.MessageItem:
			switch it.Role {
			case core.RoleAssistant:
				assistantBlocks = append(assistantBlocks, anthropic.NewTextBlock(it.Text))
			default:
				flushAssistant()
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(it.Text)))
			}
		case core.ToolCallItem:
			var input any = map[string]any{}
			if it.Arguments != "" {
				var parsed any
				if err := json.Unmarshal([]byte(it.Arguments), &parsed); err == nil {
					input = parsed
				}
			}
			assistantBlocks = append(assistantBlocks, anthropic.NewToolUseBlock(it.CallID, input, it.Name))
		case core.ToolOutputItem:
			flushAssistant()
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(it.CallID, it.Output, false),
			))
		case core.HandoffItem:
			// Engine bookkeeping only; not part of the provider conversation.
		}
	}
	flushAssistant()

	return messages
}

func buildTools(defs []model.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, tdef := range defs {
		var schema struct {
			Properties map[string]any `json:"properties"`
			Required   []string       `json:"required"`
		}
		if len(tdef.Parameters) > 0 {
			_ = json.Unmarshal(tdef.Parameters, &schema)
		}
		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       constant.Object("object"),
			Properties: schema.Properties,
			Required:   schema.Required,
		}
		tool := anthropic.ToolUnionParamOfTool(inputSchema, tdef.Name)
		if tool.OfTool != nil && tdef.Description != "" {
			tool.OfTool.Description = anthropic.String(tdef.Description)
		}
		tools = append(tools, tool)
	}
	return tools
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
