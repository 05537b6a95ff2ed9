package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures the Anthropic backend.
type AnthropicConfig struct {
	APIKey       string
	DefaultModel string
	MaxTokens    int
}

// AnthropicClient implements Client using the Anthropic Messages API.
type AnthropicClient struct {
	client       anthropic.Client
	defaultModel string
	maxTokens    int64
}

// NewAnthropicClient constructs an AnthropicClient.
func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &AnthropicClient{
		client:       anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		defaultModel: model,
		maxTokens:    int64(maxTokens),
	}
}

// Name implements Client.
func (c *AnthropicClient) Name() string { return "anthropic" }

// Chat implements Client.
func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (ChatResult, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	maxTokens := c.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	var messages []anthropic.MessageParam
	var system string
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			if system == "" {
				system = m.Content
			}
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(messages) == 0 {
		return ChatResult{}, fmt.Errorf("llm: anthropic chat requires at least one non-system message")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.ResponseFormat != nil {
		params.System = append(params.System, anthropic.TextBlockParam{
			Text: "Respond with a single JSON object matching this schema and nothing else:\n" + string(req.ResponseFormat.Schema),
		})
	}

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	latency := time.Since(start)
	if err != nil {
		return ChatResult{}, fmt.Errorf("llm: anthropic chat: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if text := block.AsAny(); text != nil {
			if tb, ok := text.(anthropic.TextBlock); ok {
				content += tb.Text
			}
		}
	}

	return ChatResult{
		Content:          content,
		Provider:         c.Name(),
		ModelUsed:        string(resp.Model),
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
		Latency:          latency,
	}, nil
}
