package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIConfig configures the OpenAI backend.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	MaxTokens    int
}

// OpenAIClient implements Client using the Chat Completions API.
type OpenAIClient struct {
	client       openai.Client
	defaultModel string
	maxTokens    int64
}

// NewOpenAIClient constructs an OpenAIClient.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		defaultModel: model,
		maxTokens:    int64(maxTokens),
	}
}

// Name implements Client.
func (c *OpenAIClient) Name() string { return "openai" }

// Chat implements Client.
func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (ChatResult, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	maxTokens := c.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	if req.ResponseFormat != nil {
		messages = append(messages, openai.SystemMessage(
			"Respond with a single JSON object matching this schema and nothing else:\n"+string(req.ResponseFormat.Schema)))
	}

	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(model),
		Messages:  messages,
		MaxTokens: openai.Int(maxTokens),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.ResponseFormat != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	latency := time.Since(start)
	if err != nil {
		return ChatResult{}, fmt.Errorf("llm: openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ChatResult{}, fmt.Errorf("llm: openai chat: empty response")
	}

	return ChatResult{
		Content:          resp.Choices[0].Message.Content,
		Provider:         c.Name(),
		ModelUsed:        resp.Model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		Latency:          latency,
	}, nil
}
