package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/sitebookify/sitebookify/internal/llm"
)

// LLMBackend drives a configured llm.Client as the rewrite backend.
type LLMBackend struct {
	Client llm.Client
	Model  string
}

// NewLLMBackend returns a Backend wrapping client.
func NewLLMBackend(client llm.Client, model string) *LLMBackend {
	return &LLMBackend{Client: client, Model: model}
}

// Rewrite implements Backend.
func (b *LLMBackend) Rewrite(ctx context.Context, instructions, text string) (string, error) {
	result, err := b.Client.Chat(ctx, llm.ChatRequest{
		Model: b.Model,
		Messages: []llm.Message{
			{Role: "system", Content: instructions},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("rewrite: llm call: %w", err)
	}
	return strings.TrimSpace(result.Content), nil
}
