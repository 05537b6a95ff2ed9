package llm

import "fmt"

// ProviderConfig is the minimal shape factory.New needs from a
// configured provider; callers adapt their own config type into this.
type ProviderConfig struct {
	Type      string // "openai" or "anthropic"
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// New constructs the Client backend named by cfg.Type.
func New(cfg ProviderConfig) (Client, error) {
	switch cfg.Type {
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			MaxTokens:    cfg.MaxTokens,
		}), nil
	case "anthropic":
		return NewAnthropicClient(AnthropicConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.Model,
			MaxTokens:    cfg.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider type %q", cfg.Type)
	}
}
