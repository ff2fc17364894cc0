package llm

import (
	"context"
	"fmt"
)

// Generation is the raw outcome of one model call
type Generation struct {
	Text      string
	Truncated bool // stopped at the token ceiling rather than finishing
	Model     string
	Usage     Usage
}

// Usage is the token accounting reported by the provider
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Client is an abstraction over LLM providers. Generate makes exactly one
// attempt; errors are returned as *GenerationError.
type Client interface {
	// Generate sends prompt as a single user message
	Generate(ctx context.Context, prompt string) (*Generation, error)
	// Model returns the configured model id
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LLM config: %w", err)
	}

	switch config.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey)
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	case ProviderMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
