package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client using the Anthropic Messages API
type AnthropicClient struct {
	client *anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// A failed generation is surfaced to the user, never retried
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client: &client,
		config: config,
	}, nil
}

// Generate sends the prompt as one user message
func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.config.Temperature > 0 {
		params.Temperature = anthropic.Float(c.config.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &GenerationError{Provider: ProviderAnthropic, Message: "failed to create message", Cause: err}
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	// A ceiling hit is a truncation even when nothing was emitted
	truncated := msg.StopReason == anthropic.StopReasonMaxTokens
	if len(parts) == 0 && !truncated {
		return nil, &GenerationError{Provider: ProviderAnthropic, Message: "no text content in response"}
	}

	return &Generation{
		Text:      strings.Join(parts, ""),
		Truncated: truncated,
		Model:     string(msg.Model),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}

// Model returns the configured model id
func (c *AnthropicClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the SDK holds no long-lived resources
func (c *AnthropicClient) Close() error {
	return nil
}
