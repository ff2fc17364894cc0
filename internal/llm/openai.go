package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client using the chat completions API. It also
// serves OpenAI-compatible gateways via Config.BaseURL.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Generate sends the prompt as one user message
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxCompletionTokens: c.config.MaxTokens,
		Temperature:         float32(c.config.Temperature),
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &GenerationError{Provider: ProviderOpenAI, Message: "failed to create chat completion", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &GenerationError{Provider: ProviderOpenAI, Message: "no choices in response"}
	}

	choice := resp.Choices[0]
	return &Generation{
		Text:      choice.Message.Content,
		Truncated: choice.FinishReason == openai.FinishReasonLength,
		Model:     resp.Model,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// Model returns the configured model id
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client is shared
func (c *OpenAIClient) Close() error {
	return nil
}
