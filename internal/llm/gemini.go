package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Generate sends the prompt to the configured Gemini model
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(float32(c.config.Temperature))
	model.SetMaxOutputTokens(int32(c.config.MaxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &GenerationError{Provider: ProviderGemini, Message: "failed to generate content", Cause: err}
	}

	gen, err := geminiGeneration(resp)
	if err != nil {
		return nil, &GenerationError{Provider: ProviderGemini, Message: "unusable response", Cause: err}
	}
	gen.Model = c.config.Model
	return gen, nil
}

// Model returns the configured model id
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// geminiGeneration extracts text, stop state and usage from a Gemini response
func geminiGeneration(resp *genai.GenerateContentResponse) (*Generation, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	truncated := candidate.FinishReason == genai.FinishReasonMaxTokens

	var parts []string
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				parts = append(parts, string(text))
			}
		}
	}
	// A ceiling hit is a truncation even when nothing was emitted
	if len(parts) == 0 && !truncated {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			return nil, fmt.Errorf("no content in response")
		}
		return nil, fmt.Errorf("no text parts in response")
	}

	gen := &Generation{
		Text:      strings.Join(parts, ""),
		Truncated: truncated,
	}
	if resp.UsageMetadata != nil {
		gen.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return gen, nil
}
