// Package llm provides centralized LLM configuration and client abstractions.
// Every provider returns raw text plus whether generation stopped at the token
// ceiling; interpreting the text is left to the caller.
package llm

import (
	"fmt"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider, also used for OpenAI-compatible APIs
	ProviderOpenAI Provider = "openai"
	// ProviderMock returns canned responses and never leaves the process
	ProviderMock Provider = "mock"
)

// DefaultMaxTokens is the output ceiling for one diagnosis
const DefaultMaxTokens = 2048

// defaultModels is the model used per provider when none is configured
var defaultModels = map[Provider]string{
	ProviderAnthropic: "claude-haiku-4-5-20251001",
	ProviderGemini:    "gemini-2.5-flash",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderMock:      "mock",
}

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Model       string
	MaxTokens   int
	Temperature float64
	BaseURL     string // optional endpoint override (OpenAI-compatible gateways, tests)
}

// DefaultConfig returns the default configuration (Anthropic, claude-haiku)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderAnthropic,
		Model:       DefaultModel(ProviderAnthropic),
		MaxTokens:   DefaultMaxTokens,
		Temperature: 0.7,
	}
}

// DefaultModel returns the default model id for a provider, or "" if unknown
func DefaultModel(p Provider) string {
	return defaultModels[p]
}

// ParseProvider normalises a provider name
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := defaultModels[p]; !ok {
		return "", fmt.Errorf("unknown LLM provider %q", name)
	}
	return p, nil
}

// WithProvider returns a copy of the config for another provider, switching
// to that provider's default model.
func (c *Config) WithProvider(p Provider) *Config {
	newConfig := *c
	newConfig.Provider = p
	newConfig.Model = DefaultModel(p)
	return &newConfig
}

// WithModel returns a copy of the config with a specific model id
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}

// Validate checks the config is usable
func (c *Config) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("no model configured for provider %s", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}
	return nil
}
