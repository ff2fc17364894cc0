package llm

import (
	"context"
	"time"

	"github.com/jonathan/career-diagnosis/internal/observability"
)

// LoggingClient is a decorator that logs latency, usage and truncation of
// every generation.
type LoggingClient struct {
	inner  Client
	logger *observability.Logger
}

// WithLogging wraps a Client with structured logging
func WithLogging(c Client, logger *observability.Logger) Client {
	return &LoggingClient{inner: c, logger: logger.OrNop().With("component", "llm")}
}

// Generate delegates to the wrapped client and logs the outcome
func (l *LoggingClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
	start := time.Now()
	gen, err := l.inner.Generate(ctx, prompt)
	latency := time.Since(start)

	if err != nil {
		l.logger.Warn("generation failed",
			"model", l.inner.Model(),
			"latency_ms", latency.Milliseconds(),
			"prompt_chars", len(prompt),
			"error", err,
		)
		return nil, err
	}

	l.logger.Info("generation complete",
		"model", gen.Model,
		"latency_ms", latency.Milliseconds(),
		"input_tokens", gen.Usage.InputTokens,
		"output_tokens", gen.Usage.OutputTokens,
		"truncated", gen.Truncated,
	)
	return gen, nil
}

// Model returns the wrapped client's model id
func (l *LoggingClient) Model() string { return l.inner.Model() }

// Close closes the wrapped client
func (l *LoggingClient) Close() error { return l.inner.Close() }
