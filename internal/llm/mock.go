package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockClient
type MockResponse struct {
	Text      string
	Truncated bool
	Err       error
}

// MockClient is a deterministic Client for tests and offline runs. It returns
// canned responses in FIFO order and records every prompt it receives.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	Prompts   []string
}

// NewMockClient creates a MockClient with the given canned responses
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// Generate returns the next canned response, or a GenerationError when the
// queue is empty.
func (m *MockClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if err := ctx.Err(); err != nil {
		return nil, &GenerationError{Provider: ProviderMock, Message: "context done", Cause: err}
	}
	if len(m.responses) == 0 {
		return nil, &GenerationError{Provider: ProviderMock, Message: "no canned responses left"}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Generation{
		Text:      resp.Text,
		Truncated: resp.Truncated,
		Model:     "mock",
	}, nil
}

// AddResponse appends a canned response to the queue
func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// Model returns "mock"
func (m *MockClient) Model() string { return "mock" }

// Close is a no-op
func (m *MockClient) Close() error { return nil }
