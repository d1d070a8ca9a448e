package summarizer

import (
	"context"
	"sync"
)

// MockClient is a configurable in-memory Client for tests.
type MockClient struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	prompts  []string
}

// NewMockClient creates a mock that returns the given response.
func NewMockClient(response string) *MockClient {
	return &MockClient{response: response}
}

// SetError makes subsequent Summarize calls fail with err (nil clears it).
func (m *MockClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Summarize implements the Client interface.
func (m *MockClient) Summarize(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// ModelName returns a fixed mock model name.
func (m *MockClient) ModelName() string {
	return "mock"
}

// Calls returns how many times Summarize was invoked.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt returns the most recent prompt, or "" if none.
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}
