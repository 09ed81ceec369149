package llm

import (
	"context"
	"sync"
)

// MockResult is one scripted reply of a MockClient.
type MockResult struct {
	Text string
	Err  error
}

// MockClient is a scriptable Client for tests and local development. Replies
// are served from the script in order; once the script is drained it keeps
// returning a canned fragment.
type MockClient struct {
	mu      sync.Mutex
	script  []MockResult
	prompts []string
}

// NewMockClient builds a mock client serving the given scripted results.
func NewMockClient(script ...MockResult) *MockClient {
	return &MockClient{script: script}
}

func (m *MockClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if len(m.script) == 0 {
		return "SELECT 1 -- mock fragment", nil
	}
	next := m.script[0]
	m.script = m.script[1:]
	return next.Text, next.Err
}

// Prompts returns the prompts received so far.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Calls returns how many times the client has been invoked.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
