package llm

import (
	"context"
	"sync"
)

// MockProvider replays scripted responses and records requests
type MockProvider struct {
	name      string
	available bool
	responses []string
	errs      []error

	mu       sync.Mutex
	requests []Request
}

func (m *MockProvider) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := len(m.requests)
	m.requests = append(m.requests, req)

	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	text := ""
	if len(m.responses) > 0 {
		text = m.responses[min(i, len(m.responses)-1)]
	}
	return &Response{Text: text, Model: "mock-model"}, nil
}

func (m *MockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
