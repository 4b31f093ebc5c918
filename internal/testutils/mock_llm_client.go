// Package testutils provides test doubles for the pipeline, most
// importantly a scripted LLM client so extraction tests run without a
// network or credentials.
package testutils

import (
	"context"
	"strings"
	"sync"
)

// MockResponse is one scripted reply: the first pattern matching the
// prompt (substring match, registration order) wins.
type MockResponse struct {
	// Pattern matches against prompts as a substring.
	Pattern string
	// Response is the text returned for matching prompts.
	Response string
	// Err, when non-nil, is returned instead of the response.
	Err error
	// TokensUsed is the reported output token count.
	TokensUsed int
}

// MockLLMClient implements ports.LLMClient with deterministic scripted
// responses and optional failure injection. Safe for concurrent use.
type MockLLMClient struct {
	mu        sync.Mutex
	model     string
	responses []MockResponse
	calls     []string

	// failuresLeft injects an error into the next N calls before the
	// scripted responses resume, for retry-path tests.
	failuresLeft int
	failure      error
}

// NewMockLLMClient creates a mock client with no scripted responses.
// Unmatched prompts return an empty JSON object.
func NewMockLLMClient(model string) *MockLLMClient {
	return &MockLLMClient{model: model}
}

// AddResponse registers a scripted response.
func (m *MockLLMClient) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, r)
}

// FailNext makes the next n calls return err before scripted responses
// resume.
func (m *MockLLMClient) FailNext(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failuresLeft = n
	m.failure = err
}

// Calls returns a copy of every prompt received so far.
func (m *MockLLMClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete implements ports.LLMClient.
func (m *MockLLMClient) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := m.CompleteWithUsage(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage implements ports.LLMClient.
func (m *MockLLMClient) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)

	if m.failuresLeft > 0 {
		m.failuresLeft--
		return "", 0, 0, m.failure
	}

	for _, r := range m.responses {
		if strings.Contains(prompt, r.Pattern) {
			if r.Err != nil {
				return "", 0, 0, r.Err
			}
			return r.Response, len(prompt) / 4, r.TokensUsed, nil
		}
	}
	return "{}", len(prompt) / 4, 1, nil
}

// GetModel implements ports.LLMClient.
func (m *MockLLMClient) GetModel() string { return m.model }
