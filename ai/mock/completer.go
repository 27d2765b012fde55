package mock

import (
	"context"

	"github.com/CyBerk9z/saixaid-main/ai"
)

// MockCompleter is a test double for ai.ChatCompleter.
// It allows custom behavior injection via a function field and records
// every request for assertions.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns Response.
	CompleteFunc func(ctx context.Context, messages []ai.ChatMessage, opts ai.CompletionOptions) (string, error)

	// Response is the canned reply used when CompleteFunc is nil.
	Response string

	calls [][]ai.ChatMessage
}

// NewMockCompleter creates a mock completer that replies with a fixed string.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{Response: "mock response"}
}

// Complete records the request and returns the injected or canned reply.
func (m *MockCompleter) Complete(ctx context.Context, messages []ai.ChatMessage, opts ai.CompletionOptions) (string, error) {
	copied := make([]ai.ChatMessage, len(messages))
	copy(copied, messages)
	m.calls = append(m.calls, copied)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages, opts)
	}
	return m.Response, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return len(m.calls)
}

// Call returns the messages of the i-th recorded call.
func (m *MockCompleter) Call(i int) []ai.ChatMessage {
	return m.calls[i]
}

// Reset clears recorded calls and injected behavior.
func (m *MockCompleter) Reset() {
	m.calls = nil
	m.CompleteFunc = nil
	m.Response = "mock response"
}
