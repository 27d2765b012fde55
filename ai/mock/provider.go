package mock

import (
	"github.com/CyBerk9z/saixaid-main/ai"
)

// MockProvider is a test double for ai.Provider that aggregates mock services.
type MockProvider struct {
	embedder  *MockEmbedder
	completer *MockCompleter
}

// NewMockProvider creates a provider backed by default mocks.
// Returns ai.Provider since it's the primary entry point; use
// GetMockEmbedder / GetMockCompleter to reach the concrete types
// for assertions.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		completer: NewMockCompleter(),
	}
}

// NewMockProviderWith creates a provider around existing mocks.
func NewMockProviderWith(embedder *MockEmbedder, completer *MockCompleter) *MockProvider {
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	if completer == nil {
		completer = NewMockCompleter()
	}
	return &MockProvider{embedder: embedder, completer: completer}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the mock chat completion service.
func (p *MockProvider) Completer() ai.ChatCompleter {
	return p.completer
}

// Close is a no-op for mocks.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the concrete mock embedder for assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockCompleter returns the concrete mock completer for assertions.
func (p *MockProvider) GetMockCompleter() *MockCompleter {
	return p.completer
}
