package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
//
// Embedding is deliberately a single-text operation. Each call is an
// independent unit of work: a failure for one text never invalidates
// results already obtained for other texts in the same run.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	// RoleSystem carries instructions and context for the model.
	RoleSystem ChatRole = "system"
	// RoleUser carries the end user's input.
	RoleUser ChatRole = "user"
)

// ChatMessage is a single message in a chat completion request.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// CompletionOptions bounds a single chat completion call.
// A MaxTokens of 0 leaves the model's default limit in place.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// ChatCompleter issues chat completion calls against a language model.
// Implementations must be thread-safe for concurrent use.
type ChatCompleter interface {
	// Complete sends the messages in order and returns the model's reply
	// text with surrounding whitespace trimmed.
	Complete(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// ChatCompleter instances, ensuring they share configuration.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the chat completion service.
	// The returned ChatCompleter is safe for concurrent use.
	Completer() ChatCompleter

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
