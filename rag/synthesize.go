package rag

import (
	"context"
	"log/slog"

	"github.com/CyBerk9z/saixaid-main/ai"
)

// groundingPrompt anchors the answer to the retrieved context. The
// stated field order matches the line format passages are rendered in.
const groundingPrompt = `You are an FAQ chatbot. Answer the question as accurately as possible based on the information below.

Answer from partial information when that is all the context provides.
Context lines show fields in this order: timestamp, user ID, user name,
channel, message, attachments.`

// DefaultSystemPrompt is used when a tenant has not configured one.
const DefaultSystemPrompt = "You are a helpful assistant answering questions about this organization's conversation history."

// Synthesizer produces the final grounded answer from reranked context.
type Synthesizer struct {
	completer ai.ChatCompleter
	logger    *slog.Logger
}

// NewSynthesizer creates a synthesizer backed by the completer.
func NewSynthesizer(completer ai.ChatCompleter, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		completer: completer,
		logger:    logger.With("component", "synthesizer"),
	}
}

// Synthesize generates an answer to question grounded in contextText.
// Message order is fixed: grounding instruction, tenant system prompt,
// context block, question. Unlike expansion and reranking, a synthesis
// failure is fatal for the query.
func (s *Synthesizer) Synthesize(ctx context.Context, systemPrompt, contextText, question string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	messages := []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: groundingPrompt},
		{Role: ai.RoleSystem, Content: systemPrompt},
		{Role: ai.RoleSystem, Content: contextText},
		{Role: ai.RoleUser, Content: question},
	}

	answer, err := s.completer.Complete(ctx, messages, ai.CompletionOptions{})
	if err != nil {
		return "", err
	}

	s.logger.Debug("Generated answer", "question", question, "answerLength", len(answer))
	return answer, nil
}
