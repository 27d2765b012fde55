package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CyBerk9z/saixaid-main/ai"
)

const expandPromptFormat = `Rewrite the following short query into a natural sentence better suited for search, including synonyms and related keywords.

Query: %q

Rewritten query:`

const (
	expandMaxTokens   = 50
	expandTemperature = 0.2
)

// QueryExpander rewrites terse queries into richer search phrasings.
// Expansion is best-effort: any model failure falls back to the
// original query so a degraded chat backend never blocks retrieval.
type QueryExpander struct {
	completer ai.ChatCompleter
	logger    *slog.Logger
}

// NewQueryExpander creates a query expander backed by the completer.
func NewQueryExpander(completer ai.ChatCompleter, logger *slog.Logger) *QueryExpander {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryExpander{
		completer: completer,
		logger:    logger.With("component", "expander"),
	}
}

// Expand returns a search-friendly rewrite of query, or query itself
// when the model call fails or produces nothing.
func (e *QueryExpander) Expand(ctx context.Context, query string) string {
	messages := []ai.ChatMessage{
		{Role: ai.RoleUser, Content: fmt.Sprintf(expandPromptFormat, query)},
	}

	expanded, err := e.completer.Complete(ctx, messages, ai.CompletionOptions{
		MaxTokens:   expandMaxTokens,
		Temperature: expandTemperature,
	})
	if err != nil {
		e.logger.Warn("Query expansion failed, using original query", "error", err)
		return query
	}
	if expanded == "" {
		return query
	}

	e.logger.Info("Expanded query", "original", query, "expanded", expanded)
	return expanded
}
