package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/CyBerk9z/saixaid-main/ai"
	"github.com/CyBerk9z/saixaid-main/core"
)

const rerankPromptFormat = `Rate on a scale of 1 to 10 how useful the following document is for answering the question.

Question: %s

Document:
%s

Rating (number only):`

const (
	rerankMaxTokens   = 3
	rerankTemperature = 0.0
)

// Reranker orders retrieved passages by model-assessed relevance.
// Each document is scored sequentially with its own completion call;
// a failed or unparseable score demotes that document to 0 rather than
// failing the query.
type Reranker struct {
	completer ai.ChatCompleter
	logger    *slog.Logger
}

// NewReranker creates a reranker backed by the completer.
func NewReranker(completer ai.ChatCompleter, logger *slog.Logger) *Reranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reranker{
		completer: completer,
		logger:    logger.With("component", "reranker"),
	}
}

// Rerank scores every result against the query and returns them sorted
// by descending rerank score. The sort is stable, so documents with
// equal rerank scores keep their retrieval order. The output always has
// exactly as many items as the input.
func (r *Reranker) Rerank(ctx context.Context, query string, results []core.RetrievalResult) []core.RerankedResult {
	reranked := make([]core.RerankedResult, 0, len(results))

	for _, result := range results {
		score := r.scoreDocument(ctx, query, result.Text)
		reranked = append(reranked, core.RerankedResult{
			PassageID:   result.PassageID,
			Score:       result.Score,
			RerankScore: score,
			Text:        result.Text,
		})
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].RerankScore > reranked[j].RerankScore
	})

	return reranked
}

// scoreDocument asks the model for a 1-10 relevance rating.
func (r *Reranker) scoreDocument(ctx context.Context, query, text string) float32 {
	messages := []ai.ChatMessage{
		{Role: ai.RoleUser, Content: fmt.Sprintf(rerankPromptFormat, query, text)},
	}

	reply, err := r.completer.Complete(ctx, messages, ai.CompletionOptions{
		MaxTokens:   rerankMaxTokens,
		Temperature: rerankTemperature,
	})
	if err != nil {
		r.logger.Warn("Rerank call failed, scoring document 0", "error", err)
		return 0
	}

	score, err := strconv.ParseFloat(reply, 32)
	if err != nil {
		r.logger.Warn("Rerank reply not numeric, scoring document 0", "reply", reply)
		return 0
	}
	return float32(score)
}
