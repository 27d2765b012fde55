package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/CyBerk9z/saixaid-main/ai"
	"github.com/CyBerk9z/saixaid-main/ai/mock"
	"github.com/CyBerk9z/saixaid-main/chunk"
	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/CyBerk9z/saixaid-main/storage"
	storagebadger "github.com/CyBerk9z/saixaid-main/storage/badger"
	"github.com/CyBerk9z/saixaid-main/vectorstore"
	"github.com/CyBerk9z/saixaid-main/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldsCounter counts whitespace-separated fields as tokens.
type fieldsCounter struct{}

func (fieldsCounter) Count(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

// stubRows serves canned conversation rows per source reference.
type stubRows struct {
	rows map[string][]core.ConversationRow
	err  error
}

func (s *stubRows) Rows(ctx context.Context, sourceRef string) ([]core.ConversationRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[sourceRef], nil
}

func row(ts, text string) core.ConversationRow {
	return core.ConversationRow{
		Timestamp:       ts,
		AuthorID:        "U1",
		AuthorName:      "alice",
		Channel:         "general",
		Text:            text,
		ParentTimestamp: ts,
	}
}

// fiveThreadRows yields five single-row threads spaced far enough apart
// that chunking emits one passage per thread.
func fiveThreadRows() []core.ConversationRow {
	markers := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	rows := make([]core.ConversationRow, len(markers))
	for i, marker := range markers {
		ts := fmt.Sprintf("2026-01-05 09:%02d:00", i*10)
		rows[i] = row(ts, "topic "+marker)
	}
	return rows
}

type testEnv struct {
	service   *Service
	store     *memory.Store
	provider  *mock.MockProvider
	completer *mock.MockCompleter
	tenants   storage.TenantRepository
	sources   storage.SourceRepository
	rows      *stubRows
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tenantRepo, sourceRepo, backend, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { sourceRepo.Close(); tenantRepo.Close(); backend.Close() })

	chunker, err := chunk.NewChunker(fieldsCounter{}, chunk.WithTargetTokens(100))
	require.NoError(t, err)

	store := memory.NewStore()
	embedder := mock.NewMockEmbedder()
	completer := mock.NewMockCompleter()
	provider := mock.NewMockProviderWith(embedder, completer)
	rows := &stubRows{rows: map[string][]core.ConversationRow{
		"export.csv": fiveThreadRows(),
	}}

	service, err := NewService(store, provider, tenantRepo, sourceRepo, rows, chunker,
		WithDimension(384),
		WithPoolSize(1),
		WithRetry(2, time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(service.Release)

	return &testEnv{
		service:   service,
		store:     store,
		provider:  provider,
		completer: completer,
		tenants:   tenantRepo,
		sources:   sourceRepo,
		rows:      rows,
	}
}

// scriptCompleter routes expansion, rerank, and synthesis prompts to
// their canned replies. Rerank scores come from marker words in the
// document text.
func scriptCompleter(completer *mock.MockCompleter, expansion, answer string, rerankScores map[string]string) {
	completer.CompleteFunc = func(ctx context.Context, messages []ai.ChatMessage, opts ai.CompletionOptions) (string, error) {
		prompt := messages[len(messages)-1].Content
		switch {
		case strings.Contains(prompt, "Rewrite the following"):
			return expansion, nil
		case strings.Contains(messages[0].Content, "Rate on a scale"):
			for marker, score := range rerankScores {
				if strings.Contains(messages[0].Content, marker) {
					return score, nil
				}
			}
			return "1", nil
		default:
			return answer, nil
		}
	}
}

func TestBuildIndex(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stats, err := env.service.BuildIndex(ctx, "acme", "export.csv")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.IndexSize)

	physical := vectorstore.PhysicalName("conversations-acme")
	assert.Equal(t, 5, env.store.Count(physical))

	// The build marks the source record indexed.
	record, err := env.sources.GetSource(ctx, "acme", "export.csv")
	require.NoError(t, err)
	assert.Equal(t, storage.SourceStatusIndexed, record.Status)
}

func TestBuildIndexRebuildIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.BuildIndex(ctx, "acme", "export.csv")
	require.NoError(t, err)
	stats, err := env.service.BuildIndex(ctx, "acme", "export.csv")
	require.NoError(t, err)

	// Same source, same passage IDs: documents overwrite, never duplicate.
	assert.Equal(t, 5, stats.IndexSize)
	assert.Equal(t, 5, env.store.Count(vectorstore.PhysicalName("conversations-acme")))
}

func TestBuildIndexEmptySource(t *testing.T) {
	env := newTestEnv(t)
	env.rows.rows["empty.csv"] = nil

	stats, err := env.service.BuildIndex(context.Background(), "acme", "empty.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.IndexSize)
}

func TestBuildIndexFetchFailure(t *testing.T) {
	env := newTestEnv(t)
	env.rows.err = errors.New("blob unavailable")

	_, err := env.service.BuildIndex(context.Background(), "acme", "export.csv")
	require.Error(t, err)

	var pipeErr *PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, "acme", pipeErr.Tenant)
	assert.Equal(t, OpBuildIndex, pipeErr.Op)
	assert.Equal(t, StageFetch, pipeErr.Stage)
}

func TestBuildIndexEmbeddingFailureIdentifiesItem(t *testing.T) {
	env := newTestEnv(t)
	env.provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "charlie") {
			return nil, errors.New("embedding backend down")
		}
		return make([]float32, 384), nil
	}

	_, err := env.service.BuildIndex(context.Background(), "acme", "export.csv")
	require.Error(t, err)

	var pipeErr *PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, StageEmbed, pipeErr.Stage)

	var embErr *EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Equal(t, 2, embErr.Index)
}

func TestBuildIndexValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.BuildIndex(context.Background(), "", "export.csv")
	assert.ErrorIs(t, err, core.ErrEmptyTenant)

	_, err = env.service.BuildIndex(context.Background(), "acme", "")
	assert.ErrorIs(t, err, core.ErrEmptySourceRef)
}

func TestQueryRerankOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.BuildIndex(ctx, "acme", "export.csv")
	require.NoError(t, err)

	scriptCompleter(env.completer, "expanded topic query", "grounded answer", map[string]string{
		"alpha":   "2",
		"bravo":   "9",
		"charlie": "7",
		"delta":   "5",
		"echo":    "3",
	})

	result, err := env.service.Query(ctx, "acme", "what is the topic?", 5)
	require.NoError(t, err)

	assert.Equal(t, "grounded answer", result.Answer)
	assert.Equal(t, "expanded topic query", result.ExpandedQuery)

	// Documents come back in rerank order, not similarity order.
	require.Len(t, result.SourceDocuments, 5)
	wantOrder := []string{"bravo", "charlie", "delta", "echo", "alpha"}
	for i, marker := range wantOrder {
		assert.Contains(t, result.SourceDocuments[i].Text, marker, "position %d", i)
	}

	// Scores carries the similarity score of each document, same order.
	require.Len(t, result.Scores, 5)
	for i, doc := range result.SourceDocuments {
		assert.Equal(t, doc.Score, result.Scores[i])
	}
}

func TestQueryUsesTenantSystemPrompt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.BuildIndex(ctx, "acme", "export.csv")
	require.NoError(t, err)
	require.NoError(t, env.tenants.SetSystemPrompt(ctx, "acme", "Answer as the acme support desk."))

	env.completer.Response = "answer"
	_, err = env.service.Query(ctx, "acme", "question", 3)
	require.NoError(t, err)

	// Last call is the synthesis; its second message is the tenant prompt.
	synthesis := env.completer.Call(env.completer.CallCount() - 1)
	require.Len(t, synthesis, 4)
	assert.Equal(t, "Answer as the acme support desk.", synthesis[1].Content)
}

func TestQueryTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.BuildIndex(ctx, "acme", "export.csv")
	require.NoError(t, err)

	// A tenant without an index cannot see another tenant's passages.
	_, err = env.service.Query(ctx, "other", "what is the topic?", 3)
	require.Error(t, err)

	var pipeErr *PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, "other", pipeErr.Tenant)
	assert.Equal(t, StageSearch, pipeErr.Stage)
	assert.ErrorIs(t, err, vectorstore.ErrNotFound)
}

func TestQueryValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Query(context.Background(), "", "question", 3)
	assert.ErrorIs(t, err, core.ErrEmptyTenant)

	_, err = env.service.Query(context.Background(), "acme", "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestDeleteIndexThenRebuild(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.BuildIndex(ctx, "acme", "export.csv")
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteIndex(ctx, "acme"))
	assert.Equal(t, 0, env.store.Count(vectorstore.PhysicalName("conversations-acme")))

	// Deletion resets the source status for re-ingestion.
	record, err := env.sources.GetSource(ctx, "acme", "export.csv")
	require.NoError(t, err)
	assert.Equal(t, storage.SourceStatusUploaded, record.Status)

	// A rebuild produces a fresh, queryable index.
	stats, err := env.service.BuildIndex(ctx, "acme", "export.csv")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.IndexSize)

	env.completer.Response = "5"
	result, err := env.service.Query(ctx, "acme", "what is the topic?", 3)
	require.NoError(t, err)
	assert.Len(t, result.SourceDocuments, 3)
}

func TestDeleteIndexMissingIsNoop(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.service.DeleteIndex(context.Background(), "ghost"))
}

func TestNewServiceValidation(t *testing.T) {
	env := newTestEnv(t)
	chunker, err := chunk.NewChunker(fieldsCounter{})
	require.NoError(t, err)

	_, err = NewService(nil, env.provider, env.tenants, env.sources, env.rows, chunker)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewService(env.store, nil, env.tenants, env.sources, env.rows, chunker)
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewService(env.store, env.provider, env.tenants, env.sources, nil, chunker)
	assert.ErrorIs(t, err, ErrRowProviderRequired)

	_, err = NewService(env.store, env.provider, env.tenants, env.sources, env.rows, nil)
	assert.ErrorIs(t, err, ErrChunkerRequired)
}
