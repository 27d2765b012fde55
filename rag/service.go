// Copyright 2026 Saixaid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rag

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/CyBerk9z/saixaid-main/ai"
	"github.com/CyBerk9z/saixaid-main/chunk"
	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/CyBerk9z/saixaid-main/storage"
	"github.com/CyBerk9z/saixaid-main/vectorstore"
	"github.com/panjf2000/ants/v2"
)

// Defaults for Service configuration.
const (
	DefaultBaseIndex      = "conversations"
	DefaultDimension      = 1536
	DefaultPoolSize       = 4
	DefaultMaxTopK        = 20
	DefaultTopK           = 5
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = 500 * time.Millisecond
)

// RowProvider supplies the conversation rows of a source reference.
type RowProvider interface {
	Rows(ctx context.Context, sourceRef string) ([]core.ConversationRow, error)
}

// IndexStats reports the outcome of an index build.
type IndexStats struct {
	IndexSize int
}

// QueryResult is the full answer to a tenant question. SourceDocuments
// and Scores are in rerank order; Scores carries the original vector
// similarity of each document. ExpandedQuery is the query that was
// actually embedded and searched.
type QueryResult struct {
	Answer          string
	Scores          []float32
	SourceDocuments []core.RerankedResult
	ExpandedQuery   string
}

// Service orchestrates the ingestion and query pipelines for all tenants.
// Tenants are isolated by index: each tenant's passages live in their own
// collection behind a per-tenant alias, so no cross-tenant state exists
// beyond the shared backends.
type Service struct {
	store    vectorstore.Store
	provider ai.Provider
	tenants  storage.TenantRepository
	sources  storage.SourceRepository
	rows     RowProvider
	chunker  *chunk.Chunker

	expander    *QueryExpander
	reranker    *Reranker
	synthesizer *Synthesizer

	pool           *ants.Pool
	baseIndex      string
	dimension      int
	maxTopK        int
	retryAttempts  int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithBaseIndex sets the base index name tenant aliases are derived from.
func WithBaseIndex(name string) Option {
	return func(s *Service) error {
		if name == "" {
			return vectorstore.ErrEmptyIndexName
		}
		s.baseIndex = name
		return nil
	}
}

// WithDimension sets the embedding vector width. Default is 1536.
func WithDimension(dim int) Option {
	return func(s *Service) error {
		if dim < 1 {
			return errors.New("dimension must be positive")
		}
		s.dimension = dim
		return nil
	}
}

// WithPoolSize sets the embedding worker pool size. Default is 4.
func WithPoolSize(size int) Option {
	return func(s *Service) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithMaxTopK caps the number of documents a query may retrieve.
func WithMaxTopK(n int) Option {
	return func(s *Service) error {
		if n < 1 {
			return errors.New("max topK must be positive")
		}
		s.maxTopK = n
		return nil
	}
}

// WithRetry tunes the embedding retry policy.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(s *Service) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		s.retryAttempts = maxAttempts
		s.retryBaseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates the pipeline service.
func NewService(
	store vectorstore.Store,
	provider ai.Provider,
	tenants storage.TenantRepository,
	sources storage.SourceRepository,
	rows RowProvider,
	chunker *chunk.Chunker,
	opts ...Option,
) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if rows == nil {
		return nil, ErrRowProviderRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	s := &Service{
		store:          store,
		provider:       provider,
		tenants:        tenants,
		sources:        sources,
		rows:           rows,
		chunker:        chunker,
		pool:           pool,
		baseIndex:      DefaultBaseIndex,
		dimension:      DefaultDimension,
		maxTopK:        DefaultMaxTopK,
		retryAttempts:  DefaultRetryAttempts,
		retryBaseDelay: DefaultRetryBaseDelay,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}
	s.logger = s.logger.With("component", "rag")

	completer := provider.Completer()
	s.expander = NewQueryExpander(completer, s.logger)
	s.reranker = NewReranker(completer, s.logger)
	s.synthesizer = NewSynthesizer(completer, s.logger)

	return s, nil
}

// Release frees the embedding worker pool.
// The service should not be used after calling Release.
func (s *Service) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// aliasFor returns the per-tenant logical index name.
func (s *Service) aliasFor(tenantID string) string {
	return s.baseIndex + "-" + tenantID
}

func (s *Service) fail(tenantID, op, stage string, err error) error {
	s.logger.Error("Pipeline stage failed", "tenant", tenantID, "op", op, "stage", stage, "error", err)
	return &PipelineError{Tenant: tenantID, Op: op, Stage: stage, Err: err}
}

// BuildIndex ingests one source into the tenant's index: fetch rows,
// chunk, embed, ensure the index exists, upsert. Passage IDs are derived
// from the source reference and sequence, so re-ingesting the same
// source overwrites its previous passages instead of duplicating them.
// On success the source record is marked indexed (best-effort).
func (s *Service) BuildIndex(ctx context.Context, tenantID, sourceRef string) (IndexStats, error) {
	if tenantID == "" {
		return IndexStats{}, core.ErrEmptyTenant
	}
	if sourceRef == "" {
		return IndexStats{}, core.ErrEmptySourceRef
	}

	s.logger.Info("Building index", "tenant", tenantID, "source", sourceRef)

	rows, err := s.rows.Rows(ctx, sourceRef)
	if err != nil {
		return IndexStats{}, s.fail(tenantID, OpBuildIndex, StageFetch, err)
	}

	passages, err := s.chunker.Split(rows)
	if err != nil {
		return IndexStats{}, s.fail(tenantID, OpBuildIndex, StageChunk, err)
	}
	for i := range passages {
		passages[i].ID = core.PassageID(sourceRef, i)
	}

	if err := embedPassages(ctx, s.provider.Embedder(), s.pool, passages, s.retryAttempts, s.retryBaseDelay); err != nil {
		return IndexStats{}, s.fail(tenantID, OpBuildIndex, StageEmbed, err)
	}

	idx, found, err := s.store.Resolve(ctx, s.aliasFor(tenantID))
	if err != nil {
		return IndexStats{}, s.fail(tenantID, OpBuildIndex, StageResolve, err)
	}

	created, err := s.store.EnsureSchema(ctx, idx, s.dimension)
	if err != nil {
		return IndexStats{}, s.fail(tenantID, OpBuildIndex, StageIndex, err)
	}
	if created {
		s.logger.Info("Created index", "tenant", tenantID, "index", idx.Physical())
	}

	// Re-pointing the alias is best-effort; search falls back to the
	// deterministic physical name when no binding exists.
	if err := s.store.BindAlias(ctx, s.aliasFor(tenantID), idx); err != nil {
		s.logger.Warn("Failed to bind index alias", "tenant", tenantID, "index", idx.Physical(), "error", err)
	}

	written := 0
	if len(passages) > 0 {
		written, err = s.store.Upsert(ctx, idx, passages)
		if err != nil {
			return IndexStats{}, s.fail(tenantID, OpBuildIndex, StageIndex, err)
		}
	}

	s.markIndexed(ctx, tenantID, sourceRef)

	s.logger.Info("Index build complete", "tenant", tenantID, "source", sourceRef,
		"rows", len(rows), "passages", len(passages), "written", written, "aliasResolved", found)
	return IndexStats{IndexSize: written}, nil
}

// markIndexed records the source as indexed. Status tracking never
// fails a completed build.
func (s *Service) markIndexed(ctx context.Context, tenantID, sourceRef string) {
	if s.sources == nil {
		return
	}
	record := &storage.SourceRecord{
		TenantID: tenantID,
		Ref:      sourceRef,
		Status:   storage.SourceStatusIndexed,
	}
	if err := s.sources.PutSource(ctx, record); err != nil {
		s.logger.Warn("Failed to mark source indexed", "tenant", tenantID, "source", sourceRef, "error", err)
	}
}

// DeleteIndex removes the tenant's index and alias binding, then resets
// every source record of the tenant back to uploaded. Deleting an index
// that does not exist is a no-op.
func (s *Service) DeleteIndex(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return core.ErrEmptyTenant
	}

	idx, _, err := s.store.Resolve(ctx, s.aliasFor(tenantID))
	if err != nil {
		return s.fail(tenantID, OpDeleteIndex, StageResolve, err)
	}

	if err := s.store.Delete(ctx, idx); err != nil {
		if !errors.Is(err, vectorstore.ErrNotFound) {
			return s.fail(tenantID, OpDeleteIndex, StageIndex, err)
		}
		s.logger.Info("Index already absent", "tenant", tenantID, "index", idx.Physical())
	} else {
		s.logger.Info("Deleted index", "tenant", tenantID, "index", idx.Physical())
	}

	if s.sources != nil {
		count, err := s.sources.ResetStatuses(ctx, tenantID)
		if err != nil {
			return s.fail(tenantID, OpDeleteIndex, StageIndex, err)
		}
		s.logger.Info("Reset source statuses", "tenant", tenantID, "count", count)
	}
	return nil
}

// Query answers a tenant question from their indexed passages. The
// question is expanded (best-effort), embedded, searched, reranked, and
// synthesized. topK values outside [1, maxTopK] are clamped.
func (s *Service) Query(ctx context.Context, tenantID, question string, topK int) (*QueryResult, error) {
	if tenantID == "" {
		return nil, core.ErrEmptyTenant
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if topK < 1 {
		topK = DefaultTopK
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}

	s.logger.Info("Query started", "tenant", tenantID, "topK", topK)

	expanded := s.expander.Expand(ctx, question)

	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vector, embedErr = s.provider.Embedder().EmbedText(ctx, expanded)
		return embedErr
	}, s.retryAttempts, s.retryBaseDelay)
	if err != nil {
		return nil, s.fail(tenantID, OpQuery, StageEmbed, err)
	}

	idx, _, err := s.store.Resolve(ctx, s.aliasFor(tenantID))
	if err != nil {
		return nil, s.fail(tenantID, OpQuery, StageResolve, err)
	}

	results, err := s.store.Search(ctx, idx, vector, topK)
	if err != nil {
		return nil, s.fail(tenantID, OpQuery, StageSearch, err)
	}

	reranked := s.reranker.Rerank(ctx, expanded, results)

	contextTexts := make([]string, len(reranked))
	scores := make([]float32, len(reranked))
	for i, doc := range reranked {
		contextTexts[i] = doc.Text
		scores[i] = doc.Score
	}

	systemPrompt := s.systemPromptFor(ctx, tenantID)

	answer, err := s.synthesizer.Synthesize(ctx, systemPrompt, strings.Join(contextTexts, "\n"), question)
	if err != nil {
		return nil, s.fail(tenantID, OpQuery, StageSynthesize, err)
	}

	s.logger.Info("Query complete", "tenant", tenantID, "documents", len(reranked))
	return &QueryResult{
		Answer:          answer,
		Scores:          scores,
		SourceDocuments: reranked,
		ExpandedQuery:   expanded,
	}, nil
}

// systemPromptFor loads the tenant's configured prompt, falling back to
// the default. Storage failures degrade to the default prompt too.
func (s *Service) systemPromptFor(ctx context.Context, tenantID string) string {
	if s.tenants == nil {
		return DefaultSystemPrompt
	}
	prompt, err := s.tenants.GetSystemPrompt(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Failed to load tenant system prompt", "tenant", tenantID, "error", err)
		}
		return DefaultSystemPrompt
	}
	return prompt
}
