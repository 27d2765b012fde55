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

// Package saixaid assembles the conversational RAG pipeline from its parts.
//
// App is the embedding-level entry point: it opens the local metadata
// database, connects the AI provider and vector store, and exposes the
// pipeline service. CLI and library consumers use App; the underlying
// packages remain usable on their own.
package saixaid

import (
	"log/slog"
	"os"

	"github.com/CyBerk9z/saixaid-main/ai"
	"github.com/CyBerk9z/saixaid-main/ai/openai"
	"github.com/CyBerk9z/saixaid-main/chunk"
	"github.com/CyBerk9z/saixaid-main/config"
	"github.com/CyBerk9z/saixaid-main/rag"
	"github.com/CyBerk9z/saixaid-main/source"
	"github.com/CyBerk9z/saixaid-main/storage"
	"github.com/CyBerk9z/saixaid-main/storage/badger"
	"github.com/CyBerk9z/saixaid-main/vectorstore"
	"github.com/CyBerk9z/saixaid-main/vectorstore/qdrant"
)

// App wires together the full pipeline for one process.
type App struct {
	backend  *badger.Backend
	tenants  storage.TenantRepository
	sources  storage.SourceRepository
	provider ai.Provider
	service  *rag.Service
	logger   *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	store vectorstore.Store
}

// WithStore overrides the vector store, replacing the Qdrant client
// built from the configuration. Used for embedding the pipeline against
// an alternative backend.
func WithStore(store vectorstore.Store) AppOption {
	return func(o *appOptions) {
		o.store = store
	}
}

// NewApp builds the pipeline from an application configuration.
// Secrets (API keys) are read from the environment variables the
// configuration names.
func NewApp(cfg *config.AppConfig, opts ...AppOption) (*App, error) {
	options := &appOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(cfg.Storage.Path, false)
	if err != nil {
		return nil, err
	}

	tenants, err := badger.NewTenantRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	sources, err := badger.NewSourceRepository(backend)
	if err != nil {
		tenants.Close()
		backend.Close()
		return nil, err
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithChatHost(cfg.AI.ChatHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithChatModel(cfg.AI.ChatModel),
		ai.WithToken(os.Getenv(cfg.AI.TokenEnv)),
	)
	if err := aiConfig.Validate(); err != nil {
		sources.Close()
		tenants.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		sources.Close()
		tenants.Close()
		backend.Close()
		return nil, err
	}

	counter, err := chunk.NewTiktokenCounter(chunk.DefaultEncoding)
	if err != nil {
		provider.Close()
		sources.Close()
		tenants.Close()
		backend.Close()
		return nil, err
	}

	chunker, err := chunk.NewChunker(counter,
		chunk.WithTargetTokens(cfg.Chunker.TargetTokens),
		chunk.WithTimeWindow(cfg.Chunker.TimeWindow()),
	)
	if err != nil {
		provider.Close()
		sources.Close()
		tenants.Close()
		backend.Close()
		return nil, err
	}

	store := options.store
	if store == nil {
		store = qdrant.NewStore(qdrant.Config{
			URL:     cfg.Qdrant.URL,
			APIKey:  os.Getenv(cfg.Qdrant.APIKeyEnv),
			Timeout: cfg.Qdrant.Timeout(),
		})
	}

	service, err := rag.NewService(store, provider, tenants, sources,
		source.NewCSVProvider(), chunker,
		rag.WithBaseIndex(cfg.Pipeline.BaseIndex),
		rag.WithDimension(cfg.AI.Dimension),
		rag.WithPoolSize(cfg.Pipeline.PoolSize),
		rag.WithMaxTopK(cfg.Pipeline.MaxTopK),
		rag.WithRetry(cfg.Pipeline.RetryAttempts, rag.DefaultRetryBaseDelay),
	)
	if err != nil {
		provider.Close()
		sources.Close()
		tenants.Close()
		backend.Close()
		return nil, err
	}

	return &App{
		backend:  backend,
		tenants:  tenants,
		sources:  sources,
		provider: provider,
		service:  service,
		logger:   slog.Default(),
	}, nil
}

// Close releases the pipeline's resources.
func (a *App) Close() error {
	a.service.Release()

	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.sources.Close(); err != nil {
		a.logger.Error("error closing source repository", "err", err)
		return err
	}
	if err := a.tenants.Close(); err != nil {
		a.logger.Error("error closing tenant repository", "err", err)
		return err
	}

	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Service returns the pipeline service.
func (a *App) Service() *rag.Service {
	return a.service
}

// TenantRepository returns the tenant configuration store.
func (a *App) TenantRepository() storage.TenantRepository {
	return a.tenants
}

// SourceRepository returns the source status store.
func (a *App) SourceRepository() storage.SourceRepository {
	return a.sources
}
