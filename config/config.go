// Package config loads the YAML application configuration.
//
// Environment variables referenced by the config (API keys) are kept
// out of the file itself; secrets are read from the environment by the
// CLI layer.
package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AIConfig configures the OpenAI-compatible embedding and chat backends.
type AIConfig struct {
	EmbeddingHost  string `yaml:"embedding_host"`
	ChatHost       string `yaml:"chat_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
	TokenEnv       string `yaml:"token_env"`
	Dimension      int    `yaml:"dimension"`
}

// QdrantConfig contains connection details for the Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChunkerConfig configures passage chunking.
type ChunkerConfig struct {
	TargetTokens   int `yaml:"target_tokens"`
	TimeWindowMins int `yaml:"time_window_mins"`
}

// PipelineConfig configures the ingestion pipeline.
type PipelineConfig struct {
	BaseIndex     string `yaml:"base_index"`
	PoolSize      int    `yaml:"pool_size"`
	RetryAttempts int    `yaml:"retry_attempts"`
	MaxTopK       int    `yaml:"max_top_k"`
}

// StorageConfig configures the local metadata database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	AI       AIConfig       `yaml:"ai"`
	Qdrant   QdrantConfig   `yaml:"qdrant"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
}

// TimeWindow returns the chunker time window as a duration.
func (c *ChunkerConfig) TimeWindow() time.Duration {
	return time.Duration(c.TimeWindowMins) * time.Minute
}

// QdrantTimeout returns the Qdrant client timeout as a duration.
func (c *QdrantConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = "http://localhost:11434/v1"
	}
	if cfg.AI.ChatHost == "" {
		cfg.AI.ChatHost = cfg.AI.EmbeddingHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gpt-4o-mini"
	}
	if cfg.AI.TokenEnv == "" {
		cfg.AI.TokenEnv = "OPENAI_API_KEY"
	}
	if cfg.AI.Dimension == 0 {
		cfg.AI.Dimension = 1536
	}
	if cfg.Qdrant.URL == "" {
		cfg.Qdrant.URL = "http://localhost:6333"
	}
	if cfg.Qdrant.APIKeyEnv == "" {
		cfg.Qdrant.APIKeyEnv = "QDRANT_API_KEY"
	}
	if cfg.Qdrant.TimeoutSecs == 0 {
		cfg.Qdrant.TimeoutSecs = 15
	}
	if cfg.Chunker.TargetTokens == 0 {
		cfg.Chunker.TargetTokens = 1000
	}
	if cfg.Chunker.TimeWindowMins == 0 {
		cfg.Chunker.TimeWindowMins = 5
	}
	if cfg.Pipeline.BaseIndex == "" {
		cfg.Pipeline.BaseIndex = "conversations"
	}
	if cfg.Pipeline.PoolSize == 0 {
		cfg.Pipeline.PoolSize = 4
	}
	if cfg.Pipeline.RetryAttempts == 0 {
		cfg.Pipeline.RetryAttempts = 3
	}
	if cfg.Pipeline.MaxTopK == 0 {
		cfg.Pipeline.MaxTopK = 20
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "saixaid.db"
	}
}
