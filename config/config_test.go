package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434/v1", cfg.AI.EmbeddingHost)
	assert.Equal(t, cfg.AI.EmbeddingHost, cfg.AI.ChatHost)
	assert.Equal(t, 1536, cfg.AI.Dimension)
	assert.Equal(t, "http://localhost:6333", cfg.Qdrant.URL)
	assert.Equal(t, 1000, cfg.Chunker.TargetTokens)
	assert.Equal(t, 5*time.Minute, cfg.Chunker.TimeWindow())
	assert.Equal(t, "conversations", cfg.Pipeline.BaseIndex)
	assert.Equal(t, 4, cfg.Pipeline.PoolSize)
	assert.Equal(t, "saixaid.db", cfg.Storage.Path)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
qdrant:
  url: http://qdrant.internal:6333
chunker:
  target_tokens: 500
pipeline:
  base_index: chats
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://qdrant.internal:6333", cfg.Qdrant.URL)
	assert.Equal(t, 500, cfg.Chunker.TargetTokens)
	assert.Equal(t, "chats", cfg.Pipeline.BaseIndex)

	// Unset fields still pick up their defaults.
	assert.Equal(t, 15*time.Second, cfg.Qdrant.Timeout())
	assert.Equal(t, "gpt-4o-mini", cfg.AI.ChatModel)
	assert.Equal(t, 5, cfg.Chunker.TimeWindowMins)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
