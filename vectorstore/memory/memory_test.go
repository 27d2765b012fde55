package memory

import (
	"context"
	"testing"

	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/CyBerk9z/saixaid-main/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FallsBackToDeterministicName(t *testing.T) {
	s := NewStore()

	idx, found, err := s.Resolve(context.Background(), "conversations-acme")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "conversations-acme-store", idx.Physical())
}

func TestResolve_EmptyName(t *testing.T) {
	s := NewStore()
	_, _, err := s.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, vectorstore.ErrEmptyIndexName)
}

func TestEnsureSchema_IdempotentAndMismatch(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	idx, _, err := s.Resolve(ctx, "conversations-acme")
	require.NoError(t, err)

	created, err := s.EnsureSchema(ctx, idx, 4)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureSchema(ctx, idx, 4)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = s.EnsureSchema(ctx, idx, 8)
	var mismatch *vectorstore.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 4, mismatch.GotDimension)
}

func TestAliasBindingAndRebinding(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	idx, _, err := s.Resolve(ctx, "conversations-acme")
	require.NoError(t, err)
	_, err = s.EnsureSchema(ctx, idx, 4)
	require.NoError(t, err)
	require.NoError(t, s.BindAlias(ctx, "conversations-acme", idx))

	resolved, found, err := s.Resolve(ctx, "conversations-acme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, idx.Physical(), resolved.Physical())

	// Rebinding to a second collection replaces the target.
	other := vectorstore.NewResolvedIndex("conversations-acme-v2")
	_, err = s.EnsureSchema(ctx, other, 4)
	require.NoError(t, err)
	require.NoError(t, s.BindAlias(ctx, "conversations-acme", other))

	resolved, found, err = s.Resolve(ctx, "conversations-acme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "conversations-acme-v2", resolved.Physical())
}

func TestUpsert_OverwritesByID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	idx, _, err := s.Resolve(ctx, "conversations-acme")
	require.NoError(t, err)
	_, err = s.EnsureSchema(ctx, idx, 2)
	require.NoError(t, err)

	passages := []core.Passage{
		{ID: "src_0", Text: "alpha", Embedding: []float32{1, 0}},
		{ID: "src_1", Text: "beta", Embedding: []float32{0, 1}},
	}
	n, err := s.Upsert(ctx, idx, passages)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Same IDs again: overwrite, not duplicate.
	n, err = s.Upsert(ctx, idx, passages)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Count(idx.Physical()))
}

func TestSearch_RanksByCosine(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	idx, _, err := s.Resolve(ctx, "conversations-acme")
	require.NoError(t, err)
	_, err = s.EnsureSchema(ctx, idx, 2)
	require.NoError(t, err)

	_, err = s.Upsert(ctx, idx, []core.Passage{
		{ID: "a", Text: "east", Embedding: []float32{1, 0}},
		{ID: "b", Text: "north", Embedding: []float32{0, 1}},
		{ID: "c", Text: "northeast", Embedding: []float32{1, 1}},
	})
	require.NoError(t, err)

	results, err := s.Search(ctx, idx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].PassageID)
	assert.Equal(t, "c", results[1].PassageID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestDelete_RemovesCollectionAndAliases(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	idx, _, err := s.Resolve(ctx, "conversations-acme")
	require.NoError(t, err)
	_, err = s.EnsureSchema(ctx, idx, 2)
	require.NoError(t, err)
	require.NoError(t, s.BindAlias(ctx, "conversations-acme", idx))

	require.NoError(t, s.Delete(ctx, idx))

	_, found, err := s.Resolve(ctx, "conversations-acme")
	require.NoError(t, err)
	assert.False(t, found, "alias bindings must not survive collection deletion")

	_, err = s.Search(ctx, idx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, vectorstore.ErrNotFound)
}
