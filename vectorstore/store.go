package vectorstore

import (
	"context"

	"github.com/CyBerk9z/saixaid-main/core"
)

// ResolvedIndex is a handle to a physical index that can only be obtained
// from Store.Resolve. Passing it to the other Store operations guarantees
// alias resolution happened first in the same run; callers must not cache
// a handle across runs because alias targets can change between ingests.
type ResolvedIndex struct {
	physical string
}

// Physical returns the physical index name the handle is bound to.
func (r ResolvedIndex) Physical() string {
	return r.physical
}

// NewResolvedIndex wraps a physical index name in a handle.
// It is intended for Store implementations; application code should only
// obtain handles through Resolve.
func NewResolvedIndex(physical string) ResolvedIndex {
	return ResolvedIndex{physical: physical}
}

// PhysicalName derives the deterministic physical index name for a base
// name when no alias binding exists yet. Alias and collection names share
// a namespace in the backends we target, so the physical name carries a
// suffix to stay distinct from the alias.
func PhysicalName(base string) string {
	return base + "-store"
}

// Store manages named vector indexes and their documents.
// Implementations must be thread-safe for concurrent use.
type Store interface {
	// Resolve looks up base as an alias and returns a handle to its bound
	// physical index. When no alias binding exists, it returns a handle to
	// the deterministic physical name and found=false; the physical index
	// may or may not exist yet in that case.
	Resolve(ctx context.Context, base string) (idx ResolvedIndex, found bool, err error)

	// EnsureSchema creates the physical index with the expected schema
	// (string key id, searchable text, float32 vector of the given
	// dimension with cosine similarity) when it is absent. Creation is
	// idempotent: a concurrent "already exists" outcome is success.
	// An existing index with an incompatible schema is a SchemaMismatchError.
	// Returns true when this call created the index.
	EnsureSchema(ctx context.Context, idx ResolvedIndex, dimension int) (created bool, err error)

	// BindAlias points base at the resolved physical index, replacing any
	// previous binding. At most one physical index is bound to an alias.
	BindAlias(ctx context.Context, base string, idx ResolvedIndex) error

	// Upsert writes passages keyed by their IDs, overwriting documents
	// with identical IDs. Returns the number of documents written.
	Upsert(ctx context.Context, idx ResolvedIndex, passages []core.Passage) (int, error)

	// Search runs a pure vector similarity query and returns up to topK
	// scored passages, most similar first.
	Search(ctx context.Context, idx ResolvedIndex, vector []float32, topK int) ([]core.RetrievalResult, error)

	// Delete removes the physical index entirely, including any alias
	// bindings that point at it.
	Delete(ctx context.Context, idx ResolvedIndex) error
}
