// Package vectorstore defines the vector index contract used by the
// retrieval pipeline: alias resolution, idempotent schema creation,
// document upsert, and pure vector similarity search.
//
// The ResolvedIndex handle makes the "always resolve before upsert or
// search" invariant structural: every operation that touches a physical
// index takes a handle that only Resolve produces.
//
// Implementations:
//
//   - vectorstore/qdrant: Qdrant over its REST API, using collection
//     aliases for the logical-to-physical indirection
//   - vectorstore/memory: in-process store for tests and local runs
package vectorstore
