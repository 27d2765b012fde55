// Package qdrant implements vectorstore.Store against the Qdrant REST API.
//
// Collections hold passage points with cosine distance; collection aliases
// provide the logical-to-physical index indirection, so rebuilt indexes can
// be swapped in behind a stable name.
package qdrant
