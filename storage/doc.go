// Package storage defines the persistence contracts for the pieces of
// state this system owns outside the vector index: per-tenant system
// prompts and the uploaded/indexed lifecycle of source files.
//
// The badger sub-package provides the production implementation.
package storage
