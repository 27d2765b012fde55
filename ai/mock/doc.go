// Package mock provides test doubles for the ai interfaces.
//
// Mocks default to deterministic behavior (hash-derived embeddings, a
// fixed completion reply) and support behavior injection via function
// fields plus call recording for assertions.
package mock
