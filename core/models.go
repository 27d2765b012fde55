package core

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// ConversationRow is one message from a tenant's conversation export.
// Timestamp fields are kept as the raw strings found in the export;
// parsing (and defaulting of ParentTimestamp) happens during chunking.
type ConversationRow struct {
	Timestamp       string
	AuthorID        string
	AuthorName      string
	Channel         string
	Text            string
	Attachments     []string
	ParentTimestamp string // thread anchor; empty or unparseable means self-threaded
}

// Passage is a retrieval-sized unit of conversation text.
// Once written to an index a passage is immutable; it disappears only
// when the owning tenant deletes its index.
type Passage struct {
	ID         string
	Text       string
	TokenCount int
	Embedding  []float32
}

// RetrievalResult is a scored passage returned by vector search.
// Score is the similarity score from the index, higher is closer.
type RetrievalResult struct {
	PassageID string
	Score     float32
	Text      string
}

// RerankedResult is a retrieval result with a model-assigned relevance
// score on an independent scale. The original similarity score is kept
// for diagnostics.
type RerankedResult struct {
	PassageID   string
	Score       float32
	RerankScore float32
	Text        string
}

// SourceDiscriminator derives a short stable identifier from a source
// reference using BLAKE2b hashing. Identical references always produce
// the same discriminator, which keeps passage IDs stable across re-ingests
// of the same export.
func SourceDiscriminator(sourceRef string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(sourceRef))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:4])
}

// PassageID builds the index document ID for the seq-th passage of a source.
func PassageID(sourceRef string, seq int) string {
	return fmt.Sprintf("%s_%d", SourceDiscriminator(sourceRef), seq)
}

// ContentID generates a deterministic 64-bit ID from text content.
// Identical content produces identical IDs.
func ContentID(text string) uint64 {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
