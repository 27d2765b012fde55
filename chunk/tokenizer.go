package chunk

import (
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tokenizer encoding used for chunk budgeting.
// cl100k_base matches the embedding models this pipeline targets.
const DefaultEncoding = "cl100k_base"

// TokenCounter computes the number of model tokens in a text.
// Implementations must be thread-safe for concurrent use.
type TokenCounter interface {
	// Count returns the token count for the text.
	// A counting failure is fatal for the surrounding ingest run.
	Count(text string) (int, error)
}

// TiktokenCounter implements TokenCounter on a tiktoken BPE encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

var _ TokenCounter = (*TiktokenCounter)(nil)

// NewTiktokenCounter creates a counter for the named encoding.
// An empty encoding name selects DefaultEncoding.
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the number of BPE tokens in text.
func (c *TiktokenCounter) Count(text string) (int, error) {
	return len(c.enc.Encode(text, nil, nil)), nil
}
