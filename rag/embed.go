package rag

import (
	"context"
	"sync"
	"time"

	"github.com/CyBerk9z/saixaid-main/ai"
	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/panjf2000/ants/v2"
)

// embedPassages fills in the Embedding of every passage in place.
// Work is submitted to the pool one passage at a time; each worker
// writes only its own slot, so results land at the original index
// regardless of completion order. Each call is retried with backoff.
// The first hard failure is recorded and remaining workers turn into
// no-ops; the recorded error is an EmbeddingError carrying the index
// of the failing passage.
func embedPassages(
	ctx context.Context,
	embedder ai.Embedder,
	pool *ants.Pool,
	passages []core.Passage,
	maxAttempts int,
	baseDelay time.Duration,
) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for i := range passages {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if failed() {
				return
			}

			var vector []float32
			err := RetryWithBackoff(ctx, func() error {
				var embedErr error
				vector, embedErr = embedder.EmbedText(ctx, passages[i].Text)
				return embedErr
			}, maxAttempts, baseDelay)

			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = &EmbeddingError{Index: i, Err: err}
				}
				mu.Unlock()
				return
			}
			passages[i].Embedding = vector
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = &EmbeddingError{Index: i, Err: submitErr}
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return firstErr
}
