package qdrant

import (
	"context"
	"net/http"

	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/CyBerk9z/saixaid-main/vectorstore"
	"github.com/google/uuid"
)

// pointID derives the deterministic Qdrant point UUID for a passage ID.
// Qdrant point IDs must be UUIDs or integers; the original string ID is
// kept in the payload.
func pointID(passageID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(passageID)).String()
}

// Upsert writes passages as points keyed by a UUID derived from the
// passage ID, so re-ingesting the same source overwrites rather than
// duplicates.
func (s *Store) Upsert(ctx context.Context, idx vectorstore.ResolvedIndex, passages []core.Passage) (int, error) {
	if len(passages) == 0 {
		return 0, nil
	}

	points := make([]map[string]any, len(passages))
	for i, p := range passages {
		if err := core.ValidatePassage(&p); err != nil {
			return 0, err
		}
		points[i] = map[string]any{
			"id":     pointID(p.ID),
			"vector": p.Embedding,
			"payload": map[string]any{
				"id":          p.ID,
				"text":        p.Text,
				"token_count": p.TokenCount,
			},
		}
	}

	body := map[string]any{"points": points}
	if err := s.doJSON(ctx, http.MethodPut, "/collections/"+idx.Physical()+"/points?wait=true", body, nil); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return 0, vectorstore.ErrNotFound
		}
		return 0, err
	}

	s.logger.Info("upserted points", "collection", idx.Physical(), "count", len(points))
	return len(points), nil
}

type searchResponse struct {
	Result []struct {
		Score   float32        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search runs a pure vector similarity query against the collection.
func (s *Store) Search(ctx context.Context, idx vectorstore.ResolvedIndex, vector []float32, topK int) ([]core.RetrievalResult, error) {
	if topK <= 0 {
		topK = 5
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}

	var resp searchResponse
	if err := s.doJSON(ctx, http.MethodPost, "/collections/"+idx.Physical()+"/points/search", body, &resp); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, vectorstore.ErrNotFound
		}
		return nil, err
	}

	results := make([]core.RetrievalResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		result := core.RetrievalResult{Score: r.Score}
		if v, ok := r.Payload["id"].(string); ok {
			result.PassageID = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			result.Text = v
		}
		results = append(results, result)
	}
	return results, nil
}
