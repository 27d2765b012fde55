package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Config holds connection details for a Qdrant server.
type Config struct {
	// URL is the base URL of the Qdrant REST API, e.g. "http://localhost:6333".
	URL string

	// APIKey is sent in the api-key header when non-empty.
	APIKey string

	// Timeout bounds each HTTP call. Default 15s.
	Timeout time.Duration
}

// Store is a minimal REST client to Qdrant. It assumes cosine distance
// and uses collection aliases for logical-to-physical name indirection.
type Store struct {
	url    string
	apiKey string
	client *http.Client
	logger *slog.Logger
}

// NewStore creates a Qdrant-backed store.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Store{
		url:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
		logger: slog.Default().With("component", "qdrant-store"),
	}
}

// statusError is an HTTP-level failure from the Qdrant API.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant: status %d: %s", e.status, e.body)
}

// doJSON issues a request with a JSON body and decodes a JSON response.
// body and out may be nil.
func (s *Store) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("qdrant: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.url+path, reader)
	if err != nil {
		return fmt.Errorf("qdrant: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("qdrant: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("qdrant: decode response: %w", err)
		}
	}
	return nil
}

// isStatus reports whether err is a statusError with the given code.
func isStatus(err error, code int) bool {
	se, ok := err.(*statusError)
	return ok && se.status == code
}
