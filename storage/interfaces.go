package storage

import (
	"context"
	"time"
)

// SourceStatus tracks where a source file sits in the indexing lifecycle.
type SourceStatus string

const (
	// SourceStatusUploaded marks a source that is stored but not indexed.
	SourceStatusUploaded SourceStatus = "uploaded"

	// SourceStatusIndexed marks a source whose passages are in the index.
	SourceStatusIndexed SourceStatus = "indexed"
)

// SourceRecord describes one conversation export owned by a tenant.
type SourceRecord struct {
	TenantID  string       `json:"tenantId"`
	Ref       string       `json:"ref"` // source reference: path or URL of the export
	Status    SourceStatus `json:"status"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// TenantRepository provides per-tenant configuration.
// Implementations must be thread-safe and support concurrent access.
type TenantRepository interface {
	// GetSystemPrompt returns the tenant's custom system prompt.
	// Returns ErrNotFound when the tenant has not set one.
	GetSystemPrompt(ctx context.Context, tenantID string) (string, error)

	// SetSystemPrompt stores the tenant's custom system prompt.
	SetSystemPrompt(ctx context.Context, tenantID, prompt string) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// SourceRepository tracks source files and their indexing status.
// Implementations must be thread-safe and support concurrent access.
type SourceRepository interface {
	// PutSource stores or replaces a source record.
	PutSource(ctx context.Context, record *SourceRecord) error

	// GetSource retrieves a source record.
	// Returns ErrNotFound when the record doesn't exist.
	GetSource(ctx context.Context, tenantID, ref string) (*SourceRecord, error)

	// SetStatus updates the indexing status of a source record.
	// Returns ErrNotFound when the record doesn't exist.
	SetStatus(ctx context.Context, tenantID, ref string, status SourceStatus) error

	// ResetStatuses marks every source record of the tenant as uploaded.
	// Used when a tenant deletes its index. Returns the number of records updated.
	ResetStatuses(ctx context.Context, tenantID string) (int, error)

	// ListSources returns all source records of the tenant, ordered by ref.
	ListSources(ctx context.Context, tenantID string) ([]*SourceRecord, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
