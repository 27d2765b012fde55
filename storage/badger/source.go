package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/CyBerk9z/saixaid-main/storage"
	"github.com/dgraph-io/badger/v4"
)

// SourceRepository implements storage.SourceRepository for BadgerDB.
type SourceRepository struct {
	backend *Backend
}

var _ storage.SourceRepository = (*SourceRepository)(nil)

// NewSourceRepository creates a new SourceRepository.
func NewSourceRepository(backend *Backend) (*SourceRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &SourceRepository{backend: backend}, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *SourceRepository) Close() error {
	return nil
}

// PutSource stores or replaces a source record.
func (r *SourceRepository) PutSource(ctx context.Context, record *storage.SourceRecord) error {
	if record == nil {
		return errors.New("record required")
	}
	if record.TenantID == "" {
		return core.ErrEmptyTenant
	}
	if record.Ref == "" {
		return core.ErrEmptySourceRef
	}
	if record.Status == "" {
		record.Status = storage.SourceStatusUploaded
	}
	record.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set(makeSourceKey(record.TenantID, record.Ref), data)
	}, true)
}

// GetSource retrieves a source record.
func (r *SourceRepository) GetSource(ctx context.Context, tenantID, ref string) (*storage.SourceRecord, error) {
	if tenantID == "" {
		return nil, core.ErrEmptyTenant
	}
	if ref == "" {
		return nil, core.ErrEmptySourceRef
	}

	var record *storage.SourceRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSourceKey(tenantID, ref))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record = &storage.SourceRecord{}
			if err := json.Unmarshal(val, record); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SetStatus updates the indexing status of a source record.
func (r *SourceRepository) SetStatus(ctx context.Context, tenantID, ref string, status storage.SourceStatus) error {
	record, err := r.GetSource(ctx, tenantID, ref)
	if err != nil {
		return err
	}
	record.Status = status
	return r.PutSource(ctx, record)
}

// ResetStatuses marks every source record of the tenant as uploaded.
func (r *SourceRepository) ResetStatuses(ctx context.Context, tenantID string) (int, error) {
	if tenantID == "" {
		return 0, core.ErrEmptyTenant
	}

	updated := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := makeSourcePrefix(tenantID)
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		now := time.Now().UTC()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var record storage.SourceRecord
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}

			if record.Status == storage.SourceStatusUploaded {
				continue
			}
			record.Status = storage.SourceStatusUploaded
			record.UpdatedAt = now

			data, err := json.Marshal(&record)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			if err := tx.Set(item.KeyCopy(nil), data); err != nil {
				return err
			}
			updated++
		}
		return nil
	}, true)
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// ListSources returns all source records of the tenant, ordered by ref.
func (r *SourceRepository) ListSources(ctx context.Context, tenantID string) ([]*storage.SourceRecord, error) {
	if tenantID == "" {
		return nil, core.ErrEmptyTenant
	}

	var records []*storage.SourceRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := makeSourcePrefix(tenantID)
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			record := &storage.SourceRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, record)
			})
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}
