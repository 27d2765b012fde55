// Copyright 2026 Saixaid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"

	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/CyBerk9z/saixaid-main/storage"
	"github.com/dgraph-io/badger/v4"
)

// TenantRepository implements storage.TenantRepository for BadgerDB.
type TenantRepository struct {
	backend *Backend
}

var _ storage.TenantRepository = (*TenantRepository)(nil)

// NewTenantRepository creates a new TenantRepository.
func NewTenantRepository(backend *Backend) (*TenantRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &TenantRepository{backend: backend}, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *TenantRepository) Close() error {
	return nil
}

// GetSystemPrompt returns the tenant's custom system prompt.
func (r *TenantRepository) GetSystemPrompt(ctx context.Context, tenantID string) (string, error) {
	if tenantID == "" {
		return "", core.ErrEmptyTenant
	}

	var prompt string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTenantPromptKey(tenantID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			prompt = string(val)
			return nil
		})
	}, false)
	if err != nil {
		return "", err
	}
	return prompt, nil
}

// SetSystemPrompt stores the tenant's custom system prompt.
func (r *TenantRepository) SetSystemPrompt(ctx context.Context, tenantID, prompt string) error {
	if tenantID == "" {
		return core.ErrEmptyTenant
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set(makeTenantPromptKey(tenantID), []byte(prompt))
	}, true)
}
