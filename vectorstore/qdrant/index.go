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


package qdrant

import (
	"context"
	"net/http"

	"github.com/CyBerk9z/saixaid-main/vectorstore"
)

var _ vectorstore.Store = (*Store)(nil)

const cosineDistance = "Cosine"

type aliasListResponse struct {
	Result struct {
		Aliases []struct {
			AliasName      string `json:"alias_name"`
			CollectionName string `json:"collection_name"`
		} `json:"aliases"`
	} `json:"result"`
}

type collectionInfoResponse struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// Resolve looks base up among the server's aliases. When bound, the handle
// points at the alias target; otherwise it points at the deterministic
// physical name derived from base.
func (s *Store) Resolve(ctx context.Context, base string) (vectorstore.ResolvedIndex, bool, error) {
	if base == "" {
		return vectorstore.ResolvedIndex{}, false, vectorstore.ErrEmptyIndexName
	}

	var aliases aliasListResponse
	if err := s.doJSON(ctx, http.MethodGet, "/aliases", nil, &aliases); err != nil {
		return vectorstore.ResolvedIndex{}, false, err
	}

	for _, a := range aliases.Result.Aliases {
		if a.AliasName == base {
			s.logger.Debug("resolved alias", "alias", base, "physical", a.CollectionName)
			return vectorstore.NewResolvedIndex(a.CollectionName), true, nil
		}
	}

	physical := vectorstore.PhysicalName(base)
	s.logger.Debug("no alias binding, using deterministic name", "alias", base, "physical", physical)
	return vectorstore.NewResolvedIndex(physical), false, nil
}

// EnsureSchema creates the collection when absent and verifies the vector
// parameters when present. Concurrent creation losing the race counts as
// success.
func (s *Store) EnsureSchema(ctx context.Context, idx vectorstore.ResolvedIndex, dimension int) (bool, error) {
	exists, err := s.checkSchema(ctx, idx, dimension)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": cosineDistance,
		},
	}
	err = s.doJSON(ctx, http.MethodPut, "/collections/"+idx.Physical(), body, nil)
	if err == nil {
		s.logger.Info("created collection", "collection", idx.Physical(), "dimension", dimension)
		return true, nil
	}

	// A conflict means another creator got there first; re-verify its schema.
	if isStatus(err, http.StatusConflict) {
		if _, verr := s.checkSchema(ctx, idx, dimension); verr != nil {
			return false, verr
		}
		return false, nil
	}
	return false, err
}

// checkSchema returns whether the collection exists, validating its vector
// parameters when it does.
func (s *Store) checkSchema(ctx context.Context, idx vectorstore.ResolvedIndex, dimension int) (bool, error) {
	var info collectionInfoResponse
	err := s.doJSON(ctx, http.MethodGet, "/collections/"+idx.Physical(), nil, &info)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return false, nil
		}
		return false, err
	}

	vectors := info.Result.Config.Params.Vectors
	if vectors.Size != dimension || vectors.Distance != cosineDistance {
		return true, &vectorstore.SchemaMismatchError{
			Index:         idx.Physical(),
			WantDimension: dimension,
			GotDimension:  vectors.Size,
			GotDistance:   vectors.Distance,
		}
	}
	return true, nil
}

// BindAlias re-points base at the handle's physical collection, dropping
// any previous binding first.
func (s *Store) BindAlias(ctx context.Context, base string, idx vectorstore.ResolvedIndex) error {
	if base == "" {
		return vectorstore.ErrEmptyIndexName
	}

	var aliases aliasListResponse
	if err := s.doJSON(ctx, http.MethodGet, "/aliases", nil, &aliases); err != nil {
		return err
	}

	actions := make([]map[string]any, 0, 2)
	for _, a := range aliases.Result.Aliases {
		if a.AliasName == base {
			actions = append(actions, map[string]any{
				"delete_alias": map[string]any{"alias_name": base},
			})
			break
		}
	}
	actions = append(actions, map[string]any{
		"create_alias": map[string]any{
			"collection_name": idx.Physical(),
			"alias_name":      base,
		},
	})

	body := map[string]any{"actions": actions}
	if err := s.doJSON(ctx, http.MethodPost, "/collections/aliases", body, nil); err != nil {
		return err
	}
	s.logger.Info("bound alias", "alias", base, "physical", idx.Physical())
	return nil
}

// Delete removes the physical collection. Qdrant drops alias bindings that
// point at a deleted collection.
func (s *Store) Delete(ctx context.Context, idx vectorstore.ResolvedIndex) error {
	err := s.doJSON(ctx, http.MethodDelete, "/collections/"+idx.Physical(), nil, nil)
	if err != nil && isStatus(err, http.StatusNotFound) {
		return vectorstore.ErrNotFound
	}
	return err
}
