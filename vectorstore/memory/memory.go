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


// Package memory implements vectorstore.Store in process memory.
// It mirrors the Qdrant store's semantics (aliases, idempotent creation,
// cosine similarity) and exists for tests and local experimentation.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/CyBerk9z/saixaid-main/vectorstore"
)

type collection struct {
	dimension int
	points    map[string]core.Passage
}

// Store is an in-memory vectorstore.Store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	aliases     map[string]string // alias -> physical
}

var _ vectorstore.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*collection),
		aliases:     make(map[string]string),
	}
}

// Resolve returns the alias target when bound, else the deterministic
// physical name.
func (s *Store) Resolve(ctx context.Context, base string) (vectorstore.ResolvedIndex, bool, error) {
	if base == "" {
		return vectorstore.ResolvedIndex{}, false, vectorstore.ErrEmptyIndexName
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if physical, ok := s.aliases[base]; ok {
		return vectorstore.NewResolvedIndex(physical), true, nil
	}
	return vectorstore.NewResolvedIndex(vectorstore.PhysicalName(base)), false, nil
}

// EnsureSchema creates the collection when absent; an existing collection
// with a different dimension is a schema mismatch.
func (s *Store) EnsureSchema(ctx context.Context, idx vectorstore.ResolvedIndex, dimension int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[idx.Physical()]; ok {
		if c.dimension != dimension {
			return false, &vectorstore.SchemaMismatchError{
				Index:         idx.Physical(),
				WantDimension: dimension,
				GotDimension:  c.dimension,
				GotDistance:   "Cosine",
			}
		}
		return false, nil
	}

	s.collections[idx.Physical()] = &collection{
		dimension: dimension,
		points:    make(map[string]core.Passage),
	}
	return true, nil
}

// BindAlias points base at the handle's collection, replacing any binding.
func (s *Store) BindAlias(ctx context.Context, base string, idx vectorstore.ResolvedIndex) error {
	if base == "" {
		return vectorstore.ErrEmptyIndexName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[idx.Physical()]; !ok {
		return vectorstore.ErrNotFound
	}
	s.aliases[base] = idx.Physical()
	return nil
}

// Upsert overwrites points keyed by passage ID.
func (s *Store) Upsert(ctx context.Context, idx vectorstore.ResolvedIndex, passages []core.Passage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[idx.Physical()]
	if !ok {
		return 0, vectorstore.ErrNotFound
	}

	for _, p := range passages {
		if err := core.ValidatePassage(&p); err != nil {
			return 0, err
		}
		c.points[p.ID] = p
	}
	return len(passages), nil
}

// Search returns the topK passages by cosine similarity, most similar first.
func (s *Store) Search(ctx context.Context, idx vectorstore.ResolvedIndex, vector []float32, topK int) ([]core.RetrievalResult, error) {
	if topK <= 0 {
		topK = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[idx.Physical()]
	if !ok {
		return nil, vectorstore.ErrNotFound
	}

	results := make([]core.RetrievalResult, 0, len(c.points))
	for _, p := range c.points {
		results = append(results, core.RetrievalResult{
			PassageID: p.ID,
			Score:     cosine(vector, p.Embedding),
			Text:      p.Text,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Delete removes the collection and any aliases bound to it.
func (s *Store) Delete(ctx context.Context, idx vectorstore.ResolvedIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[idx.Physical()]; !ok {
		return vectorstore.ErrNotFound
	}
	delete(s.collections, idx.Physical())
	for alias, physical := range s.aliases {
		if physical == idx.Physical() {
			delete(s.aliases, alias)
		}
	}
	return nil
}

// Count returns the number of points in a collection, for test assertions.
func (s *Store) Count(physical string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[physical]
	if !ok {
		return 0
	}
	return len(c.points)
}

func cosine(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
