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


package vectorstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the physical index does not exist.
	ErrNotFound = errors.New("index not found")

	// ErrEmptyIndexName indicates an empty base or physical index name.
	ErrEmptyIndexName = errors.New("index name cannot be empty")
)

// SchemaMismatchError indicates an index exists with a schema incompatible
// with the expected one. It is surfaced, never auto-migrated.
type SchemaMismatchError struct {
	Index         string
	WantDimension int
	GotDimension  int
	GotDistance   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("index %q schema mismatch: want dimension %d cosine, got dimension %d %s",
		e.Index, e.WantDimension, e.GotDimension, e.GotDistance)
}
