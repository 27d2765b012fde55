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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRow indicates a ConversationRow failed validation.
	ErrInvalidRow = errors.New("invalid conversation row")

	// ErrEmptyPassage indicates a passage has no text.
	ErrEmptyPassage = errors.New("passage text cannot be empty")

	// ErrEmptyPassageID indicates a passage has no ID.
	ErrEmptyPassageID = errors.New("passage id cannot be empty")

	// ErrEmptyTenant indicates a tenant identifier is missing.
	ErrEmptyTenant = errors.New("tenant id cannot be empty")

	// ErrEmptySourceRef indicates a source reference is missing.
	ErrEmptySourceRef = errors.New("source reference cannot be empty")
)
