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

package rag

import (
	"errors"
	"fmt"
)

// Pipeline stages, recorded on PipelineError.
const (
	StageFetch      = "fetch"
	StageChunk      = "chunk"
	StageEmbed      = "embed"
	StageIndex      = "index"
	StageResolve    = "resolve"
	StageSearch     = "search"
	StageSynthesize = "synthesize"
)

// Pipeline operations, recorded on PipelineError.
const (
	OpBuildIndex  = "build_index"
	OpDeleteIndex = "delete_index"
	OpQuery       = "query"
)

var (
	// ErrEmptyQuestion indicates Query was called with an empty question.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrStoreRequired indicates a nil vector store was passed.
	ErrStoreRequired = errors.New("vector store required")

	// ErrProviderRequired indicates a nil AI provider was passed.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrRowProviderRequired indicates a nil row provider was passed.
	ErrRowProviderRequired = errors.New("row provider required")

	// ErrChunkerRequired indicates a nil chunker was passed.
	ErrChunkerRequired = errors.New("chunker required")
)

// PipelineError wraps a fatal pipeline failure with the tenant,
// operation, and stage where it occurred. It is the only error shape
// Service operations return for runtime failures, so callers never see
// raw backend error text without the identifying context.
type PipelineError struct {
	Tenant string
	Op     string
	Stage  string
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage %s for tenant %s: %v", e.Op, e.Stage, e.Tenant, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// EmbeddingError identifies which item of an embedding run failed.
type EmbeddingError struct {
	Index int
	Err   error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding item %d: %v", e.Index, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
