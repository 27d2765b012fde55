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


// Package chunk turns conversation exports into retrieval-sized passages.
//
// Rows are sorted by timestamp, grouped into threads by parent timestamp,
// and accumulated against a token budget. A thread stays in one passage
// when it fits; a conversation gap longer than the configured window
// closes the current passage; a thread larger than the whole budget is
// split line by line into its own sequence of sub-passages.
//
// Token counting is pluggable through TokenCounter; the production
// implementation wraps tiktoken's cl100k_base encoding.
package chunk
