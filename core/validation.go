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

import "fmt"

// ValidateRow validates a ConversationRow according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//
// NOT validated:
//   - Timestamp / ParentTimestamp (kept raw; the chunker degrades
//     gracefully on unparseable values)
//   - AuthorID / AuthorName / Channel (exports may omit them)
func ValidateRow(row *ConversationRow) error {
	if row == nil {
		return fmt.Errorf("%w: row is nil", ErrInvalidRow)
	}

	if row.Text == "" {
		return fmt.Errorf("%w: message text is empty", ErrInvalidRow)
	}

	return nil
}

// ValidatePassage validates a Passage before it is written to an index.
func ValidatePassage(p *Passage) error {
	if p == nil {
		return fmt.Errorf("passage is nil")
	}

	if p.ID == "" {
		return ErrEmptyPassageID
	}

	if p.Text == "" {
		return ErrEmptyPassage
	}

	return nil
}
