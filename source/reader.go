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

package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/CyBerk9z/saixaid-main/core"
)

// Export column headers.
const (
	colTimestamp       = "Timestamp"
	colUserID          = "User ID"
	colUserName        = "User Name"
	colChannel         = "Channel"
	colMessage         = "Message"
	colAttachments     = "Attachments"
	colParentTimestamp = "Parent Message Timestamp"
)

// CSVProvider reads conversation rows from CSV export files on disk.
// The source reference passed to Rows is a file path.
type CSVProvider struct {
	logger *slog.Logger
}

// Option configures a CSVProvider.
type Option func(*CSVProvider)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *CSVProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewCSVProvider creates a provider for CSV conversation exports.
func NewCSVProvider(opts ...Option) *CSVProvider {
	p := &CSVProvider{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "source")
	return p
}

// Rows reads the export at sourceRef and returns its conversation rows.
func (p *CSVProvider) Rows(ctx context.Context, sourceRef string) ([]core.ConversationRow, error) {
	if sourceRef == "" {
		return nil, core.ErrEmptySourceRef
	}

	f, err := os.Open(sourceRef)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("read export %s: %w", sourceRef, err)
	}

	p.logger.Info("Read conversation export", "source", sourceRef, "rows", len(rows))
	return rows, nil
}

// ReadRows parses a CSV conversation export. Columns are located by
// header name so column order does not matter. Rows with an empty
// Message field are skipped.
func ReadRows(r io.Reader) ([]core.ConversationRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyExport
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		// Exports written with a UTF-8 BOM carry it on the first header cell.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colTimestamp, colMessage} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var rows []core.ConversationRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		row := core.ConversationRow{
			Timestamp:       strings.TrimSpace(field(record, colTimestamp)),
			AuthorID:        strings.TrimSpace(field(record, colUserID)),
			AuthorName:      strings.TrimSpace(field(record, colUserName)),
			Channel:         strings.TrimSpace(field(record, colChannel)),
			Text:            strings.TrimSpace(field(record, colMessage)),
			Attachments:     splitAttachments(field(record, colAttachments)),
			ParentTimestamp: strings.TrimSpace(field(record, colParentTimestamp)),
		}
		if row.Text == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// splitAttachments parses the semicolon-joined attachment name list.
func splitAttachments(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return names
}
