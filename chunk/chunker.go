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


package chunk

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/CyBerk9z/saixaid-main/core"
)

const (
	// DefaultTargetTokens is the per-passage token budget.
	DefaultTargetTokens = 1000

	// DefaultTimeWindow is the conversation gap that forces a passage boundary.
	DefaultTimeWindow = 5 * time.Minute
)

// timestampLayouts are tried in order when parsing export timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
	"15:04:05",
	"15:04",
}

// Chunker converts an unordered set of conversation rows into ordered,
// thread-aware, token-bounded passages. Threads stay together when they
// fit the budget; a large time gap between threads forces a boundary.
type Chunker struct {
	counter      TokenCounter
	targetTokens int
	window       time.Duration
	logger       *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithTargetTokens sets the per-passage token budget.
// Default is DefaultTargetTokens.
func WithTargetTokens(n int) Option {
	return func(c *Chunker) error {
		if n < 1 {
			return fmt.Errorf("target tokens must be positive, got %d", n)
		}
		c.targetTokens = n
		return nil
	}
}

// WithTimeWindow sets the gap between threads that forces a boundary.
// Default is DefaultTimeWindow.
func WithTimeWindow(d time.Duration) Option {
	return func(c *Chunker) error {
		if d <= 0 {
			return fmt.Errorf("time window must be positive, got %s", d)
		}
		c.window = d
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewChunker creates a chunker on top of a token counter.
func NewChunker(counter TokenCounter, opts ...Option) (*Chunker, error) {
	if counter == nil {
		return nil, ErrCounterRequired
	}

	c := &Chunker{
		counter:      counter,
		targetTokens: DefaultTargetTokens,
		window:       DefaultTimeWindow,
		logger:       slog.Default().With("component", "chunker"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// parsedRow carries a row with its normalized timestamps and rendered line.
type parsedRow struct {
	line     string
	ts       time.Time
	tsValid  bool
	groupKey string
}

// threadGroup is the set of rows sharing a parent timestamp, in timestamp order.
type threadGroup struct {
	rows []parsedRow
}

// firstTimestamp returns the parsed timestamp of the group's first row.
func (g *threadGroup) firstTimestamp() (time.Time, bool) {
	if len(g.rows) == 0 {
		return time.Time{}, false
	}
	return g.rows[0].ts, g.rows[0].tsValid
}

// maxTimestamp returns the latest parseable timestamp in the group.
func (g *threadGroup) maxTimestamp() (time.Time, bool) {
	var max time.Time
	found := false
	for _, r := range g.rows {
		if r.tsValid && (!found || r.ts.After(max)) {
			max = r.ts
			found = true
		}
	}
	return max, found
}

// Split converts rows into passages. The returned passages carry text and
// the token count used for boundary accounting; IDs and embeddings are
// assigned downstream.
//
// Tokenizer failures abort the whole run. Malformed timestamps never do:
// rows with unparseable timestamps sort last, become self-threaded when
// their parent is also unparseable, and neither trigger nor suppress
// time-gap boundaries.
func (c *Chunker) Split(rows []core.ConversationRow) ([]core.Passage, error) {
	if len(rows) == 0 {
		c.logger.Info("no rows to chunk")
		return nil, nil
	}

	groups := c.groupRows(rows)

	var passages []core.Passage
	var current []string
	currentTokens := 0
	var lastSeen time.Time
	lastSeenValid := false

	flush := func() {
		if len(current) == 0 {
			return
		}
		passages = append(passages, core.Passage{
			Text:       strings.Join(current, "\n"),
			TokenCount: currentTokens,
		})
		current = nil
		currentTokens = 0
	}

	for _, group := range groups {
		lines := make([]string, len(group.rows))
		for i, r := range group.rows {
			lines[i] = r.line
		}
		combined := strings.Join(lines, "\n")
		combinedTokens, err := c.counter.Count(combined)
		if err != nil {
			return nil, fmt.Errorf("count tokens: %w", err)
		}

		// Budget overflow: complete the buffered passage first.
		if len(current) > 0 && currentTokens+combinedTokens > c.targetTokens {
			flush()
			lastSeenValid = false
		}

		// A single thread too large for the budget is split on its own.
		if combinedTokens > c.targetTokens {
			sub, err := c.splitOversizedThread(lines)
			if err != nil {
				return nil, err
			}
			passages = append(passages, sub...)
			continue
		}

		// Conversation gap: the buffered passage ends at the gap.
		if first, ok := group.firstTimestamp(); ok && len(current) > 0 && lastSeenValid {
			if first.Sub(lastSeen) > c.window {
				flush()
			}
		}

		current = append(current, lines...)
		currentTokens += combinedTokens

		if max, ok := group.maxTimestamp(); ok {
			if !lastSeenValid || max.After(lastSeen) {
				lastSeen = max
			}
			lastSeenValid = true
		}
	}

	flush()

	c.logStats(passages)
	return passages, nil
}

// splitOversizedThread greedily packs a thread's lines into sub-passages,
// each within the token budget. A single line over the budget becomes its
// own minimal passage.
func (c *Chunker) splitOversizedThread(lines []string) ([]core.Passage, error) {
	var out []core.Passage
	var buf []string
	bufTokens := 0

	for _, line := range lines {
		lineTokens, err := c.counter.Count(line)
		if err != nil {
			return nil, fmt.Errorf("count tokens: %w", err)
		}
		if len(buf) > 0 && bufTokens+lineTokens > c.targetTokens {
			out = append(out, core.Passage{Text: strings.Join(buf, "\n"), TokenCount: bufTokens})
			buf = nil
			bufTokens = 0
		}
		buf = append(buf, line)
		bufTokens += lineTokens
	}
	if len(buf) > 0 {
		out = append(out, core.Passage{Text: strings.Join(buf, "\n"), TokenCount: bufTokens})
	}
	return out, nil
}

// groupRows normalizes timestamps, sorts rows, and groups them by thread
// anchor in order of first appearance after the sort.
func (c *Chunker) groupRows(rows []core.ConversationRow) []*threadGroup {
	parsed := make([]parsedRow, len(rows))
	for i, row := range rows {
		ts, tsValid := parseTimestamp(row.Timestamp)

		key := ""
		if parent, ok := parseTimestamp(row.ParentTimestamp); ok {
			key = "t" + strconv.FormatInt(parent.UnixNano(), 10)
		} else if tsValid {
			// Self-threaded: the row anchors its own thread.
			key = "t" + strconv.FormatInt(ts.UnixNano(), 10)
		} else {
			// No usable timestamp at all; the row stands alone.
			key = "r" + strconv.Itoa(i)
		}

		parsed[i] = parsedRow{
			line:     renderRow(&row),
			ts:       ts,
			tsValid:  tsValid,
			groupKey: key,
		}
	}

	// Stable sort keeps original order for ties and for rows without a
	// parseable timestamp, which sort last.
	sort.SliceStable(parsed, func(a, b int) bool {
		ra, rb := parsed[a], parsed[b]
		if ra.tsValid && rb.tsValid {
			return ra.ts.Before(rb.ts)
		}
		return ra.tsValid && !rb.tsValid
	})

	byKey := make(map[string]*threadGroup)
	var groups []*threadGroup
	for _, r := range parsed {
		g, ok := byKey[r.groupKey]
		if !ok {
			g = &threadGroup{}
			byKey[r.groupKey] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}
	return groups
}

// renderRow formats a row as a single passage line:
// timestamp, author id, author name, channel, text, attachments.
func renderRow(row *core.ConversationRow) string {
	fields := []string{
		row.Timestamp,
		row.AuthorID,
		row.AuthorName,
		row.Channel,
		row.Text,
		strings.Join(row.Attachments, ","),
	}
	return strings.Join(fields, " ")
}

// parseTimestamp tries the known export layouts in order.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// logStats reports passage token statistics for observability.
func (c *Chunker) logStats(passages []core.Passage) {
	if len(passages) == 0 {
		c.logger.Info("chunking complete", "passages", 0)
		return
	}
	sum, min, max := 0, passages[0].TokenCount, passages[0].TokenCount
	for _, p := range passages {
		sum += p.TokenCount
		if p.TokenCount < min {
			min = p.TokenCount
		}
		if p.TokenCount > max {
			max = p.TokenCount
		}
	}
	c.logger.Info("chunking complete",
		"passages", len(passages),
		"meanTokens", sum/len(passages),
		"minTokens", min,
		"maxTokens", max)
}
