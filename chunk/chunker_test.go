package chunk

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/CyBerk9z/saixaid-main/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldCounter counts whitespace-separated fields as tokens.
// Deterministic and offline, good enough to exercise budget boundaries.
type fieldCounter struct {
	err error
}

func (c *fieldCounter) Count(text string) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return len(strings.Fields(text)), nil
}

func newChunker(t *testing.T, opts ...Option) *Chunker {
	t.Helper()
	c, err := NewChunker(&fieldCounter{}, opts...)
	require.NoError(t, err)
	return c
}

func row(ts, parent, text string) core.ConversationRow {
	return core.ConversationRow{
		Timestamp:       ts,
		AuthorID:        "U1",
		AuthorName:      "alice",
		Channel:         "general",
		Text:            text,
		ParentTimestamp: parent,
	}
}

func TestNewChunker_RequiresCounter(t *testing.T) {
	_, err := NewChunker(nil)
	assert.ErrorIs(t, err, ErrCounterRequired)
}

func TestSplit_EmptyInput(t *testing.T) {
	c := newChunker(t)
	passages, err := c.Split(nil)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestSplit_SingleRow(t *testing.T) {
	c := newChunker(t)
	passages, err := c.Split([]core.ConversationRow{
		row("2026-01-05 09:00:00", "2026-01-05 09:00:00", "hello there"),
	})
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Contains(t, passages[0].Text, "hello there")
}

// Two rows in the same thread within the window land in one passage.
func TestSplit_SameThreadOnePassage(t *testing.T) {
	c := newChunker(t)
	passages, err := c.Split([]core.ConversationRow{
		row("09:00", "09:00", "hi"),
		row("09:01", "09:00", "hello"),
	})
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Contains(t, passages[0].Text, "hi")
	assert.Contains(t, passages[0].Text, "hello")
	assert.Equal(t, 2, strings.Count(passages[0].Text, "\n")+1, "both lines in one passage")
}

// A different thread past the time window starts a new passage.
func TestSplit_TimeGapBoundary(t *testing.T) {
	c := newChunker(t)
	passages, err := c.Split([]core.ConversationRow{
		row("09:00", "09:00", "hi"),
		row("09:10", "09:10", "hello"),
	})
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Contains(t, passages[0].Text, "hi")
	assert.Contains(t, passages[1].Text, "hello")
}

func TestSplit_GapWithinWindowKeepsBuffer(t *testing.T) {
	c := newChunker(t)
	passages, err := c.Split([]core.ConversationRow{
		row("09:00", "09:00", "hi"),
		row("09:04", "09:04", "hello"),
	})
	require.NoError(t, err)
	assert.Len(t, passages, 1)
}

// A single thread several times the budget splits into
// sub-passages, each within budget.
func TestSplit_OversizedThreadSplits(t *testing.T) {
	c := newChunker(t, WithTargetTokens(20))

	// One thread, many rows; each rendered line is 7 tokens with the
	// field counter (5 fixed fields + 2 text words).
	var rows []core.ConversationRow
	for i := 0; i < 10; i++ {
		rows = append(rows, row(
			fmt.Sprintf("2026-01-05 09:00:%02d", i),
			"2026-01-05 09:00:00",
			"word word"))
	}

	passages, err := c.Split(rows)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(passages), 3)
	for _, p := range passages {
		assert.LessOrEqual(t, p.TokenCount, 20)
	}
}

func TestSplit_OversizedSingleLine(t *testing.T) {
	c := newChunker(t, WithTargetTokens(5))
	passages, err := c.Split([]core.ConversationRow{
		row("09:00", "09:00", strings.Repeat("word ", 30)),
	})
	require.NoError(t, err)
	require.Len(t, passages, 1, "an oversized single line is its own minimal passage")
	assert.Greater(t, passages[0].TokenCount, 5)
}

func TestSplit_BudgetFlushBetweenThreads(t *testing.T) {
	c := newChunker(t, WithTargetTokens(12))
	passages, err := c.Split([]core.ConversationRow{
		row("09:00", "09:00", "one two three"), // 7 tokens rendered
		row("09:01", "09:01", "four five six"), // 7 more would exceed 12
	})
	require.NoError(t, err)
	require.Len(t, passages, 2)
}

// No row is dropped or duplicated across emitted passages.
func TestSplit_RowPreservation(t *testing.T) {
	c := newChunker(t, WithTargetTokens(25))

	var rows []core.ConversationRow
	for i := 0; i < 17; i++ {
		rows = append(rows, row(
			fmt.Sprintf("2026-01-05 09:%02d:00", i),
			fmt.Sprintf("2026-01-05 09:%02d:00", i/3*3),
			fmt.Sprintf("msg-%d", i)))
	}

	passages, err := c.Split(rows)
	require.NoError(t, err)

	all := strings.Join(joinTexts(passages), "\n")
	for i := 0; i < 17; i++ {
		marker := fmt.Sprintf("msg-%d", i)
		assert.Equal(t, 1, strings.Count(all, marker+" "), "row %s must appear exactly once", marker)
	}
}

func TestSplit_UnparseableTimestampsNeverAbort(t *testing.T) {
	c := newChunker(t)
	passages, err := c.Split([]core.ConversationRow{
		row("garbage", "also-garbage", "first"),
		row("09:00", "09:00", "second"),
		{Text: "third"},
	})
	require.NoError(t, err)

	all := strings.Join(joinTexts(passages), "\n")
	assert.Contains(t, all, "first")
	assert.Contains(t, all, "second")
	assert.Contains(t, all, "third")
}

func TestSplit_MissingTimestampJoinsCurrentBuffer(t *testing.T) {
	c := newChunker(t)
	passages, err := c.Split([]core.ConversationRow{
		row("09:00", "09:00", "anchored"),
		{Text: "floating"},
	})
	require.NoError(t, err)
	// A row without timestamps cannot trigger a time-gap flush.
	require.Len(t, passages, 1)
}

func TestSplit_UnparseableParentSelfThreads(t *testing.T) {
	c := newChunker(t)
	passages, err := c.Split([]core.ConversationRow{
		row("09:00", "not-a-time", "a"),
		row("09:01", "not-a-time", "b"),
	})
	require.NoError(t, err)
	// Each row anchors its own thread, but both fit one passage.
	require.Len(t, passages, 1)
}

func TestSplit_TokenizerFailureIsFatal(t *testing.T) {
	boom := errors.New("encoding exploded")
	c, err := NewChunker(&fieldCounter{err: boom})
	require.NoError(t, err)

	_, err = c.Split([]core.ConversationRow{row("09:00", "09:00", "hi")})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestSplit_ThreadRevisitedKeepsFirstAppearancePosition(t *testing.T) {
	c := newChunker(t)
	passages, err := c.Split([]core.ConversationRow{
		row("09:00", "09:00", "thread-a-start"),
		row("09:01", "09:01", "thread-b"),
		row("09:02", "09:00", "thread-a-reply"),
	})
	require.NoError(t, err)
	require.Len(t, passages, 1)

	text := passages[0].Text
	// Thread A is processed at its first-appearance position, so the late
	// reply is pulled forward next to its anchor.
	assert.Less(t, strings.Index(text, "thread-a-reply"), strings.Index(text, "thread-b"))
}

func TestWithOptions_Validation(t *testing.T) {
	_, err := NewChunker(&fieldCounter{}, WithTargetTokens(0))
	assert.Error(t, err)

	_, err = NewChunker(&fieldCounter{}, WithTimeWindow(0))
	assert.Error(t, err)
}

func joinTexts(passages []core.Passage) []string {
	out := make([]string, len(passages))
	for i, p := range passages {
		out[i] = p.Text
	}
	return out
}
