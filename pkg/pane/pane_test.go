package pane

import (
	"testing"

	"github.com/shawnamir/sced/pkg/arena"
	"github.com/shawnamir/sced/pkg/buffer"
	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuf(t *testing.T, text string) *buffer.Buffer {
	t.Helper()
	b := buffer.New("*test*")
	require.NoError(t, b.Insert(0, []byte(text), true))
	return b
}

func TestNewPane(t *testing.T) {
	p := New(arena.Handle{Index: 3, Gen: 1})
	assert.Equal(t, 3, p.Buffer.Index)
	assert.Equal(t, PaneMinRows, p.RowCount)
}

func TestForwardBackwardChar(t *testing.T) {
	b := newBuf(t, "abc")
	p := New(arena.Zero)

	require.NoError(t, p.ForwardChar(b, 2))
	assert.Equal(t, 2, p.Cursor)

	require.NoError(t, p.ForwardChar(b, 1))
	assert.Equal(t, 3, p.Cursor)

	err := p.ForwardChar(b, 1)
	assert.ErrorIs(t, err, editorerr.ErrEndOfBuffer)

	require.NoError(t, p.BackwardChar(b, 3))
	assert.Equal(t, 0, p.Cursor)

	err = p.BackwardChar(b, 1)
	assert.ErrorIs(t, err, editorerr.ErrBeginningOfBuffer)
}

func TestForwardBackwardWord(t *testing.T) {
	b := newBuf(t, "foo bar  baz")
	p := New(arena.Zero)

	require.NoError(t, p.ForwardWord(b, 1))
	assert.Equal(t, 3, p.Cursor, "stops right after 'foo'")

	require.NoError(t, p.ForwardWord(b, 1))
	assert.Equal(t, 7, p.Cursor, "stops right after 'bar'")

	require.NoError(t, p.BackwardWord(b, 1))
	assert.Equal(t, 4, p.Cursor, "stops at the start of 'bar'")
}

func TestGotoStartEndOfLine(t *testing.T) {
	b := newBuf(t, "first\nsecond line\nthird")
	p := New(arena.Zero)
	p.Cursor = 9 // inside "second line"

	p.GotoStartOfLine(b)
	assert.Equal(t, 6, p.Cursor)

	p.GotoEndOfLine(b)
	assert.Equal(t, 17, p.Cursor)
}

func TestGotoStartEnd(t *testing.T) {
	b := newBuf(t, "hello world")
	p := New(arena.Zero)
	p.Cursor = 5

	p.GotoStart()
	assert.Equal(t, 0, p.Cursor)

	p.GotoEnd(b)
	assert.Equal(t, b.Len(), p.Cursor)
}

func TestGotoCharClamps(t *testing.T) {
	b := newBuf(t, "hello")
	p := New(arena.Zero)

	p.GotoChar(b, -5)
	assert.Equal(t, 0, p.Cursor)

	p.GotoChar(b, 999)
	assert.Equal(t, b.Len(), p.Cursor)
}

func TestForwardBackwardRowPreservesGoalCol(t *testing.T) {
	b := newBuf(t, "12345\nabc\n1234567890")
	p := New(arena.Zero)
	p.Cursor = 4 // column 4 on the first row

	require.NoError(t, p.ForwardRow(b, 1, 80))
	assert.Equal(t, 9, p.Cursor, "clamped to end of the short second line")

	require.NoError(t, p.ForwardRow(b, 1, 80))
	assert.Equal(t, 14, p.Cursor, "back to column 4 on the third line")

	require.NoError(t, p.BackwardRow(b, 2, 80))
	assert.Equal(t, 4, p.Cursor)
}

func TestRecomputeTracksCursorRowCol(t *testing.T) {
	b := newBuf(t, "one\ntwo\nthree")
	p := New(arena.Zero)
	p.RowCount = 10
	p.Cursor = 5 // 'w' in "two"

	p.Recompute(b, 80)
	assert.Equal(t, 1, p.CursorRow)
	assert.Equal(t, 1, p.CursorCol)
	assert.Equal(t, 3, p.TotalRows)
}

func TestUpdateScrollBar(t *testing.T) {
	p := New(arena.Zero)
	p.RowCount = 10
	p.TotalRows = 100
	p.RowsBeforeViewport = 20

	p.UpdateScrollBar()
	assert.InDelta(t, 0.1, p.ScrollBar.Scale, 0.001)
	assert.Equal(t, 2, p.ScrollBar.TopOffset)
	assert.Equal(t, 1, p.ScrollBar.ThumbLength)
}
