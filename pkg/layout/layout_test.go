package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// strText adapts a plain string to the Text interface for tests.
type strText string

func (s strText) Len() int         { return len(s) }
func (s strText) ByteAt(p int) byte { return s[p] }
func (s strText) StepForward(p int) int {
	if p >= len(s) {
		return p
	}
	return p + 1 // ASCII-only fixture; one byte per character
}

func TestFindLocationSimple(t *testing.T) {
	text := strText("hello\nworld")
	row, col, rowStart, _ := FindLocation(text, 0, 8, 80, 0)
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)
	assert.Equal(t, 6, rowStart)
}

func TestFindLocationWrapsAtRowChars(t *testing.T) {
	text := strText("abcdefgh")
	row, col, rowStart, _ := FindLocation(text, 0, 5, 4, 0)
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
	assert.Equal(t, 4, rowStart)
}

func TestFindLocationPaneLimit(t *testing.T) {
	text := strText("aaaa\nbbbb\ncccc\ndddd")
	row, _, rowStart, _ := FindLocation(text, 0, 18, 80, 2)
	assert.Equal(t, -1, row)
	assert.Equal(t, 5, rowStart) // start of the second (last allowed) row: "bbbb"
}

func TestFindPositionInverse(t *testing.T) {
	text := strText("hello\nworld")
	pos, rowStart := FindPosition(text, 0, 1, 2, 80, 0)
	assert.Equal(t, 8, pos)
	assert.Equal(t, 6, rowStart)
}

func TestFindPositionClampsPastLineEnd(t *testing.T) {
	text := strText("hi\nworld")
	pos, _ := FindPosition(text, 0, 0, 10, 80, 0)
	assert.Equal(t, 2, pos) // clamps to end of "hi"
}

func TestGetPosPlusRows(t *testing.T) {
	text := strText("aa\nbb\ncc\ndd")
	pos, moved := GetPosPlusRows(text, 0, 2, 80)
	assert.Equal(t, 2, moved)
	assert.Equal(t, 6, pos) // start of "cc"
}

func TestGetPosMinusRows(t *testing.T) {
	text := strText("aa\nbb\ncc\ndd")
	pos, moved := GetPosMinusRows(text, 9, 2, 80) // row-start of "dd" is 9
	assert.Equal(t, 2, moved)
	assert.Equal(t, 3, pos) // start of "bb"
}

func TestGetPosMinusRowsClampsAtStart(t *testing.T) {
	text := strText("aa\nbb")
	pos, moved := GetPosMinusRows(text, 3, 5, 80)
	assert.Equal(t, 1, moved)
	assert.Equal(t, 0, pos)
}

func TestRewrapViewportStartStableAtHardStart(t *testing.T) {
	text := strText("hello\nworld")
	got := RewrapViewportStart(text, 6, 80, 40)
	assert.Equal(t, 6, got)
}

func TestRewrapViewportStartRewrapsContinuation(t *testing.T) {
	text := strText("abcdefghij")
	// at width 4, row starts are 0,4,8; pick oldStart=4 under width 4,
	// then rewrap to width 2: row starts 0,2,4,6,8 -> index of old start
	// (4) among width-4 rows is 1, so new start should be rows[1] at width 2.
	got := RewrapViewportStart(text, 4, 4, 2)
	assert.Equal(t, 2, got)
}

func TestRowCount(t *testing.T) {
	text := strText("aa\nbb\ncc")
	assert.Equal(t, 3, RowCount(text, 80))
}

func TestNewlineAtRowCharsBoundary(t *testing.T) {
	// Boundary behavior: inserting a newline at column row_chars lands the
	// cursor at column 0 of a new row; the row count increments by one.
	before := strText("abcd")
	_, beforeCol, _, _ := FindLocation(before, 0, 4, 4, 0)
	assert.Equal(t, 4, beforeCol) // position 4 is the overflow column of row 0

	after := strText("abcd\n")
	row, col, _, _ := FindLocation(after, 0, 5, 4, 0)
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)
}
