package screen

import (
	"testing"

	"github.com/shawnamir/sced/pkg/env"
	"github.com/shawnamir/sced/pkg/envtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTextMarksRowDirtyOnlyWhenContentChanges(t *testing.T) {
	g := New(10, 3)
	require.True(t, g.dirty[0])

	g.dirty[0] = false
	g.SetText(0, 0, "hi", env.Style{})
	assert.True(t, g.dirty[0])

	g.dirty[0] = false
	g.SetText(0, 0, "hi", env.Style{})
	assert.False(t, g.dirty[0], "identical content should not re-dirty the row")

	g.dirty[0] = false
	g.SetText(0, 0, "ho", env.Style{})
	assert.True(t, g.dirty[0])
}

func TestSetTextClampsToGridWidth(t *testing.T) {
	g := New(4, 1)
	g.SetText(0, 2, "hello", env.Style{})
	assert.Equal(t, 'h', g.cells[0][2].Ch)
	assert.Equal(t, 'e', g.cells[0][3].Ch)
}

func TestFillRowOverwritesAllCells(t *testing.T) {
	g := New(5, 1)
	g.SetText(0, 0, "abcde", env.Style{})
	g.dirty[0] = false

	g.FillRow(0, env.Style{Reverse: true})
	for _, c := range g.cells[0] {
		assert.Equal(t, Cell{Ch: ' ', Style: env.Style{Reverse: true}}, c)
	}
	assert.True(t, g.dirty[0])
}

func TestResizePreservesOverlapAndMarksAllDirty(t *testing.T) {
	g := New(3, 2)
	g.SetText(0, 0, "ab", env.Style{})
	g.dirty[0] = false
	g.dirty[1] = false

	g.Resize(5, 3)
	assert.Equal(t, 5, g.Cols())
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 'a', g.cells[0][0].Ch)
	for _, d := range g.dirty {
		assert.True(t, d)
	}
}

func TestFlushClearsDirtyAndSkipsUnchangedRows(t *testing.T) {
	g := New(4, 2)
	g.SetText(0, 0, "hi", env.Style{})

	rec := envtest.NewRecorder(nil)
	g.Flush(rec)
	assert.NotEmpty(t, rec.Texts)
	for _, d := range g.dirty {
		assert.False(t, d)
	}

	rec2 := envtest.NewRecorder(nil)
	g.Flush(rec2)
	assert.Empty(t, rec2.Texts, "nothing dirty, flush should be a no-op")
}

func TestFlushCoalescesEqualStyleRuns(t *testing.T) {
	g := New(6, 1)
	g.SetText(0, 0, "abc", env.Style{})
	g.SetText(0, 3, "def", env.Style{Bold: true})

	rec := envtest.NewRecorder(nil)
	g.Flush(rec)
	require.Len(t, rec.Texts, 2)
	assert.Equal(t, "abc", rec.Texts[0].Text)
	assert.Equal(t, "def", rec.Texts[1].Text)
}
