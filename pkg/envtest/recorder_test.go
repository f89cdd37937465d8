package envtest

import (
	"testing"
	"time"

	"github.com/shawnamir/sced/pkg/clipboard"
	"github.com/shawnamir/sced/pkg/env"
	"github.com/shawnamir/sced/pkg/frame"
	"github.com/stretchr/testify/assert"
)

func TestNextEventReplaysScriptThenTimesOut(t *testing.T) {
	script := []frame.Event{
		{Kind: frame.EventKey, Key: 'a'},
		{Kind: frame.EventKey, Key: 'b'},
	}
	r := NewRecorder(script)

	ev, ok := r.NextEvent(time.Millisecond)
	assert.True(t, ok)
	assert.Equal(t, byte('a'), ev.Key)

	ev, ok = r.NextEvent(time.Millisecond)
	assert.True(t, ok)
	assert.Equal(t, byte('b'), ev.Key)

	_, ok = r.NextEvent(time.Millisecond)
	assert.False(t, ok)
	assert.Equal(t, 1, r.TimeoutsObserved)
}

func TestFillAndDrawCallsAreCaptured(t *testing.T) {
	r := NewRecorder(nil)
	r.FillRect(0, 0, 5, 10, env.Style{Bg: 1})
	r.DrawText(2, 3, "hello", env.Style{Bold: true})

	assert.Equal(t, []FillCall{{Row: 0, Col: 0, Rows: 5, Cols: 10, Style: env.Style{Bg: 1}}}, r.Fills)
	assert.Equal(t, []TextCall{{Row: 2, Col: 3, Text: "hello", Style: env.Style{Bold: true}}}, r.Texts)
}

func TestClaimSelectionRecordsOwnership(t *testing.T) {
	r := NewRecorder(nil)
	assert.NoError(t, r.ClaimSelection(clipboard.Primary))
	assert.True(t, r.Claimed[clipboard.Primary])
	assert.False(t, r.Claimed[clipboard.ClipSel])
}

func TestPasteReturnsSeededData(t *testing.T) {
	r := NewRecorder(nil)
	r.SetPasteData(clipboard.ClipSel, []byte("from host"))

	data, err := r.Paste(clipboard.ClipSel)
	assert.NoError(t, err)
	assert.Equal(t, []byte("from host"), data)

	data, err = r.Paste(clipboard.Primary)
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestWindowLifecycleRecorded(t *testing.T) {
	r := NewRecorder(nil)
	assert.NoError(t, r.CreateWindow("sced", 24, 80))
	assert.True(t, r.WindowCreated)
	assert.Equal(t, "sced", r.WindowTitle)
	assert.Equal(t, 24, r.WindowRows)
	assert.Equal(t, 80, r.WindowCols)

	assert.NoError(t, r.CloseWindow())
	assert.True(t, r.WindowClosed)
}

func TestMeasureRuneTreatsControlCharsAsZeroWidth(t *testing.T) {
	r := NewRecorder(nil)
	assert.Equal(t, 0, r.MeasureRune('\t'))
	assert.Equal(t, 1, r.MeasureRune('a'))
}
