package clipboard

import (
	"testing"
	"time"

	"github.com/shawnamir/sced/pkg/killring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportNotOwnedSendsNotOwned(t *testing.T) {
	b := New(killring.New())
	var got []Message
	err := b.Export(Primary, func(m Message) error {
		got = append(got, m)
		return nil
	}, func(time.Duration) bool { return true })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, MsgNotOwned, got[0].Kind)
}

func TestExportSmallSelectionSendsSingleData(t *testing.T) {
	b := New(killring.New())
	b.OwnPrimaryRegion(func() []byte { return []byte("hello") })

	var got []Message
	err := b.Export(Primary, func(m Message) error {
		got = append(got, m)
		return nil
	}, func(time.Duration) bool { return true })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, MsgData, got[0].Kind)
	assert.Equal(t, []byte("hello"), got[0].Data)
}

func TestExportLargeSelectionChunksWithIncrProtocol(t *testing.T) {
	b := New(killring.New())
	data := make([]byte, ChunkThreshold*2+10)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	b.OwnPrimaryRegion(func() []byte { return data })

	var got []Message
	ackCalls := 0
	err := b.Export(Primary, func(m Message) error {
		got = append(got, m)
		return nil
	}, func(time.Duration) bool {
		ackCalls++
		return true
	})
	require.NoError(t, err)

	require.True(t, len(got) >= 2)
	assert.Equal(t, MsgIncrBegin, got[0].Kind)
	assert.Equal(t, len(data), got[0].Length)

	// 3 chunks (2 full + 1 partial) plus a final zero-length terminator.
	chunks := got[1:]
	require.Len(t, chunks, 4)
	assert.Equal(t, ChunkThreshold, len(chunks[0].Data))
	assert.Equal(t, ChunkThreshold, len(chunks[1].Data))
	assert.Equal(t, 10, len(chunks[2].Data))
	assert.Empty(t, chunks[3].Data)
	assert.Equal(t, MsgChunk, chunks[3].Kind)

	assert.Equal(t, 3, ackCalls) // one wait per non-terminal chunk
}

func TestExportTimesOutWhenAckNeverArrives(t *testing.T) {
	b := New(killring.New())
	data := make([]byte, ChunkThreshold+1)
	b.OwnPrimaryRegion(func() []byte { return data })

	err := b.Export(Primary, func(m Message) error { return nil }, func(time.Duration) bool { return false })
	assert.ErrorIs(t, err, ErrIncrTimeout)
}

func TestClipboardAlwaysReferencesKillRingTop(t *testing.T) {
	kr := killring.New()
	kr.Kill([]byte("first"))
	b := New(kr)
	b.OwnClipboard()

	var got []Message
	b.Export(ClipSel, func(m Message) error {
		got = append(got, m)
		return nil
	}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, []byte("first"), got[0].Data)

	kr.Kill([]byte("second"))
	got = nil
	b.Export(ClipSel, func(m Message) error {
		got = append(got, m)
		return nil
	}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, []byte("second"), got[0].Data) // live lookup, not a snapshot
}

func TestReleasePrimaryStopsOwnership(t *testing.T) {
	b := New(killring.New())
	b.OwnPrimaryRegion(func() []byte { return []byte("x") })
	assert.True(t, b.OwnsPrimary())

	b.ReleasePrimary()
	assert.False(t, b.OwnsPrimary())

	var got []Message
	b.Export(Primary, func(m Message) error {
		got = append(got, m)
		return nil
	}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, MsgNotOwned, got[0].Kind)
}
