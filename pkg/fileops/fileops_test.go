package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterTabAndCRLF(t *testing.T) {
	// Scenario 3 from the spec: "a\tb\r\nc" -> tab to next stop of 8 (a is
	// in column 0, so 7 spaces), CRLF -> LF.
	in := []byte("a\tb\r\nc")
	out := Filter(in)
	assert.Equal(t, "a       b\nc", string(out))
}

func TestFilterBareCR(t *testing.T) {
	out := Filter([]byte("a\rb"))
	assert.Equal(t, "a\nb", string(out))
}

func TestFilterIdempotent(t *testing.T) {
	in := []byte("a\tb\r\nc")
	once := Filter(in)
	twice := Filter(once)
	assert.Equal(t, string(once), string(twice))
}

func TestNeedsFilterDetection(t *testing.T) {
	assert.True(t, needsFilter([]byte("a\tb")))
	assert.True(t, needsFilter([]byte("a\rb")))
	assert.False(t, needsFilter([]byte("a b\nc")))
}

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	res, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(res.Text))
	assert.False(t, res.NeedsFilter)

	require.NoError(t, Write(path, []byte("world")))
	res2, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "world", string(res2.Text))
}

func TestReadMissingFileReturnsIOError(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
