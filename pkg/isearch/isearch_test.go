package isearch

import (
	"testing"

	"github.com/shawnamir/sced/pkg/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuf(t *testing.T, text string) *buffer.Buffer {
	t.Helper()
	b := buffer.New("*test*")
	require.NoError(t, b.Insert(0, []byte(text), true))
	return b
}

func TestForwardSearchFindsFirstMatchAtOrigin(t *testing.T) {
	b := newBuf(t, "the quick brown fox jumps over the lazy dog")
	s := Start(Forward, 0)
	for _, c := range "fox" {
		s.AppendChar(byte(c))
	}
	ok := s.Advance(b)
	require.True(t, ok)
	assert.Equal(t, 16, s.MatchStart)
	assert.Equal(t, 19, s.MatchEnd)
}

func TestForwardSearchAdvancesPastCurrentMatch(t *testing.T) {
	b := newBuf(t, "ababab")
	s := Start(Forward, 0)
	s.AppendChar('a')
	s.AppendChar('b')

	require.True(t, s.Advance(b))
	assert.Equal(t, 0, s.MatchStart)

	require.True(t, s.Advance(b))
	assert.Equal(t, 2, s.MatchStart)

	require.True(t, s.Advance(b))
	assert.Equal(t, 4, s.MatchStart)
}

func TestForwardSearchSetsWrapPendingOnFailureThenWraps(t *testing.T) {
	b := newBuf(t, "one two three")
	s := Start(Forward, 8) // at "three"
	s.AppendChar('o')
	s.AppendChar('n')
	s.AppendChar('e')

	ok := s.Advance(b)
	assert.False(t, ok)
	assert.True(t, s.WrapPending)

	ok = s.Advance(b)
	require.True(t, ok)
	assert.Equal(t, 0, s.MatchStart)
	assert.False(t, s.WrapPending)
}

func TestBackwardSearchWrapsToBufferEnd(t *testing.T) {
	b := newBuf(t, "cat dog cat")
	s := Start(Backward, 1) // before any "cat" ends
	s.AppendChar('c')
	s.AppendChar('a')
	s.AppendChar('t')

	ok := s.Advance(b)
	assert.False(t, ok)
	assert.True(t, s.WrapPending)

	ok = s.Advance(b)
	require.True(t, ok)
	assert.Equal(t, 8, s.MatchStart)
}

func TestBackwardSearchStepsToEarlierMatches(t *testing.T) {
	b := newBuf(t, "foo foo foo")
	s := Start(Backward, len("foo foo foo"))

	s.AppendChar('f')
	s.AppendChar('o')
	s.AppendChar('o')

	require.True(t, s.Advance(b))
	assert.Equal(t, 8, s.MatchStart)

	require.True(t, s.Advance(b))
	assert.Equal(t, 4, s.MatchStart)

	require.True(t, s.Advance(b))
	assert.Equal(t, 0, s.MatchStart)
}

func TestCaseSensitivityAutoDetected(t *testing.T) {
	s := Start(Forward, 0)
	s.AppendChar('f')
	s.AppendChar('o')
	assert.False(t, s.CaseSensitive)

	s.AppendChar('O')
	assert.True(t, s.CaseSensitive)

	s.Backspace()
	assert.False(t, s.CaseSensitive)
}

func TestCaseInsensitiveMatch(t *testing.T) {
	b := newBuf(t, "Hello World")
	s := Start(Forward, 0)
	s.AppendChar('w')
	s.AppendChar('o')
	s.AppendChar('r')

	ok := s.Advance(b)
	require.True(t, ok)
	assert.Equal(t, 6, s.MatchStart)
}

func TestBackspaceShortensPattern(t *testing.T) {
	s := Start(Forward, 0)
	s.AppendChar('a')
	s.AppendChar('b')
	s.AppendChar('c')
	s.Backspace()
	assert.Equal(t, "ab", string(s.Pattern))
}

func TestExtendWordAddsNextWord(t *testing.T) {
	b := newBuf(t, "hello world")
	s := Start(Forward, 0)
	s.ExtendWord(b, 0)
	assert.Equal(t, "hello", string(s.Pattern))
}

func TestExtendWordAddsSingleNonWordChar(t *testing.T) {
	b := newBuf(t, "-- dashes")
	s := Start(Forward, 0)
	s.ExtendWord(b, 0)
	assert.Equal(t, "-", string(s.Pattern))
}

func TestAbortClearsFound(t *testing.T) {
	b := newBuf(t, "match here")
	s := Start(Forward, 0)
	s.AppendChar('m')
	require.True(t, s.Advance(b))
	require.True(t, s.Found)

	s.Abort()
	assert.False(t, s.Found)
}

func TestEmptyPatternReusesLastPatternOnAdvance(t *testing.T) {
	b := newBuf(t, "alpha beta alpha")
	s := Start(Forward, 0)
	s.AppendChar('a')
	s.AppendChar('l')
	s.AppendChar('p')
	s.AppendChar('h')
	s.AppendChar('a')
	require.True(t, s.Advance(b))
	assert.Equal(t, 0, s.MatchStart)

	s2 := Start(Forward, 1)
	s2.lastPattern = append([]byte(nil), s.Pattern...)
	require.True(t, s2.Advance(b))
	assert.Equal(t, 11, s2.MatchStart)
}

func TestAlternativeMatchesExcludesMainMatch(t *testing.T) {
	b := newBuf(t, "aa aa aa")
	s := Start(Forward, 0)
	s.AppendChar('a')
	s.AppendChar('a')
	require.True(t, s.Advance(b))
	assert.Equal(t, 0, s.MatchStart)

	alts := s.AlternativeMatches(b, 0, b.Len())
	require.Len(t, alts, 2)
	assert.Equal(t, 3, alts[0].Start)
	assert.Equal(t, 6, alts[1].Start)
}
