// Package isearch implements incremental search: forward/reverse match
// state over a buffer, auto-detected case sensitivity, and the
// wrap-pending flag that lets a failed scan retry from the other end
// of the buffer on the next advance.
package isearch

import (
	"github.com/shawnamir/sced/pkg/gapbuf"
	"github.com/shawnamir/sced/pkg/layout"
)

// Direction is the scan direction an incremental search runs in.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Search is one incremental-search session.
type Search struct {
	Pattern []byte
	Dir     Direction
	Origin  int // cursor position when the search began

	CaseSensitive bool // auto-detected: any uppercase letter in Pattern makes it sensitive
	WrapPending   bool

	MatchStart, MatchEnd int
	Found                bool

	lastPattern []byte // reused when Control-S/R is pressed with an empty pattern
}

// Start begins a new incremental search from origin.
func Start(dir Direction, origin int) *Search {
	return &Search{Dir: dir, Origin: origin}
}

// AppendChar extends the pattern by one printable character.
func (s *Search) AppendChar(c byte) {
	s.Pattern = append(s.Pattern, c)
	s.updateCaseSensitivity()
}

// Backspace shortens the pattern by one character.
func (s *Search) Backspace() {
	if len(s.Pattern) > 0 {
		s.Pattern = s.Pattern[:len(s.Pattern)-1]
		s.updateCaseSensitivity()
	}
}

// ExtendWord extends the pattern by the next word in buf starting at
// from (or, if from lands on a single non-word character, by that one
// character) — the Control-W behavior.
func (s *Search) ExtendWord(buf layout.Text, from int) {
	pos := from
	if pos < buf.Len() && !gapbuf.IsWordByte(buf.ByteAt(pos)) {
		s.Pattern = append(s.Pattern, buf.ByteAt(pos))
		s.updateCaseSensitivity()
		return
	}
	for pos < buf.Len() && gapbuf.IsWordByte(buf.ByteAt(pos)) {
		s.Pattern = append(s.Pattern, buf.ByteAt(pos))
		pos++
	}
	s.updateCaseSensitivity()
}

func (s *Search) updateCaseSensitivity() {
	for _, c := range s.Pattern {
		if c >= 'A' && c <= 'Z' {
			s.CaseSensitive = true
			return
		}
	}
	s.CaseSensitive = false
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func (s *Search) bytesEqual(a, b byte) bool {
	if s.CaseSensitive {
		return a == b
	}
	return toLower(a) == toLower(b)
}

// matchAt reports whether Pattern occurs at pos, comparing raw bytes
// (search patterns are matched as byte strings, independent of UTF-8
// stepping).
func (s *Search) matchAt(buf layout.Text, pos int) bool {
	if pos < 0 || pos+len(s.Pattern) > buf.Len() {
		return false
	}
	for i := 0; i < len(s.Pattern); i++ {
		if !s.bytesEqual(buf.ByteAt(pos+i), s.Pattern[i]) {
			return false
		}
	}
	return true
}

func (s *Search) resolvePattern() {
	if len(s.Pattern) == 0 && len(s.lastPattern) > 0 {
		s.Pattern = append([]byte(nil), s.lastPattern...)
		s.updateCaseSensitivity()
	}
}

// SearchForward scans for the first match at or after from.
func (s *Search) SearchForward(buf layout.Text, from int) bool {
	s.resolvePattern()
	if len(s.Pattern) == 0 {
		return false
	}
	for pos := from; pos <= buf.Len()-len(s.Pattern); pos++ {
		if s.matchAt(buf, pos) {
			s.setMatch(pos)
			return true
		}
	}
	s.Found = false
	s.WrapPending = true
	return false
}

// SearchBackward scans for the last match whose start is at or before
// maxStart.
func (s *Search) SearchBackward(buf layout.Text, maxStart int) bool {
	s.resolvePattern()
	if len(s.Pattern) == 0 {
		return false
	}
	if limit := buf.Len() - len(s.Pattern); maxStart > limit {
		maxStart = limit
	}
	for pos := maxStart; pos >= 0; pos-- {
		if s.matchAt(buf, pos) {
			s.setMatch(pos)
			return true
		}
	}
	s.Found = false
	s.WrapPending = true
	return false
}

func (s *Search) setMatch(pos int) {
	s.MatchStart = pos
	s.MatchEnd = pos + len(s.Pattern)
	s.Found = true
	s.WrapPending = false
	s.lastPattern = append(s.lastPattern[:0], s.Pattern...)
}

// Advance runs one Control-S (direction Forward) or Control-R
// (direction Backward) step: it continues past the current match, or
// wraps to the buffer's far end if the previous scan failed.
func (s *Search) Advance(buf layout.Text) bool {
	if s.Dir == Forward {
		from := s.Origin
		switch {
		case s.WrapPending:
			from = 0
		case s.Found:
			from = s.MatchStart + 1
		}
		return s.SearchForward(buf, from)
	}
	maxStart := s.Origin - len(s.Pattern)
	switch {
	case s.WrapPending:
		maxStart = buf.Len() - len(s.Pattern)
	case s.Found:
		maxStart = s.MatchStart - 1
	}
	return s.SearchBackward(buf, maxStart)
}

// Abort ends the search without setting a mark.
func (s *Search) Abort() {
	s.Found = false
}

// AltMatch is a match the incremental search found but is not the
// current main match, drawn in a second hilite color.
type AltMatch struct {
	Start, End int
	// AdjacentToMain marks a match immediately following the main
	// match, which needs its own cursor-blink slot so the cursor
	// sitting at the end of the main match doesn't flash against the
	// alt color of the adjacent one.
	AdjacentToMain bool
}

// AlternativeMatches scans [from, to) for every occurrence of Pattern
// that does not overlap the current main match, for highlighting.
func (s *Search) AlternativeMatches(buf layout.Text, from, to int) []AltMatch {
	if len(s.Pattern) == 0 || to > buf.Len() {
		to = buf.Len()
	}
	var alts []AltMatch
	for pos := from; pos <= to-len(s.Pattern); pos++ {
		if !s.matchAt(buf, pos) {
			continue
		}
		end := pos + len(s.Pattern)
		if s.Found && pos < s.MatchEnd && end > s.MatchStart {
			continue // overlaps the main match
		}
		alts = append(alts, AltMatch{Start: pos, End: end, AdjacentToMain: s.Found && pos == s.MatchEnd})
	}
	return alts
}
