// Package qreplace implements query-replace: an incremental search over
// the from-string, with a y/n/!/./i disposition prompt at each match and
// chained-undo replacement.
package qreplace

import (
	"fmt"

	"github.com/shawnamir/sced/pkg/buffer"
	"github.com/shawnamir/sced/pkg/isearch"
	"github.com/shawnamir/sced/pkg/killring"
)

// yieldInterval is how often the 'i' disposition's replace-all loop
// yields to the event loop, so other windows (notably clipboard
// requests) are serviced within their round-trip deadlines.
const yieldInterval = 75

// QueryReplace is one active query-replace session.
type QueryReplace struct {
	From, To            string
	Count               int
	ReplaceAll          bool // set once '!' or 'i' has been seen
	Done                bool
	Flashing            bool // last key was not a recognized disposition

	buf       *buffer.Buffer
	is        *isearch.Search
	kill      *killring.Ring
	fromBytes []byte
	toBytes   []byte
	pos       int // scan position for the next forward search

	addedToKillRing bool
}

// Start begins a query-replace from startPos, locating the first match.
func Start(buf *buffer.Buffer, from, to string, startPos int, kr *killring.Ring) *QueryReplace {
	q := &QueryReplace{
		From:      from,
		To:        to,
		buf:       buf,
		kill:      kr,
		fromBytes: []byte(from),
		toBytes:   []byte(to),
		pos:       startPos,
		is:        isearch.Start(isearch.Forward, startPos),
	}
	for i := 0; i < len(from); i++ {
		q.is.AppendChar(from[i])
	}
	q.advance()
	return q
}

// advance locates the next match at or after q.pos, setting Done when
// none remains. Unlike interactive incremental search, query-replace
// never wraps around the buffer.
func (q *QueryReplace) advance() bool {
	if q.is.SearchForward(q.buf, q.pos) {
		return true
	}
	q.Done = true
	return false
}

// CurrentMatch reports the buffer range of the match awaiting
// disposition, or ok=false once the session is done.
func (q *QueryReplace) CurrentMatch() (start, end int, ok bool) {
	if q.Done {
		return 0, 0, false
	}
	return q.is.MatchStart, q.is.MatchEnd, true
}

// Prompt returns the echo-line text shown while a match awaits
// disposition.
func (q *QueryReplace) Prompt() string {
	return fmt.Sprintf("Query replace %s with %s: [y n ! . <Ret>]", q.From, q.To)
}

// Key feeds one disposition key. yield is invoked periodically during
// the 'i' disposition's replace-all loop; callers pass nil for every
// other key.
func (q *QueryReplace) Key(c byte, yield func()) {
	if q.Done {
		return
	}
	q.Flashing = false
	switch c {
	case 'y', ' ':
		q.doReplace(false)
	case 'n', 0x7f, 0x08:
		q.pos = q.is.MatchEnd
		q.advance()
	case '.':
		q.doReplace(false)
		q.Done = true
	case '!':
		q.ReplaceAll = true
		q.replaceAllRemaining(false, nil)
	case 'i':
		q.ReplaceAll = true
		q.replaceAllRemaining(true, yield)
	case '\r', '\n':
		q.Done = true
	default:
		q.Flashing = true
	}
}

// Abort ends the session without replacing the pending match (Ctrl+G).
func (q *QueryReplace) Abort() {
	q.Done = true
}

// doReplace replaces the current match and advances to the next one.
// chainToPrevious links this replacement's Del block onto the previous
// replacement's Add block, so a run of replacements from the same
// replace-all invocation undoes as a single command.
func (q *QueryReplace) doReplace(chainToPrevious bool) {
	if !q.addedToKillRing && q.kill != nil {
		q.kill.Kill(append([]byte(nil), q.fromBytes...))
		q.addedToKillRing = true
	}
	pos := q.is.MatchStart
	q.buf.Delete(pos, len(q.fromBytes), true)
	if chainToPrevious {
		q.buf.Undo.ChainLastToPrevious()
	}
	q.buf.Insert(pos, q.toBytes, false)
	q.buf.Undo.ChainLastToPrevious()
	q.Count++
	q.pos = pos + len(q.toBytes)
	q.advance()
}

// replaceAllRemaining disposes of every remaining match without further
// prompting, chaining the whole run into one undoable command. showEach
// additionally yields to the caller every yieldInterval replacements.
func (q *QueryReplace) replaceAllRemaining(showEach bool, yield func()) {
	first := true
	for !q.Done {
		q.doReplace(!first)
		first = false
		if showEach && yield != nil && q.Count%yieldInterval == 0 {
			yield()
		}
	}
}
