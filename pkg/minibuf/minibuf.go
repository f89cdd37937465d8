// Package minibuf implements the mini-query: a single-line prompt and
// editable response area shared across file names, search strings,
// query-replace patterns, and y-or-n confirmations.
package minibuf

import "github.com/shawnamir/sced/pkg/killring"

// Type selects the mini-query's editing behavior.
type Type int

const (
	// TypeString supports the full line-editing command set; Return
	// submits the accumulated response.
	TypeString Type = iota
	// TypeLetter submits immediately on every keystroke, with no
	// editing commands at all.
	TypeLetter
)

// OnSubmit is called once the response is ready: for TypeString, on
// Return; for TypeLetter, on every keystroke. Returning false (reject)
// flashes the mini-query instead of exiting it.
type OnSubmit func(response string) (accept bool)

// OnComplete rewrites the current response from a lookup (Tab).
type OnComplete func(partial string) (rewritten string, ok bool)

// minContext is the minimum number of columns of response kept visible
// on either side of the cursor during horizontal auto-scroll.
const minContext = 5

// Query is one active mini-query session.
type Query struct {
	Prompt   string
	Response []byte
	Cursor   int // byte index into Response
	Type     Type

	OnSubmit   OnSubmit
	OnComplete OnComplete
	OnExit     func()

	kill *killring.Ring

	ViewStart int // horizontal scroll offset into Response
	StruckOut bool
	Flashing  bool
	Done      bool
}

// Start begins a new mini-query.
func Start(prompt, initial string, typ Type, kr *killring.Ring, onSubmit OnSubmit, onComplete OnComplete, onExit func()) *Query {
	return &Query{
		Prompt:     prompt,
		Response:   []byte(initial),
		Cursor:     len(initial),
		Type:       typ,
		OnSubmit:   onSubmit,
		OnComplete: onComplete,
		OnExit:     onExit,
		kill:       kr,
	}
}

// Abort exits the query without submitting (Ctrl+G or focus loss).
func (q *Query) Abort() {
	q.Done = true
	if q.OnExit != nil {
		q.OnExit()
	}
}

// Key feeds one printable character. For TypeLetter it submits
// immediately; for TypeString it inserts at the cursor.
func (q *Query) Key(c byte) {
	if q.Type == TypeLetter {
		q.Flashing = !q.submit(string(c))
		return
	}
	q.insert([]byte{c})
}

func (q *Query) insert(b []byte) {
	if len(q.Response) == 0 {
		q.Response = append(q.Response, b...)
		q.Cursor = len(q.Response)
		return
	}
	head := append([]byte(nil), q.Response[:q.Cursor]...)
	head = append(head, b...)
	head = append(head, q.Response[q.Cursor:]...)
	q.Response = head
	q.Cursor += len(b)
}

func (q *Query) deleteRange(lo, hi int) []byte {
	if lo < 0 {
		lo = 0
	}
	if hi > len(q.Response) {
		hi = len(q.Response)
	}
	if lo >= hi {
		return nil
	}
	removed := append([]byte(nil), q.Response[lo:hi]...)
	q.Response = append(q.Response[:lo], q.Response[hi:]...)
	q.Cursor = lo
	return removed
}

// CursorLeft/CursorRight move within the response (TypeString only).
func (q *Query) CursorLeft() {
	if q.Cursor > 0 {
		q.Cursor--
	}
}

func (q *Query) CursorRight() {
	if q.Cursor < len(q.Response) {
		q.Cursor++
	}
}

func isWord(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

// WordLeft/WordRight move by whole words.
func (q *Query) WordLeft() {
	for q.Cursor > 0 && !isWord(q.Response[q.Cursor-1]) {
		q.Cursor--
	}
	for q.Cursor > 0 && isWord(q.Response[q.Cursor-1]) {
		q.Cursor--
	}
}

func (q *Query) WordRight() {
	for q.Cursor < len(q.Response) && !isWord(q.Response[q.Cursor]) {
		q.Cursor++
	}
	for q.Cursor < len(q.Response) && isWord(q.Response[q.Cursor]) {
		q.Cursor++
	}
}

// DeleteCharForward/Backward delete one character without touching
// the kill ring (plain editing deletes, not kills).
func (q *Query) DeleteCharForward() {
	q.deleteRange(q.Cursor, q.Cursor+1)
}

func (q *Query) DeleteCharBackward() {
	q.deleteRange(q.Cursor-1, q.Cursor)
}

// DeleteWordForward/Backward kill one word into the shared kill ring.
func (q *Query) DeleteWordForward() {
	end := q.Cursor
	for end < len(q.Response) && !isWord(q.Response[end]) {
		end++
	}
	for end < len(q.Response) && isWord(q.Response[end]) {
		end++
	}
	if data := q.deleteRange(q.Cursor, end); data != nil && q.kill != nil {
		q.kill.Append(data)
	}
}

func (q *Query) DeleteWordBackward() {
	start := q.Cursor
	for start > 0 && !isWord(q.Response[start-1]) {
		start--
	}
	for start > 0 && isWord(q.Response[start-1]) {
		start--
	}
	if data := q.deleteRange(start, q.Cursor); data != nil && q.kill != nil {
		q.kill.Prepend(data)
	}
}

// KillToEnd kills from the cursor to the end of the response.
func (q *Query) KillToEnd() {
	if data := q.deleteRange(q.Cursor, len(q.Response)); data != nil && q.kill != nil {
		q.kill.Append(data)
	}
}

// Yank inserts the kill ring's top entry at the cursor.
func (q *Query) Yank() {
	if q.kill == nil {
		return
	}
	q.kill.ResetYank()
	q.insert(q.kill.Yank())
}

// YankPop replaces the just-yanked text with the next-older kill-ring
// entry (must immediately follow a Yank or another YankPop).
func (q *Query) YankPop(lastYankLen int) {
	if q.kill == nil {
		return
	}
	q.deleteRange(q.Cursor-lastYankLen, q.Cursor)
	q.insert(q.kill.YankPop())
}

// ClearAll empties the response.
func (q *Query) ClearAll() {
	q.Response = nil
	q.Cursor = 0
}

// Complete invokes OnComplete to rewrite the response from a lookup.
func (q *Query) Complete() {
	if q.OnComplete == nil {
		return
	}
	if rewritten, ok := q.OnComplete(string(q.Response)); ok {
		q.Response = []byte(rewritten)
		q.Cursor = len(q.Response)
	}
}

// Submit ends the query with Return (TypeString only).
func (q *Query) Submit() {
	q.Flashing = !q.submit(string(q.Response))
}

func (q *Query) submit(s string) (accept bool) {
	if q.OnSubmit == nil {
		q.Done = true
		return true
	}
	accept = q.OnSubmit(s)
	if accept {
		q.Done = true
	}
	return accept
}

// Layout computes the clipped prompt, the visible response window, and
// whether the response area is struck out (no columns remain for it),
// for a mini-query line of the given total width.
func (q *Query) Layout(width int) (prompt string, visibleResponse []byte, hiddenLeft, hiddenRight bool) {
	p := q.Prompt
	if len(p) > width {
		p = p[:width]
	}
	avail := width - len(p)
	if avail <= 0 {
		q.StruckOut = true
		return p, nil, false, false
	}
	q.StruckOut = false
	q.scrollIntoView(avail)

	end := q.ViewStart + avail
	if end > len(q.Response) {
		end = len(q.Response)
	}
	visibleResponse = q.Response[q.ViewStart:end]
	hiddenLeft = q.ViewStart > 0
	hiddenRight = end < len(q.Response)
	return p, visibleResponse, hiddenLeft, hiddenRight
}

// scrollIntoView keeps the cursor within [minContext, avail-minContext]
// of the visible window when the response is longer than the window.
func (q *Query) scrollIntoView(avail int) {
	if len(q.Response) <= avail {
		q.ViewStart = 0
		return
	}
	lo := q.ViewStart + minContext
	hi := q.ViewStart + avail - minContext
	switch {
	case q.Cursor < lo:
		q.ViewStart = q.Cursor - minContext
	case q.Cursor > hi:
		q.ViewStart = q.Cursor - avail + minContext
	}
	if q.ViewStart < 0 {
		q.ViewStart = 0
	}
	if q.ViewStart > len(q.Response)-avail {
		q.ViewStart = len(q.Response) - avail
	}
	if q.ViewStart < 0 {
		q.ViewStart = 0
	}
}
