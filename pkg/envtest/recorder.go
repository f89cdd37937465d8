// Package envtest provides test doubles for pkg/env.Environment: a
// scripted recorder the core runs its tests against (spec §9: "the
// core is implementable against a test double that drives scripted
// event streams and captures redraws"), and the real-terminal adapter
// cmd/sced runs on, which the core's own tests never use.
package envtest

import (
	"time"

	"github.com/shawnamir/sced/pkg/clipboard"
	"github.com/shawnamir/sced/pkg/env"
	"github.com/shawnamir/sced/pkg/frame"
)

// FillCall records one FillRect invocation.
type FillCall struct {
	Row, Col, Rows, Cols int
	Style                env.Style
}

// TextCall records one DrawText invocation.
type TextCall struct {
	Row, Col int
	Text     string
	Style    env.Style
}

// Recorder is an in-memory env.Environment driven by a scripted event
// stream and capturing every draw call for assertions, rather than
// rendering anywhere.
type Recorder struct {
	events []frame.Event
	next   int

	Fills []FillCall
	Texts []TextCall

	Claimed map[clipboard.Selection]bool
	Pasted  map[clipboard.Selection][]byte

	WindowTitle      string
	WindowRows       int
	WindowCols       int
	WindowCreated    bool
	WindowClosed     bool
	TimeoutsObserved int
}

// NewRecorder builds a Recorder that replays events in order, then
// reports timeout (ok=false) on every subsequent NextEvent call.
func NewRecorder(events []frame.Event) *Recorder {
	return &Recorder{
		events:  events,
		Claimed: make(map[clipboard.Selection]bool),
		Pasted:  make(map[clipboard.Selection][]byte),
	}
}

func (r *Recorder) MeasureRune(rn rune) int {
	if rn < 0x20 {
		return 0
	}
	return 1
}

func (r *Recorder) FillRect(row, col, rows, cols int, style env.Style) {
	r.Fills = append(r.Fills, FillCall{Row: row, Col: col, Rows: rows, Cols: cols, Style: style})
}

func (r *Recorder) DrawText(row, col int, text string, style env.Style) {
	r.Texts = append(r.Texts, TextCall{Row: row, Col: col, Text: text, Style: style})
}

func (r *Recorder) ClaimSelection(sel clipboard.Selection) error {
	r.Claimed[sel] = true
	return nil
}

// SetPasteData seeds what Paste returns for sel, simulating the host
// holding selection content the test double doesn't own.
func (r *Recorder) SetPasteData(sel clipboard.Selection, data []byte) {
	r.Pasted[sel] = data
}

func (r *Recorder) Paste(sel clipboard.Selection) ([]byte, error) {
	return r.Pasted[sel], nil
}

func (r *Recorder) CreateWindow(title string, rows, cols int) error {
	r.WindowTitle, r.WindowRows, r.WindowCols = title, rows, cols
	r.WindowCreated = true
	return nil
}

func (r *Recorder) CloseWindow() error {
	r.WindowClosed = true
	return nil
}

// NextEvent returns the next scripted event, or times out once the
// script is exhausted — the test double never blocks for real.
func (r *Recorder) NextEvent(timeout time.Duration) (frame.Event, bool) {
	if r.next >= len(r.events) {
		r.TimeoutsObserved++
		return frame.Event{}, false
	}
	ev := r.events[r.next]
	r.next++
	return ev, true
}

var _ env.Environment = (*Recorder)(nil)
