// Package frame implements a Frame: a top-level window containing an
// ordered, vertically stacked sequence of Panes, an echo line, and the
// event dispatch entry point for everything that happens inside it.
package frame

import (
	"github.com/shawnamir/sced/pkg/arena"
	"github.com/shawnamir/sced/pkg/buffer"
	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/shawnamir/sced/pkg/elog"
	"github.com/shawnamir/sced/pkg/layout"
	"github.com/shawnamir/sced/pkg/pane"
)

// EchoMode selects how the echo line's text should be presented.
type EchoMode int

const (
	EchoMessage EchoMode = iota
	EchoError
	EchoPrompt
)

// EchoLine is the frame's single-line status/prompt area.
type EchoLine struct {
	Text string
	Mode EchoMode
}

// SetMessage/SetError/SetPrompt/Clear update the echo line's text and mode.
func (e *EchoLine) SetMessage(s string) { e.Text, e.Mode = s, EchoMessage }
func (e *EchoLine) SetError(s string)   { e.Text, e.Mode = s, EchoError }
func (e *EchoLine) SetPrompt(s string)  { e.Text, e.Mode = s, EchoPrompt }
func (e *EchoLine) Clear()              { e.Text, e.Mode = "", EchoMessage }

// Frame owns a top-level window: its panes, its echo line, and the
// position of the last pop-up window it raised.
type Frame struct {
	Panes   []*pane.Pane
	Current int // index into Panes of the pane holding focus

	Width, Height int // character cells

	Echo EchoLine

	LastPopupRow, LastPopupCol int

	HasFocus bool
}

// New returns a single-pane frame of the given size, displaying buf.
func New(buf arena.Handle, width, height int) *Frame {
	p := pane.New(buf)
	p.RowCount = height - 1
	p.FracRows = pane.FixedFromInt(p.RowCount)
	return &Frame{Panes: []*pane.Pane{p}, Width: width, Height: height, HasFocus: true}
}

// CurrentPane returns the pane holding focus.
func (f *Frame) CurrentPane() *pane.Pane {
	if f.Current < 0 || f.Current >= len(f.Panes) {
		return nil
	}
	return f.Panes[f.Current]
}

// availableRows is the row budget shared among panes: the frame's
// height minus its one echo line.
func (f *Frame) availableRows() int { return f.Height - 1 }

// Split divides the current pane into two, each getting half the
// fractional row count. Per spec, it requires the pane's row count be
// at least twice PANE_MIN_ROWS.
func (f *Frame) Split(lookup func(arena.Handle) *buffer.Buffer) error {
	cur := f.CurrentPane()
	if cur == nil {
		return editorerr.New(editorerr.InputBoundary, "no current pane to split")
	}
	if cur.RowCount < 2*pane.PaneMinRows {
		return editorerr.New(editorerr.DialogRejection, "pane too small to split")
	}

	upperRows := cur.RowCount / 2
	lowerRows := cur.RowCount - upperRows

	lower := pane.New(cur.Buffer)
	lower.Cursor = cur.Cursor
	lower.ViewportStart = cur.ViewportStart
	lower.RowCount = lowerRows
	lower.FracRows = cur.FracRows.Scale(lowerRows, cur.RowCount)

	cur.RowCount = upperRows
	cur.FracRows = cur.FracRows.Scale(upperRows, upperRows+lowerRows)

	idx := f.Current
	tail := append([]*pane.Pane{lower}, f.Panes[idx+1:]...)
	f.Panes = append(f.Panes[:idx+1], tail...)
	f.fixupModeLines()

	if buf := lookup(cur.Buffer); buf != nil {
		cur.Recompute(buf, f.Width)
		lower.Recompute(buf, f.Width)
	}
	return nil
}

// fixupModeLines enforces the invariant that every pane except the
// frame's last (bottom-most) one carries a mode-line row.
func (f *Frame) fixupModeLines() {
	for i, p := range f.Panes {
		p.HasModeLine = i < len(f.Panes)-1
	}
}

// ResizeBoundary moves the shared boundary between pane index i and
// i+1 by delta rows (positive grows the upper pane). Neither pane may
// shrink below PANE_MIN_ROWS. The last pane of a frame is never
// independently resizable, so i must address a pane with a successor.
func (f *Frame) ResizeBoundary(i, delta int, lookup func(arena.Handle) *buffer.Buffer) error {
	if i < 0 || i+1 >= len(f.Panes) {
		return editorerr.New(editorerr.InputBoundary, "no adjacent pane to resize against")
	}
	upper, lower := f.Panes[i], f.Panes[i+1]
	newUpper := upper.RowCount + delta
	newLower := lower.RowCount - delta
	if newUpper < pane.PaneMinRows || newLower < pane.PaneMinRows {
		return editorerr.New(editorerr.DialogRejection, "pane would shrink below its minimum")
	}
	upper.RowCount = newUpper
	lower.RowCount = newLower
	total := upper.FracRows + lower.FracRows
	upper.FracRows = total.Scale(newUpper, newUpper+newLower)
	lower.FracRows = total - upper.FracRows

	if buf := lookup(upper.Buffer); buf != nil {
		upper.GotoChar(buf, upper.Cursor)
		upper.Recompute(buf, f.Width)
	}
	if buf := lookup(lower.Buffer); buf != nil {
		lower.GotoChar(buf, lower.Cursor)
		lower.Recompute(buf, f.Width)
	}
	return nil
}

// SetSize applies a new frame size: width changes re-wrap every pane's
// viewport and recompute its cursor location; height changes rescale
// every pane's row count via its fractional share.
func (f *Frame) SetSize(width, height int, lookup func(arena.Handle) *buffer.Buffer) {
	oldWidth := f.Width
	f.Width = width

	if height != f.Height {
		f.Height = height
		f.rescaleHeight()
	}

	for _, p := range f.Panes {
		buf := lookup(p.Buffer)
		if buf == nil {
			continue
		}
		if width != oldWidth {
			p.ViewportStart = layout.RewrapViewportStart(buf, p.ViewportStart, oldWidth, width)
		}
		p.Recompute(buf, width)
		p.UpdateScrollBar()
	}
}

// rescaleHeight implements the spec's growth/shrink symmetrization:
// growing scales every pane up to a large sentinel and then compresses
// down to the real target using the same clamped-shrink routine, so
// growth and shrink share one code path.
func (f *Frame) rescaleHeight() {
	target := f.availableRows()
	if target <= 0 || len(f.Panes) == 0 {
		return
	}
	current := f.totalRows()
	if target > current {
		f.scaleTo(current * 100)
	}
	f.scaleTo(target)
}

func (f *Frame) totalRows() int {
	n := 0
	for _, p := range f.Panes {
		n += p.RowCount
	}
	return n
}

// scaleTo redistributes row counts to sum to target, clamping any pane
// that would fall below PANE_MIN_ROWS and re-scaling the remainder.
// Terminates in at most len(Panes) iterations.
func (f *Frame) scaleTo(target int) {
	n := len(f.Panes)
	clamped := make([]bool, n)

	// Snapshot each pane's fractional share as a plain weight; the loop
	// only ever narrows which panes are "open", so the original weights
	// (not the shrinking remainder) stay the basis for every pane's share.
	weight := make([]int, n)
	for i, p := range f.Panes {
		weight[i] = p.FracRows.Int()
		if weight[i] <= 0 {
			weight[i] = p.RowCount
		}
	}

	for iter := 0; iter < n; iter++ {
		openWeight := 0
		clampedRows := 0
		for i := range f.Panes {
			if clamped[i] {
				clampedRows += f.Panes[i].RowCount
			} else {
				openWeight += weight[i]
			}
		}
		if openWeight == 0 {
			break
		}
		remaining := target - clampedRows

		anyClamped := false
		for i, p := range f.Panes {
			if clamped[i] {
				continue
			}
			rows := weight[i] * remaining / openWeight
			if rows < pane.PaneMinRows {
				rows = pane.PaneMinRows
				clamped[i] = true
				anyClamped = true
			}
			p.RowCount = rows
		}
		if !anyClamped {
			break
		}
	}

	// Fix any rounding drift on the last open pane so rows sum exactly
	// to target.
	diff := target - f.totalRows()
	for i := n - 1; i >= 0 && diff != 0; i-- {
		if clamped[i] {
			continue
		}
		newRows := f.Panes[i].RowCount + diff
		if newRows < pane.PaneMinRows {
			continue
		}
		f.Panes[i].RowCount = newRows
		diff = 0
	}
	for _, p := range f.Panes {
		p.FracRows = pane.FixedFromInt(p.RowCount)
	}
}

// WindowKind names which of a frame's sub-windows an event targets,
// mirroring the original event-registration table's per-window entries.
type WindowKind int

const (
	WindowTopLevel WindowKind = iota
	WindowModeLine
	WindowMiniQuery
)

// EventKind names the class of event being dispatched.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouse
	EventResize
	EventFocusIn
	EventFocusOut
)

// Event is one unit of input delivered to Dispatch.
type Event struct {
	Window WindowKind
	Kind   EventKind
	Pane   int // index into Panes, meaningful for WindowTopLevel/WindowModeLine
	Key    byte
	Row    int
	Col    int
}

// Dispatch routes ev by window kind first and then by event kind,
// matching the original implementation's per-window registration table
// rather than a flat event-type switch.
func (f *Frame) Dispatch(ev Event, onKey func(p *pane.Pane, key byte)) {
	switch ev.Window {
	case WindowTopLevel:
		switch ev.Kind {
		case EventKey:
			if p := f.paneAt(ev.Pane); p != nil && onKey != nil {
				onKey(p, ev.Key)
			}
		case EventFocusIn:
			f.HasFocus = true
		case EventFocusOut:
			f.HasFocus = false
		default:
			elog.Debugf("frame: unhandled top-level event kind=%d", ev.Kind)
		}
	case WindowModeLine:
		switch ev.Kind {
		case EventMouse:
			elog.Debugf("frame: mode-line drag on pane %d", ev.Pane)
		default:
			elog.Debugf("frame: unhandled mode-line event kind=%d", ev.Kind)
		}
	case WindowMiniQuery:
		elog.Debugf("frame: mini-query event routed past frame dispatch, kind=%d", ev.Kind)
	}
}

func (f *Frame) paneAt(i int) *pane.Pane {
	if i < 0 || i >= len(f.Panes) {
		return nil
	}
	return f.Panes[i]
}
