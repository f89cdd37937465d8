// Package pane implements a Pane: a view of exactly one Buffer inside a
// Frame, with its own cursor, viewport, and scroll-bar derived state.
package pane

import (
	"github.com/shawnamir/sced/pkg/arena"
	"github.com/shawnamir/sced/pkg/buffer"
	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/shawnamir/sced/pkg/gapbuf"
	"github.com/shawnamir/sced/pkg/layout"
)

// PaneMinRows is the minimum row count (including its mode-line row, if
// any) a pane may be shrunk to by split or resize.
const PaneMinRows = 4

// Fixed is a 32.32 fixed-point row count, used to preserve a pane's
// relative share of frame height across resizes.
type Fixed int64

// FixedFromInt promotes a whole row count to fixed point.
func FixedFromInt(n int) Fixed { return Fixed(n) << 32 }

// Int truncates a fixed-point value to whole rows.
func (f Fixed) Int() int { return int(f >> 32) }

// Scale multiplies f by a ratio.
func (f Fixed) Scale(num, den int) Fixed {
	if den == 0 {
		return f
	}
	return Fixed((int64(f) * int64(num)) / int64(den))
}

// ScrollBar is the derived, display-facing scroll-bar state.
type ScrollBar struct {
	TopOffset   int
	ThumbLength int
	Scale       float64
}

// Pane is a view of one buffer within a frame.
type Pane struct {
	Buffer arena.Handle

	Cursor        int
	ViewportStart int

	CursorRow int // pane-relative
	CursorCol int

	RowsBeforeViewport int // row count of the buffer before the viewport start
	TotalRows          int // total row count of the buffer at the current frame width

	FrameTopRow int // pane-top row within the frame
	RowCount    int // pane row count, including its mode-line row
	HasModeLine bool

	ScrollBar ScrollBar
	FracRows  Fixed

	GoalCol int // preserved across consecutive vertical moves
}

// New returns a pane displaying buf at position 0.
func New(buf arena.Handle) *Pane {
	return &Pane{Buffer: buf, RowCount: PaneMinRows, FracRows: FixedFromInt(PaneMinRows)}
}

// contentRows is the number of rows usable for buffer display (total
// minus the mode-line row, if present).
func (p *Pane) contentRows() int {
	if p.HasModeLine {
		return p.RowCount - 1
	}
	return p.RowCount
}

// Recompute refreshes CursorRow/CursorCol, RowsBeforeViewport, and
// TotalRows for the current buffer content and width.
func (p *Pane) Recompute(buf *buffer.Buffer, rowChars int) {
	row, col, _, relative := layout.FindLocation(buf, p.ViewportStart, p.Cursor, rowChars, p.contentRows())
	if row == -1 {
		// Cursor fell past the last displayable row: pull the viewport
		// down until it's in view again.
		p.Recenter(buf, rowChars)
		row, col, _, relative = layout.FindLocation(buf, p.ViewportStart, p.Cursor, rowChars, p.contentRows())
	}
	if !relative {
		// Cursor is before the viewport start; scroll up to it.
		p.ViewportStart = layout.HardLineStart(buf, p.Cursor)
		row, col, _, _ = layout.FindLocation(buf, p.ViewportStart, p.Cursor, rowChars, p.contentRows())
	}
	p.CursorRow = row
	p.CursorCol = col
	p.RowsBeforeViewport = 0
	if p.ViewportStart > 0 {
		p.RowsBeforeViewport = layout.RowCount(sliceText{buf, p.ViewportStart}, rowChars)
	}
	p.TotalRows = layout.RowCount(buf, rowChars)
}

// sliceText adapts a buffer truncated to [0, limit) so RowsBeforeViewport
// can reuse layout.RowCount without a dedicated counting routine.
type sliceText struct {
	buf   *buffer.Buffer
	limit int
}

func (s sliceText) Len() int          { return s.limit }
func (s sliceText) ByteAt(p int) byte { return s.buf.ByteAt(p) }
func (s sliceText) StepForward(p int) int {
	if p >= s.limit {
		return p
	}
	return s.buf.StepForward(p)
}

// Recenter places the cursor's row in the middle of the pane's content
// rows (the `recenter-page` command).
func (p *Pane) Recenter(buf *buffer.Buffer, rowChars int) {
	half := p.contentRows() / 2
	start := layout.HardLineStart(buf, p.Cursor)
	newStart, _ := layout.GetPosMinusRows(buf, start, half, rowChars)
	p.ViewportStart = newStart
}

// ForwardChar moves the cursor forward n characters, clamping at the
// buffer end and reporting the boundary error exactly once.
func (p *Pane) ForwardChar(buf *buffer.Buffer, n int) error {
	for i := 0; i < n; i++ {
		if p.Cursor >= buf.Len() {
			return editorerr.ErrEndOfBuffer
		}
		p.Cursor = buf.StepForward(p.Cursor)
	}
	return nil
}

// BackwardChar moves the cursor backward n characters.
func (p *Pane) BackwardChar(buf *buffer.Buffer, n int) error {
	for i := 0; i < n; i++ {
		if p.Cursor <= 0 {
			return editorerr.ErrBeginningOfBuffer
		}
		p.Cursor = buf.StepBackward(p.Cursor)
	}
	return nil
}

// ForwardWord moves past n words, stopping at the end of the buffer.
func (p *Pane) ForwardWord(buf *buffer.Buffer, n int) error {
	for i := 0; i < n; i++ {
		for p.Cursor < buf.Len() && !gapbuf.IsWordByte(buf.ByteAt(p.Cursor)) {
			p.Cursor = buf.StepForward(p.Cursor)
		}
		for p.Cursor < buf.Len() && gapbuf.IsWordByte(buf.ByteAt(p.Cursor)) {
			p.Cursor = buf.StepForward(p.Cursor)
		}
	}
	return nil
}

// BackwardWord moves back over n words.
func (p *Pane) BackwardWord(buf *buffer.Buffer, n int) error {
	for i := 0; i < n; i++ {
		for p.Cursor > 0 && !gapbuf.IsWordByte(buf.ByteAt(buf.StepBackward(p.Cursor))) {
			p.Cursor = buf.StepBackward(p.Cursor)
		}
		for p.Cursor > 0 && gapbuf.IsWordByte(buf.ByteAt(buf.StepBackward(p.Cursor))) {
			p.Cursor = buf.StepBackward(p.Cursor)
		}
	}
	return nil
}

// ForwardRow/BackwardRow move n displayed rows, preserving GoalCol.
func (p *Pane) ForwardRow(buf *buffer.Buffer, n, rowChars int) error {
	row, col, rowStart, _ := layout.FindLocation(buf, p.ViewportStart, p.Cursor, rowChars, 0)
	_ = row
	if p.GoalCol == 0 {
		p.GoalCol = col
	}
	newStart, moved := layout.GetPosPlusRows(buf, rowStart, n, rowChars)
	if moved == 0 && n > 0 {
		return editorerr.ErrEndOfBuffer
	}
	pos, _ := layout.FindPosition(buf, newStart, 0, p.GoalCol, rowChars, 0)
	p.Cursor = pos
	return nil
}

func (p *Pane) BackwardRow(buf *buffer.Buffer, n, rowChars int) error {
	_, col, rowStart, _ := layout.FindLocation(buf, p.ViewportStart, p.Cursor, rowChars, 0)
	if p.GoalCol == 0 {
		p.GoalCol = col
	}
	newStart, moved := layout.GetPosMinusRows(buf, rowStart, n, rowChars)
	if moved == 0 && n > 0 {
		return editorerr.ErrBeginningOfBuffer
	}
	pos, _ := layout.FindPosition(buf, newStart, 0, p.GoalCol, rowChars, 0)
	p.Cursor = pos
	return nil
}

// ForwardPage/BackwardPage move by the pane's content-row count.
func (p *Pane) ForwardPage(buf *buffer.Buffer, rowChars int) error {
	return p.ForwardRow(buf, p.contentRows(), rowChars)
}

func (p *Pane) BackwardPage(buf *buffer.Buffer, rowChars int) error {
	return p.BackwardRow(buf, p.contentRows(), rowChars)
}

// GotoStartOfLine/GotoEndOfLine move within the current hard line.
func (p *Pane) GotoStartOfLine(buf *buffer.Buffer) {
	p.Cursor = layout.HardLineStart(buf, p.Cursor)
	p.GoalCol = 0
}

func (p *Pane) GotoEndOfLine(buf *buffer.Buffer) {
	pos := p.Cursor
	for pos < buf.Len() && buf.ByteAt(pos) != '\n' {
		pos = buf.StepForward(pos)
	}
	p.Cursor = pos
}

// GotoStart/GotoEnd move to the buffer's extremes.
func (p *Pane) GotoStart() { p.Cursor = 0 }
func (p *Pane) GotoEnd(buf *buffer.Buffer) { p.Cursor = buf.Len() }

// GotoChar moves the cursor to an absolute position, clamped to the
// buffer's extent.
func (p *Pane) GotoChar(buf *buffer.Buffer, pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > buf.Len() {
		pos = buf.Len()
	}
	p.Cursor = pos
}

// Adjust applies an edit at point that changed the buffer's length by
// delta to Cursor and ViewportStart, mirroring markring.Ring.Adjust:
// a position at or after point shifts by delta, clamped to point if a
// deletion would otherwise pull it before the edit. This is what lets
// a pane other than the one performing an edit keep its place when a
// sibling pane on the same buffer inserts or deletes text.
func (p *Pane) Adjust(point, delta int) {
	p.Cursor = adjustPos(p.Cursor, point, delta)
	p.ViewportStart = adjustPos(p.ViewportStart, point, delta)
}

func adjustPos(pos, point, delta int) int {
	if pos < point {
		return pos
	}
	pos += delta
	if delta < 0 && pos < point {
		pos = point
	}
	return pos
}

// UpdateScrollBar recomputes the derived scroll-bar geometry from the
// pane's cached row counts.
func (p *Pane) UpdateScrollBar() {
	if p.TotalRows <= 0 {
		p.ScrollBar = ScrollBar{Scale: 1}
		return
	}
	scale := 1.0
	content := p.contentRows()
	if p.TotalRows > 0 {
		scale = float64(content) / float64(p.TotalRows)
		if scale > 1 {
			scale = 1
		}
	}
	thumb := int(float64(content) * scale)
	if thumb < 1 {
		thumb = 1
	}
	p.ScrollBar = ScrollBar{
		TopOffset:   int(float64(p.RowsBeforeViewport) * scale),
		ThumbLength: thumb,
		Scale:       scale,
	}
}
