// Package screen is an in-memory grid of styled terminal cells with
// per-row dirty tracking, adapted from the teacher's own virtual
// terminal buffer (BufferCell plus a per-line dirty slice, used there
// to avoid re-sending unchanged rows over the wire): here it lets
// cmd/sced's renderer skip env.Environment calls for rows whose
// content hasn't actually changed since the last flush, rather than
// redrawing the whole frame on every blink tick.
package screen

import "github.com/shawnamir/sced/pkg/env"

// Cell is one styled character position.
type Cell struct {
	Ch    rune
	Style env.Style
}

// Grid is a cols x rows array of Cells plus a per-row dirty flag.
type Grid struct {
	cols, rows int
	cells      [][]Cell
	dirty      []bool
}

// New returns a blank grid of the given size.
func New(cols, rows int) *Grid {
	g := &Grid{}
	g.Resize(cols, rows)
	return g
}

// Resize changes the grid's dimensions, preserving the overlap with
// the previous content and marking every row dirty.
func (g *Grid) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	next := make([][]Cell, rows)
	for r := 0; r < rows; r++ {
		row := make([]Cell, cols)
		for c := range row {
			row[c] = Cell{Ch: ' '}
		}
		if r < len(g.cells) {
			copy(row, g.cells[r])
		}
		next[r] = row
	}
	g.cells = next
	g.cols, g.rows = cols, rows
	g.dirty = make([]bool, rows)
	for r := range g.dirty {
		g.dirty[r] = true
	}
}

// Cols and Rows report the grid's current dimensions.
func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// SetText overwrites row starting at col with text in style, clamped
// to the grid's width. The row is marked dirty only if its content
// actually changes.
func (g *Grid) SetText(row, col int, text string, style env.Style) {
	if row < 0 || row >= g.rows {
		return
	}
	changed := false
	c := col
	for _, r := range text {
		if c < 0 {
			c++
			continue
		}
		if c >= g.cols {
			break
		}
		cell := Cell{Ch: r, Style: style}
		if g.cells[row][c] != cell {
			g.cells[row][c] = cell
			changed = true
		}
		c++
	}
	if changed {
		g.dirty[row] = true
	}
}

// FillRow overwrites every cell in row with a blank cell in style.
func (g *Grid) FillRow(row int, style env.Style) {
	if row < 0 || row >= g.rows {
		return
	}
	changed := false
	blank := Cell{Ch: ' ', Style: style}
	for c := 0; c < g.cols; c++ {
		if g.cells[row][c] != blank {
			g.cells[row][c] = blank
			changed = true
		}
	}
	if changed {
		g.dirty[row] = true
	}
}

// Flush draws every dirty row into e and clears the dirty flags.
// Rows are drawn as runs of equal style to keep the number of
// DrawText/FillRect calls proportional to style changes, not columns.
func (g *Grid) Flush(e env.Environment) {
	for row := 0; row < g.rows; row++ {
		if !g.dirty[row] {
			continue
		}
		g.flushRow(e, row)
		g.dirty[row] = false
	}
}

func (g *Grid) flushRow(e env.Environment, row int) {
	cells := g.cells[row]
	start := 0
	for start < len(cells) {
		style := cells[start].Style
		end := start + 1
		for end < len(cells) && cells[end].Style == style {
			end++
		}
		runeBuf := make([]rune, end-start)
		for i := range runeBuf {
			runeBuf[i] = cells[start+i].Ch
		}
		e.FillRect(row, start, 1, end-start, style)
		e.DrawText(row, start, string(runeBuf), style)
		start = end
	}
}

// MarkAllDirty forces every row to redraw on the next Flush, used
// after a window is (re)created.
func (g *Grid) MarkAllDirty() {
	for r := range g.dirty {
		g.dirty[r] = true
	}
}
