// Package env isolates the windowing dependency to a single capability
// trait, per spec §9's design note: glyph measurement, drawing
// primitives, a clipboard capability, window lifecycle, and a blocking
// event source with a timeout. The core depends only on this
// interface; pkg/envtest provides both a scripted test double and the
// real-terminal adapter cmd/sced runs on.
package env

import (
	"time"

	"github.com/shawnamir/sced/pkg/clipboard"
	"github.com/shawnamir/sced/pkg/frame"
)

// Style is a cell's display attributes. Colors are small palette
// indices rather than RGB triples — the core never needs more than the
// handful of hilite/echo/mode-line roles the spec names.
type Style struct {
	Fg, Bg  int
	Bold    bool
	Reverse bool
}

// Environment is the windowing capability the editor core runs
// against. Every method must be safe to call only from the single
// event-loop goroutine (spec §5: single-threaded cooperative
// scheduling — the environment is not expected to be reentrant).
type Environment interface {
	// MeasureRune returns how many display columns r occupies.
	MeasureRune(r rune) int

	// FillRect paints a rectangle of blank cells in style.
	FillRect(row, col, rows, cols int, style Style)
	// DrawText paints text starting at (row, col) in style.
	DrawText(row, col int, text string, style Style)

	// ClaimSelection takes ownership of sel from the host.
	ClaimSelection(sel clipboard.Selection) error
	// Paste requests the current contents of sel from the host.
	Paste(sel clipboard.Selection) ([]byte, error)

	// CreateWindow establishes the on-screen surface.
	CreateWindow(title string, rows, cols int) error
	// CloseWindow tears it down.
	CloseWindow() error

	// NextEvent blocks for at most timeout waiting for the next input
	// event, reporting ok=false on timeout (the event loop's one
	// suspension point for the cursor-blink tick, per spec §5).
	NextEvent(timeout time.Duration) (frame.Event, bool)
}
