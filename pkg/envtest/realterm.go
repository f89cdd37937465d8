package envtest

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shawnamir/sced/pkg/clipboard"
	"github.com/shawnamir/sced/pkg/env"
	"github.com/shawnamir/sced/pkg/frame"
	"golang.org/x/term"
)

// RealTerminal is a thin env.Environment over the actual controlling
// terminal; cmd/sced runs the editor on it. It is never used by the
// core's own tests, which run against Recorder. It renders with plain
// ANSI cursor-addressing rather than a full terminal library.
type RealTerminal struct {
	in       *os.File
	out      io.Writer
	oldState *term.State
	keys     chan byte
}

// NewRealTerminal puts stdin into raw mode and starts reading keys in
// the background, mirroring the MakeRaw/background-reader shape common
// to terminal-editor smoke harnesses.
func NewRealTerminal() (*RealTerminal, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("envtest: cannot enter raw mode: %w", err)
	}
	rt := &RealTerminal{in: os.Stdin, out: os.Stdout, oldState: old, keys: make(chan byte, 64)}
	go rt.readKeys()
	return rt, nil
}

func (rt *RealTerminal) readKeys() {
	buf := make([]byte, 1)
	for {
		n, err := rt.in.Read(buf)
		if n == 1 {
			rt.keys <- buf[0]
		}
		if err != nil {
			close(rt.keys)
			return
		}
	}
}

// Restore leaves raw mode, returning the terminal to its prior state.
func (rt *RealTerminal) Restore() error {
	return term.Restore(int(rt.in.Fd()), rt.oldState)
}

func (rt *RealTerminal) MeasureRune(r rune) int {
	if r < 0x20 {
		return 0
	}
	return 1
}

func (rt *RealTerminal) FillRect(row, col, rows, cols int, style env.Style) {
	blank := make([]byte, cols)
	for i := range blank {
		blank[i] = ' '
	}
	for r := 0; r < rows; r++ {
		fmt.Fprintf(rt.out, "\x1b[%d;%dH%s", row+r+1, col+1, blank)
	}
}

func (rt *RealTerminal) DrawText(row, col int, text string, style env.Style) {
	fmt.Fprintf(rt.out, "\x1b[%d;%dH%s", row+1, col+1, text)
}

func (rt *RealTerminal) ClaimSelection(sel clipboard.Selection) error {
	return fmt.Errorf("envtest: real terminal has no selection ownership")
}

func (rt *RealTerminal) Paste(sel clipboard.Selection) ([]byte, error) {
	return nil, fmt.Errorf("envtest: real terminal cannot paste")
}

func (rt *RealTerminal) CreateWindow(title string, rows, cols int) error {
	fmt.Fprintf(rt.out, "\x1b]0;%s\x07\x1b[2J", title)
	return nil
}

// CloseWindow clears the screen. It does not leave raw mode — callers
// that entered it via NewRealTerminal restore it themselves with
// Restore, since a window can be closed and reopened within one raw
// terminal session.
func (rt *RealTerminal) CloseWindow() error {
	fmt.Fprint(rt.out, "\x1b[2J\x1b[H")
	return nil
}

// NextEvent waits for the next keystroke, reporting timeout after d.
func (rt *RealTerminal) NextEvent(d time.Duration) (frame.Event, bool) {
	select {
	case k, ok := <-rt.keys:
		if !ok {
			return frame.Event{}, false
		}
		return frame.Event{Kind: frame.EventKey, Key: k}, true
	case <-time.After(d):
		return frame.Event{}, false
	}
}

// Size reports the terminal's current rows and columns.
func (rt *RealTerminal) Size() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(int(os.Stdout.Fd()))
	return rows, cols, err
}

var _ env.Environment = (*RealTerminal)(nil)
