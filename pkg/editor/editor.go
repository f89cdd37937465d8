// Package editor groups the editor's global mutable singletons into
// one value, per spec §9's design note: "the kill ring, registry,
// command-in-progress state, and the current frame are process-wide.
// Group them into one editor context value owned by main; pass it (or
// parts of it) to every operation." Threading it explicitly makes
// dependencies visible and keeps the core testable against
// pkg/envtest rather than a live windowing system.
package editor

import (
	"github.com/shawnamir/sced/pkg/arena"
	"github.com/shawnamir/sced/pkg/buffer"
	"github.com/shawnamir/sced/pkg/clipboard"
	"github.com/shawnamir/sced/pkg/config"
	"github.com/shawnamir/sced/pkg/dispatch"
	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/shawnamir/sced/pkg/env"
	"github.com/shawnamir/sced/pkg/frame"
	"github.com/shawnamir/sced/pkg/killring"
	"github.com/shawnamir/sced/pkg/registry"
)

// Context is the single value main owns and threads through the
// program: the system's two arenas (buffers and frames; panes are owned
// inside each Frame) plus the process-wide kill ring,
// command registry, dispatcher, clipboard bridge, loaded config, and
// environment.
type Context struct {
	Buffers *arena.Arena[buffer.Buffer]
	Frames  *arena.Arena[frame.Frame]

	KillRing  *killring.Ring
	Registry  *registry.Registry
	Dispatch  *dispatch.Dispatcher
	Clipboard *clipboard.Bridge
	Config    *config.Config
	Env       env.Environment

	// Quit is set by the quit/save-and-quit commands; main's event loop
	// checks it after every dispatched key to decide whether to stop.
	Quit bool

	current    arena.Handle
	hasCurrent bool
}

// New builds an empty editor context: empty buffer and frame arenas, a
// fresh kill ring, an empty registry with its dispatcher, and a
// clipboard bridge over that kill ring.
func New(cfg *config.Config, environment env.Environment) *Context {
	kr := killring.New()
	reg := registry.New()
	return &Context{
		Buffers:   arena.New[buffer.Buffer](),
		Frames:    arena.New[frame.Frame](),
		KillRing:  kr,
		Registry:  reg,
		Dispatch:  dispatch.New(reg),
		Clipboard: clipboard.New(kr),
		Config:    cfg,
		Env:       environment,
	}
}

// LookupBuffer resolves a buffer handle, for passing to frame/pane
// methods that need a buffer lookup.
func (c *Context) LookupBuffer(h arena.Handle) *buffer.Buffer {
	b, ok := c.Buffers.Get(h)
	if !ok {
		return nil
	}
	return b
}

// NewFrame allocates a frame over an existing buffer handle and makes
// it current if no frame is current yet.
func (c *Context) NewFrame(buf arena.Handle, width, height int) arena.Handle {
	h, _ := c.Frames.Alloc(*frame.New(buf, width, height))
	if !c.hasCurrent {
		c.current = h
		c.hasCurrent = true
	}
	return h
}

// CurrentFrame returns the frame holding focus, or false if every
// frame has been closed.
func (c *Context) CurrentFrame() (arena.Handle, *frame.Frame, bool) {
	if !c.hasCurrent {
		return arena.Zero, nil, false
	}
	f, ok := c.Frames.Get(c.current)
	if !ok {
		c.hasCurrent = false
		return arena.Zero, nil, false
	}
	return c.current, f, true
}

// SwitchFrame makes h the current frame, if it is still live.
func (c *Context) SwitchFrame(h arena.Handle) bool {
	if _, ok := c.Frames.Get(h); !ok {
		return false
	}
	c.current = h
	c.hasCurrent = true
	return true
}

// CloseFrame destroys the frame at h. If it was current, an arbitrary
// remaining frame becomes current. Returns true if that was the last
// frame — per spec §1's ownership summary, "destroying the last frame
// terminates the program" — leaving the decision to terminate to the
// caller (main).
func (c *Context) CloseFrame(h arena.Handle) (wasLast bool) {
	c.Frames.Free(h)

	if c.hasCurrent && c.current == h {
		c.hasCurrent = false
	}

	if !c.hasCurrent {
		c.Frames.Each(func(fh arena.Handle, _ *frame.Frame) {
			if !c.hasCurrent {
				c.current = fh
				c.hasCurrent = true
			}
		})
	}

	any := false
	c.Frames.Each(func(arena.Handle, *frame.Frame) { any = true })
	return !any
}

// AdjustPanes propagates an edit at point (which changed buf's length
// by delta) to every live pane currently displaying buf, across every
// frame — not just the pane that made the edit. Per spec §5's note
// that cross-pane propagation is "scheduled within the same handler"
// as the edit, callers invoke this immediately after the buffer
// mutation that produced point/delta, using the same discipline
// markring.Ring.Adjust already applies to a buffer's own marks.
func (c *Context) AdjustPanes(buf arena.Handle, point, delta int) {
	if delta == 0 {
		return
	}
	c.Frames.Each(func(_ arena.Handle, f *frame.Frame) {
		for _, p := range f.Panes {
			if p.Buffer == buf {
				p.Adjust(point, delta)
			}
		}
	})
}

// ErrNoCurrentFrame is reported when an operation needs a current
// frame but every frame has already been closed.
var ErrNoCurrentFrame = editorerr.New(editorerr.Resource, "No current frame")
