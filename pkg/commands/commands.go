// Package commands binds the registry.CommandFunc surface to real
// buffer/pane/frame operations, resolving "the current buffer" and
// "the current pane" the way the spec's Emacs model does: implicitly,
// through the editor context's current frame, at invocation time.
// Register installs the representative subset of spec §6's built-in
// command list this module fully implements; commands resting on UI
// surfaces this repo does not build (the four pop-up list variants,
// and case-conversion/file-management commands that only repeat the
// same buffer/registry primitives already exercised here) are left for
// a follow-up pass — see DESIGN.md.
package commands

import (
	"fmt"

	"github.com/shawnamir/sced/pkg/arena"
	"github.com/shawnamir/sced/pkg/buffer"
	"github.com/shawnamir/sced/pkg/dispatch"
	"github.com/shawnamir/sced/pkg/editor"
	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/shawnamir/sced/pkg/fileops"
	"github.com/shawnamir/sced/pkg/frame"
	"github.com/shawnamir/sced/pkg/gapbuf"
	"github.com/shawnamir/sced/pkg/pane"
	"github.com/shawnamir/sced/pkg/registry"
)

// current resolves the frame and pane the next command should act on.
func current(ctx *editor.Context) (*frame.Frame, *pane.Pane, error) {
	_, f, ok := ctx.CurrentFrame()
	if !ok {
		return nil, nil, editor.ErrNoCurrentFrame
	}
	return f, f.CurrentPane(), nil
}

func rowChars(f *frame.Frame) int {
	if f.Width < 1 {
		return 1
	}
	return f.Width
}

// Register installs every command this package implements into ctx's
// registry, each bound to its spec §6 name and a default key sequence
// in the encoding pkg/dispatch defines.
func Register(ctx *editor.Context) {
	bind := func(name string, keys []byte, fn registry.CommandFunc) {
		ctx.Registry.Register(registry.Binding{Name: name, Keys: keys, Fn: fn})
	}

	bind("forward-char", []byte{dispatch.Ext, dispatch.ExtRight}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		return p.ForwardChar(ctx.LookupBuffer(p.Buffer), n)
	}))
	bind("backward-char", []byte{dispatch.Ext, dispatch.ExtLeft}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		return p.BackwardChar(ctx.LookupBuffer(p.Buffer), n)
	}))
	bind("forward-word", []byte{dispatch.Esc, 'f'}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		return p.ForwardWord(ctx.LookupBuffer(p.Buffer), n)
	}))
	bind("backward-word", []byte{dispatch.Esc, 'b'}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		return p.BackwardWord(ctx.LookupBuffer(p.Buffer), n)
	}))
	bind("forward-row", []byte{dispatch.Ext, dispatch.ExtDown}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		return p.ForwardRow(ctx.LookupBuffer(p.Buffer), n, rowChars(f))
	}))
	bind("backward-row", []byte{dispatch.Ext, dispatch.ExtUp}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		return p.BackwardRow(ctx.LookupBuffer(p.Buffer), n, rowChars(f))
	}))
	bind("forward-page", []byte{dispatch.Ext, dispatch.ExtPageDown}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		return p.ForwardPage(ctx.LookupBuffer(p.Buffer), rowChars(f))
	}))
	bind("backward-page", []byte{dispatch.Ext, dispatch.ExtPageUp}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		return p.BackwardPage(ctx.LookupBuffer(p.Buffer), rowChars(f))
	}))
	bind("goto-start-of-line", []byte{dispatch.EncodeCtrl('a')}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		p.GotoStartOfLine(ctx.LookupBuffer(p.Buffer))
		return nil
	}))
	bind("goto-end-of-line", []byte{dispatch.EncodeCtrl('e')}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		p.GotoEndOfLine(ctx.LookupBuffer(p.Buffer))
		return nil
	}))
	bind("goto-start", []byte{dispatch.Esc, '<'}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		p.GotoStart()
		return nil
	}))
	bind("goto-end", []byte{dispatch.Esc, '>'}, motion(ctx, func(p *pane.Pane, f *frame.Frame, n int) error {
		p.GotoEnd(ctx.LookupBuffer(p.Buffer))
		return nil
	}))
	bind("goto-line", nil, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		line := 1
		if arg.Explicit {
			line = arg.Value
		}
		pos := 0
		for l := 1; l < line && pos < buf.Len(); {
			if buf.ByteAt(pos) == '\n' {
				l++
			}
			pos = buf.StepForward(pos)
		}
		p.GotoChar(buf, pos)
		return nil
	})
	bind("goto-char", nil, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		pos := 0
		if arg.Explicit {
			pos = arg.Value
		}
		p.GotoChar(buf, pos)
		return nil
	})
	bind("recenter-page", []byte{dispatch.EncodeCtrl('l')}, func(arg registry.Arg) error {
		f, p, err := current(ctx)
		if err != nil {
			return err
		}
		p.Recenter(ctx.LookupBuffer(p.Buffer), rowChars(f))
		return nil
	})

	bind("set-mark", []byte{dispatch.EncodeCtrl(' ')}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		buf.Marks.Push(p.Cursor)
		return nil
	})
	bind("exchange-point-and-mark", []byte{dispatch.EncodeCtrl('x'), dispatch.EncodeCtrl('x')}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		p.Cursor = buf.Marks.Swap(p.Cursor)
		return nil
	})
	bind("select-all", []byte{dispatch.EncodeCtrl('x'), 'h'}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		buf.Marks.Push(0)
		p.Cursor = buf.Len()
		return nil
	})
	bind("select-line", nil, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		p.GotoStartOfLine(buf)
		start := p.Cursor
		p.GotoEndOfLine(buf)
		end := p.Cursor
		if end < buf.Len() {
			end = buf.StepForward(end) // include the trailing newline
		}
		buf.Marks.Push(start)
		p.Cursor = end
		return nil
	})
	bind("select-area", nil, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		buf.Marks.Push(p.Cursor)
		if arg.Explicit {
			p.GotoChar(buf, arg.Value)
		}
		return nil
	})

	bind("delete-forward", []byte{dispatch.EncodeCtrl('d')}, editFn(ctx, func(p *pane.Pane, buf bufferLike, n int) (pos, delta int, err error) {
		data, err := buf.Delete(p.Cursor, n, false)
		return p.Cursor, -len(data), err
	}))
	bind("delete-backward", []byte{0x7f}, editFn(ctx, func(p *pane.Pane, buf bufferLike, n int) (pos, delta int, err error) {
		if p.Cursor == 0 {
			return p.Cursor, 0, nil
		}
		start := p.Cursor
		to := start
		for i := 0; i < n && to > 0; i++ {
			to = prevRune(buf, to)
		}
		data, err := buf.Delete(to, start-to, false)
		return to, -len(data), err
	}))
	bind("delete-word-forward", []byte{dispatch.Esc, 'd'}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		n := 1
		if arg.Explicit {
			n = arg.Value
		}
		end := p.Cursor
		for i := 0; i < n; i++ {
			for end < buf.Len() && !gapbuf.IsWordByte(buf.ByteAt(end)) {
				end = buf.StepForward(end)
			}
			for end < buf.Len() && gapbuf.IsWordByte(buf.ByteAt(end)) {
				end = buf.StepForward(end)
			}
		}
		data, err := buf.Kill(p.Cursor, end-p.Cursor)
		if err != nil {
			return err
		}
		appendOrKill(ctx, data)
		ctx.AdjustPanes(p.Buffer, p.Cursor, -len(data))
		return nil
	})
	bind("delete-word-backward", []byte{dispatch.Esc, 0x7f}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		n := 1
		if arg.Explicit {
			n = arg.Value
		}
		start := p.Cursor
		for i := 0; i < n; i++ {
			for start > 0 && !gapbuf.IsWordByte(buf.ByteAt(buf.StepBackward(start))) {
				start = buf.StepBackward(start)
			}
			for start > 0 && gapbuf.IsWordByte(buf.ByteAt(buf.StepBackward(start))) {
				start = buf.StepBackward(start)
			}
		}
		data, err := buf.Kill(start, p.Cursor-start)
		if err != nil {
			return err
		}
		prependOrKill(ctx, data)
		ctx.AdjustPanes(p.Buffer, start, -len(data))
		return nil
	})
	bind("delete-horiz-space", []byte{dispatch.Esc, '\\'}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		start := p.Cursor
		for start > 0 && isHorizSpace(buf.ByteAt(buf.StepBackward(start))) {
			start = buf.StepBackward(start)
		}
		end := p.Cursor
		for end < buf.Len() && isHorizSpace(buf.ByteAt(end)) {
			end = buf.StepForward(end)
		}
		data, err := buf.Delete(start, end-start, false)
		if err != nil {
			return err
		}
		ctx.AdjustPanes(p.Buffer, start, -len(data))
		return nil
	})
	bind("join-lines", []byte{dispatch.Esc, '^'}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		p.GotoStartOfLine(buf)
		lineStart := p.Cursor
		if lineStart == 0 {
			return nil
		}
		end := lineStart
		for end < buf.Len() && isHorizSpace(buf.ByteAt(end)) {
			end = buf.StepForward(end)
		}
		start := buf.StepBackward(lineStart) // the newline joining the two lines
		for start > 0 && isHorizSpace(buf.ByteAt(buf.StepBackward(start))) {
			start = buf.StepBackward(start)
		}
		data, err := buf.Replace(start, end-start, []byte(" "))
		if err != nil {
			return err
		}
		ctx.AdjustPanes(p.Buffer, start, 1-len(data))
		return nil
	})
	bind("insert-tab", []byte{'\t'}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		if err := buf.Insert(p.Cursor, []byte{'\t'}, false); err != nil {
			return err
		}
		ctx.AdjustPanes(p.Buffer, p.Cursor, 1)
		return nil
	})

	bind("kill-line", []byte{dispatch.EncodeCtrl('k')}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		end := p.Cursor
		for end < buf.Len() && buf.ByteAt(end) != '\n' {
			end = buf.StepForward(end)
		}
		if end == p.Cursor && end < buf.Len() {
			end = buf.StepForward(end) // bare newline: kill it too
		}
		data, err := buf.Kill(p.Cursor, end-p.Cursor)
		if err != nil {
			return err
		}
		appendOrKill(ctx, data)
		ctx.AdjustPanes(p.Buffer, p.Cursor, -len(data))
		return nil
	})
	bind("kill-region", []byte{dispatch.EncodeCtrl('w')}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		lo, hi := regionBounds(buf.Marks.Top(), p.Cursor)
		data, err := buf.Kill(lo, hi-lo)
		if err != nil {
			return err
		}
		ctx.KillRing.Kill(data)
		ctx.AdjustPanes(p.Buffer, lo, -len(data))
		return nil
	})
	bind("copy-region", []byte{dispatch.Esc, 'w'}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		lo, hi := regionBounds(buf.Marks.Top(), p.Cursor)
		ctx.KillRing.Kill(buf.Bytes(lo, hi))
		return nil
	})
	bind("yank", []byte{dispatch.EncodeCtrl('y')}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		ctx.KillRing.ResetYank()
		text := ctx.KillRing.Yank()
		if _, err := buf.YankInsert(p.Cursor, text); err != nil {
			return err
		}
		ctx.AdjustPanes(p.Buffer, p.Cursor, len(text))
		return nil
	})
	bind("yank-pop", []byte{dispatch.Esc, 'y'}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		prev := ctx.KillRing.Current()
		pos := p.Cursor - len(prev)
		if _, err := buf.Delete(pos, len(prev), false); err != nil {
			return err
		}
		ctx.AdjustPanes(p.Buffer, pos, -len(prev))
		next := ctx.KillRing.YankPop()
		if _, err := buf.YankInsert(pos, next); err != nil {
			return err
		}
		ctx.AdjustPanes(p.Buffer, pos, len(next))
		return nil
	})

	bind("undo", []byte{dispatch.EncodeCtrl('_')}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		if !buf.ApplyUndo() {
			return editorerr.New(editorerr.Resource, "No further undo information")
		}
		return nil
	})

	bind("save-file", []byte{dispatch.EncodeCtrl('x'), dispatch.EncodeCtrl('s')}, func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		if buf.Path == "" {
			return editorerr.New(editorerr.DialogRejection, "Buffer has no file name")
		}
		if err := fileops.Write(buf.Path, buf.All()); err != nil {
			return err
		}
		buf.SaveMarker()
		return nil
	})

	bind("cursor-info", nil, func(arg registry.Arg) error {
		f, p, err := current(ctx)
		if err != nil {
			return err
		}
		f.Echo.SetMessage(fmt.Sprintf("point=%d of %d", p.Cursor, ctx.LookupBuffer(p.Buffer).Len()))
		return nil
	})

	bind("split-pane", []byte{dispatch.EncodeCtrl('x'), '2'}, func(arg registry.Arg) error {
		f, _, err := current(ctx)
		if err != nil {
			return err
		}
		return f.Split(ctx.LookupBuffer)
	})
	bind("other-pane", []byte{dispatch.EncodeCtrl('x'), 'o'}, func(arg registry.Arg) error {
		f, _, err := current(ctx)
		if err != nil {
			return err
		}
		f.Current = (f.Current + 1) % len(f.Panes)
		return nil
	})

	bind("keyboard-quit", []byte{dispatch.EncodeCtrl('g')}, func(arg registry.Arg) error {
		ctx.Dispatch.Reset()
		if f, _, err := current(ctx); err == nil {
			f.Echo.SetMessage("Quit")
		}
		return nil
	})
	bind("quit", []byte{dispatch.EncodeCtrl('x'), dispatch.EncodeCtrl('c')}, func(arg registry.Arg) error {
		ctx.Quit = true
		return nil
	})
	bind("save-and-quit", nil, func(arg registry.Arg) error {
		var saveErr error
		ctx.Buffers.Each(func(_ arena.Handle, b *buffer.Buffer) {
			if b.Modified && b.Path != "" {
				if err := fileops.Write(b.Path, b.All()); err != nil {
					saveErr = err
					return
				}
				b.SaveMarker()
			}
		})
		if saveErr != nil {
			return saveErr
		}
		ctx.Quit = true
		return nil
	})
}

type bufferLike interface {
	Delete(pos, length int, chunk bool) ([]byte, error)
	ByteAt(pos int) byte
}

func motion(ctx *editor.Context, fn func(p *pane.Pane, f *frame.Frame, n int) error) registry.CommandFunc {
	return func(arg registry.Arg) error {
		f, p, err := current(ctx)
		if err != nil {
			return err
		}
		n := 1
		if arg.Explicit {
			n = arg.Value
		}
		return fn(p, f, n)
	}
}

// editFn wraps a mutating command: it resolves p/buf and the numeric
// prefix argument the same way motion does, then propagates the
// edit's effect — fn reports the lowest position it touched (pos) and
// the signed length change (delta) — to every pane viewing buf,
// including p itself, via editor.Context.AdjustPanes. This replaces
// any ad hoc post-edit cursor assignment with the same pos/delta
// discipline markring.Ring.Adjust already applies to a buffer's marks.
func editFn(ctx *editor.Context, fn func(p *pane.Pane, buf bufferLike, n int) (pos, delta int, err error)) registry.CommandFunc {
	return func(arg registry.Arg) error {
		_, p, err := current(ctx)
		if err != nil {
			return err
		}
		buf := ctx.LookupBuffer(p.Buffer)
		n := 1
		if arg.Explicit {
			n = arg.Value
		}
		pos, delta, err := fn(p, buf, n)
		if err != nil {
			return err
		}
		ctx.AdjustPanes(p.Buffer, pos, delta)
		return nil
	}
}

// SelfInsert inserts a literal byte at the cursor, advancing it by one,
// and propagates that shift to every pane viewing the same buffer. It
// is the fallback main's event loop applies to any key the registry has
// no binding for, via frame.Frame.Dispatch's onKey callback — mirroring
// ordinary typed text in an Emacs-style editor.
func SelfInsert(ctx *editor.Context) func(p *pane.Pane, key byte) {
	return func(p *pane.Pane, key byte) {
		buf := ctx.LookupBuffer(p.Buffer)
		if buf == nil {
			return
		}
		if err := buf.Insert(p.Cursor, []byte{key}, false); err != nil {
			return
		}
		ctx.AdjustPanes(p.Buffer, p.Cursor, 1)
	}
}

func prevRune(buf interface{ ByteAt(int) byte }, pos int) int {
	pos--
	for pos > 0 && buf.ByteAt(pos)&0xc0 == 0x80 {
		pos--
	}
	return pos
}

func regionBounds(mark, point int) (lo, hi int) {
	if mark <= point {
		return mark, point
	}
	return point, mark
}

func isHorizSpace(b byte) bool { return b == ' ' || b == '\t' }

// forwardKillCommands names the commands whose kills coalesce forward
// (append to the previous kill-ring entry) when one immediately
// follows another, per spec §3/§4's "forward-deleting commands append"
// policy.
var forwardKillCommands = map[string]bool{
	"kill-line":           true,
	"delete-word-forward": true,
}

// backwardKillCommands is forwardKillCommands' counterpart for
// "backward-deleting commands prepend".
var backwardKillCommands = map[string]bool{
	"delete-word-backward": true,
}

// appendOrKill absorbs data into the kill ring as the forward side of a
// coalesced kill run: it appends to the previous entry when the
// immediately preceding command (dispatch.Dispatcher.LastCommand, not
// yet overwritten by the command now running) was itself a
// forward-killing command, and starts a fresh entry otherwise.
func appendOrKill(ctx *editor.Context, data []byte) {
	if forwardKillCommands[ctx.Dispatch.LastCommand] {
		ctx.KillRing.Append(data)
		return
	}
	ctx.KillRing.Kill(data)
}

// prependOrKill is appendOrKill's backward counterpart: it prepends to
// the previous entry when the immediately preceding command was itself
// a backward-killing command, growing the coalesced entry toward the
// buffer's start instead of its end.
func prependOrKill(ctx *editor.Context, data []byte) {
	if backwardKillCommands[ctx.Dispatch.LastCommand] {
		ctx.KillRing.Prepend(data)
		return
	}
	ctx.KillRing.Kill(data)
}
