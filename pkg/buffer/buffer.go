// Package buffer implements the Buffer aggregate: a GapBuffer plus a
// MarkRing, an UndoLog, identity (name/path/flags), and the cached
// cursor/viewport state used when a Pane re-acquires the buffer.
package buffer

import (
	"github.com/shawnamir/sced/pkg/gapbuf"
	"github.com/shawnamir/sced/pkg/markring"
	"github.com/shawnamir/sced/pkg/undo"
)

// Buffer is the in-memory content of one editable document.
type Buffer struct {
	Name string // display name, e.g. "*scratch*" or a file's base name
	Path string // backing file path as given when loaded, empty for non-file buffers

	text *gapbuf.Buffer
	Marks *markring.Ring
	Undo  *undo.Log

	Collision bool // another buffer shares this file name
	Modified  bool
	ReadOnly  bool
	Filtered  bool
	InfoOnly  bool

	RefCount int // number of panes currently displaying this buffer

	LastCursor        int
	LastViewportStart int
}

// New returns an empty buffer with the given name and no backing file.
func New(name string) *Buffer {
	return &Buffer{
		Name:  name,
		text:  gapbuf.New(),
		Marks: markring.New(),
		Undo:  undo.NewLog(),
	}
}

// NewFromText returns a buffer pre-populated with text (e.g. after a file
// read), with a fresh, empty undo history.
func NewFromText(name, path string, text []byte) *Buffer {
	return &Buffer{
		Name:  name,
		Path:  path,
		text:  gapbuf.NewFromBytes(text),
		Marks: markring.New(),
		Undo:  undo.NewLog(),
	}
}

// Len returns the logical length of the buffer's text.
func (b *Buffer) Len() int { return b.text.Len() }

// Bytes returns a copy of [start, end).
func (b *Buffer) Bytes(start, end int) []byte { return b.text.Bytes(start, end) }

// All returns a copy of the whole buffer text.
func (b *Buffer) All() []byte { return b.text.All() }

// ByteAt returns the byte at a logical position.
func (b *Buffer) ByteAt(p int) byte { return b.text.ByteAt(p) }

// StepForward/StepBackward delegate to the gap buffer's UTF-8 stepping.
func (b *Buffer) StepForward(p int) int  { return b.text.StepForward(p) }
func (b *Buffer) StepBackward(p int) int { return b.text.StepBackward(p) }

// ErrReadOnly is returned by mutating operations on a read-only buffer.
var ErrReadOnly = readOnlyError{}

type readOnlyError struct{}

func (readOnlyError) Error() string { return "buffer is read-only" }

// Insert inserts s at pos, adjusting marks and recording undo. chunk
// disables coalescing with the previous undo block (used for
// non-typed-character insertions such as yank or file-insert).
func (b *Buffer) Insert(pos int, s []byte, chunk bool) error {
	if b.ReadOnly {
		return ErrReadOnly
	}
	if len(s) == 0 {
		return nil
	}
	b.text.Insert(pos, s)
	b.Marks.Adjust(pos, len(s))
	b.Undo.RecordAdd(pos, len(s), chunk)
	b.Modified = true
	return nil
}

// Delete removes length bytes at pos, adjusting marks and recording
// undo. It returns the deleted bytes (e.g. for the kill ring).
func (b *Buffer) Delete(pos, length int, chunk bool) ([]byte, error) {
	if b.ReadOnly {
		return nil, ErrReadOnly
	}
	if length <= 0 {
		return nil, nil
	}
	data := b.text.Delete(pos, length)
	b.Marks.Adjust(pos, -length)
	b.Undo.RecordDel(pos, data, chunk)
	b.Modified = true
	return data, nil
}

// Replace deletes [pos, pos+delLen) and inserts add as one logical
// (chained) operation: the add block continues the delete block so a
// single undo restores both sides.
func (b *Buffer) Replace(pos, delLen int, add []byte) ([]byte, error) {
	if b.ReadOnly {
		return nil, ErrReadOnly
	}
	deleted, err := b.Delete(pos, delLen, true)
	if err != nil {
		return nil, err
	}
	if err := b.Insert(pos, add, false); err != nil {
		return deleted, err
	}
	b.Undo.ChainLastToPrevious()
	return deleted, nil
}

// ApplyUndo pops one logical operation from the undo log and applies its
// inverse. It returns false when there is no more history.
func (b *Buffer) ApplyUndo() bool {
	applied := b.Undo.Undo(func(op undo.InverseOp) []byte {
		if op.Insert {
			b.text.Insert(op.Pos, op.Data)
			b.Marks.Adjust(op.Pos, len(op.Data))
			return nil
		}
		data := b.text.Delete(op.Pos, op.Len)
		b.Marks.Adjust(op.Pos, -op.Len)
		return data
	})
	if applied {
		b.Modified = true
	}
	return applied
}

// SaveMarker records a clean point (called after a successful save).
func (b *Buffer) SaveMarker() {
	b.Undo.Save()
	b.Modified = false
}

// YankInsert is the kill-ring integration point: inserts text from the
// kill ring at pos, leaves a mark at pos (the start of the inserted
// text), and returns the new cursor position.
func (b *Buffer) YankInsert(pos int, text []byte) (int, error) {
	if err := b.Insert(pos, text, true); err != nil {
		return pos, err
	}
	b.Marks.Push(pos)
	return pos + len(text), nil
}

// Kill deletes [pos, pos+length) and returns the bytes for the kill ring
// to absorb (append/prepend/new-kill is the caller's decision, driven by
// last-command-id).
func (b *Buffer) Kill(pos, length int) ([]byte, error) {
	return b.Delete(pos, length, false)
}
