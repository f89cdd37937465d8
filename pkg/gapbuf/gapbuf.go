// Package gapbuf implements the gap buffer: UTF-8 byte storage with a
// single moving gap, position<->pointer mapping, and UTF-8-aware stepping.
package gapbuf

import "errors"

const extraExpand = 256

// Buffer is an owned byte array of capacity C partitioned into
// prefix [0, gapStart), gap [gapStart, gapEnd), suffix [gapEnd, C).
type Buffer struct {
	data     []byte
	gapStart int
	gapEnd   int
}

// New returns an empty gap buffer with room for initial growth.
func New() *Buffer {
	b := &Buffer{data: make([]byte, extraExpand)}
	b.gapStart = 0
	b.gapEnd = len(b.data)
	return b
}

// NewFromBytes returns a gap buffer whose logical content is text, with
// the gap placed at the end.
func NewFromBytes(text []byte) *Buffer {
	b := &Buffer{data: make([]byte, len(text)+extraExpand)}
	copy(b.data, text)
	b.gapStart = len(text)
	b.gapEnd = len(b.data)
	return b
}

// Len returns the logical length L = C - (gapEnd - gapStart).
func (b *Buffer) Len() int {
	return len(b.data) - (b.gapEnd - b.gapStart)
}

// physical maps a logical position P in [0, L] to a physical byte index.
func (b *Buffer) physical(p int) int {
	if p < b.gapStart {
		return p
	}
	return p + (b.gapEnd - b.gapStart)
}

// ByteAt returns the byte at logical position p. p must be < Len().
func (b *Buffer) ByteAt(p int) byte {
	return b.data[b.physical(p)]
}

// Bytes returns a copy of the logical range [start, end), stitching across
// the gap if necessary.
func (b *Buffer) Bytes(start, end int) []byte {
	if start >= end {
		return nil
	}
	out := make([]byte, 0, end-start)
	if start < b.gapStart {
		hi := end
		if hi > b.gapStart {
			hi = b.gapStart
		}
		out = append(out, b.data[start:hi]...)
	}
	if end > b.gapStart {
		lo := start
		if lo < b.gapStart {
			lo = b.gapStart
		}
		out = append(out, b.data[b.physical(lo):b.physical(end)]...)
	}
	return out
}

// All returns a copy of the whole logical text.
func (b *Buffer) All() []byte {
	return b.Bytes(0, b.Len())
}

// placeGap moves the gap so that gapStart == offset and the gap holds at
// least minFree bytes, reallocating on expansion. Moving the gap shifts
// only the bytes between the old gap and offset; growth never shrinks
// capacity.
func (b *Buffer) placeGap(offset, minFree int) {
	if b.gapEnd-b.gapStart < minFree {
		text := b.Len()
		newCap := text + minFree + extraExpand
		newData := make([]byte, newCap)
		copy(newData, b.data[:b.gapStart])
		tailLen := len(b.data) - b.gapEnd
		copy(newData[newCap-tailLen:], b.data[b.gapEnd:])
		b.gapEnd = newCap - tailLen
		b.data = newData
	}
	switch {
	case offset < b.gapStart:
		// gap moves down: shift [offset, gapStart) to just before gapEnd.
		n := b.gapStart - offset
		copy(b.data[b.gapEnd-n:b.gapEnd], b.data[offset:b.gapStart])
		b.gapStart = offset
		b.gapEnd -= n
	case offset > b.gapStart:
		// gap moves up: shift [gapEnd, gapEnd+n) down to gapStart.
		n := offset - b.gapStart
		copy(b.data[b.gapStart:b.gapStart+n], b.data[b.gapEnd:b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
	}
}

// Insert writes s at logical position pos, moving the cursor/gap there.
func (b *Buffer) Insert(pos int, s []byte) {
	if len(s) == 0 {
		return
	}
	b.placeGap(pos, len(s))
	copy(b.data[b.gapStart:], s)
	b.gapStart += len(s)
}

// Delete removes length bytes starting at logical position pos and
// returns the deleted bytes.
func (b *Buffer) Delete(pos, length int) []byte {
	if length <= 0 {
		return nil
	}
	deleted := b.Bytes(pos, pos+length)
	b.placeGap(pos, 0)
	b.gapEnd += length
	return deleted
}

// StepForward advances p by the UTF-8 length of the character at p.
func (b *Buffer) StepForward(p int) int {
	if p >= b.Len() {
		return p
	}
	n := runeLen(b.ByteAt(p))
	np := p + n
	if np > b.Len() {
		return b.Len()
	}
	return np
}

// StepBackward decrements through continuation bytes to the preceding lead byte.
func (b *Buffer) StepBackward(p int) int {
	if p <= 0 {
		return 0
	}
	p--
	for p > 0 && isContinuation(b.ByteAt(p)) {
		p--
	}
	return p
}

// IsWordByte reports whether byte c participates in a word per the
// spec's predicate: ASCII letters/digits, or any byte with the high bit
// set (multi-byte UTF-8 sequences are treated as alphanumeric).
func IsWordByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c&0x80 != 0:
		return true
	default:
		return false
	}
}

func isContinuation(c byte) bool {
	return c&0xC0 == 0x80
}

// runeLen returns the UTF-8 byte length implied by a lead byte.
func runeLen(lead byte) int {
	switch {
	case lead&0x80 == 0:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// CheckInvariants validates the structural invariants from the spec's
// testable-properties section: gapStart <= gapEnd <= capacity, and no
// UTF-8 lead byte's continuation bytes straddle the gap. Intended for use
// in tests, not on the hot path.
func (b *Buffer) CheckInvariants() error {
	if !(b.gapStart <= b.gapEnd && b.gapEnd <= len(b.data)) {
		return errors.New("gapbuf: gapStart <= gapEnd <= capacity violated")
	}
	for p := 0; p < b.Len(); {
		n := runeLen(b.ByteAt(p))
		for k := 1; k < n && p+k < b.Len(); k++ {
			if !isContinuation(b.ByteAt(p + k)) {
				return errors.New("gapbuf: malformed utf8 sequence")
			}
		}
		p += n
	}
	return nil
}
