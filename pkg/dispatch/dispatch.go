// Package dispatch implements the command dispatcher: key-sequence
// accumulation, the three-valued incremental matcher over a
// registry.Registry, the numeric-prefix-argument sub-parser, and
// last-command-id tracking for repeat-sensitive commands.
package dispatch

import (
	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/shawnamir/sced/pkg/registry"
)

// Key-encoding constants, per spec §4.4: control modifiers are encoded
// as reserved byte prefixes ≤ 0x1F (the terminal's native Ctrl
// encoding); Meta is the classic ESC-prefix convention; Ext introduces
// an extended (function/arrow/page/home/end/delete) key byte.
const (
	Esc byte = 0x1b // Meta prefix
	Ext byte = 0x00 // extended-key prefix
)

// EncodeCtrl returns the control byte for Ctrl+c (c must be a letter or
// one of the small set of punctuation keys Control recognizes).
func EncodeCtrl(c byte) byte { return c & 0x1f }

// Extended key codes, sent as Ext followed by one of these bytes.
const (
	ExtUp byte = iota + 1
	ExtDown
	ExtLeft
	ExtRight
	ExtPageUp
	ExtPageDown
	ExtHome
	ExtEnd
	ExtDelete
)

// maxPrefixDigits caps the numeric prefix's digit accumulation; a
// sixth digit is a reported error rather than silently truncated.
const maxPrefixDigits = 5

// prefixState tracks the in-progress numeric-prefix argument.
type prefixState struct {
	active     bool
	explicit   bool
	value      int
	sign       int
	digits     int
	defaultVal int // value used if no digits ever accumulate
}

func (p *prefixState) reset() { *p = prefixState{sign: 1, defaultVal: 4} }

// resolve returns the Arg the prefix state names and resets it.
func (p *prefixState) resolve() registry.Arg {
	arg := registry.Arg{Value: 1, Explicit: p.explicit}
	if p.explicit {
		v := p.value
		if p.digits == 0 {
			v = p.defaultVal
		}
		arg.Value = v * p.sign
	}
	p.reset()
	return arg
}

// Dispatcher holds the live key-sequence buffer, numeric-prefix state,
// and last-command-id used by repeat-sensitive commands.
type Dispatcher struct {
	reg *registry.Registry

	seq    []byte
	prefix prefixState

	LastCommand string
}

// New returns a dispatcher bound to reg.
func New(reg *registry.Registry) *Dispatcher {
	d := &Dispatcher{reg: reg}
	d.prefix.reset()
	return d
}

// Reset clears any in-progress key sequence and numeric prefix (used
// on Ctrl+G / focus loss).
func (d *Dispatcher) Reset() {
	d.seq = d.seq[:0]
	d.prefix.reset()
}

// InProgress reports whether a key sequence or numeric prefix is
// mid-entry (used to gate the echo-delay display).
func (d *Dispatcher) InProgress() bool {
	return len(d.seq) > 0 || d.prefix.active
}

// HandleKey feeds one fully-encoded keypress (e.g. []byte{0x06} for
// Ctrl+F, []byte{Esc, 'f'} for Meta+F) through the numeric-prefix
// sub-parser and then the key-sequence matcher. It returns whether a
// command was invoked and any error the command (or the matcher)
// produced.
func (d *Dispatcher) HandleKey(raw []byte) (invoked bool, err error) {
	if len(raw) == 0 {
		return false, nil
	}

	consumed, prefixErr := d.feedPrefix(raw)
	if prefixErr != nil {
		return false, prefixErr
	}
	if consumed {
		return false, nil
	}

	d.seq = append(d.seq, raw...)
	kind, b := d.reg.Match(d.seq)
	switch kind {
	case registry.MatchPartial:
		return false, nil
	case registry.MatchDead:
		d.Reset()
		return false, editorerr.ErrUndefinedCommand
	case registry.MatchFull:
		arg := d.prefix.resolve()
		d.seq = d.seq[:0]
		cmdErr := b.Fn(arg)
		if b.Name != "execute-extended-command" {
			d.LastCommand = b.Name
		}
		return true, cmdErr
	}
	return false, nil
}

// feedPrefix recognizes Ctrl+U, Meta+-, Meta+digit, and (while a
// prefix is already active) bare digit/minus keys, updating prefix
// state. It returns true if raw was consumed as prefix input rather
// than passed on to the key-sequence matcher.
func (d *Dispatcher) feedPrefix(raw []byte) (consumed bool, err error) {
	switch {
	case len(raw) == 1 && raw[0] == EncodeCtrl('u'):
		d.prefix.active = true
		d.prefix.explicit = true
		return true, nil

	case len(raw) == 2 && raw[0] == Esc && raw[1] == '-':
		d.prefix.active = true
		d.prefix.explicit = true
		d.prefix.sign = -1
		d.prefix.defaultVal = 1
		return true, nil

	case len(raw) == 2 && raw[0] == Esc && isDigit(raw[1]):
		d.prefix.active = true
		d.prefix.explicit = true
		return true, d.accumulateDigit(raw[1])

	case d.prefix.active && len(raw) == 1 && raw[0] == '-' && d.prefix.digits == 0:
		d.prefix.sign = -d.prefix.sign
		return true, nil

	case d.prefix.active && len(raw) == 1 && isDigit(raw[0]):
		return true, d.accumulateDigit(raw[0])
	}
	return false, nil
}

func (d *Dispatcher) accumulateDigit(c byte) error {
	if d.prefix.digits >= maxPrefixDigits {
		d.prefix.reset()
		return editorerr.ErrPrefixTooLarge
	}
	d.prefix.value = d.prefix.value*10 + int(c-'0')
	d.prefix.digits++
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
