// Package clipboard implements the clipboard bridge: primary and
// clipboard selection ownership, and the chunked INCR transfer protocol
// used to export a selection too large for a single property write.
package clipboard

import (
	"errors"
	"time"

	"github.com/shawnamir/sced/pkg/killring"
)

// ChunkThreshold is the largest selection exported as a single
// property write; anything longer announces incremental transfer.
const ChunkThreshold = 4096

// IncrTimeout bounds how long Export waits, per chunk, for the
// requester to acknowledge before giving up on the transfer.
const IncrTimeout = 2 * time.Second

// ErrIncrTimeout is returned when a chunked transfer's requester fails
// to acknowledge a chunk within IncrTimeout.
var ErrIncrTimeout = errors.New("clipboard: incremental transfer timed out waiting for acknowledgment")

// Selection names the two selections the bridge can own.
type Selection string

const (
	Primary   Selection = "primary"
	ClipSel   Selection = "clipboard"
)

// MessageKind is the clipboard wire protocol's message discriminator.
type MessageKind string

const (
	MsgNotOwned   MessageKind = "not-owned"
	MsgData       MessageKind = "data"
	MsgIncrBegin  MessageKind = "incr-begin"
	MsgChunk      MessageKind = "chunk"
)

// Message is one frame of the export protocol.
type Message struct {
	Kind      MessageKind `json:"type"`
	Selection Selection   `json:"selection"`
	Length    int         `json:"length,omitempty"`
	Data      []byte      `json:"data,omitempty"`
}

// ownership describes what a selection, when owned, exports: a live
// lookup rather than a snapshot, since the source (a buffer region, or
// the kill ring's top) may change between ownership and a request.
type ownership struct {
	owned  bool
	source func() []byte
}

// Bridge owns zero, one, or both selections and serves export requests
// against whichever source each currently references.
type Bridge struct {
	primary   ownership
	clipboard ownership
	kill      *killring.Ring
}

// New returns a bridge with neither selection owned.
func New(kr *killring.Ring) *Bridge {
	return &Bridge{kill: kr}
}

// OwnPrimaryRegion takes primary ownership from an explicit buffer
// region, re-read from source at export time.
func (b *Bridge) OwnPrimaryRegion(source func() []byte) {
	b.primary = ownership{owned: true, source: source}
}

// OwnPrimaryFromKillRing takes primary ownership referencing the kill
// ring's top entry.
func (b *Bridge) OwnPrimaryFromKillRing() {
	b.primary = ownership{owned: true, source: b.kill.Current}
}

// ReleasePrimary gives up primary ownership.
func (b *Bridge) ReleasePrimary() { b.primary = ownership{} }

// OwnsPrimary reports whether we currently own the primary selection.
func (b *Bridge) OwnsPrimary() bool { return b.primary.owned }

// OwnClipboard takes clipboard ownership; per spec, clipboard always
// references the kill ring's top entry (there is no separate
// region-sourced clipboard ownership).
func (b *Bridge) OwnClipboard() {
	b.clipboard = ownership{owned: true, source: b.kill.Current}
}

// ReleaseClipboard gives up clipboard ownership.
func (b *Bridge) ReleaseClipboard() { b.clipboard = ownership{} }

// OwnsClipboard reports whether we currently own the clipboard selection.
func (b *Bridge) OwnsClipboard() bool { return b.clipboard.owned }

func (b *Bridge) ownershipFor(sel Selection) ownership {
	switch sel {
	case Primary:
		return b.primary
	case ClipSel:
		return b.clipboard
	}
	return ownership{}
}

// Export serves one request for sel over send/waitAck, which the
// caller adapts to the actual transport (a websocket connection in
// production, a recording fake in tests). send delivers one protocol
// message; waitAck blocks (up to the given timeout) for the requester's
// property-deletion acknowledgment of the most recently sent chunk,
// reporting whether it arrived in time.
func (b *Bridge) Export(sel Selection, send func(Message) error, waitAck func(time.Duration) bool) error {
	own := b.ownershipFor(sel)
	if !own.owned {
		return send(Message{Kind: MsgNotOwned, Selection: sel})
	}
	data := own.source()
	if len(data) <= ChunkThreshold {
		return send(Message{Kind: MsgData, Selection: sel, Data: data})
	}

	if err := send(Message{Kind: MsgIncrBegin, Selection: sel, Length: len(data)}); err != nil {
		return err
	}
	for off := 0; off < len(data); off += ChunkThreshold {
		end := off + ChunkThreshold
		if end > len(data) {
			end = len(data)
		}
		if err := send(Message{Kind: MsgChunk, Selection: sel, Data: data[off:end]}); err != nil {
			return err
		}
		if !waitAck(IncrTimeout) {
			return ErrIncrTimeout
		}
	}
	// Final zero-length chunk terminates the incremental transfer.
	return send(Message{Kind: MsgChunk, Selection: sel, Data: nil})
}
