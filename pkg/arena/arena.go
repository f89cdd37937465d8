// Package arena implements generation-tagged handle arenas, replacing the
// cyclic frame<->pane<->buffer pointer graph with flat storage and index
// handles, per spec §9's "Cyclic and back-pointing graphs" design note.
// Grounded on the teacher's session.Manager: a mutex-protected registry
// keyed by a stable identity, supporting Create/Get/Destroy.
package arena

import (
	"sync"

	"github.com/google/uuid"
)

// Handle names a slot in an Arena plus a generation stamp. A handle
// obtained before a slot was freed and reused compares unequal in
// liveness terms: Get returns false for a stale handle. DebugTag is a
// uuid stamped at allocation time — it plays no role in identity or
// liveness (Index/Gen alone decide that) and exists only so a debug log
// can name a long-lived Frame or Buffer allocation stably across a
// session, the way the teacher's session.Manager names a session by its
// uuid rather than its map key.
type Handle struct {
	Index    int
	Gen      uint32
	DebugTag string
}

// Zero is the never-valid handle.
var Zero = Handle{Index: -1}

// Valid reports whether h could possibly name a live slot (it does not
// by itself guarantee the slot is still alive — use Arena.Get for that).
func (h Handle) Valid() bool { return h.Index >= 0 }

type slot[T any] struct {
	value *T
	gen   uint32
	tag   string
	alive bool
}

// Arena owns a flat, generation-tagged collection of values of type T.
type Arena[T any] struct {
	mu    sync.Mutex
	slots []slot[T]
	free  []int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores v and returns a handle to it. The returned *T is stable
// across further Alloc/Free calls (the arena boxes values so growing its
// backing slice never invalidates a previously issued pointer).
func (a *Arena[T]) Alloc(v T) (Handle, *T) {
	a.mu.Lock()
	defer a.mu.Unlock()

	box := new(T)
	*box = v

	tag := uuid.NewString()

	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx].value = box
		a.slots[idx].alive = true
		a.slots[idx].tag = tag
		return Handle{Index: idx, Gen: a.slots[idx].gen, DebugTag: tag}, box
	}
	a.slots = append(a.slots, slot[T]{value: box, alive: true, tag: tag})
	return Handle{Index: len(a.slots) - 1, Gen: 0, DebugTag: tag}, box
}

// Get returns the value behind h, or ok=false if h is stale or unknown.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if h.Index < 0 || h.Index >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.Index]
	if !s.alive || s.gen != h.Gen {
		return nil, false
	}
	return s.value, true
}

// Free releases h's slot for reuse, bumping its generation so old
// handles become stale.
func (a *Arena[T]) Free(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if h.Index < 0 || h.Index >= len(a.slots) {
		return
	}
	s := &a.slots[h.Index]
	if !s.alive || s.gen != h.Gen {
		return
	}
	s.alive = false
	s.gen++
	s.value = nil
	a.free = append(a.free, h.Index)
}

// Len reports the number of live slots.
func (a *Arena[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, s := range a.slots {
		if s.alive {
			n++
		}
	}
	return n
}

// Each calls fn for every live handle/value in slot order. fn must not
// call back into the arena (Alloc/Free) while iterating.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	a.mu.Lock()
	type pair struct {
		h Handle
		v *T
	}
	var live []pair
	for i, s := range a.slots {
		if s.alive {
			live = append(live, pair{Handle{Index: i, Gen: s.gen, DebugTag: s.tag}, s.value})
		}
	}
	a.mu.Unlock()
	for _, p := range live {
		fn(p.h, p.v)
	}
}
