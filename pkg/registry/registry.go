// Package registry implements the command-binding tables: one set of
// bindings kept in two sorted orders — by function name (for named
// execute-command lookup) and by key sequence (for incremental key
// dispatch) — as doubly-linked lists so either order can be walked or
// spliced without a full re-sort.
package registry

import "bytes"

// CommandFunc is the signature every bound command implements: it
// receives the numeric prefix argument (value, explicit-given flag)
// and returns an error to report on the echo line.
type CommandFunc func(arg Arg) error

// Arg is the numeric prefix argument passed to a command invocation.
type Arg struct {
	Value    int
	Explicit bool // true if the user supplied a prefix at all
}

// Binding names one command: its identifier, the key sequence that
// invokes it, and the function itself.
type Binding struct {
	Name string
	Keys []byte
	Fn   CommandFunc
}

type node struct {
	binding *Binding

	prevByName, nextByName *node
	prevByKey, nextByKey   *node
}

// Registry owns the live set of bindings in both sort orders.
type Registry struct {
	nameHead, nameTail *node
	keyHead, keyTail   *node
	byName             map[string]*node
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*node)}
}

// Register inserts b into both sorted lists, replacing any existing
// binding of the same name (its old key binding, if different, is
// removed first).
func (r *Registry) Register(b Binding) {
	if existing, ok := r.byName[b.Name]; ok {
		r.unlinkByName(existing)
		r.unlinkByKey(existing)
	}
	n := &node{binding: &b}
	r.byName[b.Name] = n
	r.insertByName(n)
	r.insertByKey(n)
}

// Unregister removes the binding named name, if any.
func (r *Registry) Unregister(name string) {
	n, ok := r.byName[name]
	if !ok {
		return
	}
	r.unlinkByName(n)
	r.unlinkByKey(n)
	delete(r.byName, name)
}

// Lookup returns the binding named name.
func (r *Registry) Lookup(name string) (Binding, bool) {
	n, ok := r.byName[name]
	if !ok {
		return Binding{}, false
	}
	return *n.binding, true
}

// ByName walks every binding in name-sorted order.
func (r *Registry) ByName(fn func(Binding)) {
	for n := r.nameHead; n != nil; n = n.nextByName {
		fn(*n.binding)
	}
}

// ByKey walks every binding in key-sequence-sorted order.
func (r *Registry) ByKey(fn func(Binding)) {
	for n := r.keyHead; n != nil; n = n.nextByKey {
		fn(*n.binding)
	}
}

func (r *Registry) insertByName(n *node) {
	if r.nameHead == nil {
		r.nameHead, r.nameTail = n, n
		return
	}
	for cur := r.nameHead; cur != nil; cur = cur.nextByName {
		if cur.binding.Name > n.binding.Name {
			n.nextByName = cur
			n.prevByName = cur.prevByName
			if cur.prevByName != nil {
				cur.prevByName.nextByName = n
			} else {
				r.nameHead = n
			}
			cur.prevByName = n
			return
		}
	}
	n.prevByName = r.nameTail
	r.nameTail.nextByName = n
	r.nameTail = n
}

func (r *Registry) insertByKey(n *node) {
	if r.keyHead == nil {
		r.keyHead, r.keyTail = n, n
		return
	}
	for cur := r.keyHead; cur != nil; cur = cur.nextByKey {
		if bytes.Compare(cur.binding.Keys, n.binding.Keys) > 0 {
			n.nextByKey = cur
			n.prevByKey = cur.prevByKey
			if cur.prevByKey != nil {
				cur.prevByKey.nextByKey = n
			} else {
				r.keyHead = n
			}
			cur.prevByKey = n
			return
		}
	}
	n.prevByKey = r.keyTail
	r.keyTail.nextByKey = n
	r.keyTail = n
}

func (r *Registry) unlinkByName(n *node) {
	if n.prevByName != nil {
		n.prevByName.nextByName = n.nextByName
	} else if r.nameHead == n {
		r.nameHead = n.nextByName
	}
	if n.nextByName != nil {
		n.nextByName.prevByName = n.prevByName
	} else if r.nameTail == n {
		r.nameTail = n.prevByName
	}
	n.prevByName, n.nextByName = nil, nil
}

func (r *Registry) unlinkByKey(n *node) {
	if n.prevByKey != nil {
		n.prevByKey.nextByKey = n.nextByKey
	} else if r.keyHead == n {
		r.keyHead = n.nextByKey
	}
	if n.nextByKey != nil {
		n.nextByKey.prevByKey = n.prevByKey
	} else if r.keyTail == n {
		r.keyTail = n.prevByKey
	}
	n.prevByKey, n.nextByKey = nil, nil
}

// MatchKind is the three/four-valued outcome of matching an in-progress
// key sequence against the registry's key-sorted binding list.
type MatchKind int

const (
	// MatchFull means seq names exactly one binding: invoke it.
	MatchFull MatchKind = iota
	// MatchPartial means seq is a strict prefix of at least one
	// binding's key sequence: keep accumulating keys.
	MatchPartial
	// MatchDead means no binding can ever match seq: report an
	// undefined-command error and reset.
	MatchDead
)

// Match walks the key-sorted list once, classifying seq against every
// binding (mismatch bindings are simply skipped) and returning the
// overall three-valued result.
func (r *Registry) Match(seq []byte) (MatchKind, Binding) {
	partial := false
	for cur := r.keyHead; cur != nil; cur = cur.nextByKey {
		keys := cur.binding.Keys
		switch {
		case bytes.Equal(keys, seq):
			return MatchFull, *cur.binding
		case len(seq) < len(keys) && bytes.Equal(keys[:len(seq)], seq):
			partial = true
		}
	}
	if partial {
		return MatchPartial, Binding{}
	}
	return MatchDead, Binding{}
}
