// Package selection implements the system-wide selection: at most one
// active selection exists across all frames, tracked as (pane, mark
// position, mark row, mark column) with the other end always being that
// pane's current cursor position.
package selection

import "github.com/shawnamir/sced/pkg/arena"

// Selection is a distinguished value naming the owning pane and the mark
// end of the range; the cursor end is read from the pane itself.
type Selection struct {
	Pane    arena.Handle
	MarkPos int
	MarkRow int
	MarkCol int
}

// Manager owns the single active selection plus a "last selection" slot
// used when a frame loses and regains focus.
type Manager struct {
	current *Selection
	last    *Selection
}

// NewManager returns a manager with no active selection.
func NewManager() *Manager {
	return &Manager{}
}

// Set installs sel as the system's one active selection, replacing
// whatever was there (only one selection exists at a time).
func (m *Manager) Set(sel Selection) {
	s := sel
	m.current = &s
}

// Clear removes any active selection.
func (m *Manager) Clear() {
	m.current = nil
}

// Current returns the active selection, if any.
func (m *Manager) Current() (Selection, bool) {
	if m.current == nil {
		return Selection{}, false
	}
	return *m.current, true
}

// Active reports whether a selection belonging to pane is active.
func (m *Manager) Active(pane arena.Handle) bool {
	return m.current != nil && m.current.Pane == pane
}

// LoseFocus parks the active selection (if any) into the "last" slot,
// clearing the active one. Called when a frame loses input focus.
func (m *Manager) LoseFocus() {
	if m.current != nil {
		m.last = m.current
		m.current = nil
	}
}

// RegainFocus restores a previously parked selection. Called when a
// frame regains input focus.
func (m *Manager) RegainFocus() {
	if m.last != nil {
		m.current = m.last
		m.last = nil
	}
}

// Range orders the two ends of a selection (mark, cursor) into (lo, hi),
// since the selection may run in either direction.
func Range(markPos, cursorPos int) (lo, hi int) {
	if markPos <= cursorPos {
		return markPos, cursorPos
	}
	return cursorPos, markPos
}
