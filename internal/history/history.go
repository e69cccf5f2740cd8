// Package history keeps a bounded linear undo stack of deep-copied snapshots
// plus a table of bookmarks that live outside the stack.
package history

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// DefaultCapacity is the number of snapshots kept when none is configured.
const DefaultCapacity = 10

// State describes whether the manager holds any snapshots.
type State int

const (
	Empty State = iota
	Active
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Manager is a bounded undo/redo stack. Every snapshot is deep-copied on the way
// in and on the way out, so callers never alias stored state.
// K keys the bookmark table.
type Manager[K comparable, S any] struct {
	entries   []S
	cursor    int
	capacity  int
	bookmarks map[K]S
}

// New creates a manager holding at most capacity snapshots.
// A capacity below 1 selects DefaultCapacity.
func New[K comparable, S any](capacity int) *Manager[K, S] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager[K, S]{
		cursor:    -1,
		capacity:  capacity,
		bookmarks: make(map[K]S),
	}
}

// Snapshot appends a copy of s after the cursor. Entries after the cursor are
// discarded first, and the oldest entry is evicted once capacity is exceeded.
func (m *Manager[K, S]) Snapshot(s S) error {
	c, err := clone(s)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	m.entries = append(m.entries[:m.cursor+1], c)
	if over := len(m.entries) - m.capacity; over > 0 {
		// Zero evicted slots so their buffers can be collected.
		var zero S
		for i := 0; i < over; i++ {
			m.entries[i] = zero
		}
		m.entries = m.entries[over:]
	}
	m.cursor = len(m.entries) - 1
	return nil
}

// Undo steps back one entry and returns a copy of it.
// ok is false when there is nothing earlier to return.
func (m *Manager[K, S]) Undo() (s S, ok bool) {
	if m.cursor <= 0 {
		return s, false
	}
	m.cursor--
	return m.at(m.cursor)
}

// Redo steps forward one entry and returns a copy of it.
func (m *Manager[K, S]) Redo() (s S, ok bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries)-1 {
		return s, false
	}
	m.cursor++
	return m.at(m.cursor)
}

// Current returns a copy of the entry at the cursor.
func (m *Manager[K, S]) Current() (s S, ok bool) {
	if m.cursor < 0 {
		return s, false
	}
	return m.at(m.cursor)
}

// SetBookmark stores a copy of s under id without touching the stack.
func (m *Manager[K, S]) SetBookmark(id K, s S) error {
	c, err := clone(s)
	if err != nil {
		return fmt.Errorf("bookmark %v: %w", id, err)
	}
	m.bookmarks[id] = c
	return nil
}

// Bookmark returns a copy of the snapshot stored under id.
func (m *Manager[K, S]) Bookmark(id K) (s S, ok bool) {
	b, found := m.bookmarks[id]
	if !found {
		return s, false
	}
	c, err := clone(b)
	if err != nil {
		return s, false
	}
	return c, true
}

// Clear drops all entries and bookmarks.
func (m *Manager[K, S]) Clear() {
	m.entries = nil
	m.cursor = -1
	clear(m.bookmarks)
}

// Len returns the number of entries on the stack.
func (m *Manager[K, S]) Len() int {
	return len(m.entries)
}

// Cursor returns the index of the current entry, or -1 when empty.
func (m *Manager[K, S]) Cursor() int {
	return m.cursor
}

// Capacity returns the maximum number of entries.
func (m *Manager[K, S]) Capacity() int {
	return m.capacity
}

// State reports Empty or Active.
func (m *Manager[K, S]) State() State {
	if len(m.entries) == 0 {
		return Empty
	}
	return Active
}

func (m *Manager[K, S]) at(i int) (S, bool) {
	c, err := clone(m.entries[i])
	if err != nil {
		var zero S
		return zero, false
	}
	return c, true
}

func clone[S any](s S) (S, error) {
	var out S
	if err := copier.CopyWithOption(&out, &s, copier.Option{DeepCopy: true}); err != nil {
		return out, err
	}
	return out, nil
}
