package spawn

import (
	"fmt"

	"github.com/l1jgo/spawnpool/internal/core/handle"
)

// Table stores one Request per handle slot, parallel to the allocator.
// Accessed only from the game loop goroutine; no locks.
type Table struct {
	handles *handle.Allocator
	rows    []Request
}

func NewTable() *Table {
	return &Table{
		handles: handle.NewAllocator(),
		rows:    make([]Request, 0, 256),
	}
}

// Insert stores r in a fresh slot and returns its handle.
func (t *Table) Insert(r Request) handle.Handle {
	h := t.handles.Acquire()
	idx := int(h.Index())
	if idx == len(t.rows) {
		t.rows = append(t.rows, r)
	} else {
		t.rows[idx] = r
	}
	return h
}

// Get returns the row for h, or ErrInvalidHandle if h is stale.
func (t *Table) Get(h handle.Handle) (*Request, error) {
	if !t.handles.Valid(h) {
		return nil, fmt.Errorf("get %#x: %w", uint64(h), ErrInvalidHandle)
	}
	return &t.rows[h.Index()], nil
}

func (t *Table) Valid(h handle.Handle) bool {
	return t.handles.Valid(h)
}

// Remove resets h's row and then releases h. The reset happens first so a
// reused slot never exposes the previous request's fields.
func (t *Table) Remove(h handle.Handle) bool {
	if !t.handles.Valid(h) {
		return false
	}
	t.rows[h.Index()] = Request{}
	return t.handles.Release(h)
}

// Shrink drops trailing unused slots.
func (t *Table) Shrink() int {
	n := t.handles.Shrink()
	if n > 0 {
		clear(t.rows[t.handles.Len():])
		t.rows = t.rows[:t.handles.Len()]
	}
	return n
}

// Each calls fn for every live row in slot order.
func (t *Table) Each(fn func(handle.Handle, *Request)) {
	t.handles.Each(func(h handle.Handle) {
		fn(h, &t.rows[h.Index()])
	})
}

// Len is the number of live requests.
func (t *Table) Len() int { return t.handles.Live() }

// Slots is the size of the slot range including free slots.
func (t *Table) Slots() int { return t.handles.Len() }
