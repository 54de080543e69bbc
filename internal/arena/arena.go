// Package arena stores values in reusable slots addressed by generational
// indices. Freeing a slot bumps its generation so indices handed out before
// the free no longer resolve.
package arena

import "fmt"

// Index identifies a slot. The zero Index never resolves.
type Index struct {
	Slot uint32
	Gen  uint32
}

// IsZero reports whether the index was never assigned.
func (i Index) IsZero() bool { return i.Gen == 0 }

func (i Index) String() string {
	return fmt.Sprintf("%d@%d", i.Slot, i.Gen)
}

type slot[T any] struct {
	gen   uint32
	alive bool
	val   T
}

// Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32 // free-list (stack)
	live  int
}

func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{
		slots: make([]slot[T], 0, capacity),
	}
}

// Alloc stores v and returns its index.
// Pointers returned by Get are invalidated by Alloc.
func (a *Arena[T]) Alloc(v T) Index {
	var idx uint32
	if n := len(a.free); n > 0 {
		// reuse slot
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		// grow array
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}

	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.alive = true
	s.val = v
	a.live++

	return Index{Slot: idx, Gen: s.gen}
}

// Get returns a pointer to the live value at i.
func (a *Arena[T]) Get(i Index) (*T, bool) {
	if i.Gen == 0 || int(i.Slot) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[i.Slot]
	if !s.alive || s.gen != i.Gen {
		return nil, false
	}
	return &s.val, true
}

// Contains reports whether i still resolves.
func (a *Arena[T]) Contains(i Index) bool {
	_, ok := a.Get(i)
	return ok
}

// Free releases the slot. It returns false if i was already stale.
func (a *Arena[T]) Free(i Index) bool {
	if !a.Contains(i) {
		return false
	}

	s := &a.slots[i.Slot]
	var zero T
	s.val = zero
	s.alive = false
	a.free = append(a.free, i.Slot)
	a.live--
	return true
}

// Len is the number of live slots.
func (a *Arena[T]) Len() int { return a.live }

// Cap is the number of slots ever allocated, live or free.
func (a *Arena[T]) Cap() int { return len(a.slots) }
