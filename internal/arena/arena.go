// Package arena provides slot-stable allocation with opaque uint32 ids.
//
// Ids are an internal integrity mechanism: indexing a reserved-but-unfilled
// or freed slot is a programming defect and panics instead of returning a
// zero value. A freed id is never pointed at new content within a session.
package arena

import (
	"fmt"

	"fortio.org/safecast"
)

type slotState uint8

const (
	slotFree slotState = iota
	slotReserved
	slotLive
)

type slot[T any] struct {
	value T
	state slotState
}

// Arena stores values of one kind in a compact slice and hands out
// stable indices. The zero index is a valid slot (builtins live there),
// so absence is expressed by the caller, not by a sentinel id.
type Arena[T any] struct {
	slots []slot[T]
	live  int
}

// New creates an arena with an optional capacity hint.
func New[T any](capacity uint32) *Arena[T] {
	return &Arena[T]{slots: make([]slot[T], 0, capacity)}
}

func (a *Arena[T]) nextID() uint32 {
	id, err := safecast.Conv[uint32](len(a.slots))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return id
}

// Alloc stores a value and returns its id.
func (a *Arena[T]) Alloc(value T) uint32 {
	id := a.nextID()
	a.slots = append(a.slots, slot[T]{value: value, state: slotLive})
	a.live++
	return id
}

// Reserve allocates an id whose content will be supplied later with Fill.
// Supports forward references during multi-step file registration.
func (a *Arena[T]) Reserve() uint32 {
	id := a.nextID()
	a.slots = append(a.slots, slot[T]{state: slotReserved})
	return id
}

// Fill populates a previously reserved slot.
func (a *Arena[T]) Fill(id uint32, value T) {
	s := a.slot(id)
	if s.state != slotReserved {
		panic(fmt.Errorf("arena: Fill on id %d in state %d, want reserved", id, s.state))
	}
	s.value = value
	s.state = slotLive
	a.live++
}

// Revert puts a live slot back into the reserved state, dropping its value.
// Used when a file is re-registered under its existing id.
func (a *Arena[T]) Revert(id uint32) {
	s := a.slot(id)
	if s.state != slotLive {
		panic(fmt.Errorf("arena: Revert on id %d in state %d, want live", id, s.state))
	}
	var zero T
	s.value = zero
	s.state = slotReserved
	a.live--
}

// Free invalidates a slot. The id is never reused within the session.
func (a *Arena[T]) Free(id uint32) {
	s := a.slot(id)
	if s.state != slotLive {
		panic(fmt.Errorf("arena: Free on id %d in state %d, want live", id, s.state))
	}
	var zero T
	s.value = zero
	s.state = slotFree
	a.live--
}

// Get returns a pointer to the live value at id.
func (a *Arena[T]) Get(id uint32) *T {
	s := a.slot(id)
	if s.state != slotLive {
		panic(fmt.Errorf("arena: Get on id %d in state %d, want live", id, s.state))
	}
	return &s.value
}

// IsLive reports whether id currently holds content.
func (a *Arena[T]) IsLive(id uint32) bool {
	return int(id) < len(a.slots) && a.slots[id].state == slotLive
}

func (a *Arena[T]) slot(id uint32) *slot[T] {
	if int(id) >= len(a.slots) {
		panic(fmt.Errorf("arena: id %d out of range (%d slots)", id, len(a.slots)))
	}
	return &a.slots[id]
}

// Len reports the number of live slots.
func (a *Arena[T]) Len() int { return a.live }

// For iterates live slots in id order.
func (a *Arena[T]) For(fn func(id uint32, value *T)) {
	for i := range a.slots {
		if a.slots[i].state == slotLive {
			fn(uint32(i), &a.slots[i].value)
		}
	}
}
