// Package snapshot publishes per-tick entity lists from a single writer to concurrent readers
package snapshot

import (
	"sync/atomic"
)

// Snapshot is one published, read-only generation of items
type Snapshot[T any] struct {
	Items []T
	Seq   uint64 // Monotonic publish sequence, 0 = never published

	readers atomic.Int32
}

// Len returns item count, safe on nil
func (s *Snapshot[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Buffer is a double-buffered snapshot with atomic publish
// Writer: exactly one goroutine calls Refill
// Readers: Acquire/Release pin a generation so it is never refilled while read
// Steady state reuses two backing arrays; a pinned stale buffer is replaced, not reused
type Buffer[T any] struct {
	slots     [2]*Snapshot[T]
	next      int // Slot the writer fills next
	published atomic.Pointer[Snapshot[T]]
	seq       uint64
	replaced  atomic.Int64
}

// NewBuffer creates a buffer with capacity reserved in both slots
func NewBuffer[T any](capacity int) *Buffer[T] {
	b := &Buffer[T]{}
	for i := range b.slots {
		b.slots[i] = &Snapshot[T]{Items: make([]T, 0, capacity)}
	}
	b.published.Store(&Snapshot[T]{})
	return b
}

// Refill clears the inactive slot, lets fill append into it, then publishes it
// fill receives an empty slice with reserved capacity and returns the filled slice
func (b *Buffer[T]) Refill(fill func(dst []T) []T) *Snapshot[T] {
	s := b.slots[b.next]
	if s.readers.Load() > 0 {
		// A reader still holds this generation from before the last publish
		s = &Snapshot[T]{Items: make([]T, 0, cap(s.Items))}
		b.slots[b.next] = s
		b.replaced.Add(1)
	}

	clear(s.Items)
	s.Items = fill(s.Items[:0])
	b.seq++
	s.Seq = b.seq

	b.published.Store(s)
	b.next ^= 1
	return s
}

// Acquire pins and returns the current snapshot; pair with Release
func (b *Buffer[T]) Acquire() *Snapshot[T] {
	for {
		s := b.published.Load()
		s.readers.Add(1)
		if b.published.Load() == s {
			return s
		}
		// Superseded between load and pin; the writer may already be refilling it
		s.readers.Add(-1)
	}
}

// Release unpins a snapshot obtained from Acquire
func (b *Buffer[T]) Release(s *Snapshot[T]) {
	if s != nil {
		s.readers.Add(-1)
	}
}

// Current returns the published snapshot without pinning
// Only safe on the writer goroutine
func (b *Buffer[T]) Current() *Snapshot[T] {
	return b.published.Load()
}

// Reset publishes an empty generation, keeping reserved storage
// Writer goroutine only
func (b *Buffer[T]) Reset() {
	b.Refill(func(dst []T) []T { return dst })
}

// Replaced counts slots reallocated because a reader still pinned them
func (b *Buffer[T]) Replaced() int64 {
	return b.replaced.Load()
}
