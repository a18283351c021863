package event

import (
	"sync/atomic"

	"github.com/DaxxTrias/ProximityAlert/world"
)

const (
	// QueueSize is the fixed capacity of the ingestion ring, a power of two
	QueueSize = 1024
	queueMask = QueueSize - 1
)

// EntityQueue is a lock-free MPSC ring of newly appeared entity handles
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Drain/Reset: single consumer (tick loop)
//   - Each slot carries the stamp of its write index plus one; 0 while a write is in flight
//
// Overflow: oldest pending handles are overwritten and counted as dropped
type EntityQueue struct {
	slots   [QueueSize]atomic.Uint64
	stamps  [QueueSize]atomic.Uint64
	head    atomic.Uint64 // Read index
	tail    atomic.Uint64 // Write index
	dropped atomic.Int64
}

// NewEntityQueue creates an empty queue
func NewEntityQueue() *EntityQueue {
	return &EntityQueue{}
}

// Push appends a handle. O(1), never blocks
func (q *EntityQueue) Push(id world.ID) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & queueMask

			q.stamps[idx].Store(0) // Readers of the previous lap see the slot as busy
			q.slots[idx].Store(uint64(id))
			q.stamps[idx].Store(nextTail) // MUST be after write

			// Advance head past overwritten handles
			currentHead := q.head.Load()
			if nextTail-currentHead > QueueSize {
				if q.head.CompareAndSwap(currentHead, nextTail-QueueSize) {
					q.dropped.Add(int64(nextTail - QueueSize - currentHead))
				}
			}
			return
		}
	}
}

// DrainInto appends all pending handles to dst in FIFO order and returns it
// Reusing dst across ticks keeps draining allocation-free
func (q *EntityQueue) DrainInto(dst []world.ID) []world.ID {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()
		if currentTail <= currentHead {
			return dst
		}

		from := currentHead
		if currentTail-from > QueueSize {
			from = currentTail - QueueSize
		}

		start := len(dst)
		var next uint64
		dst, next = q.collect(dst, from, currentTail)
		if q.head.CompareAndSwap(currentHead, next) {
			if from > currentHead {
				q.dropped.Add(int64(from - currentHead))
			}
			return dst
		}
		// Producer overflow moved head; slots are untouched so the retry sees them again
		dst = dst[:start]
	}
}

// collect reads published handles in [from, to) and returns the index after the last one read
// Stops at a slot whose stamp does not match its index: in flight or already overwritten
func (q *EntityQueue) collect(dst []world.ID, from, to uint64) ([]world.ID, uint64) {
	i := from
	for ; i < to; i++ {
		idx := i & queueMask
		stamp := q.stamps[idx].Load()
		if stamp != i+1 {
			break
		}
		id := q.slots[idx].Load()
		if q.stamps[idx].Load() != stamp {
			break
		}
		dst = append(dst, world.ID(id))
	}
	return dst, i
}

// Reset discards pending handles, including writes still in flight. Consumer side only
func (q *EntityQueue) Reset() {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if tail <= head || q.head.CompareAndSwap(head, tail) {
			return
		}
	}
}

// Len returns approximate pending count
func (q *EntityQueue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > QueueSize {
		return QueueSize
	}
	return diff
}

// Dropped returns the number of handles overwritten before being drained
func (q *EntityQueue) Dropped() int64 {
	return q.dropped.Load()
}
