package snapshot

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRefillPublishes verifies readers see the last filled generation
func TestRefillPublishes(t *testing.T) {
	b := NewBuffer[int](8)
	assert.Equal(t, 0, b.Current().Len())

	b.Refill(func(dst []int) []int { return append(dst, 1, 2, 3) })
	s := b.Acquire()
	assert.Equal(t, []int{1, 2, 3}, s.Items)
	assert.Equal(t, uint64(1), s.Seq)
	b.Release(s)

	b.Refill(func(dst []int) []int { return append(dst, 4) })
	s = b.Acquire()
	assert.Equal(t, []int{4}, s.Items)
	assert.Equal(t, uint64(2), s.Seq)
	b.Release(s)
}

// TestRefillAlternatesSlots verifies the published buffer is never the one being filled
func TestRefillAlternatesSlots(t *testing.T) {
	b := NewBuffer[int](4)
	first := b.Refill(func(dst []int) []int { return append(dst, 1) })

	b.Refill(func(dst []int) []int {
		assert.NotSame(t, &first.Items[:1][0], &dst[:1][0], "filling the published buffer")
		assert.Equal(t, []int{1}, b.Current().Items, "published generation untouched while filling")
		return append(dst, 2)
	})

	third := b.Refill(func(dst []int) []int { return append(dst, 3) })
	assert.Same(t, first, third, "steady state reuses the two slots")
	assert.Equal(t, int64(0), b.Replaced())
}

// TestPinnedSlotNotReused verifies a held generation survives two refills
func TestPinnedSlotNotReused(t *testing.T) {
	b := NewBuffer[int](4)
	b.Refill(func(dst []int) []int { return append(dst, 1) })

	held := b.Acquire()
	b.Refill(func(dst []int) []int { return append(dst, 2) })
	b.Refill(func(dst []int) []int { return append(dst, 3) })

	assert.Equal(t, []int{1}, held.Items, "pinned generation must not be refilled")
	assert.Equal(t, int64(1), b.Replaced())
	b.Release(held)

	assert.Equal(t, []int{3}, b.Current().Items)
}

// TestReset publishes an empty generation
func TestReset(t *testing.T) {
	b := NewBuffer[string](2)
	b.Refill(func(dst []string) []string { return append(dst, "a", "b") })
	b.Reset()
	assert.Equal(t, 0, b.Current().Len())
}

// TestNoAllocationSteadyState verifies refills reuse reserved capacity
func TestNoAllocationSteadyState(t *testing.T) {
	b := NewBuffer[int](16)
	fill := func(dst []int) []int {
		for i := 0; i < 16; i++ {
			dst = append(dst, i)
		}
		return dst
	}
	b.Refill(fill)
	b.Refill(fill)

	allocs := testing.AllocsPerRun(100, func() { b.Refill(fill) })
	assert.Zero(t, allocs)
}

// TestConcurrentReaderSeesWholeGeneration races a writer against readers
// Every generation is filled with copies of its own sequence number
func TestConcurrentReaderSeesWholeGeneration(t *testing.T) {
	b := NewBuffer[uint64](64)
	var stop atomic.Bool
	var wg sync.WaitGroup
	var torn atomic.Int64

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				s := b.Acquire()
				for _, v := range s.Items {
					if v != s.Seq {
						torn.Add(1)
						break
					}
				}
				b.Release(s)
			}
		}()
	}

	for gen := 0; gen < 5000; gen++ {
		next := uint64(gen + 1)
		b.Refill(func(dst []uint64) []uint64 {
			for i := 0; i < 64; i++ {
				dst = append(dst, next)
			}
			return dst
		})
	}
	stop.Store(true)
	wg.Wait()

	require.Zero(t, torn.Load(), "reader observed a partially refilled generation")
}
