package pool

// Pool hands out pointers to zeroed records of type T from a fixed-capacity
// backing array, spilling to individual heap allocations once the array is
// exhausted.
//
// Key characteristics:
//   - O(1) allocation: a single bump index into the backing array
//   - Records are zeroed regardless of allocation source
//   - Exhaustion is not an error: overflow records come from the heap
//   - No reclaim: every record lives until the pool itself is dropped
type Pool[T any] struct {
	// backing is allocated once at construction. Slots are handed out at
	// most once and the array starts zeroed, so Get never needs to clear
	// a slot before returning it.
	backing []T
	next    int
	spilled int
}

// New creates a pool backed by a fixed array of capacity records.
// A capacity of zero is legal and sends every Get to the heap.
func New[T any](capacity int) *Pool[T] {
	return &Pool[T]{backing: make([]T, capacity)}
}

// Get returns a pointer to a zeroed record. Records come from the backing
// array until it runs out, then from the heap.
func (p *Pool[T]) Get() *T {
	if p.next < len(p.backing) {
		rec := &p.backing[p.next]
		p.next++
		return rec
	}
	p.spilled++
	return new(T)
}

// Cap returns the fixed capacity of the backing array.
func (p *Pool[T]) Cap() int {
	return len(p.backing)
}

// InUse returns the total number of records handed out, from both sources.
func (p *Pool[T]) InUse() int {
	return p.next + p.spilled
}

// Spilled returns the number of records served from the heap after the
// backing array was exhausted.
func (p *Pool[T]) Spilled() int {
	return p.spilled
}
