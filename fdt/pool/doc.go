// Package pool provides fixed-capacity record pools for device tree nodes
// and properties.
//
// # Overview
//
// Unflattening a firmware device tree allocates one record per node and per
// property. A naive implementation performs thousands of small heap
// allocations for a realistic tree; this package instead hands out records
// from a single backing array sized for the worst case, falling back to
// individual heap allocations only once the array is exhausted.
//
// # Usage Example
//
//	nodes := pool.New[Node](1000)
//	n := nodes.Get() // zeroed *Node, from the backing array
//
// Exhaustion is transparent: Get never fails, it simply starts returning
// heap-allocated records. Callers cannot tell the two sources apart, which
// is the point.
//
// # Thread Safety
//
// Pool instances are not thread-safe. A pool belongs to exactly one tree
// and is consumed monotonically; there is no reclaim.
package pool
