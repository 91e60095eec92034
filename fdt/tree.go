package fdt

import (
	"github.com/fdtkit/fdtkit/fdt/pool"
)

// Default pool capacities, sized for a realistic worst-case firmware tree.
// Records past these counts fall back to the heap transparently.
const (
	defaultNodeRecords = 1000
	defaultPropRecords = 5000
)

// Property is one named binary value attached to a node. The value length
// is authoritative; zero-length values are legal.
type Property struct {
	Name  string
	Value []byte
}

// Node is one vertex of an unflattened device tree. Properties and Children
// preserve insertion order; that order is observable in flattened output.
//
// A node's name is never empty except possibly the root's.
type Node struct {
	Name       string
	Properties []*Property
	Children   []*Node

	// arena links records created through this node back to the owning
	// tree's pools. Nil for hand-built nodes; allocation then comes from
	// the heap, which callers cannot tell apart.
	arena *arena
}

// ReserveEntry is one physical memory range withheld from the kernel.
// Size is never zero in an unflattened tree; on the wire a zero size
// terminates the reservation list.
type ReserveEntry struct {
	Start uint64
	Size  uint64
}

// Tree is an unflattened device tree: the mutable in-memory form of a blob
// between unflattening and the final flatten for kernel handoff.
type Tree struct {
	// headerPrefix preserves every blob byte before the earliest known
	// section, so header fields this package does not understand survive
	// a re-flatten byte-for-byte.
	headerPrefix []byte

	ReserveEntries []ReserveEntry
	Root           *Node

	arena *arena
}

// arena bundles the tree's fixed-capacity record pools.
type arena struct {
	nodes *pool.Pool[Node]
	props *pool.Pool[Property]
}

func newArena(nodeCap, propCap int) *arena {
	return &arena{
		nodes: pool.New[Node](nodeCap),
		props: pool.New[Property](propCap),
	}
}

func (a *arena) newNode() *Node {
	n := a.nodes.Get()
	n.arena = a
	return n
}

func (a *arena) newProp() *Property {
	return a.props.Get()
}

// newChild returns a fresh node record tied to the same arena as n when n
// belongs to a tree, or a heap record otherwise.
func (n *Node) newChild() *Node {
	if n.arena != nil {
		return n.arena.newNode()
	}
	return new(Node)
}

// newProp returns a fresh property record, pooled when n belongs to a tree.
func (n *Node) newProp() *Property {
	if n.arena != nil {
		return n.arena.newProp()
	}
	return new(Property)
}

// New creates an empty tree with a synthesized current-version header and
// an unnamed root node. Trees built this way flatten and round-trip exactly
// like trees unflattened from firmware blobs.
func New() *Tree {
	t := &Tree{
		headerPrefix: newHeaderPrefix(),
		arena:        newArena(defaultNodeRecords, defaultPropRecords),
	}
	t.Root = t.arena.newNode()
	return t
}

// HeaderPrefix returns the preserved header bytes that Flatten copies
// verbatim to the front of the output. Callers must treat it as read-only.
func (t *Tree) HeaderPrefix() []byte {
	return t.headerPrefix
}
