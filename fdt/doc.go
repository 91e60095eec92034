// Package fdt converts flattened device tree blobs to and from an in-memory
// tree that boot code can query and mutate before kernel handoff.
//
// # Overview
//
// A flattened device tree (FDT) is the big-endian, pointer-free wire format
// firmware uses to describe hardware to an operating system kernel. This
// package implements the full round trip: token-level reading of a trusted
// blob, unflattening into linked Node/Property records, navigation and
// mutation of the tree, and exact re-serialization into a caller-supplied
// buffer.
//
// # Key Types
//
// The main types provided by this package are:
//
//   - Tree: An unflattened device tree, owning the root node, the memory
//     reservation list, and a verbatim copy of the blob's header prefix
//   - Node: One tree vertex with ordered properties and children
//   - Property: One named binary value attached to a node
//   - ReserveEntry: One physical memory range withheld from the kernel
//   - Header: A zero-copy view over a blob's fixed header fields
//   - FixupRegistry: Ordered board-specific mutators run before flattening
//
// # Blob Structure
//
// A flattened device tree blob consists of:
//
//	[Header] [Memory Reservation Block] [Structure Block] [Strings Block]
//
// The structure block is a stream of 4-byte tokens (begin-node, property,
// end-node, end), with node names inlined and property names referenced by
// offset into the shared strings block.
//
// # Typical Boot Flow
//
//	tree, err := fdt.Unflatten(blob)
//	if err != nil {
//	    return err
//	}
//	if err := fixups.Apply(tree); err != nil {
//	    return err
//	}
//	buf := make([]byte, tree.FlatSize())
//	if err := tree.Flatten(buf); err != nil {
//	    return err
//	}
//	// hand buf to the kernel
//
// # Trust Model
//
// Unflatten validates the header; past that the structure block is trusted,
// matching the firmware environment where blobs arrive signature-checked.
// Token readers report "not the expected token" by returning zero consumed
// bytes rather than an error, and never bounds-check against the buffer.
//
// # Thread Safety
//
// A Tree and its nodes are not thread-safe. The intended lifecycle is one
// tree per boot attempt, mutated by exactly one logical thread of control.
//
// # Related Packages
//
//   - github.com/fdtkit/fdtkit/fdt/pool: Fixed-capacity node/property pools
//   - github.com/fdtkit/fdtkit/fdt/printer: DTS-style tree rendering
//   - github.com/fdtkit/fdtkit/fit: FIT boot image containers (FDT-based)
//   - github.com/fdtkit/fdtkit/boot: Kernel handoff helpers and fixups
package fdt
