package fdt

import (
	"bytes"

	"github.com/fdtkit/fdtkit/internal/format"
)

// ReadCellProps scans the node's direct properties for "#address-cells" and
// "#size-cells" and stores each value found through the matching non-nil
// pointer. Absent properties leave the pointed-to values untouched; there
// is no defaulting. Later duplicates overwrite earlier ones.
func (n *Node) ReadCellProps(addrCells, sizeCells *uint32) {
	for _, p := range n.Properties {
		if len(p.Value) < 4 {
			continue
		}
		if addrCells != nil && p.Name == "#address-cells" {
			*addrCells = format.ReadU32(p.Value, 0)
		}
		if sizeCells != nil && p.Name == "#size-cells" {
			*sizeCells = format.ReadU32(p.Value, 0)
		}
	}
}

// Find walks one child-name component of path per level starting at n,
// descending into the matching child. Cell-size properties are re-read at
// every level visited, including the final node, so callers tracking
// effective #address-cells/#size-cells along a path see the innermost
// values. An empty path returns n itself.
//
// When a component has no matching child: with create false, Find returns
// nil; with create true, an empty child of that name is created, appended
// to the child list, and the descent continues.
func (n *Node) Find(path []string, addrCells, sizeCells *uint32, create bool) *Node {
	n.ReadCellProps(addrCells, sizeCells)

	if len(path) == 0 {
		return n
	}

	var found *Node
	for _, child := range n.Children {
		if child.Name == path[0] {
			found = child
			break
		}
	}

	if found == nil {
		if !create {
			return nil
		}
		found = n.newChild()
		found.Name = path[0]
		n.Children = append(n.Children, found)
	}

	return found.Find(path[1:], addrCells, sizeCells, create)
}

// FindNode is Find starting at the tree's root. A nil root returns nil.
func (t *Tree) FindNode(path []string, addrCells, sizeCells *uint32, create bool) *Node {
	if t.Root == nil {
		return nil
	}
	return t.Root.Find(path, addrCells, sizeCells, create)
}

// compatWindow reports strncmp-style equality between compat and the first
// len(w) bytes of an entry: equal byte-wise up to a NUL in w that coincides
// with compat's end, or across the entire window.
func compatWindow(compat string, w []byte) bool {
	for i := 0; i < len(w); i++ {
		var c byte
		if i < len(compat) {
			c = compat[i]
		}
		if c != w[i] {
			return false
		}
		if w[i] == 0 {
			return true
		}
	}
	return true
}

// Compatible reports whether the node's "compatible" property holds
// compat as one of its NUL-separated entries. Only the first property of
// that name is consulted. A final entry truncated by the declared property
// size matches when it fills its window as a prefix of compat, mirroring
// the windowed comparison firmware historically used.
func (n *Node) Compatible(compat string) bool {
	for _, p := range n.Properties {
		if p.Name != "compatible" {
			continue
		}
		rest := p.Value
		for len(rest) > 0 {
			if compatWindow(compat, rest) {
				return true
			}
			i := bytes.IndexByte(rest, 0)
			if i < 0 || i+1 >= len(rest) {
				break
			}
			rest = rest[i+1:]
		}
		break
	}
	return false
}

// FindCompat returns the first node in the subtree rooted at n whose
// "compatible" property contains compat as an entry. The search is
// depth-first pre-order: n itself is checked before its children, and
// children are checked in list order.
func (n *Node) FindCompat(compat string) *Node {
	if n.Compatible(compat) {
		return n
	}
	for _, child := range n.Children {
		if found := child.FindCompat(compat); found != nil {
			return found
		}
	}
	return nil
}

// FindNextCompatChild scans n's direct children for the first compatible
// child strictly after the given child. Children up to and including after
// are skipped; a nil after starts the scan at the first child. Use it to
// iterate all compatible children one at a time.
func (n *Node) FindNextCompatChild(after *Node, compat string) *Node {
	ignore := after != nil
	for _, child := range n.Children {
		if ignore {
			if child == after {
				ignore = false
			}
			continue
		}
		if child.Compatible(compat) {
			return child
		}
	}
	return nil
}

// FindPropValue returns the first node in the subtree rooted at n, in
// depth-first pre-order, whose property of the given name has bytes equal
// to value. Only a node's first property of that name is compared; a size
// mismatch rules out that node but the search continues into children.
func (n *Node) FindPropValue(name string, value []byte) *Node {
	for _, p := range n.Properties {
		if p.Name == name {
			if bytes.Equal(p.Value, value) {
				return n
			}
			break
		}
	}
	for _, child := range n.Children {
		if found := child.FindPropValue(name, value); found != nil {
			return found
		}
	}
	return nil
}

// FindBinProp returns the raw bytes of the node's first property with the
// given name, or nil when the node has no such property. No descent into
// children is performed. The slice is not a copy.
func (n *Node) FindBinProp(name string) []byte {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// FindStringProp returns the node's named property decoded as a
// NUL-terminated string, or "" when the property is absent. Bytes past the
// first NUL are ignored.
func (n *Node) FindStringProp(name string) string {
	v := n.FindBinProp(name)
	if v == nil {
		return ""
	}
	return cstring(v)
}
