package fdt

import (
	"github.com/fdtkit/fdtkit/internal/format"
)

// WriteBigEndian stores the low length bytes of v into dst big-endian,
// least-significant byte last. Lengths from 1 to 8 cover every cell-size
// convention; a longer length zero-fills the leading bytes.
func WriteBigEndian(dst []byte, v uint64, length int) {
	for i := length - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}

// AddBinProp sets the node's named property to value. An existing property
// of that name has its value replaced in place; otherwise a new property
// record is inserted at the front of the property list, not appended.
// Property order is observable in flattened output, so the front insertion
// is part of the contract.
//
// The node keeps a reference to value, not a copy.
func (n *Node) AddBinProp(name string, value []byte) {
	for _, p := range n.Properties {
		if p.Name == name {
			p.Value = value
			return
		}
	}

	p := n.newProp()
	p.Name = name
	p.Value = value

	n.Properties = append(n.Properties, nil)
	copy(n.Properties[1:], n.Properties)
	n.Properties[0] = p
}

// AddStringProp sets the named property to s encoded with a terminating
// NUL, the wire convention for string properties.
func (n *Node) AddStringProp(name, s string) {
	value := make([]byte, len(s)+1)
	copy(value, s)
	n.AddBinProp(name, value)
}

// AddU32Prop sets the named property to a big-endian 32-bit value.
func (n *Node) AddU32Prop(name string, v uint32) {
	value := make([]byte, 4)
	format.PutU32(value, 0, v)
	n.AddBinProp(name, value)
}

// AddU64Prop sets the named property to a big-endian 64-bit value.
func (n *Node) AddU64Prop(name string, v uint64) {
	value := make([]byte, 8)
	format.PutU64(value, 0, v)
	n.AddBinProp(name, value)
}

// AddRegProp sets the node's "reg" property from parallel address and size
// lists. Each address occupies addrCells big-endian 32-bit words and each
// size sizeCells words, concatenated pairwise into one flat value. addrs
// and sizes must have equal length.
func (n *Node) AddRegProp(addrs, sizes []uint64, addrCells, sizeCells uint32) {
	addrBytes := int(addrCells) * 4
	sizeBytes := int(sizeCells) * 4

	value := make([]byte, (addrBytes+sizeBytes)*len(addrs))
	cur := value
	for i := range addrs {
		WriteBigEndian(cur, addrs[i], addrBytes)
		cur = cur[addrBytes:]
		WriteBigEndian(cur, sizes[i], sizeBytes)
		cur = cur[sizeBytes:]
	}

	n.AddBinProp("reg", value)
}
