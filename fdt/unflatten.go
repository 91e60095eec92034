package fdt

import (
	"github.com/fdtkit/fdtkit/internal/format"
)

// Unflatten converts a flattened device tree blob into a Tree. The header
// is validated; past a valid header the structure block is trusted, per the
// firmware model where blobs arrive signature-checked.
//
// Node names and property values in the returned tree alias blob
// (zero-copy). The blob must stay mapped and unmodified for the life of
// the tree; the preserved header prefix alone is copied, so it survives
// the blob.
func Unflatten(blob []byte) (*Tree, error) {
	hdr, err := ParseHeader(blob)
	if err != nil {
		return nil, err
	}
	if err := hdr.Validate(len(blob)); err != nil {
		return nil, err
	}

	t := &Tree{
		arena: newArena(defaultNodeRecords, defaultPropRecords),
	}

	// Everything before the earliest section is opaque header content,
	// preserved byte-for-byte for the re-flatten.
	t.headerPrefix = append([]byte(nil), blob[:hdr.PrefixSize()]...)

	offset := hdr.ReserveMapOffset()
	for {
		entry := ReserveEntry{
			Start: format.ReadU64(blob, int(offset)+format.ReserveStartOffset),
			Size:  format.ReadU64(blob, int(offset)+format.ReserveSizeOffset),
		}
		if entry.Size == 0 {
			// Terminator, not an entry.
			break
		}
		t.ReserveEntries = append(t.ReserveEntries, entry)
		offset += format.ReserveEntrySize
	}

	t.Root, _ = t.unflattenNode(blob, hdr.StructOffset())
	return t, nil
}

// unflattenNode materializes the node whose begin token sits at start,
// returning the node and the bytes consumed through its end token.
// Consumed is zero when start does not hold a begin-node token.
func (t *Tree) unflattenNode(blob []byte, start uint32) (*Node, uint32) {
	offset := start

	name, consumed := ReadNodeName(blob, offset)
	if consumed == 0 {
		return nil, 0
	}
	offset += consumed

	node := t.arena.newNode()
	node.Name = name

	for {
		fprop, n := ReadProperty(blob, offset)
		if n == 0 {
			break
		}
		prop := t.arena.newProp()
		*prop = fprop
		node.Properties = append(node.Properties, prop)
		offset += n
	}

	for {
		child, n := t.unflattenNode(blob, offset)
		if n == 0 {
			break
		}
		node.Children = append(node.Children, child)
		offset += n
	}

	return node, offset - start + format.TokenSize
}
