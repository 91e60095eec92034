package fdt

import (
	"fmt"

	"github.com/fdtkit/fdtkit/internal/format"
)

// treeSink receives one depth-first traversal of a tree's structure.
// Sizing and emitting implement the same interface and are driven by the
// same walk, so the byte counts the sizer reports and the bytes the emitter
// writes cannot diverge structurally.
type treeSink interface {
	beginNode(name string)
	property(p *Property)
	endNode()
}

// walkTree feeds node to sink: begin token, properties in list order,
// children in list order recursively, end token.
func walkTree(node *Node, sink treeSink) {
	sink.beginNode(node.Name)
	for _, p := range node.Properties {
		sink.property(p)
	}
	for _, child := range node.Children {
		walkTree(child, sink)
	}
	sink.endNode()
}

// measureSink accumulates the structure-block and strings-block byte counts
// a traversal would emit. Property names are counted once per occurrence;
// repeated names across nodes are not deduplicated, matching the emitter.
type measureSink struct {
	structSize  uint32
	stringsSize uint32
}

func (m *measureSink) beginNode(name string) {
	m.structSize += format.TokenSize
	m.structSize += format.Align4U32(uint32(len(name)) + 1)
}

func (m *measureSink) property(p *Property) {
	m.structSize += format.PropHeaderSize
	m.structSize += format.Align4U32(uint32(len(p.Value)))
	m.stringsSize += uint32(len(p.Name)) + 1
}

func (m *measureSink) endNode() {
	m.structSize += format.TokenSize
}

// emitSink writes structure-block tokens and strings-block names into a
// destination buffer through two cursors advanced by one traversal. Name
// offsets stored in property records are relative to stringsBase.
type emitSink struct {
	dst         []byte
	structOff   uint32
	stringsBase uint32
	stringsOff  uint32
}

// zeroFill clears b. Pad bytes are written explicitly so output does not
// depend on the destination buffer's prior contents.
func zeroFill(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func (e *emitSink) beginNode(name string) {
	format.PutU32(e.dst, int(e.structOff), format.TokenBeginNode)
	e.structOff += format.TokenSize

	n := uint32(copy(e.dst[e.structOff:], name))
	padded := format.Align4U32(n + 1)
	zeroFill(e.dst[e.structOff+n : e.structOff+padded])
	e.structOff += padded
}

func (e *emitSink) property(p *Property) {
	size := uint32(len(p.Value))
	format.PutU32(e.dst, int(e.structOff)+format.PropTokenOffset, format.TokenProp)
	format.PutU32(e.dst, int(e.structOff)+format.PropSizeOffset, size)
	format.PutU32(e.dst, int(e.structOff)+format.PropNameOffset, e.stringsOff-e.stringsBase)
	e.structOff += format.PropHeaderSize

	copy(e.dst[e.structOff:], p.Value)
	padded := format.Align4U32(size)
	zeroFill(e.dst[e.structOff+size : e.structOff+padded])
	e.structOff += padded

	// The name goes into the strings block in encounter order. Every
	// occurrence is written anew; the blocks this produces match what the
	// sizer counted.
	n := uint32(copy(e.dst[e.stringsOff:], p.Name))
	e.dst[e.stringsOff+n] = 0
	e.stringsOff += n + 1
}

func (e *emitSink) endNode() {
	format.PutU32(e.dst, int(e.structOff), format.TokenEndNode)
	e.structOff += format.TokenSize
}

// FlatSize returns the exact byte length Flatten produces for the tree:
// the preserved header prefix, the reservation block with its terminator,
// the structure block, the end-of-structure token, and the strings block.
func (t *Tree) FlatSize() uint32 {
	var m measureSink
	if t.Root != nil {
		walkTree(t.Root, &m)
	}

	size := uint32(len(t.headerPrefix))
	size += uint32(len(t.ReserveEntries)+1) * format.ReserveEntrySize
	size += m.structSize
	size += format.TokenSize
	size += m.stringsSize
	return size
}

// Flatten serializes the tree into dst, which must hold at least FlatSize
// bytes. The output layout is: preserved header prefix verbatim, reserve
// entries as big-endian 64-bit pairs plus a zero terminator pair, the
// structure block, an end token, then the strings block. The structure and
// strings offset/size fields and totalsize are rewritten in dst's header;
// every other preserved header byte, the reserve-map offset included, is
// copied through untouched.
//
// Flatten never writes past FlatSize bytes, and the totalsize it records
// equals FlatSize exactly.
func (t *Tree) Flatten(dst []byte) error {
	need := t.FlatSize()
	if len(dst) < int(need) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, need, len(dst))
	}

	cursor := uint32(copy(dst, t.headerPrefix))

	for _, entry := range t.ReserveEntries {
		format.PutU64(dst, int(cursor)+format.ReserveStartOffset, entry.Start)
		format.PutU64(dst, int(cursor)+format.ReserveSizeOffset, entry.Size)
		cursor += format.ReserveEntrySize
	}
	format.PutU64(dst, int(cursor)+format.ReserveStartOffset, 0)
	format.PutU64(dst, int(cursor)+format.ReserveSizeOffset, 0)
	cursor += format.ReserveEntrySize

	var m measureSink
	if t.Root != nil {
		walkTree(t.Root, &m)
	}

	structStart := cursor
	format.PutU32(dst, format.StructOffset, structStart)
	format.PutU32(dst, format.StructSizeOffset, m.structSize)
	cursor += m.structSize

	format.PutU32(dst, int(cursor), format.TokenEnd)
	cursor += format.TokenSize

	stringsStart := cursor
	format.PutU32(dst, format.StringsOffset, stringsStart)
	format.PutU32(dst, format.StringsSizeOffset, m.stringsSize)
	cursor += m.stringsSize

	if t.Root != nil {
		e := emitSink{
			dst:         dst,
			structOff:   structStart,
			stringsBase: stringsStart,
			stringsOff:  stringsStart,
		}
		walkTree(t.Root, &e)
	}

	format.PutU32(dst, format.TotalSizeOffset, cursor)
	return nil
}
