package fdt

import (
	"testing"

	"github.com/fdtkit/fdtkit/internal/format"
)

// --- blob builders (keep tests readable) ---

type testProp struct {
	name  string
	value []byte
}

type testNode struct {
	name     string
	props    []testProp
	children []testNode
}

type blobOpts struct {
	version  uint32 // default: format.CurrentVersion
	lastComp uint32 // default: format.CompatVersion
	bootCPU  uint32
	reserves []ReserveEntry
	root     *testNode // default: bare unnamed root
	// gap inserts opaque zero bytes between the fixed header and the first
	// section, moving every section offset up by gap. Exercises prefix
	// preservation for headers longer than the fields we know.
	gap int
	// extraTail appends slack bytes past the declared totalsize.
	extraTail int
	// mutate edits the finished blob (for negative tests).
	mutate func(b []byte)
}

func appendU32(b []byte, v uint32) []byte {
	var scratch [4]byte
	format.PutU32(scratch[:], 0, v)
	return append(b, scratch[:]...)
}

// pad4 appends b and zero bytes up to the next token boundary.
func pad4(dst, b []byte) []byte {
	dst = append(dst, b...)
	for len(dst)%format.TokenAlignment != 0 {
		dst = append(dst, 0)
	}
	return dst
}

// makeBlob assembles a flattened blob in the canonical section order
// (header prefix, reserve map, structure block, end token, strings block)
// with property names in encounter order and no deduplication. That is the
// exact layout Flatten produces, so blobs built here can be compared
// byte-for-byte against re-flattened output.
func makeBlob(t *testing.T, o blobOpts) []byte {
	t.Helper()

	if o.version == 0 {
		o.version = format.CurrentVersion
	}
	if o.lastComp == 0 {
		o.lastComp = format.CompatVersion
	}
	if o.root == nil {
		o.root = &testNode{}
	}

	var structBuf, stringsBuf []byte
	var emit func(n *testNode)
	emit = func(n *testNode) {
		structBuf = appendU32(structBuf, format.TokenBeginNode)
		structBuf = pad4(structBuf, append([]byte(n.name), 0))
		for _, p := range n.props {
			structBuf = appendU32(structBuf, format.TokenProp)
			structBuf = appendU32(structBuf, uint32(len(p.value)))
			structBuf = appendU32(structBuf, uint32(len(stringsBuf)))
			structBuf = pad4(structBuf, p.value)
			stringsBuf = append(stringsBuf, p.name...)
			stringsBuf = append(stringsBuf, 0)
		}
		for i := range n.children {
			emit(&n.children[i])
		}
		structBuf = appendU32(structBuf, format.TokenEndNode)
	}
	emit(o.root)

	prefix := format.HeaderSize + o.gap
	resvLen := (len(o.reserves) + 1) * format.ReserveEntrySize
	structOff := prefix + resvLen
	stringsOff := structOff + len(structBuf) + format.TokenSize
	total := stringsOff + len(stringsBuf)

	blob := make([]byte, total+o.extraTail)
	format.PutU32(blob, format.MagicOffset, format.Magic)
	format.PutU32(blob, format.TotalSizeOffset, uint32(total))
	format.PutU32(blob, format.StructOffset, uint32(structOff))
	format.PutU32(blob, format.StringsOffset, uint32(stringsOff))
	format.PutU32(blob, format.ReserveMapOffset, uint32(prefix))
	format.PutU32(blob, format.VersionOffset, o.version)
	format.PutU32(blob, format.CompatVersionOffset, o.lastComp)
	format.PutU32(blob, format.BootCPUOffset, o.bootCPU)
	format.PutU32(blob, format.StringsSizeOffset, uint32(len(stringsBuf)))
	format.PutU32(blob, format.StructSizeOffset, uint32(len(structBuf)))

	cur := prefix
	for _, r := range o.reserves {
		format.PutU64(blob, cur+format.ReserveStartOffset, r.Start)
		format.PutU64(blob, cur+format.ReserveSizeOffset, r.Size)
		cur += format.ReserveEntrySize
	}
	// terminator pair stays zero

	copy(blob[structOff:], structBuf)
	format.PutU32(blob, structOff+len(structBuf), format.TokenEnd)
	copy(blob[stringsOff:], stringsBuf)

	if o.mutate != nil {
		o.mutate(blob)
	}
	return blob
}

func u32bytes(v uint32) []byte {
	b := make([]byte, 4)
	format.PutU32(b, 0, v)
	return b
}

// bootRoot is a small but realistic firmware tree used across tests.
func bootRoot() *testNode {
	return &testNode{
		props: []testProp{
			{"#address-cells", u32bytes(2)},
			{"#size-cells", u32bytes(1)},
			{"model", []byte("acme,blaster\x00")},
			{"compatible", []byte("acme,blaster\x00acme,virt\x00")},
		},
		children: []testNode{
			{
				name: "chosen",
				props: []testProp{
					{"bootargs", []byte("console=ttyS0\x00")},
				},
			},
			{
				name: "memory@80000000",
				props: []testProp{
					{"device_type", []byte("memory\x00")},
					{"reg", []byte{
						0x00, 0x00, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00,
						0x40, 0x00, 0x00, 0x00,
					}},
				},
			},
			{
				name: "soc",
				props: []testProp{
					{"#address-cells", u32bytes(1)},
					{"#size-cells", u32bytes(1)},
					{"ranges", nil},
				},
				children: []testNode{
					{
						name: "uart@10000000",
						props: []testProp{
							{"compatible", []byte("ns16550a\x00")},
							{"reg", []byte{
								0x10, 0x00, 0x00, 0x00,
								0x00, 0x00, 0x01, 0x00,
							}},
						},
					},
				},
			},
		},
	}
}
