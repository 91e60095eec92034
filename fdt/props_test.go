package fdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBigEndian(t *testing.T) {
	type tc struct {
		name   string
		v      uint64
		length int
		want   []byte
	}

	tests := []tc{
		{"one-byte", 0xAB, 1, []byte{0xAB}},
		{"two-bytes", 0x1234, 2, []byte{0x12, 0x34}},
		{"four-bytes", 0x8000_0000, 4, []byte{0x80, 0x00, 0x00, 0x00}},
		{"eight-bytes", 0x0102_0304_0506_0708, 8, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"truncates-high-bytes", 0x1234_5678, 2, []byte{0x56, 0x78}},
		{"wider-than-value-zero-fills", 0xFFFF, 10, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, tt.length)
			WriteBigEndian(dst, tt.v, tt.length)
			require.Equal(t, tt.want, dst)
		})
	}
}

func TestAddBinProp_InsertsAtFront(t *testing.T) {
	tree := unflattenBootTree(t)
	chosen := tree.FindNode([]string{"chosen"}, nil, nil, false)
	require.NotNil(t, chosen)

	chosen.AddBinProp("linux,initrd-start", []byte{0, 0, 0, 1})

	// New properties go to the front; the existing ones keep their order.
	require.Len(t, chosen.Properties, 2)
	assert.Equal(t, "linux,initrd-start", chosen.Properties[0].Name)
	assert.Equal(t, "bootargs", chosen.Properties[1].Name)
}

func TestAddBinProp_UpsertKeepsPosition(t *testing.T) {
	tree := unflattenBootTree(t)
	root := tree.Root
	require.Equal(t, "model", root.Properties[2].Name)

	replacement := []byte("acme,blaster-rev2\x00")
	root.AddBinProp("model", replacement)

	// Same record slot, new value, no growth.
	require.Len(t, root.Properties, 4)
	assert.Equal(t, "model", root.Properties[2].Name)
	assert.Equal(t, replacement, root.Properties[2].Value)
}

func TestAddBinProp_KeepsReferenceNotCopy(t *testing.T) {
	tree := New()
	value := []byte{1, 2, 3}
	tree.Root.AddBinProp("raw", value)

	value[0] = 9
	assert.Equal(t, []byte{9, 2, 3}, tree.Root.FindBinProp("raw"))
}

func TestAddStringProp_AppendsNUL(t *testing.T) {
	tree := New()
	tree.Root.AddStringProp("model", "acme,blaster")

	assert.Equal(t, []byte("acme,blaster\x00"), tree.Root.FindBinProp("model"))
	assert.Equal(t, "acme,blaster", tree.Root.FindStringProp("model"))
}

func TestAddU32Prop_BigEndian(t *testing.T) {
	tree := New()
	tree.Root.AddU32Prop("clock-frequency", 0x0001_C200)

	assert.Equal(t, []byte{0x00, 0x01, 0xC2, 0x00}, tree.Root.FindBinProp("clock-frequency"))
}

func TestAddU64Prop_BigEndian(t *testing.T) {
	tree := New()
	tree.Root.AddU64Prop("linux,initrd-start", 0x1_2345_6789)

	assert.Equal(t,
		[]byte{0x00, 0x00, 0x00, 0x01, 0x23, 0x45, 0x67, 0x89},
		tree.Root.FindBinProp("linux,initrd-start"))
}

func TestAddRegProp_CellEncoding(t *testing.T) {
	tree := New()
	mem := tree.FindNode([]string{"memory"}, nil, nil, true)
	require.NotNil(t, mem)

	mem.AddRegProp([]uint64{0x1000}, []uint64{0x200}, 2, 1)

	want := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00, // address, 2 cells
		0x00, 0x00, 0x02, 0x00, // size, 1 cell
	}
	require.Equal(t, want, mem.FindBinProp("reg"))
}

func TestAddRegProp_MultipleRanges(t *testing.T) {
	tree := New()
	dev := tree.FindNode([]string{"dma@0"}, nil, nil, true)

	dev.AddRegProp(
		[]uint64{0x4000_0000, 0x9000_0000},
		[]uint64{0x1000, 0x2000},
		1, 1,
	)

	want := []byte{
		0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00,
		0x90, 0x00, 0x00, 0x00, 0x00, 0x00, 0x20, 0x00,
	}
	require.Equal(t, want, dev.FindBinProp("reg"))
}

func TestAddRegProp_ReplacesExisting(t *testing.T) {
	tree := unflattenBootTree(t)
	mem := tree.FindNode([]string{"memory@80000000"}, nil, nil, false)
	require.NotNil(t, mem)
	require.Equal(t, "device_type", mem.Properties[0].Name)

	mem.AddRegProp([]uint64{0x8000_0000}, []uint64{0x8000_0000}, 2, 1)

	// Upsert: the existing "reg" slot is rewritten in place.
	require.Len(t, mem.Properties, 2)
	require.Equal(t, "reg", mem.Properties[1].Name)
	require.Equal(t, []byte{
		0x00, 0x00, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00,
		0x80, 0x00, 0x00, 0x00,
	}, mem.Properties[1].Value)
}
