package fdt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fdtkit/fdtkit/internal/format"
)

func TestUnflatten_TreeShape(t *testing.T) {
	blob := makeBlob(t, blobOpts{root: bootRoot()})

	tree, err := Unflatten(blob)
	require.NoError(t, err)
	require.NotNil(t, tree.Root)

	root := tree.Root
	require.Equal(t, "", root.Name)
	require.Len(t, root.Properties, 4)
	require.Equal(t, "#address-cells", root.Properties[0].Name)
	require.Equal(t, "model", root.Properties[2].Name)
	require.Equal(t, []byte("acme,blaster\x00"), root.Properties[2].Value)

	require.Len(t, root.Children, 3)
	require.Equal(t, "chosen", root.Children[0].Name)
	require.Equal(t, "memory@80000000", root.Children[1].Name)
	require.Equal(t, "soc", root.Children[2].Name)

	soc := root.Children[2]
	require.Len(t, soc.Children, 1)
	require.Equal(t, "uart@10000000", soc.Children[0].Name)
	require.Equal(t, []byte("ns16550a\x00"), soc.Children[0].Properties[0].Value)
}

func TestUnflatten_ReserveEntries(t *testing.T) {
	entries := []ReserveEntry{
		{Start: 0x8000_0000, Size: 0x10_0000},
		{Start: 0xFEDC_BA98_7654_3210, Size: 0x2000},
	}
	blob := makeBlob(t, blobOpts{reserves: entries})

	tree, err := Unflatten(blob)
	require.NoError(t, err)
	// The zero-size terminator is wire framing, not an entry.
	require.Equal(t, entries, tree.ReserveEntries)
}

func TestUnflatten_NoReserveEntries(t *testing.T) {
	tree, err := Unflatten(makeBlob(t, blobOpts{}))
	require.NoError(t, err)
	require.Empty(t, tree.ReserveEntries)
}

func TestUnflatten_PreservesHeaderPrefix(t *testing.T) {
	blob := makeBlob(t, blobOpts{bootCPU: 2, gap: 32, mutate: func(b []byte) {
		// Unknown content between the header fields and the first section
		// must survive in the prefix.
		copy(b[format.HeaderSize:], "opaque-vendor-bytes")
	}})

	tree, err := Unflatten(blob)
	require.NoError(t, err)

	prefix := tree.HeaderPrefix()
	require.Len(t, prefix, format.HeaderSize+32)
	require.Equal(t, blob[:format.HeaderSize+32], prefix)
	require.Equal(t, uint32(2), format.ReadU32(prefix, format.BootCPUOffset))

	// The prefix is a copy, not an alias of the blob.
	blob[format.BootCPUOffset] = 0xFF
	require.Equal(t, uint32(2), format.ReadU32(prefix, format.BootCPUOffset))
}

func TestUnflatten_ValuesAliasBlob(t *testing.T) {
	blob := makeBlob(t, blobOpts{root: &testNode{
		props: []testProp{{"serial", []byte("ABC123\x00")}},
	}})

	tree, err := Unflatten(blob)
	require.NoError(t, err)

	p := tree.Root.Properties[0]
	h, err := ParseHeader(blob)
	require.NoError(t, err)

	_, rootConsumed := ReadNodeName(blob, h.StructOffset())
	blob[h.StructOffset()+rootConsumed+format.PropDataOffset] = 'Z'
	require.Equal(t, byte('Z'), p.Value[0])
}

func TestUnflatten_Errors(t *testing.T) {
	type tc struct {
		name    string
		blob    []byte
		wantErr error
	}

	tests := []tc{
		{
			name:    "empty",
			blob:    nil,
			wantErr: ErrTruncated,
		},
		{
			name:    "short",
			blob:    make([]byte, format.HeaderSize/2),
			wantErr: ErrTruncated,
		},
		{
			name: "bad-magic",
			blob: makeBlob(t, blobOpts{mutate: func(b []byte) {
				b[0] = 0
			}}),
			wantErr: ErrBadMagic,
		},
		{
			name: "bad-version",
			blob: makeBlob(t, blobOpts{mutate: func(b []byte) {
				format.PutU32(b, format.VersionOffset, 7)
			}}),
			wantErr: ErrBadVersion,
		},
		{
			name: "totalsize-overruns-blob",
			blob: makeBlob(t, blobOpts{mutate: func(b []byte) {
				format.PutU32(b, format.TotalSizeOffset, uint32(len(b))+64)
			}}),
			wantErr: ErrBadLayout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unflatten(tt.blob)
			require.Error(t, err)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUnflatten_Version16BlobAccepted(t *testing.T) {
	blob := makeBlob(t, blobOpts{version: 16, lastComp: 16})

	tree, err := Unflatten(blob)
	require.NoError(t, err)
	require.NotNil(t, tree.Root)
}
