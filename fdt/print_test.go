package fdt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintNode_Layout(t *testing.T) {
	tree, err := Unflatten(makeBlob(t, blobOpts{root: &testNode{
		props: []testProp{{"model", []byte("acme\x00")}},
		children: []testNode{
			{name: "chosen", props: []testProp{{"bootargs", []byte("quiet\x00")}}},
		},
	}}))
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintNode(&buf, tree.Root)

	want := strings.Join([]string{
		`name = `,
		`  prop "model" (5 bytes)`,
		`    61 63 6d 65 00 `,
		`  name = chosen`,
		`    prop "bootargs" (6 bytes)`,
		`      71 75 69 65 74 00 `,
		``,
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestPrintNode_TruncatesLongValues(t *testing.T) {
	value := make([]byte, 40)
	for i := range value {
		value[i] = byte(i)
	}

	tree := New()
	tree.Root.Name = "root"
	tree.Root.AddBinProp("blob", value)

	var buf bytes.Buffer
	PrintNode(&buf, tree.Root)

	out := buf.String()
	assert.Contains(t, out, `prop "blob" (40 bytes)`)
	// 25 bytes of hex, then an ellipsis instead of the rest.
	assert.Contains(t, out, "00 01 02 03 04 05 06 07 08 09 0a 0b 0c 0d 0e 0f 10 11 12 13 14 15 16 17 18 ...")
	assert.NotContains(t, out, "19")
}

func TestPrintFlatNode_MatchesSkipNode(t *testing.T) {
	blob := makeBlob(t, blobOpts{root: bootRoot()})

	h, err := ParseHeader(blob)
	require.NoError(t, err)

	var buf bytes.Buffer
	consumed := PrintFlatNode(&buf, blob, h.StructOffset())
	require.Equal(t, SkipNode(blob, h.StructOffset()), consumed)

	out := buf.String()
	assert.Contains(t, out, "name = chosen")
	assert.Contains(t, out, "name = uart@10000000")
	assert.Contains(t, out, `prop "bootargs" (14 bytes)`)
}

func TestPrintFlatNode_WrongToken(t *testing.T) {
	blob := makeBlob(t, blobOpts{})

	var buf bytes.Buffer
	// The header is not a begin-node token; nothing prints.
	require.Zero(t, PrintFlatNode(&buf, blob, 0))
	require.Zero(t, buf.Len())
}
