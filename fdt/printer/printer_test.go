package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdtkit/fdtkit/fdt"
)

// boardTree builds a small tree with one reservation, one string property
// and one child node holding a cell property.
func boardTree(t *testing.T) *fdt.Tree {
	t.Helper()

	tree := fdt.New()
	tree.ReserveEntries = append(tree.ReserveEntries, fdt.ReserveEntry{
		Start: 0x8000_0000,
		Size:  0x10_0000,
	})
	tree.Root.AddStringProp("compatible", "acme,board")

	uart := tree.FindNode([]string{"uart@10000000"}, nil, nil, true)
	require.NotNil(t, uart)
	uart.AddU32Prop("clock-frequency", 115200)
	return tree
}

func TestPrinter_PrintTree_DTS(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())
	require.NoError(t, p.PrintTree(boardTree(t)))

	want := strings.Join([]string{
		`/dts-v1/;`,
		`/memreserve/ 0x0000000080000000 0x0000000000100000;`,
		``,
		`/ {`,
		`    compatible = "acme,board";`,
		``,
		`    uart@10000000 {`,
		`        clock-frequency = <0x1c200>;`,
		`    };`,
		`};`,
		``,
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestPrinter_PrintNode_DTS_ValueForms(t *testing.T) {
	tree := fdt.New()
	probe := tree.FindNode([]string{"probe"}, nil, nil, true)

	// Added in reverse so the front-insertion order reads top-down.
	probe.AddBinProp("bytes", []byte{0xDE, 0xAD, 0xBE})
	probe.AddBinProp("cells", []byte{0, 0, 0, 1, 0, 0, 0, 2})
	probe.AddStringProp("single", "hello")
	probe.AddBinProp("list", []byte("one\x00two\x00"))
	probe.AddBinProp("empty", nil)

	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())
	require.NoError(t, p.PrintNode(probe))

	want := strings.Join([]string{
		`probe {`,
		`    empty;`,
		`    list = "one", "two";`,
		`    single = "hello";`,
		`    cells = <0x1 0x2>;`,
		`    bytes = [de ad be];`,
		`};`,
		``,
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestPrinter_DTS_TruncatesLongValues(t *testing.T) {
	long := make([]byte, 32)
	for i := range long {
		long[i] = byte(i)
	}

	tree := fdt.New()
	tree.Root.AddBinProp("cells", long)
	tree.Root.AddBinProp("blob", long[:31]) // not a cell multiple

	opts := DefaultOptions()
	opts.MaxValueBytes = 8

	var buf bytes.Buffer
	p := New(&buf, opts)
	require.NoError(t, p.PrintNode(tree.Root))

	out := buf.String()
	assert.Contains(t, out, `blob = [00 01 02 03 04 05 06 07 ...] /* truncated, 31 total bytes */;`)
	assert.Contains(t, out, `cells = <0x10203 0x4050607 ...> /* truncated, 32 total bytes */;`)
}

func TestPrinter_DTS_MaxDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDepth = 1

	var buf bytes.Buffer
	p := New(&buf, opts)
	require.NoError(t, p.PrintTree(boardTree(t)))

	out := buf.String()
	assert.Contains(t, out, "compatible")
	assert.NotContains(t, out, "uart@10000000")
}

func TestPrinter_DTS_ShapeOnly(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowValues = false

	var buf bytes.Buffer
	p := New(&buf, opts)
	require.NoError(t, p.PrintTree(boardTree(t)))

	out := buf.String()
	assert.Contains(t, out, "compatible;")
	assert.NotContains(t, out, "acme,board")
	assert.Contains(t, out, "clock-frequency;")
}

func TestPrinter_PrintTree_JSON(t *testing.T) {
	opts := DefaultOptions()
	opts.Format = FormatJSON

	var buf bytes.Buffer
	p := New(&buf, opts)
	require.NoError(t, p.PrintTree(boardTree(t)))

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))

	reservations := result["reservations"].([]any)
	require.Len(t, reservations, 1)
	require.Equal(t, "0x80000000", reservations[0].(map[string]any)["start"])

	root := result["root"].(map[string]any)
	props := root["properties"].([]any)
	require.Len(t, props, 1)
	compat := props[0].(map[string]any)
	assert.Equal(t, "compatible", compat["name"])
	assert.Equal(t, "acme,board", compat["value"])
	assert.Equal(t, float64(len("acme,board")+1), compat["bytes"])

	children := root["children"].([]any)
	require.Len(t, children, 1)
	uart := children[0].(map[string]any)
	assert.Equal(t, "uart@10000000", uart["name"])
	clock := uart["properties"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(115200), clock["value"])
}

func TestPrinter_JSON_ValueForms(t *testing.T) {
	tree := fdt.New()
	tree.Root.AddBinProp("odd", []byte{1, 2, 3})
	tree.Root.AddBinProp("pair", []byte{0, 0, 0, 5, 0, 0, 0, 6})
	tree.Root.AddBinProp("list", []byte("a\x00b\x00"))

	opts := DefaultOptions()
	opts.Format = FormatJSON

	var buf bytes.Buffer
	p := New(&buf, opts)
	require.NoError(t, p.PrintNode(tree.Root))

	var node map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &node))
	props := node["properties"].([]any)
	require.Len(t, props, 3)

	list := props[0].(map[string]any)
	assert.Equal(t, []any{"a", "b"}, list["value"])

	pair := props[1].(map[string]any)
	assert.Equal(t, []any{float64(5), float64(6)}, pair["value"])

	odd := props[2].(map[string]any)
	assert.Equal(t, "010203", odd["value"])
}

func TestPrinter_PrintProperty(t *testing.T) {
	tree := boardTree(t)
	uart := tree.FindNode([]string{"uart@10000000"}, nil, nil, false)
	require.NotNil(t, uart)

	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())
	require.NoError(t, p.PrintProperty(uart, "clock-frequency"))
	require.Equal(t, "clock-frequency = <0x1c200>;\n", buf.String())

	err := p.PrintProperty(uart, "missing")
	require.ErrorIs(t, err, fdt.ErrNotFound)
}
