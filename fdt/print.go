package fdt

import (
	"fmt"
	"io"

	"github.com/fdtkit/fdtkit/internal/format"
)

// Debug dumps in the terse shape firmware consoles use: node names with
// indented property hex previews. For devicetree-source-style rendering,
// see the printer package.

// printValueLimit caps the hex preview of a property value.
const printValueLimit = 25

func printIndent(w io.Writer, depth int) {
	for ; depth > 0; depth-- {
		fmt.Fprint(w, "  ")
	}
}

func printProperty(w io.Writer, p *Property, depth int) {
	printIndent(w, depth)
	fmt.Fprintf(w, "prop %q (%d bytes)\n", p.Name, len(p.Value))
	printIndent(w, depth+1)
	limit := len(p.Value)
	if limit > printValueLimit {
		limit = printValueLimit
	}
	for i := 0; i < limit; i++ {
		fmt.Fprintf(w, "%02x ", p.Value[i])
	}
	if len(p.Value) > printValueLimit {
		fmt.Fprint(w, "...")
	}
	fmt.Fprintln(w)
}

// PrintFlatNode dumps the node whose begin token sits at offset straight
// from a flattened blob, without unflattening or allocating records. It
// returns the bytes the node occupies, or zero when offset does not hold a
// begin-node token.
func PrintFlatNode(w io.Writer, blob []byte, offset uint32) uint32 {
	return printFlatNode(w, blob, offset, 0)
}

func printFlatNode(w io.Writer, blob []byte, start uint32, depth int) uint32 {
	offset := start

	name, consumed := ReadNodeName(blob, offset)
	if consumed == 0 {
		return 0
	}
	offset += consumed

	printIndent(w, depth)
	fmt.Fprintf(w, "name = %s\n", name)

	for {
		prop, n := ReadProperty(blob, offset)
		if n == 0 {
			break
		}
		printProperty(w, &prop, depth+1)
		offset += n
	}

	for {
		n := printFlatNode(w, blob, offset, depth+1)
		if n == 0 {
			break
		}
		offset += n
	}

	return offset - start + format.TokenSize
}

// PrintNode dumps an unflattened subtree rooted at n in the same shape as
// PrintFlatNode.
func PrintNode(w io.Writer, n *Node) {
	printNode(w, n, 0)
}

func printNode(w io.Writer, n *Node, depth int) {
	printIndent(w, depth)
	fmt.Fprintf(w, "name = %s\n", n.Name)

	for _, p := range n.Properties {
		printProperty(w, p, depth+1)
	}
	for _, child := range n.Children {
		printNode(w, child, depth+1)
	}
}
