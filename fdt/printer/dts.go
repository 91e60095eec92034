package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/fdtkit/fdtkit/internal/format"
)

// printTreeDTS prints the tree preamble and the node hierarchy.
func (p *Printer) printTreeDTS(t *fdt.Tree) error {
	fmt.Fprintf(p.writer, "/dts-v1/;\n")
	for _, r := range t.ReserveEntries {
		fmt.Fprintf(p.writer, "/memreserve/ 0x%016x 0x%016x;\n", r.Start, r.Size)
	}
	fmt.Fprintln(p.writer)

	if t.Root == nil {
		return nil
	}
	return p.printNodeDTS(t.Root, 0)
}

// printNodeDTS recursively prints a subtree in devicetree-source style.
func (p *Printer) printNodeDTS(n *fdt.Node, depth int) error {
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		return nil
	}

	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	name := n.Name
	if name == "" {
		name = "/"
	}
	fmt.Fprintf(p.writer, "%s%s {\n", indent, name)

	for _, prop := range n.Properties {
		if err := p.printPropertyDTS(prop, depth+1); err != nil {
			return err
		}
	}

	childrenVisible := len(n.Children) > 0 &&
		!(p.opts.MaxDepth > 0 && depth+1 >= p.opts.MaxDepth)
	if childrenVisible {
		if len(n.Properties) > 0 {
			fmt.Fprintln(p.writer)
		}
		for i, child := range n.Children {
			if i > 0 {
				fmt.Fprintln(p.writer)
			}
			if err := p.printNodeDTS(child, depth+1); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(p.writer, "%s};\n", indent)
	return nil
}

// printPropertyDTS prints one property line.
func (p *Printer) printPropertyDTS(prop *fdt.Property, depth int) error {
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	if len(prop.Value) == 0 || !p.opts.ShowValues {
		fmt.Fprintf(p.writer, "%s%s;\n", indent, prop.Name)
		return nil
	}

	fmt.Fprintf(p.writer, "%s%s = %s;\n", indent, prop.Name, p.formatValue(prop.Value))
	return nil
}

// formatValue renders a property value the way devicetree sources write
// them: a quoted string list when the bytes decode as printable
// NUL-terminated strings, angle-bracketed cells when the length is a
// multiple of the cell size, a byte list otherwise. Values longer than
// MaxValueBytes are cut short with a trailing marker; truncated output is
// for reading, not for feeding back to a compiler.
func (p *Printer) formatValue(v []byte) string {
	if isStringList(v) {
		parts := splitStringList(v)
		quoted := make([]string, len(parts))
		for i, s := range parts {
			quoted[i] = strconv.Quote(s)
		}
		return strings.Join(quoted, ", ")
	}

	limit := len(v)
	truncated := false
	if p.opts.MaxValueBytes > 0 && limit > p.opts.MaxValueBytes {
		limit = p.opts.MaxValueBytes
		truncated = true
	}

	var sb strings.Builder
	if len(v)%4 == 0 {
		limit -= limit % 4
		sb.WriteByte('<')
		for off := 0; off < limit; off += 4 {
			if off > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%#x", format.ReadU32(v, off))
		}
		if truncated {
			sb.WriteString(" ...")
		}
		sb.WriteByte('>')
	} else {
		sb.WriteByte('[')
		for i := 0; i < limit; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%02x", v[i])
		}
		if truncated {
			sb.WriteString(" ...")
		}
		sb.WriteByte(']')
	}
	if truncated {
		fmt.Fprintf(&sb, " /* truncated, %d total bytes */", len(v))
	}
	return sb.String()
}

// isStringList reports whether v decodes as one or more printable
// NUL-terminated strings: printable ASCII throughout, a final NUL, and no
// empty segments.
func isStringList(v []byte) bool {
	if len(v) == 0 || v[0] == 0 || v[len(v)-1] != 0 {
		return false
	}
	last := byte(0xFF)
	for _, b := range v {
		switch {
		case b == 0:
			if last == 0 {
				return false
			}
		case b < 0x20 || b > 0x7E:
			return false
		}
		last = b
	}
	return true
}

// splitStringList cuts a string-list value at its NUL terminators.
// Call only after isStringList accepted v.
func splitStringList(v []byte) []string {
	var parts []string
	start := 0
	for i, b := range v {
		if b == 0 {
			parts = append(parts, string(v[start:i]))
			start = i + 1
		}
	}
	return parts
}
