// Package printer renders device trees for humans: devicetree-source
// style text or JSON, with depth and value-size limits for very large
// trees. It formats the in-memory form only; rendering never mutates the
// tree.
package printer

import (
	"io"

	"github.com/fdtkit/fdtkit/fdt"
)

const (
	DefaultIndentSize    = 4
	DefaultMaxDepth      = 0
	DefaultMaxValueBytes = 64
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatDTS outputs devicetree-source style text.
	FormatDTS Format = "dts"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (dts, json).
	// Default: FormatDTS
	Format Format

	// IndentSize is the number of spaces per indent level (dts format only).
	// Default: 4
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowValues includes property values in output. When false only the
	// tree shape (node names, property names) is printed.
	// Default: true
	ShowValues bool

	// MaxValueBytes limits how many bytes of a byte-list value to display.
	// Longer values are truncated. Set to 0 for no limit.
	// Default: 64
	MaxValueBytes int
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatDTS,
		IndentSize:    DefaultIndentSize,
		MaxDepth:      DefaultMaxDepth,
		ShowValues:    true,
		MaxValueBytes: DefaultMaxValueBytes,
	}
}

// Printer handles formatted output of device tree structures.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	f, _ := fdt.Open("board.dtb")
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintTree(f.Tree)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		writer: w,
		opts:   opts,
	}
}

// PrintTree prints a whole tree: the version marker, the memory
// reservations, and the node hierarchy from the root.
func (p *Printer) PrintTree(t *fdt.Tree) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printTreeJSON(t)
	default:
		return p.printTreeDTS(t)
	}
}

// PrintNode prints the subtree rooted at n without the tree preamble.
func (p *Printer) PrintNode(n *fdt.Node) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printNodeJSON(n)
	default:
		return p.printNodeDTS(n, 0)
	}
}

// PrintProperty prints the node's named property on its own, or reports
// fdt.ErrNotFound when the node has no property of that name.
func (p *Printer) PrintProperty(n *fdt.Node, name string) error {
	for _, prop := range n.Properties {
		if prop.Name == name {
			switch p.opts.Format {
			case FormatJSON:
				return p.printPropertyJSON(prop)
			default:
				return p.printPropertyDTS(prop, 0)
			}
		}
	}
	return fdt.ErrNotFound
}
