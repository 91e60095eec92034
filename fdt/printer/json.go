package printer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/fdtkit/fdtkit/internal/format"
)

// jsonTree represents a whole device tree in JSON format.
type jsonTree struct {
	Reservations []jsonReservation `json:"reservations,omitempty"`
	Root         *jsonNode         `json:"root"`
}

// jsonReservation represents one reserved memory range.
type jsonReservation struct {
	Start string `json:"start"`
	Size  string `json:"size"`
}

// jsonNode represents a device tree node in JSON format. Properties and
// children are slices, not maps: their order is part of the tree.
type jsonNode struct {
	Name       string         `json:"name"`
	Properties []jsonProperty `json:"properties,omitempty"`
	Children   []jsonNode     `json:"children,omitempty"`
}

// jsonProperty represents a property in JSON format.
type jsonProperty struct {
	Name      string `json:"name"`
	Bytes     int    `json:"bytes"`
	Value     any    `json:"value,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// printTreeJSON prints the whole tree as one JSON document.
func (p *Printer) printTreeJSON(t *fdt.Tree) error {
	doc := jsonTree{}
	for _, r := range t.ReserveEntries {
		doc.Reservations = append(doc.Reservations, jsonReservation{
			Start: fmt.Sprintf("%#x", r.Start),
			Size:  fmt.Sprintf("%#x", r.Size),
		})
	}
	if t.Root != nil {
		root := p.buildNodeJSON(t.Root, 0)
		doc.Root = &root
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// printNodeJSON prints a subtree as one JSON document.
func (p *Printer) printNodeJSON(n *fdt.Node) error {
	data, err := json.MarshalIndent(p.buildNodeJSON(n, 0), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// printPropertyJSON prints a single property as one JSON document.
func (p *Printer) printPropertyJSON(prop *fdt.Property) error {
	data, err := json.MarshalIndent(p.buildPropertyJSON(prop), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

func (p *Printer) buildNodeJSON(n *fdt.Node, depth int) jsonNode {
	out := jsonNode{Name: n.Name}
	for _, prop := range n.Properties {
		out.Properties = append(out.Properties, p.buildPropertyJSON(prop))
	}
	if p.opts.MaxDepth > 0 && depth+1 >= p.opts.MaxDepth {
		return out
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, p.buildNodeJSON(child, depth+1))
	}
	return out
}

// buildPropertyJSON decodes a value with the same heuristic as the DTS
// renderer: strings stay strings, cell arrays become numbers, everything
// else is hex-encoded bytes.
func (p *Printer) buildPropertyJSON(prop *fdt.Property) jsonProperty {
	out := jsonProperty{Name: prop.Name, Bytes: len(prop.Value)}
	if !p.opts.ShowValues || len(prop.Value) == 0 {
		return out
	}

	if isStringList(prop.Value) {
		parts := splitStringList(prop.Value)
		if len(parts) == 1 {
			out.Value = parts[0]
		} else {
			out.Value = parts
		}
		return out
	}

	v := prop.Value
	if p.opts.MaxValueBytes > 0 && len(v) > p.opts.MaxValueBytes {
		v = v[:p.opts.MaxValueBytes]
		out.Truncated = true
	}

	if len(prop.Value)%4 == 0 {
		cells := make([]uint32, 0, len(v)/4)
		for off := 0; off+4 <= len(v); off += 4 {
			cells = append(cells, format.ReadU32(v, off))
		}
		if len(cells) == 1 && !out.Truncated {
			out.Value = cells[0]
		} else {
			out.Value = cells
		}
		return out
	}

	out.Value = hex.EncodeToString(v)
	return out
}
