package main

import (
	"fmt"
	"os"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	applyOutput string
	applyBackup bool
)

func init() {
	cmd := newApplyCmd()
	cmd.Flags().StringVarP(&applyOutput, "output", "o", "", "Write result here instead of in place")
	cmd.Flags().BoolVar(&applyBackup, "backup", true, "Create backup when writing in place")
	rootCmd.AddCommand(cmd)
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <dtb> <overlay.yaml>",
		Short: "Apply a YAML overlay of property edits",
		Long: `The apply command batch-edits a blob from a YAML description. Nodes
named in the overlay are created when missing; each property entry
carries its value as one of string, u32, u64, cells, bytes, or empty.

Overlay format:

  nodes:
    - path: /chosen
      props:
        - name: bootargs
          string: "console=ttyS0 quiet"
        - name: linux,initrd-start
          u64: 0x80200000
    - path: /memory@80000000
      props:
        - name: reg
          cells: [0x80000000, 0x10000000]
  reservations:
    - start: 0x80000000
      size: 0x100000

Example:
  fdtctl apply board.dtb boot-overlay.yaml --output patched.dtb`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(args)
		},
	}
	return cmd
}

type overlayProp struct {
	Name   string   `yaml:"name"`
	String *string  `yaml:"string,omitempty"`
	U32    *uint32  `yaml:"u32,omitempty"`
	U64    *uint64  `yaml:"u64,omitempty"`
	Cells  []uint32 `yaml:"cells,omitempty"`
	Bytes  string   `yaml:"bytes,omitempty"`
	Empty  bool     `yaml:"empty,omitempty"`
}

type overlayNode struct {
	Path  string        `yaml:"path"`
	Props []overlayProp `yaml:"props"`
}

type overlayReservation struct {
	Start uint64 `yaml:"start"`
	Size  uint64 `yaml:"size"`
}

type overlay struct {
	Nodes        []overlayNode        `yaml:"nodes"`
	Reservations []overlayReservation `yaml:"reservations"`
}

// applyProp writes one overlay property onto a node.
func applyProp(node *fdt.Node, p overlayProp) error {
	switch {
	case p.String != nil:
		node.AddStringProp(p.Name, *p.String)
	case p.U32 != nil:
		node.AddU32Prop(p.Name, *p.U32)
	case p.U64 != nil:
		node.AddU64Prop(p.Name, *p.U64)
	case len(p.Cells) > 0:
		value := make([]byte, 4*len(p.Cells))
		for i, c := range p.Cells {
			fdt.WriteBigEndian(value[i*4:(i+1)*4], uint64(c), 4)
		}
		node.AddBinProp(p.Name, value)
	case p.Bytes != "":
		value, err := parseBytesValue(p.Bytes)
		if err != nil {
			return fmt.Errorf("property %q: %w", p.Name, err)
		}
		node.AddBinProp(p.Name, value)
	case p.Empty:
		node.AddBinProp(p.Name, []byte{})
	default:
		return fmt.Errorf("property %q has no value", p.Name)
	}
	return nil
}

func runApply(args []string) error {
	blobPath := args[0]
	overlayPath := args[1]

	printVerbose("Opening blob: %s\n", blobPath)

	blob, err := os.ReadFile(blobPath)
	if err != nil {
		return fmt.Errorf("failed to read blob: %w", err)
	}
	tree, err := fdt.Unflatten(blob)
	if err != nil {
		return fmt.Errorf("failed to unflatten blob: %w", err)
	}

	overlayData, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("failed to read overlay: %w", err)
	}
	var ov overlay
	if err := yaml.Unmarshal(overlayData, &ov); err != nil {
		return fmt.Errorf("failed to parse overlay: %w", err)
	}

	propCount := 0
	for _, n := range ov.Nodes {
		node := tree.FindNode(splitNodePath(n.Path), nil, nil, true)
		printVerbose("Editing node: %s\n", n.Path)
		for _, p := range n.Props {
			if err := applyProp(node, p); err != nil {
				return fmt.Errorf("node %s: %w", n.Path, err)
			}
			propCount++
		}
	}

	for _, r := range ov.Reservations {
		tree.ReserveEntries = append(tree.ReserveEntries, fdt.ReserveEntry{
			Start: r.Start,
			Size:  r.Size,
		})
	}

	out := make([]byte, tree.FlatSize())
	if err := tree.Flatten(out); err != nil {
		return fmt.Errorf("failed to flatten tree: %w", err)
	}

	outPath := applyOutput
	if outPath == "" {
		outPath = blobPath
		if applyBackup {
			if err := os.WriteFile(blobPath+".bak", blob, 0o644); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
		}
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	// Output as JSON if requested
	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":         outPath,
			"overlay":      overlayPath,
			"nodes":        len(ov.Nodes),
			"properties":   propCount,
			"reservations": len(ov.Reservations),
			"success":      true,
		})
	}

	// Text output
	printInfo("\nApplied %s to %s:\n", overlayPath, outPath)
	printInfo("  Nodes touched: %d\n", len(ov.Nodes))
	printInfo("  Properties set: %d\n", propCount)
	printInfo("  Reservations added: %d\n", len(ov.Reservations))
	printInfo("  New size: %d bytes\n", len(out))

	return nil
}
