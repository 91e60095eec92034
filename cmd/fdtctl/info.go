package main

import (
	"fmt"
	"os"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <dtb>",
		Short: "Validate a blob header and report basic metadata",
		Long: `The info command validates a flattened device tree blob and displays
basic metadata including header fields, block sizes, memory reservations,
and node/property counts.

Example:
  fdtctl info board.dtb
  fdtctl info board.dtb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

// countTree tallies nodes and properties below and including n.
func countTree(n *fdt.Node) (nodes, props int) {
	nodes = 1
	props = len(n.Properties)
	for _, c := range n.Children {
		cn, cp := countTree(c)
		nodes += cn
		props += cp
	}
	return nodes, props
}

func runInfo(args []string) error {
	blobPath := args[0]

	printVerbose("Opening blob: %s\n", blobPath)

	f, err := fdt.Open(blobPath)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	h, err := fdt.ParseHeader(f.Blob())
	if err != nil {
		return fmt.Errorf("failed to parse header: %w", err)
	}

	nodes, props := countTree(f.Tree.Root)

	// Output as JSON if requested
	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":           blobPath,
			"total_size":     h.TotalSize(),
			"version":        h.Version(),
			"compat_version": h.CompatVersion(),
			"boot_cpu":       h.BootCPU(),
			"struct_size":    h.StructSize(),
			"strings_size":   h.StringsSize(),
			"reservations":   len(f.Tree.ReserveEntries),
			"nodes":          nodes,
			"properties":     props,
		})
	}

	// Text output
	printInfo("\nDevice Tree Blob: %s\n", blobPath)

	if stat, err := os.Stat(blobPath); err == nil {
		printInfo("  File size: %d bytes\n", stat.Size())
	}

	printInfo("  Total size: %d bytes\n", h.TotalSize())
	printInfo("  Version: %d (compatible with %d)\n", h.Version(), h.CompatVersion())
	printInfo("  Boot CPU: %d\n", h.BootCPU())
	printInfo("  Structure block: %d bytes at 0x%x\n", h.StructSize(), h.StructOffset())
	printInfo("  Strings block: %d bytes at 0x%x\n", h.StringsSize(), h.StringsOffset())
	printInfo("  Reservations: %d\n", len(f.Tree.ReserveEntries))
	printInfo("  Nodes: %d\n", nodes)
	printInfo("  Properties: %d\n", props)

	return nil
}
