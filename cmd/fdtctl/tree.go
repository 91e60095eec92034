package main

import (
	"fmt"
	"os"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/fdtkit/fdtkit/fdt/printer"
	"github.com/spf13/cobra"
)

var (
	treeDepth   int
	treeValues  bool
	treeCompact bool
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVar(&treeDepth, "depth", 3, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&treeValues, "values", false, "Show property values too")
	cmd.Flags().BoolVar(&treeCompact, "compact", false, "Compact output")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <dtb> [path]",
		Short: "Display tree structure",
		Long: `The tree command displays the node hierarchy of a device tree blob,
optionally starting at a node path instead of the root.

Example:
  fdtctl tree board.dtb
  fdtctl tree board.dtb /soc --depth 2
  fdtctl tree board.dtb --values --depth 1`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args)
		},
	}
	return cmd
}

func runTree(args []string) error {
	blobPath := args[0]
	var nodePath string
	if len(args) > 1 {
		nodePath = args[1]
	}

	printVerbose("Opening blob: %s\n", blobPath)

	f, err := fdt.Open(blobPath)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	// Configure printer options
	opts := printer.DefaultOptions()
	opts.ShowValues = treeValues
	opts.MaxDepth = treeDepth

	if jsonOut {
		opts.Format = printer.FormatJSON
	} else {
		opts.Format = printer.FormatDTS
	}
	if treeCompact {
		opts.IndentSize = 1
	}

	p := printer.New(os.Stdout, opts)

	// A node path narrows the output to one subtree.
	if nodePath != "" {
		node := f.Tree.FindNode(splitNodePath(nodePath), nil, nil, false)
		if node == nil {
			return fmt.Errorf("node not found: %s", nodePath)
		}
		return p.PrintNode(node)
	}

	if err := p.PrintTree(f.Tree); err != nil {
		return fmt.Errorf("failed to display tree: %w", err)
	}

	return nil
}
