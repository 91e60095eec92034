package main

import (
	"fmt"
	"os"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/fdtkit/fdtkit/fdt/printer"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <dtb> <path> <name>",
		Short: "Get a specific property",
		Long: `The get command retrieves and displays one property of a node.

Example:
  fdtctl get board.dtb /chosen bootargs
  fdtctl get board.dtb /memory@80000000 reg
  fdtctl get board.dtb / compatible --json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func runGet(args []string) error {
	blobPath := args[0]
	nodePath := args[1]
	propName := args[2]

	printVerbose("Opening blob: %s\n", blobPath)

	f, err := fdt.Open(blobPath)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	node := f.Tree.FindNode(splitNodePath(nodePath), nil, nil, false)
	if node == nil {
		return fmt.Errorf("node not found: %s", nodePath)
	}

	opts := printer.DefaultOptions()
	opts.MaxValueBytes = 0
	if jsonOut {
		opts.Format = printer.FormatJSON
	}

	p := printer.New(os.Stdout, opts)
	if err := p.PrintProperty(node, propName); err != nil {
		return fmt.Errorf("failed to get property: %w", err)
	}

	return nil
}
