package main

import (
	"fmt"
	"os"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/fdtkit/fdtkit/fdt/printer"
	"github.com/spf13/cobra"
)

var (
	dumpNode     string
	dumpMaxBytes int
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpNode, "node", "", "Dump only a specific subtree")
	cmd.Flags().IntVar(&dumpMaxBytes, "max-bytes", 0, "Truncate values past this many bytes (0 = no limit)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <dtb>",
		Short: "Full source-form dump of a blob",
		Long: `The dump command renders the complete contents of a device tree blob
as devicetree source, values included, with no depth limit.

Example:
  fdtctl dump board.dtb
  fdtctl dump board.dtb --node /chosen
  fdtctl dump board.dtb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	blobPath := args[0]

	printVerbose("Opening blob: %s\n", blobPath)

	f, err := fdt.Open(blobPath)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	opts := printer.DefaultOptions()
	opts.ShowValues = true
	opts.MaxDepth = 0
	opts.MaxValueBytes = dumpMaxBytes
	if jsonOut {
		opts.Format = printer.FormatJSON
	}

	p := printer.New(os.Stdout, opts)

	if dumpNode != "" {
		node := f.Tree.FindNode(splitNodePath(dumpNode), nil, nil, false)
		if node == nil {
			return fmt.Errorf("node not found: %s", dumpNode)
		}
		return p.PrintNode(node)
	}

	return p.PrintTree(f.Tree)
}
