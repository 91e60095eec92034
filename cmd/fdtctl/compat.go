package main

import (
	"fmt"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCompatCmd())
}

func newCompatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compat <dtb> <compatible>",
		Short: "List nodes matching a compatible string",
		Long: `The compat command lists the paths of every node whose "compatible"
property contains the given entry, in the order a driver probe would
visit them.

Example:
  fdtctl compat board.dtb ns16550a
  fdtctl compat board.dtb arm,gic-v3 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompat(args)
		},
	}
	return cmd
}

// collectCompat gathers the paths of compatible nodes in pre-order.
func collectCompat(n *fdt.Node, prefix, compat string, out *[]string) {
	path := prefix + "/" + n.Name
	if n.Name == "" {
		path = "/"
	}
	if n.Compatible(compat) {
		*out = append(*out, path)
	}
	childPrefix := path
	if path == "/" {
		childPrefix = ""
	}
	for _, c := range n.Children {
		collectCompat(c, childPrefix, compat, out)
	}
}

func runCompat(args []string) error {
	blobPath := args[0]
	compat := args[1]

	printVerbose("Opening blob: %s\n", blobPath)

	f, err := fdt.Open(blobPath)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	var paths []string
	collectCompat(f.Tree.Root, "", compat, &paths)

	// Output as JSON if requested
	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":       blobPath,
			"compatible": compat,
			"matches":    paths,
		})
	}

	// Text output
	if len(paths) == 0 {
		printInfo("No nodes compatible with %q\n", compat)
		return nil
	}
	for _, p := range paths {
		printInfo("%s\n", p)
	}
	return nil
}
