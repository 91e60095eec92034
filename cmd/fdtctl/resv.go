package main

import (
	"fmt"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newResvCmd())
}

func newResvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resv <dtb>",
		Short: "List memory reservations",
		Long: `The resv command lists the memory reservation block: the physical
ranges the kernel must not touch.

Example:
  fdtctl resv board.dtb
  fdtctl resv board.dtb --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResv(args)
		},
	}
	return cmd
}

func runResv(args []string) error {
	blobPath := args[0]

	printVerbose("Opening blob: %s\n", blobPath)

	f, err := fdt.Open(blobPath)
	if err != nil {
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	entries := f.Tree.ReserveEntries

	// Output as JSON if requested
	if jsonOut {
		type resv struct {
			Start string `json:"start"`
			Size  string `json:"size"`
		}
		out := make([]resv, 0, len(entries))
		for _, e := range entries {
			out = append(out, resv{
				Start: fmt.Sprintf("%#x", e.Start),
				Size:  fmt.Sprintf("%#x", e.Size),
			})
		}
		return printJSON(map[string]interface{}{
			"file":         blobPath,
			"reservations": out,
		})
	}

	// Text output
	if len(entries) == 0 {
		printInfo("No memory reservations\n")
		return nil
	}
	for _, e := range entries {
		printInfo("0x%016x - 0x%016x (%d bytes)\n", e.Start, e.Start+e.Size-1, e.Size)
	}
	return nil
}
