package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fdtkit/fdtkit/fdt"
	"github.com/spf13/cobra"
)

var (
	setType   string
	setCreate bool
	setOutput string
	setBackup bool
)

func init() {
	cmd := newSetCmd()
	cmd.Flags().StringVar(&setType, "type", "string", "Value type (string, u32, u64, bytes, empty)")
	cmd.Flags().BoolVar(&setCreate, "create", false, "Create the node if it doesn't exist")
	cmd.Flags().StringVarP(&setOutput, "output", "o", "", "Write result here instead of in place")
	cmd.Flags().BoolVar(&setBackup, "backup", true, "Create backup when writing in place")
	rootCmd.AddCommand(cmd)
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <dtb> <path> <name> <value>",
		Short: "Set a property and rewrite the blob",
		Long: `The set command sets a property on a node and reflattens the blob.
By default the input file is rewritten in place with a .bak backup; use
--output to write elsewhere.

Example:
  fdtctl set board.dtb /chosen bootargs "console=ttyS0 quiet"
  fdtctl set board.dtb /chosen stdout-path serial0 --output patched.dtb
  fdtctl set board.dtb /cpus/cpu@0 clock-frequency 1000000000 --type u32
  fdtctl set board.dtb /reserved local-mac-address "de:ad:be:ef:00:01" --type bytes --create`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
	return cmd
}

// parseBytesValue decodes hex byte strings in either "deadbeef" or
// "de:ad:be:ef" / "de ad be ef" form.
func parseBytesValue(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if r == ':' || r == ' ' {
			return -1
		}
		return r
	}, s)
	return hex.DecodeString(clean)
}

func runSet(args []string) error {
	blobPath := args[0]
	nodePath := args[1]
	propName := args[2]
	valueStr := args[3]

	printVerbose("Opening blob: %s\n", blobPath)

	blob, err := os.ReadFile(blobPath)
	if err != nil {
		return fmt.Errorf("failed to read blob: %w", err)
	}
	tree, err := fdt.Unflatten(blob)
	if err != nil {
		return fmt.Errorf("failed to unflatten blob: %w", err)
	}

	node := tree.FindNode(splitNodePath(nodePath), nil, nil, setCreate)
	if node == nil {
		return fmt.Errorf("node not found: %s (use --create to add it)", nodePath)
	}

	switch setType {
	case "string":
		node.AddStringProp(propName, valueStr)
	case "u32":
		v, err := strconv.ParseUint(valueStr, 0, 32)
		if err != nil {
			return fmt.Errorf("failed to parse value: %w", err)
		}
		node.AddU32Prop(propName, uint32(v))
	case "u64":
		v, err := strconv.ParseUint(valueStr, 0, 64)
		if err != nil {
			return fmt.Errorf("failed to parse value: %w", err)
		}
		node.AddU64Prop(propName, v)
	case "bytes":
		v, err := parseBytesValue(valueStr)
		if err != nil {
			return fmt.Errorf("failed to parse value: %w", err)
		}
		node.AddBinProp(propName, v)
	case "empty":
		node.AddBinProp(propName, []byte{})
	default:
		return fmt.Errorf("unknown value type: %s", setType)
	}

	out := make([]byte, tree.FlatSize())
	if err := tree.Flatten(out); err != nil {
		return fmt.Errorf("failed to flatten tree: %w", err)
	}

	outPath := setOutput
	if outPath == "" {
		outPath = blobPath
		if setBackup {
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
			"file":    outPath,
			"path":    nodePath,
			"name":    propName,
			"type":    setType,
			"size":    len(out),
			"success": true,
		})
	}

	// Text output
	printInfo("\nSetting property in %s:\n", outPath)
	printInfo("  Path: %s\n", nodePath)
	printInfo("  Name: %s\n", propName)
	printInfo("  Type: %s\n", setType)
	printInfo("  Value: %s\n", valueStr)
	printInfo("\nProperty set, new blob is %d bytes\n", len(out))

	if setOutput == "" && setBackup {
		printInfo("Backup created: %s.bak\n", blobPath)
	}

	return nil
}
