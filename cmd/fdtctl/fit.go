package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fdtkit/fdtkit/fit"
	"github.com/spf13/cobra"
)

var (
	fitSelect  string
	fitVerify  bool
	fitExtract string
	fitOutput  string
)

func init() {
	cmd := newFitCmd()
	cmd.Flags().StringVar(&fitSelect, "select", "", "Pick a configuration for this comma-separated board compatible list")
	cmd.Flags().BoolVar(&fitVerify, "verify", false, "Verify image hashes")
	cmd.Flags().StringVar(&fitExtract, "extract", "", "Extract the named image instead of listing")
	cmd.Flags().StringVarP(&fitOutput, "output", "o", "", "Output file for --extract (default <image>.bin)")
	rootCmd.AddCommand(cmd)
}

func newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit <itb>",
		Short: "Inspect a FIT boot image",
		Long: `The fit command lists the images and configurations of a FIT
container. With --select it also runs the configuration match a
bootloader would for the given board compatible list, most specific
entry first. With --verify it recomputes each image's hashes. With
--extract it writes one image's payload, decompressed, to a file.

Example:
  fdtctl fit kernel.itb
  fdtctl fit kernel.itb --select "vendor,board-rev2,vendor,board"
  fdtctl fit kernel.itb --verify --json
  fdtctl fit kernel.itb --extract kernel-1 -o vmlinux`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(args)
		},
	}
	return cmd
}

// imageRef names an image for display, "-" when the configuration has
// none.
func imageRef(img *fit.Image) string {
	if img == nil {
		return "-"
	}
	return img.Name
}

func runFitExtract(f *fit.FIT, fitPath string) error {
	img := f.Image(fitExtract)
	if img == nil {
		return fmt.Errorf("no image named %q in %s", fitExtract, fitPath)
	}

	data, err := img.Decompress()
	if err != nil {
		return fmt.Errorf("failed to decompress image %q: %w", fitExtract, err)
	}

	outPath := fitOutput
	if outPath == "" {
		outPath = fitExtract + ".bin"
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":        fitPath,
			"image":       fitExtract,
			"output":      outPath,
			"stored_size": len(img.Data),
			"size":        len(data),
		})
	}

	printInfo("Extracted %s to %s (%d bytes, stored %s)\n",
		fitExtract, outPath, len(data), img.Compression)
	return nil
}

func runFit(args []string) error {
	fitPath := args[0]

	printVerbose("Opening FIT image: %s\n", fitPath)

	blob, err := os.ReadFile(fitPath)
	if err != nil {
		return fmt.Errorf("failed to read FIT image: %w", err)
	}
	f, err := fit.Parse(blob)
	if err != nil {
		return fmt.Errorf("failed to parse FIT image: %w", err)
	}

	if fitExtract != "" {
		return runFitExtract(f, fitPath)
	}

	verifyFailures := map[string]string{}
	if fitVerify {
		for _, img := range f.Images {
			if err := img.VerifyHashes(); err != nil {
				verifyFailures[img.Name] = err.Error()
			}
		}
	}

	var selected *fit.Config
	var selectErr error
	if fitSelect != "" {
		selected, selectErr = f.Select(strings.Split(fitSelect, ","))
	}

	// Output as JSON if requested
	if jsonOut {
		type imageOut struct {
			Name        string `json:"name"`
			Size        int    `json:"size"`
			Compression string `json:"compression"`
			HashError   string `json:"hash_error,omitempty"`
		}
		type configOut struct {
			Name    string   `json:"name"`
			Kernel  string   `json:"kernel"`
			FDT     string   `json:"fdt"`
			Ramdisk string   `json:"ramdisk"`
			Compat  []string `json:"compat,omitempty"`
		}

		images := make([]imageOut, 0, len(f.Images))
		for _, img := range f.Images {
			images = append(images, imageOut{
				Name:        img.Name,
				Size:        len(img.Data),
				Compression: img.Compression.String(),
				HashError:   verifyFailures[img.Name],
			})
		}
		configs := make([]configOut, 0, len(f.Configs))
		for _, cfg := range f.Configs {
			configs = append(configs, configOut{
				Name:    cfg.Name,
				Kernel:  imageRef(cfg.Kernel),
				FDT:     imageRef(cfg.FDT),
				Ramdisk: imageRef(cfg.Ramdisk),
				Compat:  cfg.Compat,
			})
		}

		out := map[string]interface{}{
			"file":    fitPath,
			"images":  images,
			"configs": configs,
		}
		if selected != nil {
			out["selected"] = selected.Name
		}
		if selectErr != nil {
			out["select_error"] = selectErr.Error()
		}
		return printJSON(out)
	}

	// Text output
	printInfo("\nFIT Image: %s\n\n", fitPath)

	printInfo("Images:\n")
	for _, img := range f.Images {
		printInfo("  %s (%d bytes, %s)\n", img.Name, len(img.Data), img.Compression)
		if msg, failed := verifyFailures[img.Name]; failed {
			printInfo("    hash FAILED: %s\n", msg)
		} else if fitVerify {
			printInfo("    hashes OK\n")
		}
	}

	printInfo("\nConfigurations:\n")
	for _, cfg := range f.Configs {
		printInfo("  %s: kernel=%s fdt=%s ramdisk=%s\n",
			cfg.Name, imageRef(cfg.Kernel), imageRef(cfg.FDT), imageRef(cfg.Ramdisk))
		if len(cfg.Compat) > 0 {
			printInfo("    compatible: %s\n", strings.Join(cfg.Compat, ", "))
		}
	}

	if fitSelect != "" {
		printInfo("\n")
		if selectErr != nil {
			printInfo("Selection failed: %v\n", selectErr)
		} else {
			printInfo("Selected configuration: %s\n", selected.Name)
		}
	}

	if len(verifyFailures) > 0 {
		return fmt.Errorf("%d image(s) failed hash verification", len(verifyFailures))
	}
	return nil
}
