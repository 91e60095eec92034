package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	args := os.Args[1:]

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	if args[0] == "--help" || args[0] == "-h" {
		printHelp()
		os.Exit(0)
	}

	if args[0] == "--version" || args[0] == "-v" {
		fmt.Printf("fdtexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	blobPath := args[0]

	m, err := NewModel(blobPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if model, ok := finalModel.(Model); ok {
		model.Close()
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: fdtexplorer <dtb-file>\n")
	fmt.Fprintf(os.Stderr, "Try 'fdtexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("fdtexplorer - Interactive TUI for Flattened Device Tree Blobs")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  fdtexplorer <dtb-file>")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Launches an interactive terminal UI for exploring device tree blobs.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Split-pane layout (node tree + node detail)")
	fmt.Println("    - Keyboard navigation (vim-style keys supported)")
	fmt.Println("    - Expand/collapse nodes")
	fmt.Println("    - Property values in devicetree-source form")
	fmt.Println("    - Search node names (/)")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Navigate up/down")
	fmt.Println("    →/l, Enter  Expand node")
	fmt.Println("    ←/h         Collapse node / Go to parent")
	fmt.Println("    Tab         Switch between tree and detail panes")
	fmt.Println("    /           Search node names")
	fmt.Println("    n/N         Next/previous match")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  fdtexplorer board.dtb")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'fdtctl' command instead.")
}
