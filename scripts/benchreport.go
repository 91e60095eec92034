package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string
	TreeSize    string // "small", "medium", "large", or "" for unsized benchmarks
	Iterations  int
	NsPerOp     float64
	MBPerSec    float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// ScalingResult captures how one operation's cost grows from the smallest
// to the largest tree it was measured on.
type ScalingResult struct {
	Operation  string
	SmallSize  string
	LargeSize  string
	SmallNs    float64
	LargeNs    float64
	TimeGrowth float64
	SmallMBs   float64
	LargeMBs   float64
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	// Read benchmark output
	var scanner *bufio.Scanner
	var inputF *os.File
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		inputF = f
		scanner = bufio.NewScanner(f)
	} else {
		scanner = bufio.NewScanner(os.Stdin)
	}

	// Parse benchmarks
	results := parseBenchmarks(scanner)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	// Work out per-operation scaling across tree sizes
	scalings := generateScalings(results)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Generated %d scaling comparisons\n", len(scalings))
	}

	// Generate markdown report
	report := generateMarkdownReport(results, scalings)

	// Write output
	if *outputFile != "" {
		err := os.WriteFile(*outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			if inputF != nil {
				inputF.Close()
			}
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}

	// Close input file if opened
	if inputF != nil {
		inputF.Close()
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// Regex to parse benchmark output lines
	// BenchmarkUnflatten/small-8    50000    25431 ns/op    82.15 MB/s    12288 B/op    31 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+MB/s)?(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Try to parse as JSON (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		// Parse benchmark line
		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var mbPerSec float64
		var bytesPerOp int64
		var allocsPerOp int64

		if matches[4] != "" {
			mbPerSec, _ = strconv.ParseFloat(matches[4], 64)
		}
		if matches[5] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}
		if matches[6] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[6], 10, 64)
		}

		operation, treeSize := splitBenchmarkName(name)

		results = append(results, BenchmarkResult{
			Name:        name,
			Operation:   operation,
			TreeSize:    treeSize,
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			MBPerSec:    mbPerSec,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

// splitBenchmarkName breaks a benchmark name into operation and tree size.
// Format: Benchmark<Operation>/<size>-<procs>
// Or, for benchmarks without sub-benchmarks: Benchmark<Operation>-<procs>
func splitBenchmarkName(name string) (string, string) {
	parts := strings.Split(name, "/")

	operation := strings.TrimPrefix(parts[0], "Benchmark")

	if len(parts) < 2 {
		// No size split; strip the -N procs suffix from the operation
		if dashIdx := strings.LastIndex(operation, "-"); dashIdx > 0 {
			operation = operation[:dashIdx]
		}
		return operation, ""
	}

	// Extract tree size from last part (remove -N suffix)
	lastPart := parts[len(parts)-1]
	treeSize := lastPart
	if dashIdx := strings.LastIndex(lastPart, "-"); dashIdx > 0 {
		treeSize = lastPart[:dashIdx]
	}

	return operation, treeSize
}

// sizeRank orders the conventional tree sizes; unknown sizes sort after
// the known ones in name order.
func sizeRank(size string) int {
	switch size {
	case "small":
		return 0
	case "medium":
		return 1
	case "large":
		return 2
	default:
		return 3
	}
}

func generateScalings(results []BenchmarkResult) []ScalingResult {
	// Group results by operation
	grouped := make(map[string][]BenchmarkResult)
	for _, result := range results {
		if result.TreeSize == "" {
			continue
		}
		grouped[result.Operation] = append(grouped[result.Operation], result)
	}

	var scalings []ScalingResult

	for operation, sized := range grouped {
		if len(sized) < 2 {
			continue
		}

		sort.Slice(sized, func(i, j int) bool {
			ri, rj := sizeRank(sized[i].TreeSize), sizeRank(sized[j].TreeSize)
			if ri != rj {
				return ri < rj
			}
			return sized[i].TreeSize < sized[j].TreeSize
		})

		smallest := sized[0]
		largest := sized[len(sized)-1]
		if smallest.NsPerOp == 0 {
			continue
		}

		scalings = append(scalings, ScalingResult{
			Operation:  operation,
			SmallSize:  smallest.TreeSize,
			LargeSize:  largest.TreeSize,
			SmallNs:    smallest.NsPerOp,
			LargeNs:    largest.NsPerOp,
			TimeGrowth: largest.NsPerOp / smallest.NsPerOp,
			SmallMBs:   smallest.MBPerSec,
			LargeMBs:   largest.MBPerSec,
		})
	}

	sort.Slice(scalings, func(i, j int) bool {
		return scalings[i].Operation < scalings[j].Operation
	})

	return scalings
}

func generateMarkdownReport(results []BenchmarkResult, scalings []ScalingResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# FDT Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	// Summary statistics
	operations := make(map[string]bool)
	sizes := make(map[string]bool)
	for _, result := range results {
		operations[result.Operation] = true
		if result.TreeSize != "" {
			sizes[result.TreeSize] = true
		}
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(results)))
	sb.WriteString(fmt.Sprintf("- **Operations**: %d\n", len(operations)))
	sb.WriteString(fmt.Sprintf("- **Tree sizes**: %d\n", len(sizes)))
	sb.WriteString("\n")

	// Detailed results table
	sorted := make([]BenchmarkResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Operation != sorted[j].Operation {
			return sorted[i].Operation < sorted[j].Operation
		}
		return sizeRank(sorted[i].TreeSize) < sizeRank(sorted[j].TreeSize)
	})

	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString("| Operation | Tree | ns/op | Throughput | Memory (B/op) | Allocs |\n")
	sb.WriteString("|-----------|------|-------|------------|---------------|--------|\n")

	for _, result := range sorted {
		treeSize := result.TreeSize
		if treeSize == "" {
			treeSize = "-"
		}

		throughput := "-"
		if result.MBPerSec > 0 {
			throughput = fmt.Sprintf("%.1f MB/s", result.MBPerSec)
		}

		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			result.Operation,
			treeSize,
			formatNumber(result.NsPerOp),
			throughput,
			formatBytes(result.BytesPerOp),
			formatNumber(float64(result.AllocsPerOp)),
		))
	}

	sb.WriteString("\n")

	// Scaling table
	if len(scalings) > 0 {
		sb.WriteString("## Scaling Across Tree Sizes\n\n")
		sb.WriteString("| Operation | Range | Time (small) | Time (large) | Growth | Throughput (small) | Throughput (large) |\n")
		sb.WriteString("|-----------|-------|--------------|--------------|--------|--------------------|--------------------|\n")

		for _, scaling := range scalings {
			smallThroughput := "-"
			largeThroughput := "-"
			if scaling.SmallMBs > 0 {
				smallThroughput = fmt.Sprintf("%.1f MB/s", scaling.SmallMBs)
			}
			if scaling.LargeMBs > 0 {
				largeThroughput = fmt.Sprintf("%.1f MB/s", scaling.LargeMBs)
			}

			sb.WriteString(fmt.Sprintf("| %s | %s → %s | %s | %s | **%.1fx** | %s | %s |\n",
				scaling.Operation,
				scaling.SmallSize,
				scaling.LargeSize,
				formatNumber(scaling.SmallNs),
				formatNumber(scaling.LargeNs),
				scaling.TimeGrowth,
				smallThroughput,
				largeThroughput,
			))
		}

		sb.WriteString("\n")
	}

	// Category summaries
	sb.WriteString("## Results by Category\n\n")

	categories := categorizeOperations(sorted)
	for _, category := range []string{"Parse", "Serialize", "Round Trip", "Lookup", "Other"} {
		members := categories[category]
		if len(members) == 0 {
			continue
		}

		seen := make(map[string]bool)
		var ops []string
		for _, member := range members {
			if !seen[member.Operation] {
				seen[member.Operation] = true
				ops = append(ops, member.Operation)
			}
		}
		sort.Strings(ops)

		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", category, strings.Join(ops, ", ")))
	}

	sb.WriteString("\n")

	// Notes
	sb.WriteString("## Notes\n\n")
	sb.WriteString("- **Throughput**: flattened blob bytes processed per second, where the benchmark reports it\n")
	sb.WriteString("- **Growth**: ns/op on the largest tree divided by ns/op on the smallest; compare against the ~256x node count spread\n")
	sb.WriteString("- **Memory / Allocs**: per operation; lower is better\n")
	sb.WriteString("- Tree sizes: small ~20 nodes, medium ~260 nodes, large ~4100 nodes\n")

	return sb.String()
}

func categorizeOperations(results []BenchmarkResult) map[string][]BenchmarkResult {
	categories := map[string][]BenchmarkResult{
		"Parse":      {},
		"Serialize":  {},
		"Round Trip": {},
		"Lookup":     {},
		"Other":      {},
	}

	for _, result := range results {
		op := strings.ToLower(result.Operation)

		// "unflatten" and "roundtrip" must be tested before "flatten",
		// which is a substring of both.
		switch {
		case strings.Contains(op, "roundtrip"):
			categories["Round Trip"] = append(categories["Round Trip"], result)
		case strings.Contains(op, "unflatten") || strings.Contains(op, "open") ||
			strings.Contains(op, "header"):
			categories["Parse"] = append(categories["Parse"], result)
		case strings.Contains(op, "flatten") || strings.Contains(op, "flatsize"):
			categories["Serialize"] = append(categories["Serialize"], result)
		case strings.Contains(op, "find") || strings.Contains(op, "compat") ||
			strings.Contains(op, "walk"):
			categories["Lookup"] = append(categories["Lookup"], result)
		default:
			categories["Other"] = append(categories["Other"], result)
		}
	}

	return categories
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
