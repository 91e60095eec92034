package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fdtkit/fdtkit/fdt"
)

// writeTestBlob builds a small but realistic board blob and writes it to a
// temp file, returning its path.
func writeTestBlob(t *testing.T) string {
	t.Helper()

	tree := fdt.New()
	tree.Root.AddStringProp("compatible", "acme,board")
	tree.Root.AddStringProp("model", "Acme Board")

	chosen := tree.FindNode([]string{"chosen"}, nil, nil, true)
	chosen.AddStringProp("bootargs", "console=ttyS0")

	memory := tree.FindNode([]string{"memory@80000000"}, nil, nil, true)
	memory.AddStringProp("device_type", "memory")
	memory.AddRegProp([]uint64{0x8000_0000}, []uint64{0x1000_0000}, 2, 1)

	uart := tree.FindNode([]string{"soc", "uart@10000000"}, nil, nil, true)
	uart.AddStringProp("compatible", "ns16550a")
	uart.AddU32Prop("clock-frequency", 115200)

	tree.ReserveEntries = append(tree.ReserveEntries, fdt.ReserveEntry{
		Start: 0x8000_0000,
		Size:  0x10_0000,
	})

	return writeBlobFile(t, tree, "board.dtb")
}

// writeBlobFile flattens a tree into a temp file and returns its path.
func writeBlobFile(t *testing.T, tree *fdt.Tree, name string) string {
	t.Helper()

	out := make([]byte, tree.FlatSize())
	if err := tree.Flatten(out); err != nil {
		t.Fatalf("failed to flatten test blob: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("failed to write test blob: %v", err)
	}
	return path
}

// writeTempFile writes arbitrary bytes to a temp file and returns its path.
func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
