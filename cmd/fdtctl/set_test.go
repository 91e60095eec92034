package main

import (
	"os"
	"testing"

	"github.com/fdtkit/fdtkit/fdt"
)

// reopenNode unflattens a written blob and returns the node at path.
func reopenNode(t *testing.T, blobPath, nodePath string) *fdt.Node {
	t.Helper()
	blob, err := os.ReadFile(blobPath)
	if err != nil {
		t.Fatalf("failed to read blob back: %v", err)
	}
	tree, err := fdt.Unflatten(blob)
	if err != nil {
		t.Fatalf("failed to unflatten blob back: %v", err)
	}
	return tree.FindNode(splitNodePath(nodePath), nil, nil, false)
}

func TestSetCommand_InPlaceWithBackup(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false
	setType = "string"
	setCreate = false
	setOutput = ""
	setBackup = true

	blobPath := writeTestBlob(t)

	output, err := captureOutput(t, func() error {
		return runSet([]string{blobPath, "/chosen", "bootargs", "console=ttyAMA0 ro"})
	})
	if err != nil {
		t.Fatalf("runSet() error = %v", err)
	}
	assertContains(t, output, []string{"Property set", "Backup created"})

	node := reopenNode(t, blobPath, "/chosen")
	if node == nil {
		t.Fatal("chosen node missing after rewrite")
	}
	if got := node.FindStringProp("bootargs"); got != "console=ttyAMA0 ro" {
		t.Errorf("bootargs = %q, want %q", got, "console=ttyAMA0 ro")
	}

	if _, err := os.Stat(blobPath + ".bak"); err != nil {
		t.Errorf("backup file missing: %v", err)
	}
}

func TestSetCommand_OutputFile(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false
	setType = "u32"
	setCreate = false
	setBackup = true

	blobPath := writeTestBlob(t)
	outPath := blobPath + ".patched"
	setOutput = outPath
	defer func() { setOutput = "" }()

	_, err := captureOutput(t, func() error {
		return runSet([]string{blobPath, "/soc/uart@10000000", "clock-frequency", "0x2dc6c00"})
	})
	if err != nil {
		t.Fatalf("runSet() error = %v", err)
	}

	// Original untouched, no backup for output-file mode.
	orig := reopenNode(t, blobPath, "/soc/uart@10000000")
	if got := orig.FindBinProp("clock-frequency"); len(got) != 4 || got[0] != 0 || got[1] != 0x01 {
		t.Errorf("original blob changed: clock-frequency = %x", got)
	}
	if _, err := os.Stat(blobPath + ".bak"); !os.IsNotExist(err) {
		t.Errorf("unexpected backup in output-file mode")
	}

	patched := reopenNode(t, outPath, "/soc/uart@10000000")
	want := []byte{0x02, 0xdc, 0x6c, 0x00}
	got := patched.FindBinProp("clock-frequency")
	if len(got) != 4 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] || got[3] != want[3] {
		t.Errorf("clock-frequency = %x, want %x", got, want)
	}
}

func TestSetCommand_CreateNode(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = false
	setType = "bytes"
	setCreate = true
	setOutput = ""
	setBackup = false

	blobPath := writeTestBlob(t)

	_, err := captureOutput(t, func() error {
		return runSet([]string{blobPath, "/firmware/mac", "local-mac-address", "de:ad:be:ef:00:01"})
	})
	if err != nil {
		t.Fatalf("runSet() error = %v", err)
	}

	node := reopenNode(t, blobPath, "/firmware/mac")
	if node == nil {
		t.Fatal("created node missing after rewrite")
	}
	if got := node.FindBinProp("local-mac-address"); len(got) != 6 || got[0] != 0xde || got[5] != 0x01 {
		t.Errorf("local-mac-address = %x", got)
	}
}

func TestSetCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		typeFlag string
		create   bool
	}{
		{
			name:     "missing node without create",
			args:     []string{"", "/nope", "prop", "value"},
			typeFlag: "string",
		},
		{
			name:     "bad u32 value",
			args:     []string{"", "/chosen", "prop", "not-a-number"},
			typeFlag: "u32",
		},
		{
			name:     "bad hex bytes",
			args:     []string{"", "/chosen", "prop", "zz"},
			typeFlag: "bytes",
		},
		{
			name:     "unknown type",
			args:     []string{"", "/chosen", "prop", "value"},
			typeFlag: "float",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiet = false
			verbose = false
			jsonOut = false
			setType = tt.typeFlag
			setCreate = tt.create
			setOutput = ""
			setBackup = false

			args := tt.args
			args[0] = writeTestBlob(t)

			_, err := captureOutput(t, func() error {
				return runSet(args)
			})
			if err == nil {
				t.Error("runSet() expected error")
			}
		})
	}
}
