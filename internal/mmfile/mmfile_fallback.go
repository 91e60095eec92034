//go:build !unix && !windows

// Package mmfile provides platform-specific helpers for memory-mapping
// device tree blob files.
package mmfile

import "os"

// Map reads the file at path into memory. Platforms without mmap support
// get a plain copy of the blob; release is then a no-op.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	release := func() error { return nil }
	return data, release, nil
}
