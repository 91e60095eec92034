//go:build windows

package mmfile

import (
	"os"
)

// Map reads the file at path into memory. Windows builds copy rather than
// map; blobs are small enough that the difference does not matter there.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	release := func() error { return nil }
	return data, release, nil
}
