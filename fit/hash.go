package fit

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/fdtkit/fdtkit/internal/format"
)

var (
	// ErrHashMismatch indicates stored and computed digests disagree.
	ErrHashMismatch = errors.New("fit: hash mismatch")
	// ErrUnknownAlgo indicates a hash node naming an algorithm this
	// package cannot compute.
	ErrUnknownAlgo = errors.New("fit: unknown hash algorithm")
)

// VerifyHashes checks every hash subnode the packer attached to the
// image against its stored data. Images without hash nodes verify
// trivially. The algorithm set is fixed by the container format: crc32,
// md5, sha1, sha256.
//
// This is corruption detection, not authentication; a signature check
// must have happened before the container was parsed.
func (img *Image) VerifyHashes() error {
	for _, child := range img.node.Children {
		if !strings.HasPrefix(child.Name, "hash") {
			continue
		}
		algo := child.FindStringProp("algo")
		want := child.FindBinProp("value")

		got, err := computeDigest(algo, img.Data)
		if err != nil {
			return fmt.Errorf("%w: image %q node %q algo %q", err, img.Name, child.Name, algo)
		}
		if !bytes.Equal(got, want) {
			return fmt.Errorf("%w: image %q node %q algo %q", ErrHashMismatch, img.Name, child.Name, algo)
		}
	}
	return nil
}

func computeDigest(algo string, data []byte) ([]byte, error) {
	switch algo {
	case "crc32":
		sum := make([]byte, 4)
		format.PutU32(sum, 0, crc32.ChecksumIEEE(data))
		return sum, nil
	case "md5":
		sum := md5.Sum(data)
		return sum[:], nil
	case "sha1":
		sum := sha1.Sum(data)
		return sum[:], nil
	case "sha256":
		sum := sha256.Sum256(data)
		return sum[:], nil
	default:
		return nil, ErrUnknownAlgo
	}
}
