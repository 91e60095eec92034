package fit

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz/lzma"
)

// Compression identifies how an image's stored bytes were compressed.
type Compression int

const (
	// CompressionInvalid marks a compression string this package does not
	// know. Images keep it so the failure surfaces at decompression, with
	// the image name attached, rather than at parse.
	CompressionInvalid Compression = iota
	CompressionNone
	CompressionLzma
	CompressionLz4
	CompressionGzip
	CompressionZstd
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLzma:
		return "lzma"
	case CompressionLz4:
		return "lz4"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	default:
		return "invalid"
	}
}

// parseCompression maps an image's compression property to a Compression.
// An absent property means uncompressed.
func parseCompression(s string) Compression {
	switch s {
	case "", "none":
		return CompressionNone
	case "lzma":
		return CompressionLzma
	case "lz4":
		return CompressionLz4
	case "gzip":
		return CompressionGzip
	case "zstd":
		return CompressionZstd
	default:
		return CompressionInvalid
	}
}

// Decompress returns the image's payload bytes. Uncompressed images come
// back as the stored slice itself, without copying; everything else
// decodes into a fresh buffer.
func (img *Image) Decompress() ([]byte, error) {
	switch img.Compression {
	case CompressionNone:
		return img.Data, nil

	case CompressionLzma:
		r, err := lzma.NewReader(bytes.NewReader(img.Data))
		if err != nil {
			return nil, fmt.Errorf("lzma %q: %w", img.Name, err)
		}
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("lzma %q: %w", img.Name, err)
		}
		return out, nil

	case CompressionLz4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(img.Data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 %q: %w", img.Name, err)
		}
		return out, nil

	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(img.Data))
		if err != nil {
			return nil, fmt.Errorf("gzip %q: %w", img.Name, err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("gzip %q: %w", img.Name, err)
		}
		return out, nil

	case CompressionZstd:
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd %q: %w", img.Name, err)
		}
		defer d.Close()
		out, err := d.DecodeAll(img.Data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd %q: %w", img.Name, err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("fit: image %q has unsupported compression", img.Name)
	}
}
