package fdt

import (
	"fmt"

	"github.com/fdtkit/fdtkit/internal/format"
)

// Header represents the fixed header at the start of a flattened device tree
// blob. Zero-copy: all accessors read directly from h.raw.
type Header struct {
	raw []byte // len >= format.HeaderSize
}

// hasMagic is a fast, zero-alloc check for the device tree magic.
// Short buffers report no magic rather than panic.
func hasMagic(b []byte) bool {
	if len(b) < format.MagicOffset+format.MagicLen {
		return false
	}
	return format.ReadU32(b, format.MagicOffset) == format.Magic
}

// ParseHeader validates the magic and returns a header view.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < format.HeaderSize {
		return nil, fmt.Errorf("%w: blob too small for header (%d bytes)", ErrTruncated, len(b))
	}
	if !hasMagic(b) {
		return nil, ErrBadMagic
	}
	return &Header{raw: b[:format.HeaderSize]}, nil
}

// ---- Primitive field readers (no alloc) ----

// Raw returns the raw bytes of the header.
func (h *Header) Raw() []byte { return h.raw }

// Magic returns the magic value at offset 0.
func (h *Header) Magic() uint32 { return format.ReadU32(h.raw, format.MagicOffset) }

// TotalSize returns the declared size of the entire blob in bytes.
func (h *Header) TotalSize() uint32 { return format.ReadU32(h.raw, format.TotalSizeOffset) }

// StructOffset returns the offset of the structure block.
func (h *Header) StructOffset() uint32 { return format.ReadU32(h.raw, format.StructOffset) }

// StringsOffset returns the offset of the strings block.
func (h *Header) StringsOffset() uint32 { return format.ReadU32(h.raw, format.StringsOffset) }

// ReserveMapOffset returns the offset of the memory reservation block.
func (h *Header) ReserveMapOffset() uint32 { return format.ReadU32(h.raw, format.ReserveMapOffset) }

// Version returns the format version of the blob.
func (h *Header) Version() uint32 { return format.ReadU32(h.raw, format.VersionOffset) }

// CompatVersion returns the oldest format version the blob can be read as.
func (h *Header) CompatVersion() uint32 { return format.ReadU32(h.raw, format.CompatVersionOffset) }

// BootCPU returns the physical ID of the boot CPU.
func (h *Header) BootCPU() uint32 { return format.ReadU32(h.raw, format.BootCPUOffset) }

// StringsSize returns the declared size of the strings block in bytes.
func (h *Header) StringsSize() uint32 { return format.ReadU32(h.raw, format.StringsSizeOffset) }

// StructSize returns the declared size of the structure block in bytes.
func (h *Header) StructSize() uint32 { return format.ReadU32(h.raw, format.StructSizeOffset) }

// PrefixSize returns the byte count of the opaque header prefix: everything
// before the earliest of the three section offsets. Header fields this
// package does not understand land in the prefix and survive a re-flatten
// byte-for-byte.
func (h *Header) PrefixSize() uint32 {
	min := h.StructOffset()
	if off := h.StringsOffset(); off < min {
		min = off
	}
	if off := h.ReserveMapOffset(); off < min {
		min = off
	}
	return min
}

// Validate performs a thorough header validation with descriptive errors.
// It does not touch the structure block; it checks only the fixed header
// against a provided blobSize (the entire blob length).
//
// Policy choices (conservative but practical):
//   - Magic must be the device tree magic value
//   - TotalSize must cover the header and must not exceed blobSize
//   - Version must be >= 16, and the blob's last-compatible version must
//     not exceed the version this package writes (17)
//   - All three section offsets must lie within TotalSize
//   - The structure block offset must be token-aligned
func (h *Header) Validate(blobSize int) error {
	// Basic size & magic already checked by ParseHeader, but keep messages local to Validate too.
	if len(h.raw) < format.HeaderSize {
		return fmt.Errorf("%w: header truncated: have=%d need=%d", ErrTruncated, len(h.raw), format.HeaderSize)
	}
	if !hasMagic(h.raw) {
		return ErrBadMagic
	}

	total := h.TotalSize()
	if total < format.HeaderSize {
		return fmt.Errorf("%w: total size 0x%X smaller than header", ErrBadLayout, total)
	}
	if int64(total) > int64(blobSize) {
		return fmt.Errorf("%w: total size %d exceeds blob size %d", ErrBadLayout, total, blobSize)
	}

	// Version policy
	if v := h.Version(); v < format.CompatVersion {
		return fmt.Errorf("%w: version %d (oldest readable is %d)", ErrBadVersion, v, format.CompatVersion)
	}
	if cv := h.CompatVersion(); cv > format.CurrentVersion {
		return fmt.Errorf("%w: blob requires version %d (this package reads up to %d)",
			ErrBadVersion, cv, format.CurrentVersion)
	}

	// Section offsets must land inside the blob
	if off := h.StructOffset(); off > total {
		return fmt.Errorf("%w: structure block at 0x%X beyond total size 0x%X", ErrBadLayout, off, total)
	}
	if off := h.StringsOffset(); off > total {
		return fmt.Errorf("%w: strings block at 0x%X beyond total size 0x%X", ErrBadLayout, off, total)
	}
	if off := h.ReserveMapOffset(); off > total {
		return fmt.Errorf("%w: reserve map at 0x%X beyond total size 0x%X", ErrBadLayout, off, total)
	}

	if off := h.StructOffset(); off%format.TokenAlignment != 0 {
		return fmt.Errorf("%w: structure block offset 0x%X not token-aligned", ErrBadLayout, off)
	}

	return nil
}

// newHeaderPrefix synthesizes a header for a tree built in memory rather
// than unflattened from a blob. Section offsets and sizes are placeholders;
// Flatten rewrites them, and PrefixSize of the result is the full header so
// hand-built trees round-trip like unflattened ones.
func newHeaderPrefix() []byte {
	raw := make([]byte, format.HeaderSize)
	format.PutU32(raw, format.MagicOffset, format.Magic)
	format.PutU32(raw, format.TotalSizeOffset, format.HeaderSize)
	format.PutU32(raw, format.StructOffset, format.HeaderSize)
	format.PutU32(raw, format.StringsOffset, format.HeaderSize)
	format.PutU32(raw, format.ReserveMapOffset, format.HeaderSize)
	format.PutU32(raw, format.VersionOffset, format.CurrentVersion)
	format.PutU32(raw, format.CompatVersionOffset, format.CompatVersion)
	return raw
}
