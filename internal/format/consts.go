// Package format houses the low-level constants and byte-order primitives for
// the flattened device tree (FDT) wire format. The goal is to keep the raw
// layout knowledge in one place, allocation-free, and independent from the
// public API so higher-level packages can orchestrate the data in a more
// ergonomic form.
package format

const (
	// Magic is the value at offset 0 of every flattened device tree blob.
	Magic uint32 = 0xd00dfeed

	// CurrentVersion is the format version written into synthesized headers.
	CurrentVersion = 17

	// CompatVersion is the oldest version a CurrentVersion blob can be read
	// as, written into the last-compatible-version header field.
	CompatVersion = 16
)

// ============================================================================
// Structure Block Tokens
// ============================================================================
// Each token is a big-endian uint32 aligned to a 4-byte boundary.
const (
	// TokenBeginNode opens a node. It is followed by the node's
	// NUL-terminated name, padded to the next token boundary.
	TokenBeginNode uint32 = 1

	// TokenEndNode closes the most recently opened node.
	TokenEndNode uint32 = 2

	// TokenProp introduces a property record (see the Prop offsets below).
	TokenProp uint32 = 3

	// TokenNop is a filler token some producers emit when deleting records
	// in place. Readers of trusted firmware images never encounter it.
	TokenNop uint32 = 4

	// TokenEnd terminates the structure block.
	TokenEnd uint32 = 9
)

// ============================================================================
// Header Constants
// ============================================================================
// Header field offsets. All fields are big-endian uint32.
const (
	MagicOffset         = 0x00 // uint32, Magic
	TotalSizeOffset     = 0x04 // uint32, size of the entire blob in bytes
	StructOffset        = 0x08 // uint32, offset of the structure block
	StringsOffset       = 0x0C // uint32, offset of the strings block
	ReserveMapOffset    = 0x10 // uint32, offset of the memory reservation block
	VersionOffset       = 0x14 // uint32, format version
	CompatVersionOffset = 0x18 // uint32, last compatible version
	BootCPUOffset       = 0x1C // uint32, physical ID of the boot CPU
	StringsSizeOffset   = 0x20 // uint32, size of the strings block in bytes
	StructSizeOffset    = 0x24 // uint32, size of the structure block in bytes
)

// derived lengths.
const (
	MagicLen         = TotalSizeOffset - MagicOffset             // 0x04
	TotalSizeLen     = StructOffset - TotalSizeOffset            // 0x04
	StructOffsetLen  = StringsOffset - StructOffset              // 0x04
	StringsOffsetLen = ReserveMapOffset - StringsOffset          // 0x04
	ReserveMapLen    = VersionOffset - ReserveMapOffset          // 0x04
	VersionLen       = CompatVersionOffset - VersionOffset       // 0x04
	CompatVersionLen = BootCPUOffset - CompatVersionOffset       // 0x04
	BootCPULen       = StringsSizeOffset - BootCPUOffset         // 0x04
	StringsSizeLen   = StructSizeOffset - StringsSizeOffset      // 0x04
	StructSizeLen    = 4                                         // 0x04
)

// header size.
const (
	// HeaderSize is the size of the version 17 header in bytes. Older
	// versions end earlier; a reader must treat anything between the end of
	// the fields it understands and the first section as opaque.
	HeaderSize = StructSizeOffset + StructSizeLen // 0x28 (40 bytes)
)

// ============================================================================
// Property Record Constants
// ============================================================================
// Field offsets within a property record, relative to its TokenProp token.
const (
	PropTokenOffset = 0x00 // uint32, TokenProp
	PropSizeOffset  = 0x04 // uint32, value length in bytes (zero is legal)
	PropNameOffset  = 0x08 // uint32, name offset within the strings block
	PropDataOffset  = 0x0C // start of value bytes, padded to a token boundary
)

// header size and derived lengths.
const (
	PropHeaderSize = PropDataOffset // 0x0C (12 bytes before value data)

	PropSizeLen = PropNameOffset - PropSizeOffset // 0x04
	PropNameLen = PropDataOffset - PropNameOffset // 0x04
)

// ============================================================================
// Memory Reservation Block Constants
// ============================================================================
// Each entry is a (start, size) pair of big-endian uint64 values. The list is
// terminated by an entry whose size is zero; the terminator is part of the
// wire format, not of the logical entry list.
const (
	ReserveStartOffset = 0x00 // uint64, first reserved physical address
	ReserveSizeOffset  = 0x08 // uint64, length of the range in bytes

	ReserveEntrySize = 0x10 // 16 bytes per entry, terminator included
)

// ============================================================================
// Generic Constants
// ============================================================================
const (
	// TokenSize is the size of one structure-block token.
	TokenSize = 4

	// TokenAlignment is the required alignment of every token, node name,
	// and property value within the structure block.
	TokenAlignment = 4

	// TokenAlignmentMask is the bitmask used for aligning to token
	// boundaries (TokenAlignment - 1).
	TokenAlignmentMask = TokenAlignment - 1
)
