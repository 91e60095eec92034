package format

import "encoding/binary"

// Binary encoding utilities for big-endian integers.
//
// Every multi-byte field in a flattened device tree is big-endian regardless
// of host byte order, so all readers and writers in this module funnel through
// these helpers.
//
// Implementation: Uses encoding/binary.BigEndian. The standard library
// implementation is inlined by the compiler; wrapping it costs nothing and
// keeps offset arithmetic next to the field names at call sites.

// PutU32 writes a uint32 value to the buffer at the specified offset in big-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.BigEndian.PutUint32(b[off:off+4], v)
}

// PutU64 writes a uint64 value to the buffer at the specified offset in big-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.BigEndian.PutUint64(b[off:off+8], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in big-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.BigEndian.Uint32(b[off : off+4])
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in big-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.BigEndian.Uint64(b[off : off+8])
}
