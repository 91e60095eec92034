package format

// Alignment utilities for the flattened device tree format.
// Tokens, node names, and property values in the structure block are padded
// to 4-byte boundaries.

// Align4 returns n aligned up to the next 4-byte token boundary.
//
// Example:
//
//	Align4(1) = 4
//	Align4(4) = 4
//	Align4(5) = 8
func Align4(n int) int {
	return (n + TokenAlignmentMask) & ^TokenAlignmentMask
}

// Align4U32 returns n aligned up to the next 4-byte token boundary.
// uint32 version for use with blob offsets and declared sizes.
func Align4U32(n uint32) uint32 {
	return (n + TokenAlignmentMask) & ^uint32(TokenAlignmentMask)
}
