package fdt

import (
	"bytes"

	"github.com/fdtkit/fdtkit/internal/format"
)

// Token-level readers over a flattened blob. All take an absolute byte
// offset and report the bytes consumed; a return of zero consumed bytes
// means "the expected token is not here", which callers use to detect the
// end of a property run or child list. The blob is trusted: offsets are not
// bounds-checked against its length.

// cstring returns the NUL-terminated string at the start of b.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// ReadProperty decodes the property record at offset. The name is resolved
// through the strings-block offset stored in the blob's header; the value
// aliases the blob (zero-copy). Consumed bytes are the 12-byte record
// header plus the value padded to a token boundary, or zero when the token
// at offset is not a property token.
func ReadProperty(blob []byte, offset uint32) (Property, uint32) {
	if format.ReadU32(blob, int(offset)) != format.TokenProp {
		return Property{}, 0
	}
	size := format.ReadU32(blob, int(offset)+format.PropSizeOffset)
	nameOff := format.ReadU32(blob, int(offset)+format.PropNameOffset)
	nameOff += format.ReadU32(blob, format.StringsOffset)

	dataOff := offset + format.PropDataOffset
	prop := Property{
		Name:  cstring(blob[nameOff:]),
		Value: blob[dataOff : dataOff+size : dataOff+size],
	}
	return prop, format.PropHeaderSize + format.Align4U32(size)
}

// ReadNodeName decodes the begin-node token at offset and returns the
// node's name, which is stored inline and NUL-terminated. Consumed bytes
// are the token plus the padded name, or zero when the token at offset is
// not a begin-node token.
func ReadNodeName(blob []byte, offset uint32) (string, uint32) {
	if format.ReadU32(blob, int(offset)) != format.TokenBeginNode {
		return "", 0
	}
	name := cstring(blob[offset+format.TokenSize:])
	return name, format.TokenSize + format.Align4U32(uint32(len(name))+1)
}

// SkipNode advances past the entire node at offset (name, properties,
// children, end token) without materializing anything, for traversal that
// must not allocate. It returns the bytes consumed, or zero when the token
// at offset is not a begin-node token.
func SkipNode(blob []byte, offset uint32) uint32 {
	start := offset

	_, consumed := ReadNodeName(blob, offset)
	if consumed == 0 {
		return 0
	}
	offset += consumed

	for {
		_, n := ReadProperty(blob, offset)
		if n == 0 {
			break
		}
		offset += n
	}

	for {
		n := SkipNode(blob, offset)
		if n == 0 {
			break
		}
		offset += n
	}

	return offset - start + format.TokenSize
}
