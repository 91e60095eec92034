package fdt

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat   ErrKind = iota // malformed header (bad magic, truncated)
	ErrKindVersion                 // header version outside the supported range
	ErrKindSpace                   // destination buffer too small for output
	ErrKindNotFound                // missing node/property/path
	ErrKindFixup                   // a registered fixup reported failure
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels commonly returned by implementations.
var (
	// ErrBadMagic indicates the blob lacks the device tree magic value.
	ErrBadMagic = &Error{Kind: ErrKindFormat, Msg: "not a device tree blob (bad magic)"}
	// ErrTruncated indicates the blob is too small for the fixed header.
	ErrTruncated = &Error{Kind: ErrKindFormat, Msg: "device tree blob truncated"}
	// ErrBadLayout indicates header section offsets that cannot describe a blob.
	ErrBadLayout = &Error{Kind: ErrKindFormat, Msg: "header section offsets inconsistent"}
	// ErrBadVersion indicates a header version outside the supported range.
	ErrBadVersion = &Error{Kind: ErrKindVersion, Msg: "unsupported device tree version"}
	// ErrBufferTooSmall indicates a flatten destination shorter than FlatSize.
	ErrBufferTooSmall = &Error{Kind: ErrKindSpace, Msg: "destination buffer too small"}
	// ErrNotFound indicates a missing node, property, or path.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrFixupFailed indicates a registered fixup aborted the boot flow.
	ErrFixupFailed = &Error{Kind: ErrKindFixup, Msg: "device tree fixup failed"}
)
