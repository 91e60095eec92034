package boot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxCommandLine bounds the expanded command line, terminator included.
// Templates that expand past it are rejected rather than truncated.
const MaxCommandLine = 10000

// ErrCommandLineTooLong indicates a template that expanded past
// MaxCommandLine.
var ErrCommandLineTooLong = errors.New("boot: command line too long")

// CommandLineInfo holds the boot facts substituted into a command line
// template.
type CommandLineInfo struct {
	// DevNum is the boot disk number, 0 through 25.
	DevNum int
	// PartNum is the boot partition number, 1 through 99.
	PartNum int
	// GUID is the boot partition's unique GUID in its on-disk byte order.
	GUID [16]byte
	// ExternalGPT is set when the partition table lives outside the boot
	// device, the NAND arrangement, which changes how %R names the root.
	ExternalGPT bool
	// MainboardArgs is extra text some boards insert ahead of the
	// template expansion.
	MainboardArgs string
}

// Substitute expands a command line template. The output always starts
// with "cros_secure " followed by any board extras, then the template
// with its placeholders replaced:
//
//	%D  boot disk: a letter ("sda" style), or digits when followed by
//	    a literal 'p' ("mmcblk0p" style)
//	%P  boot partition number in digits
//	%U  boot partition GUID
//	%R  root specifier: PARTUUID=<guid>/PARTNROFF=1, or
//	    /dev/ubiblock<part>_0 when the GPT is external
//
// An unrecognized placeholder is copied through literally. A template
// ending in a bare '%' is malformed.
func Substitute(template string, info CommandLineInfo) (string, error) {
	var b strings.Builder
	b.WriteString("cros_secure ")
	b.WriteString(info.MainboardArgs)

	guid := formatGUID(info.GUID)

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}

		i++
		if i == len(template) {
			return "", errors.New("boot: command line template ends with '%'")
		}

		switch template[i] {
		case 'D':
			if info.DevNum < 0 || info.DevNum > 25 {
				return "", fmt.Errorf("boot: device number %d out of range", info.DevNum)
			}
			// Digit-named devices ("mmcblk0p3") are told apart from
			// letter-named ones ("sda3") by the 'p' that follows the
			// placeholder in the template.
			if i+1 < len(template) && template[i+1] == 'p' {
				b.WriteString(strconv.Itoa(info.DevNum))
			} else {
				b.WriteByte(byte('a' + info.DevNum))
			}
		case 'P':
			if info.PartNum < 1 || info.PartNum > 99 {
				return "", fmt.Errorf("boot: partition number %d out of range", info.PartNum)
			}
			b.WriteString(strconv.Itoa(info.PartNum))
		case 'U':
			b.WriteString(guid)
		case 'R':
			if info.ExternalGPT {
				if info.PartNum < 1 || info.PartNum > 99 {
					return "", fmt.Errorf("boot: partition number %d out of range", info.PartNum)
				}
				b.WriteString("/dev/ubiblock")
				b.WriteString(strconv.Itoa(info.PartNum))
				b.WriteString("_0")
			} else {
				b.WriteString("PARTUUID=")
				b.WriteString(guid)
				b.WriteString("/PARTNROFF=1")
			}
		default:
			b.WriteByte('%')
			b.WriteByte(template[i])
		}
	}

	if b.Len()+1 > MaxCommandLine {
		return "", ErrCommandLineTooLong
	}
	return b.String(), nil
}

// formatGUID renders a GUID from its on-disk layout: the first three
// groups are stored little-endian, the rest big-endian.
func formatGUID(g [16]byte) string {
	var b strings.Builder
	b.Grow(36)
	for _, i := range [...]int{3, 2, 1, 0} {
		fmt.Fprintf(&b, "%02x", g[i])
	}
	b.WriteByte('-')
	fmt.Fprintf(&b, "%02x%02x", g[5], g[4])
	b.WriteByte('-')
	fmt.Fprintf(&b, "%02x%02x", g[7], g[6])
	b.WriteByte('-')
	fmt.Fprintf(&b, "%02x%02x", g[8], g[9])
	b.WriteByte('-')
	for i := 10; i < 16; i++ {
		fmt.Fprintf(&b, "%02x", g[i])
	}
	return b.String()
}
