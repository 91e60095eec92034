package boot

import (
	"github.com/fdtkit/fdtkit/fdt"
	"github.com/fdtkit/fdtkit/fit"
)

// RegisterBootArgsFixup queues a fixup that writes cmdline into the
// bootargs property of /chosen, creating the node when missing.
func RegisterBootArgsFixup(reg *fdt.FixupRegistry, cmdline string) {
	reg.Register("bootargs", func(t *fdt.Tree) error {
		chosen := t.FindNode([]string{"chosen"}, nil, nil, true)
		chosen.AddStringProp("bootargs", cmdline)
		return nil
	})
}

// RegisterRamdiskFixup queues a fixup that records the loaded ramdisk's
// physical span under /chosen.
func RegisterRamdiskFixup(reg *fdt.FixupRegistry, start, size uint64) {
	reg.Register("ramdisk", func(t *fdt.Tree) error {
		fit.AddRamdisk(t, start, size)
		return nil
	})
}
