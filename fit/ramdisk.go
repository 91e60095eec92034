package fit

import "github.com/fdtkit/fdtkit/fdt"

// AddRamdisk records where a loaded ramdisk sits in physical memory so
// the kernel can find it: linux,initrd-start and linux,initrd-end on the
// /chosen node, as 64-bit values. The node is created when absent;
// existing values from a previous boot stage are overwritten.
func AddRamdisk(tree *fdt.Tree, start, size uint64) {
	chosen := tree.FindNode([]string{"chosen"}, nil, nil, true)
	chosen.AddU64Prop("linux,initrd-start", start)
	chosen.AddU64Prop("linux,initrd-end", start+size)
}
