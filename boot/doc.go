// Package boot assembles the state a kernel handoff needs around the
// device tree: the kernel command line, the fixups that stamp boot facts
// into the tree, and the cleanup hooks that run when firmware exits.
//
// # Overview
//
// Command lines ship in images as templates with placeholders for facts
// only the running firmware knows: which disk it booted from, which
// partition, the partition GUID. Substitute expands a template against
// those facts. RegisterBootArgsFixup and RegisterRamdiskFixup put the
// results where the kernel looks for them, as fixups on an
// fdt.FixupRegistry so the whole mutation pipeline stays in one place and
// runs in a known order.
//
// CleanupRegistry collects the teardown work owed to hardware before the
// firmware gives up control, keyed by how it exits (reboot, power-off,
// kernel handoff, legacy). Running a cleanup type runs every matching
// hook, not just the first to fail.
//
// # Usage Example
//
//	cmdline, err := boot.Substitute(template, boot.CommandLineInfo{
//		DevNum:  2,
//		PartNum: 3,
//		GUID:    guid,
//	})
//	if err != nil {
//		return err
//	}
//
//	var fixups fdt.FixupRegistry
//	boot.RegisterBootArgsFixup(&fixups, cmdline)
//	boot.RegisterRamdiskFixup(&fixups, ramdiskAddr, ramdiskSize)
//	if err := fixups.Apply(payload.Tree); err != nil {
//		return err
//	}
//
// # Related Packages
//
//   - fdt: the tree the fixups mutate
//   - fit: kernel container loading, the usual source of the tree
package boot
