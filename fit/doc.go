// Package fit reads flattened image trees (FIT images): the kernel
// packaging format that bundles kernels, device trees, and ramdisks with
// per-board configurations into a single device tree blob.
//
// # Overview
//
// A FIT image is itself a flattened device tree. Its /images node holds
// one child per payload (kernel, device tree blob, ramdisk), each with
// inline data and a declared compression. Its /configurations node maps
// board compatible strings to image combinations and names a default.
//
// Parse unflattens the container and indexes images and configurations.
// Select ranks configurations against a board's compatible list, best
// match first, falling back to the declared default. Load goes one step
// further and produces a boot payload: the decompressed kernel plus the
// unflattened device tree of the chosen configuration.
//
// # Usage Example
//
//	f, err := fit.Parse(blob)
//	if err != nil {
//		return err
//	}
//	payload, err := f.Load([]string{"acme,blaster-rev5", "acme,blaster"})
//	if err != nil {
//		return err
//	}
//	fit.AddRamdisk(payload.Tree, ramdiskAddr, uint64(len(ramdisk)))
//
// # Trust Model
//
// Containers are assumed signature-checked before parsing, like every
// blob the fdt package touches. The hash nodes some packers embed can be
// checked with VerifyHashes, but that is integrity against transport
// corruption, not authentication.
//
// # Thread Safety
//
// A FIT and everything reachable from it is not safe for concurrent
// mutation. Concurrent reads are safe once parsing and selection finish.
//
// # Related Packages
//
//   - fdt: the device tree engine the container format is built on
//   - boot: command line assembly and handoff fixups
package fit
