package fdt

import (
	"fmt"
	"testing"
)

// Prevent compiler from optimizing away benchmark results.
//
//nolint:unused // Benchmark sink variables - intentionally write-only
var (
	benchTree *Tree
	benchNode *Node
	benchSize uint32
	benchErr  error
)

// Benchmark trees of different sizes. devices is the number of
// peripherals hung off /soc; each carries compatible, reg and a couple of
// tuning properties, so node and property counts scale together.
var benchmarkTrees = []struct {
	name     string
	devices  int
	sizeDesc string
}{
	{"small", 16, "~20 nodes, ~4KB blob"},
	{"medium", 256, "~260 nodes, ~40KB blob"},
	{"large", 4096, "~4100 nodes, ~700KB blob"},
}

func buildBenchTree(devices int) *Tree {
	tree := New()
	root := tree.Root
	root.AddStringProp("model", "Bench Board")
	root.AddStringProp("compatible", "bench,board")
	root.AddU32Prop("#address-cells", 2)
	root.AddU32Prop("#size-cells", 1)

	chosen := root.newChild()
	chosen.Name = "chosen"
	chosen.AddStringProp("bootargs", "console=ttyS0,115200 root=/dev/mmcblk0p3")
	root.Children = append(root.Children, chosen)

	soc := root.newChild()
	soc.Name = "soc"
	soc.AddU32Prop("#address-cells", 2)
	soc.AddU32Prop("#size-cells", 1)
	for i := range devices {
		dev := soc.newChild()
		dev.Name = fmt.Sprintf("dev@%x", 0x1000_0000+uint64(i)*0x1000)
		dev.AddStringProp("compatible", fmt.Sprintf("bench,dev-%d", i%7))
		dev.AddRegProp([]uint64{0x1000_0000 + uint64(i)*0x1000}, []uint64{0x1000}, 2, 1)
		dev.AddU32Prop("interrupts", uint32(32+i))
		dev.AddStringProp("status", "okay")
		soc.Children = append(soc.Children, dev)
	}
	root.Children = append(root.Children, soc)

	tree.ReserveEntries = append(tree.ReserveEntries, ReserveEntry{Start: 0x8000_0000, Size: 0x10_0000})
	return tree
}

func buildBenchBlob(b *testing.B, devices int) []byte {
	b.Helper()

	tree := buildBenchTree(devices)
	blob := make([]byte, tree.FlatSize())
	if err := tree.Flatten(blob); err != nil {
		b.Fatal(err)
	}
	return blob
}

// BenchmarkUnflatten measures parsing a flattened blob into the mutable
// tree form.
func BenchmarkUnflatten(b *testing.B) {
	for _, tc := range benchmarkTrees {
		b.Run(tc.name, func(b *testing.B) {
			blob := buildBenchBlob(b, tc.devices)

			var t *Tree
			var err error

			b.ReportAllocs()
			b.SetBytes(int64(len(blob)))
			b.ResetTimer()

			for range b.N {
				t, err = Unflatten(blob)
				if err != nil {
					b.Fatal(err)
				}
			}

			// Store to prevent dead code elimination
			benchTree = t
		})
	}
}

// BenchmarkFlatten measures serializing a tree back to wire form into a
// preallocated buffer, the way a loader writes the kernel handoff blob.
func BenchmarkFlatten(b *testing.B) {
	for _, tc := range benchmarkTrees {
		b.Run(tc.name, func(b *testing.B) {
			tree := buildBenchTree(tc.devices)
			dst := make([]byte, tree.FlatSize())

			var err error

			b.ReportAllocs()
			b.SetBytes(int64(len(dst)))
			b.ResetTimer()

			for range b.N {
				err = tree.Flatten(dst)
				if err != nil {
					b.Fatal(err)
				}
			}

			benchErr = err
		})
	}
}

// BenchmarkFlatSize measures the measuring pass alone.
func BenchmarkFlatSize(b *testing.B) {
	for _, tc := range benchmarkTrees {
		b.Run(tc.name, func(b *testing.B) {
			tree := buildBenchTree(tc.devices)

			var size uint32

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				size = tree.FlatSize()
			}

			benchSize = size
		})
	}
}

// BenchmarkRoundTrip measures the full unflatten, edit, flatten cycle a
// boot path performs on the blob.
func BenchmarkRoundTrip(b *testing.B) {
	for _, tc := range benchmarkTrees {
		b.Run(tc.name, func(b *testing.B) {
			blob := buildBenchBlob(b, tc.devices)

			b.ReportAllocs()
			b.SetBytes(int64(len(blob)))
			b.ResetTimer()

			for range b.N {
				t, err := Unflatten(blob)
				if err != nil {
					b.Fatal(err)
				}
				chosen := t.FindNode([]string{"chosen"}, nil, nil, true)
				chosen.AddStringProp("bootargs", "console=ttyS0 quiet")
				dst := make([]byte, t.FlatSize())
				if err := t.Flatten(dst); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkFindNode measures a path walk to the last device under /soc.
func BenchmarkFindNode(b *testing.B) {
	for _, tc := range benchmarkTrees {
		b.Run(tc.name, func(b *testing.B) {
			tree := buildBenchTree(tc.devices)
			last := fmt.Sprintf("dev@%x", 0x1000_0000+uint64(tc.devices-1)*0x1000)

			var n *Node

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				n = tree.FindNode([]string{"soc", last}, nil, nil, false)
				if n == nil {
					b.Fatalf("node %s not found", last)
				}
			}

			benchNode = n
		})
	}
}

// BenchmarkFindCompat measures a whole-tree compatible scan that matches
// only the last device.
func BenchmarkFindCompat(b *testing.B) {
	for _, tc := range benchmarkTrees {
		b.Run(tc.name, func(b *testing.B) {
			tree := buildBenchTree(tc.devices)
			// Only devices with index%7 == 6 carry this string; for the
			// small tree that is the 7th of 16 devices.
			compat := "bench,dev-6"

			var n *Node

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				n = tree.Root.FindCompat(compat)
				if n == nil {
					b.Fatalf("no node compatible with %s", compat)
				}
			}

			benchNode = n
		})
	}
}
