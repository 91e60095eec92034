package fit

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fdtkit/fdtkit/fdt"
)

var (
	// ErrNoImages indicates a container without an /images node.
	ErrNoImages = errors.New("fit: no /images node")
	// ErrNoConfigs indicates a container without a /configurations node.
	ErrNoConfigs = errors.New("fit: no /configurations node")
	// ErrNoMatch indicates that no configuration matched the board and no
	// default was declared.
	ErrNoMatch = errors.New("fit: no matching configuration")
)

// Image is one payload inside a FIT container. Data aliases the container
// blob and holds the stored (possibly compressed) bytes.
type Image struct {
	Name        string
	Data        []byte
	Compression Compression

	node *fdt.Node
}

// Config is one bootable combination of images. Compat lists the entries
// of the configuration's compatible property in order; CompatRank is
// filled in by Select and holds the index of the best-matching board
// compatible string, or -1 when the configuration matched nothing.
type Config struct {
	Name    string
	Kernel  *Image
	FDT     *Image
	Ramdisk *Image

	Compat     []string
	CompatRank int
}

// FIT is a parsed container: the unflattened tree plus indexes over its
// images and configurations, both in container order.
type FIT struct {
	Tree    *fdt.Tree
	Images  []*Image
	Configs []*Config

	defaultName string
}

// Payload is the result of loading one configuration: the kernel ready to
// run and the device tree to hand it.
type Payload struct {
	// Kernel is the decompressed kernel image.
	Kernel []byte
	// Tree is the unflattened device tree of the configuration, or nil
	// when the configuration names none. Values may alias the container
	// blob when the tree image was stored uncompressed.
	Tree *fdt.Tree
	// Config is the configuration the payload was built from.
	Config *Config
}

// Parse unflattens a FIT container and indexes its images and
// configurations. The blob must stay accessible for the life of the
// returned FIT; image data is not copied out of it.
func Parse(blob []byte) (*FIT, error) {
	tree, err := fdt.Unflatten(blob)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	f := &FIT{Tree: tree}

	images := tree.FindNode([]string{"images"}, nil, nil, false)
	if images == nil {
		return nil, ErrNoImages
	}
	for _, child := range images.Children {
		f.Images = append(f.Images, &Image{
			Name:        child.Name,
			Data:        child.FindBinProp("data"),
			Compression: parseCompression(child.FindStringProp("compression")),
			node:        child,
		})
	}

	configs := tree.FindNode([]string{"configurations"}, nil, nil, false)
	if configs == nil {
		return nil, ErrNoConfigs
	}
	f.defaultName = configs.FindStringProp("default")
	for _, child := range configs.Children {
		f.Configs = append(f.Configs, &Config{
			Name:       child.Name,
			Kernel:     f.Image(child.FindStringProp("kernel")),
			FDT:        f.Image(child.FindStringProp("fdt")),
			Ramdisk:    f.Image(child.FindStringProp("ramdisk")),
			Compat:     parseCompat(child.FindBinProp("compatible")),
			CompatRank: -1,
		})
	}

	return f, nil
}

// Image returns the named image, or nil when the container has none of
// that name or name is empty.
func (f *FIT) Image(name string) *Image {
	if name == "" {
		return nil
	}
	for _, img := range f.Images {
		if img.Name == name {
			return img
		}
	}
	return nil
}

// Config returns the named configuration, or nil.
func (f *FIT) Config(name string) *Config {
	for _, cfg := range f.Configs {
		if cfg.Name == name {
			return cfg
		}
	}
	return nil
}

// DefaultConfig returns the configuration the container declares as
// default, or nil when it declares none.
func (f *FIT) DefaultConfig() *Config {
	return f.Config(f.defaultName)
}

// Select picks the configuration for a board. compat lists the board's
// compatible strings best-first; every configuration is ranked by the
// first board string its compatible property contains, and the
// configuration with the best rank wins. Ties keep container order. When
// nothing matches, the container's default configuration is used; without
// one, Select reports ErrNoMatch.
//
// Select records each configuration's rank in CompatRank as a side
// effect, -1 for configurations that matched nothing.
func (f *FIT) Select(compat []string) (*Config, error) {
	var best *Config
	for _, cfg := range f.Configs {
		cfg.CompatRank = -1
		for i, want := range compat {
			if slices.Contains(cfg.Compat, want) {
				cfg.CompatRank = i
				break
			}
		}
		if cfg.CompatRank >= 0 && (best == nil || cfg.CompatRank < best.CompatRank) {
			best = cfg
		}
	}
	if best != nil {
		return best, nil
	}
	if d := f.DefaultConfig(); d != nil {
		return d, nil
	}
	return nil, ErrNoMatch
}

// Load selects a configuration (see Select), decompresses its kernel, and
// unflattens its device tree.
func (f *FIT) Load(compat []string) (*Payload, error) {
	cfg, err := f.Select(compat)
	if err != nil {
		return nil, err
	}
	if cfg.Kernel == nil {
		return nil, fmt.Errorf("fit: configuration %q has no kernel image", cfg.Name)
	}

	kernel, err := cfg.Kernel.Decompress()
	if err != nil {
		return nil, fmt.Errorf("fit: decompress kernel %q: %w", cfg.Kernel.Name, err)
	}

	payload := &Payload{Kernel: kernel, Config: cfg}

	if cfg.FDT != nil {
		data, err := cfg.FDT.Decompress()
		if err != nil {
			return nil, fmt.Errorf("fit: decompress device tree %q: %w", cfg.FDT.Name, err)
		}
		tree, err := fdt.Unflatten(data)
		if err != nil {
			return nil, fmt.Errorf("fit: device tree %q: %w", cfg.FDT.Name, err)
		}
		payload.Tree = tree
	}

	return payload, nil
}

// parseCompat splits a compatible property into its NUL-separated
// entries. A final entry cut short of its NUL by the property size is
// kept as-is.
func parseCompat(v []byte) []string {
	var entries []string
	start := 0
	for i, b := range v {
		if b == 0 {
			entries = append(entries, string(v[start:i]))
			start = i + 1
		}
	}
	if start < len(v) {
		entries = append(entries, string(v[start:]))
	}
	return entries
}
