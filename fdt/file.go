package fdt

import "github.com/fdtkit/fdtkit/internal/mmfile"

// File is a device tree blob loaded from disk together with its
// unflattened form. The blob is memory mapped read-only where the
// platform supports it, so the tree's property values alias file-backed
// pages until Close.
type File struct {
	// Tree is the unflattened view of the blob.
	Tree *Tree

	data  []byte
	unmap func() error
}

// Open loads the blob at path and unflattens it into record form.
// The returned File must be closed when the tree and its property
// values are no longer needed.
func Open(path string) (*File, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}

	t, err := Unflatten(data)
	if err != nil {
		_ = unmap()
		return nil, err
	}

	return &File{Tree: t, data: data, unmap: unmap}, nil
}

// Blob returns the raw mapped bytes of the file. The slice is read-only
// and becomes invalid after Close.
func (f *File) Blob() []byte {
	return f.data
}

// Close releases the mapping. Property values held by the tree alias the
// mapped bytes, so neither the tree nor slices taken from it may be used
// afterwards. Close is a no-op when called twice.
func (f *File) Close() error {
	var err error
	if f.unmap != nil {
		err = f.unmap()
		f.unmap = nil
	}
	f.data = nil
	f.Tree = nil
	return err
}
