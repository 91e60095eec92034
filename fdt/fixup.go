package fdt

import "fmt"

// FixupFunc mutates an unflattened tree in place. Implementations report
// failure through the returned error and must leave the tree usable when
// they do.
type FixupFunc func(*Tree) error

type registeredFixup struct {
	name string
	fn   FixupFunc
}

// FixupRegistry holds a list of named tree mutations and applies them in
// registration order. The zero value is an empty registry ready for use.
//
// Callers own their registry instance. Nothing in this package registers
// fixups behind the caller's back, so the set that runs is exactly the set
// the boot path assembled.
type FixupRegistry struct {
	fixups []registeredFixup
}

// Register appends a named fixup. Names are not required to be unique;
// they exist to identify the failing step in error messages.
func (r *FixupRegistry) Register(name string, fn FixupFunc) {
	r.fixups = append(r.fixups, registeredFixup{name: name, fn: fn})
}

// Len reports the number of registered fixups.
func (r *FixupRegistry) Len() int {
	return len(r.fixups)
}

// Apply runs every registered fixup against t in registration order. It
// stops at the first failure and returns an error naming the fixup that
// failed; fixups after it do not run. A tree that has been through a
// failed Apply is partially fixed up and should not be flattened into a
// boot payload.
func (r *FixupRegistry) Apply(t *Tree) error {
	for _, f := range r.fixups {
		if err := f.fn(t); err != nil {
			return fmt.Errorf("%w (fixup %q): %w", ErrFixupFailed, f.name, err)
		}
	}
	return nil
}
