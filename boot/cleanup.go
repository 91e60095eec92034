package boot

import (
	"errors"
	"fmt"
)

// CleanupType is a bitmask of the ways firmware gives up control. A hook
// registered for several exit paths ORs the types together.
type CleanupType uint

const (
	// CleanupOnReboot hooks run before a warm reset.
	CleanupOnReboot CleanupType = 1 << iota
	// CleanupOnPowerOff hooks run before power is cut.
	CleanupOnPowerOff
	// CleanupOnHandoff hooks run before jumping into a loaded kernel.
	CleanupOnHandoff
	// CleanupOnLegacy hooks run before chaining into legacy firmware.
	CleanupOnLegacy
)

// CleanupFunc quiesces one piece of hardware or state for the given exit
// path.
type CleanupFunc func(CleanupType) error

type cleanupEntry struct {
	name  string
	types CleanupType
	fn    CleanupFunc
}

// CleanupRegistry holds exit hooks in registration order. The zero value
// is an empty registry ready for use.
type CleanupRegistry struct {
	entries []cleanupEntry
}

// Register adds a hook for every exit path in types. The name identifies
// the hook in error output.
func (r *CleanupRegistry) Register(name string, types CleanupType, fn CleanupFunc) {
	r.entries = append(r.entries, cleanupEntry{name: name, types: types, fn: fn})
}

// Len reports the number of registered hooks.
func (r *CleanupRegistry) Len() int {
	return len(r.entries)
}

// Run invokes every hook registered for the given exit path, in
// registration order. A failing hook does not stop the ones after it;
// devices must still be quiesced even when one refuses to. The returned
// error joins every failure, each labeled with its hook's name.
func (r *CleanupRegistry) Run(t CleanupType) error {
	var errs []error
	for _, e := range r.entries {
		if e.types&t == 0 {
			continue
		}
		if err := e.fn(t); err != nil {
			errs = append(errs, fmt.Errorf("cleanup %q: %w", e.name, err))
		}
	}
	return errors.Join(errs...)
}
