package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownExternalRef is returned when a Directory has no entry for a reference.
var ErrUnknownExternalRef = errors.New("unknown external reference")

// DirectoryEntry is what an external directory knows about an imported address.
type DirectoryEntry struct {
	Email       string
	ConfirmedBy string
}

// Directory resolves the external references of imported email addresses.
// It is the context value of the email Transformer.
type Directory interface {
	Lookup(ctx context.Context, externalRef string) (DirectoryEntry, error)
}

// MapDirectory is an in-memory Directory.
type MapDirectory struct {
	entries map[string]DirectoryEntry
	mu      sync.RWMutex
}

// NewMapDirectory creates a MapDirectory with the given entries.
func NewMapDirectory(entries map[string]DirectoryEntry) *MapDirectory {
	directory := &MapDirectory{entries: make(map[string]DirectoryEntry, len(entries))}
	for ref, entry := range entries {
		directory.entries[ref] = entry
	}

	return directory
}

// Put adds or replaces an entry.
func (d *MapDirectory) Put(externalRef string, entry DirectoryEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[externalRef] = entry
}

// Lookup implements Directory.
func (d *MapDirectory) Lookup(ctx context.Context, externalRef string) (DirectoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return DirectoryEntry{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	entry, ok := d.entries[externalRef]
	if !ok {
		return DirectoryEntry{}, fmt.Errorf("%w: %s", ErrUnknownExternalRef, externalRef)
	}

	return entry, nil
}
