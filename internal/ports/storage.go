// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "time"

// KeywordStore persists named keyword sets to durable storage.
// Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveSet must be transactional. A crash mid-write must not
// corrupt previously committed sets.
type KeywordStore interface {
	// SaveSet persists keywords under name, overwriting any prior set.
	// Keyword order is preserved exactly as given.
	SaveSet(name string, keywords []string) error

	// LoadSet retrieves a keyword set.
	// Returns nil, nil if no set with that name exists.
	LoadSet(name string) ([]string, error)

	// ListSets returns metadata for every stored set, sorted by name.
	ListSets() ([]SetInfo, error)

	// DeleteSet removes a set.
	// Idempotent: deleting a nonexistent set is not an error.
	DeleteSet(name string) error
}

// SetInfo describes a stored keyword set without loading its keywords.
type SetInfo struct {
	Name      string
	Count     int
	UpdatedAt time.Time
}
