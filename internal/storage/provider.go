// Package storage implements the note store: the vault directory on disk plus
// an in-memory cache of recently accessed notes.
package storage

import "github.com/starford/vaultgraph/internal/models"

// Provider is the interface for vault file operations. All paths are
// relative to the vault root.
type Provider interface {
	// Root returns the absolute vault root.
	Root() string
	// ListFiles returns every note path under the root. Order is not stable.
	ListFiles() ([]string, error)
	// ReadNote reads a note from disk and caches it.
	ReadNote(path string) (*models.Document, error)
	// WriteNote writes content to path, creating parent directories.
	WriteNote(path, content string) error
	// DeleteNote removes the note at path and evicts it from the cache.
	DeleteNote(path string) error
	// RenameNote moves oldPath to newPath.
	RenameNote(oldPath, newPath string) error
}

var _ Provider = (*FS)(nil)
