package storage

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/starford/vaultgraph/internal/models"
)

// DefaultCacheSize bounds the note cache when no size is configured.
const DefaultCacheSize = 4096

// noteCache holds the documents last read or written, keyed by relative path.
// Entries leave only through explicit removal, overwrite, or once the bound
// is exceeded. A note evicted by the bound is no longer cached, so a later
// rename does not carry an entry for it; size the bound above the vault's
// note count to keep every note cached across rebuilds.
type noteCache struct {
	entries *lru.Cache[string, *models.Document]
}

func newNoteCache(size int) (*noteCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *models.Document](size)
	if err != nil {
		return nil, fmt.Errorf("storage: create cache: %w", err)
	}
	return &noteCache{entries: c}, nil
}

func (c *noteCache) get(path string) (*models.Document, bool) {
	return c.entries.Peek(path)
}

func (c *noteCache) put(doc *models.Document) {
	c.entries.Add(doc.Path, doc)
}

func (c *noteCache) remove(path string) {
	c.entries.Remove(path)
}

// move re-keys an existing entry. It reports false and does nothing when
// oldPath is not cached.
func (c *noteCache) move(oldPath, newPath string) bool {
	doc, ok := c.entries.Peek(oldPath)
	if !ok {
		return false
	}
	c.entries.Remove(oldPath)
	doc.Path = newPath
	c.entries.Add(newPath, doc)
	return true
}

func (c *noteCache) len() int {
	return c.entries.Len()
}
