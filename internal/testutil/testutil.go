// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/vaultgraph/internal/index"
	"github.com/starford/vaultgraph/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "vaultgraph-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory and opens a note store on it.
func TestVault(t *testing.T, opts ...storage.Option) (string, *storage.FS) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.Open(vaultDir, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// WriteNotes writes each path/content pair through the store.
func WriteNotes(t *testing.T, store storage.Provider, notes map[string]string) {
	t.Helper()
	for path, content := range notes {
		if err := store.WriteNote(path, content); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}
