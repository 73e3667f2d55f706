package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/vaultgraph/internal/apperr"
	"github.com/starford/vaultgraph/internal/models"
)

const untitledVault = "Untitled"

// FS implements Provider backed by the local file system.
type FS struct {
	root      string // absolute path to vault directory
	name      string
	watch     bool
	cacheSize int
	cache     *noteCache
}

// Option configures an FS.
type Option func(*FS)

// WithName overrides the vault name derived from the root directory.
func WithName(name string) Option {
	return func(f *FS) {
		if name != "" {
			f.name = name
		}
	}
}

// WithWatch records whether the vault should be watched for changes.
func WithWatch(enabled bool) Option {
	return func(f *FS) { f.watch = enabled }
}

// WithCacheSize bounds the note cache.
func WithCacheSize(n int) Option {
	return func(f *FS) { f.cacheSize = n }
}

// Open creates a new FS rooted at the given directory. The directory must
// already exist; this is checked once here and never again.
func Open(root string, opts ...Option) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, apperr.Vault("open", "resolve root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, apperr.Vault("open", "vault path does not exist: %s", abs)
	}
	if !info.IsDir() {
		return nil, apperr.Vault("open", "vault path is not a directory: %s", abs)
	}

	f := &FS{root: abs, name: vaultName(abs)}
	for _, opt := range opts {
		opt(f)
	}
	if f.cache, err = newNoteCache(f.cacheSize); err != nil {
		return nil, err
	}
	return f, nil
}

// vaultName returns the final path segment, or "Untitled" when there is none.
func vaultName(abs string) string {
	base := filepath.Base(abs)
	if base == "" || base == "." || base == string(os.PathSeparator) {
		return untitledVault
	}
	return base
}

// Root returns the absolute vault root.
func (f *FS) Root() string { return f.root }

// Config returns the vault handle's configuration.
func (f *FS) Config() models.VaultConfig {
	return models.VaultConfig{RootPath: f.root, Name: f.name, WatchEnabled: f.watch}
}

// Cached returns the cache entry for path without touching the disk.
func (f *FS) Cached(path string) (*models.Document, bool) {
	return f.cache.get(cacheKey(path))
}

// CacheLen returns the number of cached notes.
func (f *FS) CacheLen() int { return f.cache.len() }

func cacheKey(rel string) string {
	return filepath.ToSlash(filepath.Clean(rel))
}

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(op, rel string) (string, error) {
	if rel == "" {
		return "", apperr.Vault(op, "empty path")
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", apperr.Vault(op, "absolute paths not allowed: %s", rel)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", apperr.Vault(op, "path escapes vault root: %s", rel)
	}
	return abs, nil
}

// skipDir reports whether a directory is pruned from listings.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// ListFiles walks the vault and returns the relative, slash-separated path of
// every note. Hidden directories and node_modules are not descended into.
func (f *FS) ListFiles() ([]string, error) {
	var out []string
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != f.root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != models.NoteExt {
			return nil
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, apperr.IO("list files", "", err)
	}
	return out, nil
}

// ReadNote reads the note at path, replaces its cache entry, and returns the
// cached document. Metadata is always empty.
func (f *FS) ReadNote(path string) (*models.Document, error) {
	abs, err := f.safePath("read note", path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NotFound("read note", path)
	}
	if err != nil {
		return nil, apperr.IO("read note", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, apperr.IO("read note", path, err)
	}

	doc := &models.Document{
		Path:     cacheKey(path),
		Content:  string(data),
		Metadata: map[string]string{},
	}
	if mt := info.ModTime(); !mt.IsZero() && mt.Unix() >= 0 {
		secs := mt.Unix()
		doc.ModifiedAt = &secs
	}
	f.cache.put(doc)
	return doc, nil
}

// WriteNote writes content via a temp file and rename, then caches a fresh
// document with no modification time. An existing note keeps its permission
// bits; new notes are 0644.
func (f *FS) WriteNote(path, content string) error {
	abs, err := f.safePath("write note", path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.IO("write note", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".vaultgraph-tmp-*")
	if err != nil {
		return apperr.IO("write note", path, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(abs); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		return apperr.IO("write note", path, err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		return apperr.IO("write note", path, err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.IO("write note", path, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return apperr.IO("write note", path, err)
	}
	success = true

	f.cache.put(&models.Document{
		Path:     cacheKey(path),
		Content:  content,
		Metadata: map[string]string{},
	})
	return nil
}

// DeleteNote removes a note from the vault. The cache entry is evicted even
// when removal fails.
func (f *FS) DeleteNote(path string) error {
	abs, err := f.safePath("delete note", path)
	if err != nil {
		return err
	}
	f.cache.remove(cacheKey(path))
	if err := os.Remove(abs); err != nil {
		return apperr.IO("delete note", path, err)
	}
	return nil
}

// RenameNote moves a note within the vault. A cache entry follows the file
// only if one existed; none is created otherwise.
func (f *FS) RenameNote(oldPath, newPath string) error {
	absOld, err := f.safePath("rename note", oldPath)
	if err != nil {
		return err
	}
	absNew, err := f.safePath("rename note", newPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absNew), 0o755); err != nil {
		return apperr.IO("rename note", newPath, err)
	}
	if err := os.Rename(absOld, absNew); err != nil {
		return apperr.IO("rename note", oldPath, err)
	}
	f.cache.move(cacheKey(oldPath), cacheKey(newPath))
	return nil
}
