package graph

import (
	"path"
	"strings"

	"github.com/starford/vaultgraph/internal/models"
)

// Resolver maps a reference target to one of the vault's note paths.
type Resolver struct {
	ext string
}

// NewResolver returns a Resolver for notes with the given extension.
func NewResolver(ext string) *Resolver {
	if ext == "" {
		ext = models.NoteExt
	}
	return &Resolver{ext: ext}
}

// Resolve returns the first file whose stem equals target, ignoring case.
// Failing that, it returns the first file whose name equals target with the
// note extension appended. Files are tried in the order given, so callers
// wanting repeatable results must pass a stable list.
func (r *Resolver) Resolve(target string, files []string) (string, bool) {
	want := strings.ToLower(target)
	for _, f := range files {
		name := path.Base(f)
		stem := strings.TrimSuffix(name, path.Ext(name))
		if strings.ToLower(stem) == want {
			return f, true
		}
	}

	// The suffix check is case-sensitive: "README.MD" becomes "README.MD.md".
	withExt := target
	if !strings.HasSuffix(withExt, r.ext) {
		withExt += r.ext
	}
	withExt = strings.ToLower(withExt)
	for _, f := range files {
		if strings.ToLower(path.Base(f)) == withExt {
			return f, true
		}
	}
	return "", false
}
