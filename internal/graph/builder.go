// Package graph builds the forward, backward, and broken-link indices of a vault.
package graph

import (
	"slices"

	"github.com/starford/vaultgraph/internal/models"
	"github.com/starford/vaultgraph/internal/parser"
)

// ForwardIndex maps a document path to its references in occurrence order.
type ForwardIndex map[string][]models.Reference

// BackwardIndex maps a resolved note path to the sorted, distinct paths of
// the documents that reference it.
type BackwardIndex map[string][]string

// BrokenLinkReport maps a document path to the targets that failed to
// resolve, in order of occurrence.
type BrokenLinkReport map[string][]string

// Builder runs extraction and resolution across a set of documents.
type Builder struct {
	extractor *parser.LinkExtractor
	resolver  *Resolver
}

// NewBuilder returns a Builder for .md vaults.
func NewBuilder() *Builder {
	return &Builder{
		extractor: parser.NewLinkExtractor(),
		resolver:  NewResolver(models.NoteExt),
	}
}

// BuildForwardIndex extracts references from every document. Documents
// without references are left out.
func (b *Builder) BuildForwardIndex(docs []models.Document) ForwardIndex {
	fwd := make(ForwardIndex)
	for _, d := range docs {
		if refs := b.extractor.Extract(d.Content); len(refs) > 0 {
			fwd[d.Path] = refs
		}
	}
	return fwd
}

// BuildBackwardIndex resolves every reference against files and records the
// referencing source under the resolved path.
func (b *Builder) BuildBackwardIndex(fwd ForwardIndex, files []string) BackwardIndex {
	back := make(BackwardIndex)
	for source, refs := range fwd {
		for _, ref := range refs {
			if target, ok := b.resolver.Resolve(ref.Target, files); ok {
				back[target] = append(back[target], source)
			}
		}
	}
	for target, sources := range back {
		slices.Sort(sources)
		back[target] = slices.Compact(sources)
	}
	return back
}

// FindBrokenLinks collects the targets that fail to resolve. Sources whose
// references all resolve are left out.
func (b *Builder) FindBrokenLinks(fwd ForwardIndex, files []string) BrokenLinkReport {
	broken := make(BrokenLinkReport)
	for source, refs := range fwd {
		var missing []string
		for _, ref := range refs {
			if _, ok := b.resolver.Resolve(ref.Target, files); !ok {
				missing = append(missing, ref.Target)
			}
		}
		if len(missing) > 0 {
			broken[source] = missing
		}
	}
	return broken
}

// Graph is the full link graph of a vault at one point in time.
type Graph struct {
	Forward  ForwardIndex
	Backward BackwardIndex
	Broken   BrokenLinkReport
}

// Stats summarises a Graph.
type Stats struct {
	Documents  int `json:"documents"`
	References int `json:"references"`
	Targets    int `json:"targets"`
	Broken     int `json:"broken"`
}

// Build recomputes the whole graph for docs against files.
func (b *Builder) Build(docs []models.Document, files []string) *Graph {
	fwd := b.BuildForwardIndex(docs)
	return &Graph{
		Forward:  fwd,
		Backward: b.BuildBackwardIndex(fwd, files),
		Broken:   b.FindBrokenLinks(fwd, files),
	}
}

// Backlinks returns the documents referencing path, or an empty slice.
func (g *Graph) Backlinks(path string) []string {
	if sources, ok := g.Backward[path]; ok {
		return slices.Clone(sources)
	}
	return []string{}
}

// Stats counts documents with references, references, resolved targets, and
// broken references.
func (g *Graph) Stats() Stats {
	s := Stats{Documents: len(g.Forward), Targets: len(g.Backward)}
	for _, refs := range g.Forward {
		s.References += len(refs)
	}
	for _, targets := range g.Broken {
		s.Broken += len(targets)
	}
	return s
}
