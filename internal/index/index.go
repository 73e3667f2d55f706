package index

import (
	"github.com/starford/vaultgraph/internal/graph"
	"github.com/starford/vaultgraph/internal/models"
)

// NoteIndex defines the indexing collaborator: notes go in by path and
// content, come out by path, and answer relevance queries. It also stores the
// most recent link graph.
type NoteIndex interface {
	IndexNote(doc models.Document) error
	RemoveNote(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Stats() (models.IndexStats, error)
	ReplaceGraph(g *graph.Graph) error
	References(source string) ([]models.Reference, error)
	Backlinks(target string) ([]string, error)
	BrokenLinks() (graph.BrokenLinkReport, error)
	Close() error
}

// Verify *DB satisfies NoteIndex at compile time.
var _ NoteIndex = (*DB)(nil)
