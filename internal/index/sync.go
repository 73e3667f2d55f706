package index

import (
	"log/slog"
	"sort"

	"github.com/starford/vaultgraph/internal/checksum"
	"github.com/starford/vaultgraph/internal/graph"
	"github.com/starford/vaultgraph/internal/models"
	"github.com/starford/vaultgraph/internal/storage"
)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
//   - the link graph is rebuilt from scratch and stored
//
// The file list is sorted so resolution of duplicate names is repeatable.
func Sync(db *DB, store storage.Provider, logger *slog.Logger) (*graph.Graph, error) {
	files, err := store.ListFiles()
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	checksums, err := db.AllChecksums()
	if err != nil {
		return nil, err
	}

	docs := make([]models.Document, 0, len(files))
	disk := make(map[string]struct{}, len(files))
	for _, p := range files {
		disk[p] = struct{}{}

		doc, err := store.ReadNote(p)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		docs = append(docs, *doc)

		if checksums[p] == checksum.Sum([]byte(doc.Content)) {
			continue
		}
		if err := db.IndexNote(*doc); err != nil {
			logger.Warn("sync: index failed", slog.String("path", p), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", p))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.RemoveNote(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	g := graph.NewBuilder().Build(docs, files)
	if err := db.ReplaceGraph(g); err != nil {
		return nil, err
	}
	stats := g.Stats()
	logger.Debug("sync: graph rebuilt",
		slog.Int("files", len(files)),
		slog.Int("references", stats.References),
		slog.Int("broken", stats.Broken))
	return g, nil
}
