// Package noteservice coordinates the note store, the index and the link
// graph for callers that change notes one at a time.
package noteservice

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"sync"

	"github.com/starford/vaultgraph/internal/apperr"
	"github.com/starford/vaultgraph/internal/checksum"
	"github.com/starford/vaultgraph/internal/graph"
	"github.com/starford/vaultgraph/internal/index"
	"github.com/starford/vaultgraph/internal/models"
	"github.com/starford/vaultgraph/internal/parser"
	"github.com/starford/vaultgraph/internal/render"
	"github.com/starford/vaultgraph/internal/storage"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Path        string             `json:"path"`
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	HTML        string             `json:"html"`
	Checksum    string             `json:"checksum"`
	Tags        []string           `json:"tags"`
	Frontmatter map[string]any     `json:"frontmatter,omitempty"`
	Headings    []render.Heading   `json:"headings"`
	CodeBlocks  []render.CodeBlock `json:"codeBlocks"`
	References  []models.Reference `json:"references"`
	Backlinks   []string           `json:"backlinks"`
	ModifiedAt  *int64             `json:"modifiedAt,omitempty"`
}

// Service coordinates storage and index operations. Every change rebuilds
// the link graph.
type Service struct {
	store    storage.Provider
	db       *index.DB
	logger   *slog.Logger
	renderer *render.Renderer

	mu    sync.RWMutex
	graph *graph.Graph
}

// NewService creates a new note service.
func NewService(store storage.Provider, db *index.DB, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		db:       db,
		logger:   logger,
		renderer: render.New(),
	}
}

// Refresh syncs the index with the vault and returns the rebuilt graph.
func (s *Service) Refresh(_ context.Context) (*graph.Graph, error) {
	g, err := index.Sync(s.db, s.store, s.logger)
	if err != nil {
		return nil, err
	}
	s.SetGraph(g)
	return g, nil
}

// SetGraph replaces the in-memory graph, e.g. after a watcher-driven sync.
func (s *Service) SetGraph(g *graph.Graph) {
	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()
}

// Graph returns the most recently built graph, or nil before the first Refresh.
func (s *Service) Graph() *graph.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// GetNote reads a note from storage, parses and renders it, and enriches it
// with its references and backlinks as of the last graph rebuild.
func (s *Service) GetNote(_ context.Context, p string) (*NoteDetail, error) {
	doc, err := s.store.ReadNote(p)
	if err != nil {
		return nil, err
	}
	return s.buildNoteDetail(doc)
}

// CreateNote writes a new note and rebuilds the graph.
func (s *Service) CreateNote(ctx context.Context, p, content string) (*NoteDetail, error) {
	if err := checkNotePath("create note", p); err != nil {
		return nil, err
	}
	if _, err := s.store.ReadNote(p); err == nil {
		return nil, apperr.New(apperr.KindAlreadyExists, "create note", p, nil)
	} else if !errors.Is(err, apperr.ErrFileNotFound) {
		return nil, err
	}
	if err := s.store.WriteNote(p, content); err != nil {
		return nil, err
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, p)
}

// UpdateNote writes updated content with optimistic concurrency: a non-empty
// ifMatch must equal the checksum of the current content.
func (s *Service) UpdateNote(ctx context.Context, p, content, ifMatch string) (*NoteDetail, error) {
	existing, err := s.store.ReadNote(p)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum([]byte(existing.Content)) {
		return nil, apperr.New(apperr.KindConflict, "update note", p, nil)
	}
	if err := s.store.WriteNote(p, content); err != nil {
		return nil, err
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, p)
}

// DeleteNote removes a note from storage and rebuilds the graph. References
// to it become broken.
func (s *Service) DeleteNote(ctx context.Context, p string) error {
	if err := s.store.DeleteNote(p); err != nil {
		return err
	}
	_, err := s.Refresh(ctx)
	return err
}

// RenameNote moves a note and rebuilds the graph. Link text in other notes
// is left untouched.
func (s *Service) RenameNote(ctx context.Context, oldPath, newPath string) error {
	if err := checkNotePath("rename note", newPath); err != nil {
		return err
	}
	if err := s.store.RenameNote(oldPath, newPath); err != nil {
		return err
	}
	_, err := s.Refresh(ctx)
	return err
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Backlinks returns all note paths that link to the given target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	bl, err := s.db.Backlinks(target)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(bl), nil
}

// BrokenLinks returns the unresolved targets per source note.
func (s *Service) BrokenLinks(_ context.Context) (graph.BrokenLinkReport, error) {
	return s.db.BrokenLinks()
}

// Stats returns the index statistics.
func (s *Service) Stats(_ context.Context) (models.IndexStats, error) {
	return s.db.Stats()
}

func (s *Service) buildNoteDetail(doc *models.Document) (*NoteDetail, error) {
	res := parser.Parse([]byte(doc.Content))
	out, err := s.renderer.Render(doc.Content)
	if err != nil {
		return nil, err
	}
	bl, err := s.db.Backlinks(doc.Path)
	if err != nil {
		return nil, err
	}
	refs, err := s.db.References(doc.Path)
	if err != nil {
		return nil, err
	}
	return &NoteDetail{
		Path:        doc.Path,
		Title:       res.Title,
		Content:     doc.Content,
		HTML:        out.HTML,
		Checksum:    checksum.Sum([]byte(doc.Content)),
		Tags:        nonNilSlice(res.Tags),
		Frontmatter: res.Frontmatter,
		Headings:    nonNilSlice(out.Headings),
		CodeBlocks:  nonNilSlice(out.CodeBlocks),
		References:  nonNilSlice(refs),
		Backlinks:   nonNilSlice(bl),
		ModifiedAt:  doc.ModifiedAt,
	}, nil
}

func checkNotePath(op, p string) error {
	if path.Ext(p) != models.NoteExt {
		return apperr.Vault(op, "not a note: %s", p)
	}
	return nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
