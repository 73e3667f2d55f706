package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/starford/vaultgraph/internal/apperr"
	"github.com/starford/vaultgraph/internal/checksum"
	"github.com/starford/vaultgraph/internal/models"
	"github.com/starford/vaultgraph/internal/parser"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Title     string
	Checksum  string
	Tags      []string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// IndexNote parses a document and upserts it with its terms.
func (db *DB) IndexNote(doc models.Document) error {
	res := parser.Parse([]byte(doc.Content))
	updated := time.Now()
	if doc.ModifiedAt != nil {
		updated = time.Unix(*doc.ModifiedAt, 0)
	}
	tags := res.Tags
	if tags == nil {
		tags = []string{}
	}
	return db.UpsertNote(NoteRow{
		Path:      doc.Path,
		Title:     res.Title,
		Checksum:  checksum.Sum([]byte(doc.Content)),
		Tags:      tags,
		UpdatedAt: updated,
	}, res.Body)
}

// UpsertNote inserts or replaces a note, its FTS entry, and its terms within
// a transaction.
func (db *DB) UpsertNote(n NoteRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return apperr.Index("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, err := json.Marshal(n.Tags)
	if err != nil {
		return apperr.Serialization("encode tags", err)
	}

	_, err = tx.Exec(`
		INSERT INTO notes (path, title, checksum, tags, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, n.Path, n.Title, n.Checksum, string(tagsJSON), body, n.UpdatedAt)
	if err != nil {
		return apperr.Index("upsert note", err)
	}

	if err := ftsUpsert(tx, n.Path, n.Title, body, n.Tags); err != nil {
		return apperr.Index("upsert fts", err)
	}

	if _, err := tx.Exec(`DELETE FROM note_terms WHERE path = ?`, n.Path); err != nil {
		return apperr.Index("clear terms", err)
	}
	if terms := tokenize(n.Title + " " + body); len(terms) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO note_terms (term, path) VALUES (?, ?)`)
		if err != nil {
			return apperr.Index("prepare term insert", err)
		}
		defer stmt.Close()
		for _, term := range terms {
			if _, err := stmt.Exec(term, n.Path); err != nil {
				return apperr.Index("insert term", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Index("commit", err)
	}
	return nil
}

// RemoveNote removes a note, its FTS entry, and its terms.
func (db *DB) RemoveNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return apperr.Index("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, path); err != nil {
		return apperr.Index("delete fts", err)
	}
	for _, q := range []string{
		`DELETE FROM note_terms WHERE path = ?`,
		`DELETE FROM notes WHERE path = ?`,
	} {
		if _, err := tx.Exec(q, path); err != nil {
			return apperr.Index("remove note", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperr.Index("commit", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", apperr.Index("get checksum", err)
	}
	return cs, nil
}

// AllChecksums returns the checksum of every indexed note keyed by path.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, apperr.Index("all checksums", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, apperr.Index("all checksums", err)
		}
		out[p] = cs
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Index("all checksums", err)
	}
	return out, nil
}

// Stats reports the number of indexed notes and distinct terms.
func (db *DB) Stats() (models.IndexStats, error) {
	var s models.IndexStats
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&s.NumFiles); err != nil {
		return s, apperr.Index("stats", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(DISTINCT term) FROM note_terms`).Scan(&s.NumTerms); err != nil {
		return s, apperr.Index("stats", err)
	}
	return s, nil
}

// tokenize returns the distinct lowercase letter/digit runs of text.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
