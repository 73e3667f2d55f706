package index

import (
	"database/sql"

	"github.com/starford/vaultgraph/internal/apperr"
	"github.com/starford/vaultgraph/internal/graph"
	"github.com/starford/vaultgraph/internal/models"
)

// ReplaceGraph swaps the stored references, backlinks, and broken links for
// those of g in a single transaction.
func (db *DB) ReplaceGraph(g *graph.Graph) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return apperr.Index("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"refs", "backlinks", "broken_links"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return apperr.Index("clear "+table, err)
		}
	}

	refStmt, err := tx.Prepare(`INSERT INTO refs (source, target, display, byte_offset) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return apperr.Index("prepare ref insert", err)
	}
	defer refStmt.Close()
	for source, refs := range g.Forward {
		for _, r := range refs {
			var display sql.NullString
			if r.Display != nil {
				display = sql.NullString{String: *r.Display, Valid: true}
			}
			if _, err := refStmt.Exec(source, r.Target, display, r.Offset); err != nil {
				return apperr.Index("insert ref", err)
			}
		}
	}

	backStmt, err := tx.Prepare(`INSERT INTO backlinks (target, source) VALUES (?, ?)`)
	if err != nil {
		return apperr.Index("prepare backlink insert", err)
	}
	defer backStmt.Close()
	for target, sources := range g.Backward {
		for _, source := range sources {
			if _, err := backStmt.Exec(target, source); err != nil {
				return apperr.Index("insert backlink", err)
			}
		}
	}

	brokenStmt, err := tx.Prepare(`INSERT INTO broken_links (source, target, ord) VALUES (?, ?, ?)`)
	if err != nil {
		return apperr.Index("prepare broken link insert", err)
	}
	defer brokenStmt.Close()
	for source, targets := range g.Broken {
		for i, target := range targets {
			if _, err := brokenStmt.Exec(source, target, i); err != nil {
				return apperr.Index("insert broken link", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Index("commit", err)
	}
	return nil
}

// References returns the stored references of source in occurrence order.
func (db *DB) References(source string) ([]models.Reference, error) {
	rows, err := db.conn.Query(`
		SELECT target, display, byte_offset FROM refs
		WHERE source = ?
		ORDER BY byte_offset
	`, source)
	if err != nil {
		return nil, apperr.Index("references", err)
	}
	defer rows.Close()

	var out []models.Reference
	for rows.Next() {
		var (
			r       models.Reference
			display sql.NullString
		)
		if err := rows.Scan(&r.Target, &display, &r.Offset); err != nil {
			return nil, apperr.Index("references", err)
		}
		if display.Valid {
			d := display.String
			r.Display = &d
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Index("references", err)
	}
	return out, nil
}

// Backlinks returns the sorted note paths that link to target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM backlinks WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, apperr.Index("backlinks", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, apperr.Index("backlinks", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Index("backlinks", err)
	}
	return out, nil
}

// BrokenLinks returns the stored broken-link report.
func (db *DB) BrokenLinks() (graph.BrokenLinkReport, error) {
	rows, err := db.conn.Query(`SELECT source, target FROM broken_links ORDER BY source, ord`)
	if err != nil {
		return nil, apperr.Index("broken links", err)
	}
	defer rows.Close()

	out := make(graph.BrokenLinkReport)
	for rows.Next() {
		var source, target string
		if err := rows.Scan(&source, &target); err != nil {
			return nil, apperr.Index("broken links", err)
		}
		out[source] = append(out[source], target)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Index("broken links", err)
	}
	return out, nil
}
