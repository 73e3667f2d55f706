// Package index provides the SQLite-backed search index and link-graph store,
// and keeps them in step with the vault.
package index

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/vaultgraph/internal/apperr"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	path       TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	tags       TEXT NOT NULL DEFAULT '[]',
	body       TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS note_terms (
	term TEXT NOT NULL,
	path TEXT NOT NULL,
	UNIQUE(term, path)
);

CREATE INDEX IF NOT EXISTS idx_note_terms_path ON note_terms(path);

CREATE TABLE IF NOT EXISTS refs (
	source      TEXT NOT NULL,
	target      TEXT NOT NULL,
	display     TEXT,
	byte_offset INTEGER NOT NULL,
	PRIMARY KEY(source, byte_offset)
);

CREATE TABLE IF NOT EXISTS backlinks (
	target TEXT NOT NULL,
	source TEXT NOT NULL,
	PRIMARY KEY(target, source)
);

CREATE TABLE IF NOT EXISTS broken_links (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	ord    INTEGER NOT NULL,
	PRIMARY KEY(source, ord)
);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, apperr.Index("open db", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, apperr.Index("ping", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, apperr.Index("apply core schema", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, apperr.Index("apply fts schema", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
