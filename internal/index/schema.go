// Package index provides the SQLite store of translation runs and their
// axioms, with optional FTS5 full-text search over axiom text.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS diagrams (
	path         TEXT PRIMARY KEY,
	checksum     TEXT NOT NULL DEFAULT '',
	ontology_iri TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT '',
	axioms       INTEGER NOT NULL DEFAULT 0,
	last_run     TEXT NOT NULL DEFAULT '',
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	path         TEXT NOT NULL,
	checksum     TEXT NOT NULL DEFAULT '',
	ontology_iri TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	nodes        INTEGER NOT NULL DEFAULT 0,
	edges        INTEGER NOT NULL DEFAULT 0,
	axioms       INTEGER NOT NULL DEFAULT 0,
	resolutions  INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	element      TEXT NOT NULL DEFAULT '',
	duration_ms  INTEGER NOT NULL DEFAULT 0,
	started_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS axioms (
	path TEXT NOT NULL,
	kind TEXT NOT NULL,
	text TEXT NOT NULL,
	UNIQUE(path, text)
);

CREATE INDEX IF NOT EXISTS idx_runs_path ON runs(path, started_at);
CREATE INDEX IF NOT EXISTS idx_axioms_path ON axioms(path);
CREATE INDEX IF NOT EXISTS idx_axioms_kind ON axioms(kind);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping() error {
	return db.conn.Ping()
}
