// Package store provides the SQLite-backed note and resource data store.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL DEFAULT '',
	body           TEXT NOT NULL DEFAULT '',
	created_time   INTEGER NOT NULL DEFAULT 0,
	updated_time   INTEGER NOT NULL DEFAULT 0,
	is_todo        INTEGER NOT NULL DEFAULT 0,
	todo_due       INTEGER NOT NULL DEFAULT 0,
	todo_completed INTEGER NOT NULL DEFAULT 0,
	watched        INTEGER NOT NULL DEFAULT 0,
	confidential   INTEGER NOT NULL DEFAULT 0,
	source_url     TEXT NOT NULL DEFAULT '',
	properties     TEXT NOT NULL DEFAULT '{}',
	source_path    TEXT NOT NULL DEFAULT '',
	checksum       TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_time DESC);
CREATE INDEX IF NOT EXISTS idx_notes_source ON notes(source_path);

CREATE TABLE IF NOT EXISTS note_tags (
	note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	title   TEXT NOT NULL,
	UNIQUE(note_id, title)
);

CREATE TABLE IF NOT EXISTS resources (
	id             TEXT PRIMARY KEY,
	mime           TEXT NOT NULL DEFAULT '',
	file_extension TEXT NOT NULL DEFAULT '',
	updated_time   INTEGER NOT NULL DEFAULT 0,
	checksum       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS note_resources (
	note_id     TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	resource_id TEXT NOT NULL,
	UNIQUE(note_id, resource_id)
);

CREATE INDEX IF NOT EXISTS idx_note_resources_note ON note_resources(note_id);
`

// DB wraps a sql.DB with note and resource operations.
type DB struct {
	conn         *sql.DB
	resourcesDir string
}

// Open opens (or creates) the SQLite database and applies the schema.
// Resource files are kept in resourcesDir as <id>.<extension>.
func Open(dsn, resourcesDir string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	abs, err := filepath.Abs(resourcesDir)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: resolve resources dir: %w", err)
	}
	return &DB{conn: conn, resourcesDir: abs}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
