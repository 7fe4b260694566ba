package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with console-specific helpers.
type DB struct {
	*sql.DB
	mu   sync.RWMutex
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS presentations (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS presentation_versions (
    id TEXT PRIMARY KEY,
    presentation_id TEXT NOT NULL REFERENCES presentations(id) ON DELETE CASCADE,
    version_label TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_versions_presentation ON presentation_versions(presentation_id);

CREATE TABLE IF NOT EXISTS presentation_runs (
    id TEXT PRIMARY KEY,
    presentation_version_id TEXT NOT NULL REFERENCES presentation_versions(id) ON DELETE CASCADE,
    presenter_name TEXT NOT NULL DEFAULT '',
    started_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_version ON presentation_runs(presentation_version_id);

CREATE TABLE IF NOT EXISTS presenter_actions (
    id TEXT PRIMARY KEY,
    presentation_run_id TEXT NOT NULL REFERENCES presentation_runs(id) ON DELETE CASCADE,
    event_type TEXT NOT NULL,
    slide_id TEXT NOT NULL DEFAULT '',
    slide_type TEXT NOT NULL DEFAULT '',
    slide_index INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_actions_run ON presenter_actions(presentation_run_id, created_at);
CREATE INDEX IF NOT EXISTS idx_actions_event ON presenter_actions(event_type);

CREATE TABLE IF NOT EXISTS slide_charts (
    id TEXT PRIMARY KEY,
    deck_id TEXT NOT NULL,
    slide_index INTEGER NOT NULL,
    chart_library TEXT NOT NULL,
    chart_type TEXT NOT NULL DEFAULT '',
    chart_title TEXT NOT NULL DEFAULT '',
    alt_text TEXT NOT NULL DEFAULT '',
    data_spec TEXT NOT NULL DEFAULT 'null',
    layout_spec TEXT NOT NULL DEFAULT 'null',
    config_spec TEXT NOT NULL DEFAULT 'null',
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    UNIQUE(deck_id, slide_index)
);

CREATE INDEX IF NOT EXISTS idx_slide_charts_deck ON slide_charts(deck_id, slide_index);
`
