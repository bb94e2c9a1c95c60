// Package metastore provides the SQLite-backed host store: posts, users,
// per-post metadata and site options.
package metastore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	login      TEXT NOT NULL UNIQUE,
	role       TEXT NOT NULL DEFAULT 'subscriber',
	token_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS posts (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	type      TEXT NOT NULL DEFAULT 'post',
	title     TEXT NOT NULL DEFAULT '',
	author_id INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS postmeta (
	post_id    INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	meta_key   TEXT NOT NULL,
	meta_value TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (post_id, meta_key)
);

CREATE TABLE IF NOT EXISTS options (
	name  TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_users_token_hash ON users(token_hash);
`

// Store wraps a sqlx.DB with host-store operations.
type Store struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("metastore: open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("metastore: ping: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("metastore: apply schema: %w", err)
	}
	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
