// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballotbox/cliparse"
)

// Open connects to the configured database. SQLite connections are
// limited to a single conn: the modernc driver serializes writers
// anyway, and a single conn keeps in-memory databases alive.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	switch cfg.DatabaseType {
	case "postgres":
		return sql.Open("postgres", cfg.DatabaseURL)
	case "sqlite":
		conn, err := sql.Open("sqlite", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		conn.SetMaxOpenConns(1)
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema text is accepted verbatim by both postgres and sqlite.
// Timestamps carry no database-side defaults; the store writes them
// explicitly in UTC so ordering and comparisons behave identically on
// both engines.
const schema = `
-- Users (principals; credentials live with the identity collaborator)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Polls
CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    creator_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL,
    ends_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_polls_creator_id ON polls(creator_id);
CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at);

-- Options, with the denormalized tally
CREATE TABLE IF NOT EXISTS poll_options (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id),
    option_text TEXT NOT NULL,
    vote_count BIGINT NOT NULL DEFAULT 0 CHECK (vote_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_poll_options_poll_id ON poll_options(poll_id);

-- Votes: the append-only ledger. UNIQUE(poll_id, user_id) is the
-- authoritative one-vote-per-principal guard.
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id),
    user_id TEXT NOT NULL REFERENCES users(id),
    option_id TEXT NOT NULL REFERENCES poll_options(id),
    created_at TIMESTAMP NOT NULL,
    UNIQUE (poll_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_poll_id ON votes(poll_id);
CREATE INDEX IF NOT EXISTS idx_votes_option_id ON votes(option_id);
`
