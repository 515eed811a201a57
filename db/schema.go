// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-cloud/cliparse"
)

// Open connects to the configured database and verifies the connection.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	var conn *sql.DB
	var err error

	switch cfg.DatabaseType {
	case cliparse.DatabasePostgres:
		conn, err = sql.Open("postgres", cfg.DatabaseURL)
	case cliparse.DatabaseSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(cfg.DatabaseURL))
		if err == nil {
			// SQLite allows a single writer
			conn.SetMaxOpenConns(1)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

func sqliteDSN(url string) string {
	if strings.Contains(url, "_pragma=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"
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

// The schema is shared by SQLite and PostgreSQL, so it sticks to the common dialect.
const schema = `
-- Frequency counters, one row per item ever chosen
CREATE TABLE IF NOT EXISTS item_count (
    item_id TEXT PRIMARY KEY,
    total INTEGER NOT NULL DEFAULT 0 CHECK (total >= 0)
);

-- Kiosk devices
CREATE TABLE IF NOT EXISTS device (
    id TEXT PRIMARY KEY,
    device_uuid TEXT NOT NULL UNIQUE,
    platform TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_device_uuid ON device(device_uuid);

-- Accepted submissions
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    language TEXT NOT NULL,
    device_id TEXT REFERENCES device(id) ON DELETE SET NULL,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    ip_hash TEXT,
    user_agent TEXT
);

CREATE INDEX IF NOT EXISTS idx_vote_device_id ON vote(device_id);

-- Items of each submission, in selection order
CREATE TABLE IF NOT EXISTS vote_item (
    vote_id TEXT NOT NULL REFERENCES vote(id) ON DELETE CASCADE,
    item_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (vote_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_item_item_id ON vote_item(item_id);
`
