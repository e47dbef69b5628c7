package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. AUTOINCREMENT keeps IDs of deleted
// rows from being handed out again.
const schema = `
CREATE TABLE IF NOT EXISTS admins (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS found_items (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    admin_id       INTEGER REFERENCES admins(id) ON DELETE SET NULL,
    name           TEXT NOT NULL,
    brand          TEXT,
    color          TEXT,
    category       TEXT NOT NULL,
    location_found TEXT NOT NULL,
    found_date     DATE,
    description    TEXT,
    photo_url      TEXT,
    status         TEXT NOT NULL DEFAULT 'Ditemukan' CHECK (status IN ('Hilang', 'Ditemukan', 'Dikembalikan')),
    verified       INTEGER NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lost_reports (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    nim         TEXT NOT NULL,
    email       TEXT NOT NULL,
    phone       TEXT NOT NULL,
    category    TEXT NOT NULL,
    lost_date   DATE,
    description TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'Hilang',
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
