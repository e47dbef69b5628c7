package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: listing endpoints order by creation time.
	`CREATE INDEX IF NOT EXISTS idx_found_items_created ON found_items(created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_lost_reports_created ON lost_reports(created_at DESC, id DESC)`,
	// Migration 2: revocation cleanup scans by expiry.
	`CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expires ON revoked_tokens(expires_at)`,
}

// Migrate ensures the schema and then runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
