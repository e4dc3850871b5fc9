package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent, so running it
// against an up-to-date database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return storeErr(fmt.Sprintf("migration %d", i), err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id                          TEXT PRIMARY KEY,
		name                        TEXT NOT NULL,
		company                     TEXT NOT NULL,
		email                       TEXT NOT NULL DEFAULT '',
		phone                       TEXT NOT NULL DEFAULT '',
		address                     TEXT NOT NULL DEFAULT '',
		project_requirement_title   TEXT NOT NULL DEFAULT '',
		project_requirement_details TEXT NOT NULL DEFAULT '',
		stage                       TEXT NOT NULL DEFAULT 'new'
			CHECK (stage IN ('new', 'contacted', 'qualified', 'proposal', 'project', 'rejected')),
		value                       DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (value >= 0),
		assigned_to                 TEXT NOT NULL,
		created_at                  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at                  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_assigned_to ON leads(assigned_to, created_at DESC)`,

	// notes are append-only; seq breaks ties between notes stamped in the same instant
	`CREATE TABLE IF NOT EXISTS lead_notes (
		seq        BIGSERIAL PRIMARY KEY,
		id         TEXT NOT NULL UNIQUE,
		lead_id    TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		content    TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lead_notes_lead ON lead_notes(lead_id, seq)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id             TEXT PRIMARY KEY,
		recipient_kind TEXT NOT NULL,
		recipient_key  TEXT NOT NULL,
		lead_id        TEXT NOT NULL,
		lead_name      TEXT NOT NULL,
		title          TEXT NOT NULL,
		message        TEXT NOT NULL,
		type           TEXT NOT NULL,
		is_read        BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient
		ON notifications(recipient_kind, recipient_key, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS user_logs (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		user_name     TEXT NOT NULL,
		action        TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id   TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL,
		ip_address    TEXT NOT NULL DEFAULT '',
		user_agent    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_logs_created ON user_logs(created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_user_logs_user ON user_logs(user_id, created_at DESC)`,
}
