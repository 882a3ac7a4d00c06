package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and safe to
// re-run on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillPlanCounts(db); err != nil {
		return fmt.Errorf("backfilling plan counts: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS preferences (
		user_id    TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS pinned_items (
		user_id    TEXT NOT NULL,
		meeting_id TEXT NOT NULL,
		data       TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, meeting_id)
	)`,

	`CREATE TABLE IF NOT EXISTS plans (
		user_id    TEXT NOT NULL,
		date       TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS feedback_log (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		item_type  TEXT NOT NULL,
		action     TEXT NOT NULL,
		item_id    TEXT NOT NULL DEFAULT '',
		meeting_id TEXT NOT NULL DEFAULT '',
		payload    TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feedback_log_user ON feedback_log(user_id, created_at)`,

	// Listing columns on plans so history queries skip decoding the payload.
	`ALTER TABLE plans ADD COLUMN block_count INTEGER NOT NULL DEFAULT -1`,
	`ALTER TABLE plans ADD COLUMN warning_count INTEGER NOT NULL DEFAULT -1`,
}

// migrateBackfillPlanCounts fills block_count and warning_count for plans
// stored before those columns existed (marked -1). Idempotent.
func migrateBackfillPlanCounts(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx,
		`SELECT user_id, date, data FROM plans WHERE block_count < 0 OR warning_count < 0`)
	if err != nil {
		return fmt.Errorf("listing plans to backfill: %w", err)
	}
	type pending struct {
		userID, date     string
		blocks, warnings int
	}
	var todo []pending
	for rows.Next() {
		var p pending
		var data string
		if err := rows.Scan(&p.userID, &p.date, &data); err != nil {
			rows.Close()
			return fmt.Errorf("scanning plan: %w", err)
		}
		p.blocks, p.warnings = PlanCounts(data)
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, p := range todo {
		if _, err := db.ExecContext(ctx,
			`UPDATE plans SET block_count = ?, warning_count = ? WHERE user_id = ? AND date = ?`,
			p.blocks, p.warnings, p.userID, p.date); err != nil {
			return fmt.Errorf("updating plan %s/%s: %w", p.userID, p.date, err)
		}
	}
	return nil
}
