package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements use only types and syntax shared by PostgreSQL and SQLite.
// Timestamps are unix milliseconds, sequences are JSON text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS questions (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		slug        TEXT NOT NULL,
		difficulty  TEXT NOT NULL,
		category    TEXT NOT NULL,
		company     TEXT,
		url         TEXT,
		description TEXT,
		created_at  BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_slug ON questions (slug)`,

	`CREATE TABLE IF NOT EXISTS user_progress (
		id               TEXT PRIMARY KEY,
		question_id      TEXT NOT NULL,
		username         TEXT,
		status           TEXT NOT NULL,
		notes            TEXT,
		time_complexity  TEXT,
		space_complexity TEXT,
		complexity_notes TEXT,
		explanation      TEXT,
		topics           TEXT,
		started_at       BIGINT,
		completed_at     BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_progress_question ON user_progress (question_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_progress_user_question ON user_progress (username, question_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_progress_user ON user_progress (username)`,

	`CREATE TABLE IF NOT EXISTS mock_interviews (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		scheduled_at BIGINT NOT NULL,
		duration     INTEGER NOT NULL,
		participants TEXT NOT NULL,
		question_ids TEXT NOT NULL,
		notes        TEXT,
		status       TEXT NOT NULL,
		meeting_link TEXT,
		created_at   BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mock_interviews_date ON mock_interviews (scheduled_at)`,
}

// Migrate creates every table and index that does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database.Migrate statement %d: %w", i, err)
		}
	}
	return nil
}
