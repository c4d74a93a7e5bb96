package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

func timestampType(d Dialect) string {
	switch d {
	case DialectMySQL:
		return "DATETIME(6)"
	case DialectPostgres:
		return "TIMESTAMPTZ"
	default:
		return "TIMESTAMP"
	}
}

func migrations(d Dialect) []string {
	ts := timestampType(d)
	suffix := ""
	if d == DialectMySQL {
		suffix = " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			profile_image_url VARCHAR(1024) NOT NULL,
			provider VARCHAR(32) NOT NULL,
			created_at %[1]s NOT NULL,
			updated_at %[1]s NOT NULL,
			CONSTRAINT uk_users_email UNIQUE (email)
		)%[2]s`, ts, suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS videos (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			storage_key VARCHAR(1024) NOT NULL,
			content_type VARCHAR(255) NOT NULL,
			size_bytes BIGINT NOT NULL,
			duration_seconds DOUBLE PRECISION NOT NULL,
			transcript TEXT NOT NULL,
			view_count BIGINT NOT NULL DEFAULT 0,
			like_count BIGINT NOT NULL DEFAULT 0,
			comment_count BIGINT NOT NULL DEFAULT 0,
			share_count BIGINT NOT NULL DEFAULT 0,
			is_public BOOLEAN NOT NULL,
			created_at %[1]s NOT NULL,
			updated_at %[1]s NOT NULL
		)%[2]s`, ts, suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS likes (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			video_id VARCHAR(36) NOT NULL,
			created_at %[1]s NOT NULL,
			CONSTRAINT uk_likes_user_video UNIQUE (user_id, video_id)
		)%[2]s`, ts, suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS comments (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			video_id VARCHAR(36) NOT NULL,
			body TEXT NOT NULL,
			created_at %[1]s NOT NULL
		)%[2]s`, ts, suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS follows (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			follower_id VARCHAR(36) NOT NULL,
			followee_id VARCHAR(36) NOT NULL,
			created_at %[1]s NOT NULL,
			CONSTRAINT uk_follows_pair UNIQUE (follower_id, followee_id)
		)%[2]s`, ts, suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			expires_at %[1]s NOT NULL,
			created_at %[1]s NOT NULL
		)%[2]s`, ts, suffix),

		`CREATE INDEX idx_videos_feed ON videos (is_public, created_at)`,
		`CREATE INDEX idx_videos_user ON videos (user_id)`,
		`CREATE INDEX idx_comments_video ON comments (video_id, created_at)`,
		`CREATE INDEX idx_follows_followee ON follows (followee_id)`,
	}
}

// Migrate applies the schema statements that have not run yet, recording
// each one in schema_migrations so reruns are no-ops.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	ledger := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS schema_migrations (
		position INTEGER NOT NULL PRIMARY KEY,
		statement TEXT NOT NULL,
		applied_at %s NOT NULL
	)`, timestampType(dialect))
	if _, err := db.ExecContext(ctx, ledger); err != nil {
		return fmt.Errorf("creating migration ledger: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT statement FROM schema_migrations ORDER BY position`)
	if err != nil {
		return fmt.Errorf("reading migration ledger: %w", err)
	}
	defer rows.Close()

	var applied []string
	for rows.Next() {
		var statement string
		if err := rows.Scan(&statement); err != nil {
			return fmt.Errorf("scanning migration ledger: %w", err)
		}
		applied = append(applied, statement)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading migration ledger: %w", err)
	}

	wanted := migrations(dialect)
	for i, statement := range applied {
		if i >= len(wanted) || wanted[i] != statement {
			return fmt.Errorf("migration ledger out of sync at position %d", i)
		}
	}

	insert := dialect.rebind(`INSERT INTO schema_migrations (position, statement, applied_at) VALUES (?, ?, ?)`)
	for i := len(applied); i < len(wanted); i++ {
		if _, err := db.ExecContext(ctx, wanted[i]); err != nil {
			return fmt.Errorf("applying migration %d: %w", i, err)
		}
		if _, err := db.ExecContext(ctx, insert, i, wanted[i], time.Now().UTC()); err != nil {
			return fmt.Errorf("recording migration %d: %w", i, err)
		}
	}
	return nil
}
