package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clipdeck/internal/core/domain"
)

type VideoRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewVideoRepository(db *sql.DB, dialect Dialect) *VideoRepository {
	return &VideoRepository{db: db, dialect: dialect}
}

const videoColumns = `id, user_id, title, description, storage_key, content_type,
	size_bytes, duration_seconds, transcript, view_count, like_count,
	comment_count, share_count, is_public, created_at, updated_at`

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := r.dialect.rebind(`
		INSERT INTO videos (` + videoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		video.ID,
		video.UserID,
		video.Title,
		video.Description,
		video.StorageKey,
		video.ContentType,
		video.SizeBytes,
		video.DurationSeconds,
		video.Transcript,
		video.ViewCount,
		video.LikeCount,
		video.CommentCount,
		video.ShareCount,
		video.Public,
		video.CreatedAt,
		video.UpdatedAt,
	)
	return err
}

func (r *VideoRepository) FindByID(ctx context.Context, id string) (*domain.Video, error) {
	query := r.dialect.rebind(`
		SELECT ` + videoColumns + `
		FROM videos
		WHERE id = ?
	`)

	video, err := scanVideo(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (r *VideoRepository) ListPublic(ctx context.Context, limit, offset int) ([]*domain.Video, error) {
	query := r.dialect.rebind(`
		SELECT ` + videoColumns + `
		FROM videos
		WHERE is_public = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)
	return r.list(ctx, query, true, limit, offset)
}

func (r *VideoRepository) ListByUser(ctx context.Context, userID string, includePrivate bool, limit, offset int) ([]*domain.Video, error) {
	if includePrivate {
		query := r.dialect.rebind(`
			SELECT ` + videoColumns + `
			FROM videos
			WHERE user_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ? OFFSET ?
		`)
		return r.list(ctx, query, userID, limit, offset)
	}

	query := r.dialect.rebind(`
		SELECT ` + videoColumns + `
		FROM videos
		WHERE user_id = ? AND is_public = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)
	return r.list(ctx, query, userID, true, limit, offset)
}

func (r *VideoRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	query := r.dialect.rebind(`SELECT COUNT(*) FROM videos WHERE user_id = ?`)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VideoRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.adjust(ctx, "view_count", id, 1)
}

func (r *VideoRepository) IncrementShareCount(ctx context.Context, id string) error {
	return r.adjust(ctx, "share_count", id, 1)
}

func (r *VideoRepository) IncrementCommentCount(ctx context.Context, id string) error {
	return r.adjust(ctx, "comment_count", id, 1)
}

func (r *VideoRepository) AdjustLikeCount(ctx context.Context, id string, delta int64) error {
	return r.adjust(ctx, "like_count", id, delta)
}

// adjust is a single unguarded increment statement; concurrent updates are
// not serialized beyond what the store does for one UPDATE.
func (r *VideoRepository) adjust(ctx context.Context, column, id string, delta int64) error {
	query := r.dialect.rebind(fmt.Sprintf(`UPDATE videos SET %s = %s + ? WHERE id = ?`, column, column))
	_, err := r.db.ExecContext(ctx, query, delta, id)
	return err
}

func (r *VideoRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Video, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*domain.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*domain.Video, error) {
	var video domain.Video
	err := row.Scan(
		&video.ID,
		&video.UserID,
		&video.Title,
		&video.Description,
		&video.StorageKey,
		&video.ContentType,
		&video.SizeBytes,
		&video.DurationSeconds,
		&video.Transcript,
		&video.ViewCount,
		&video.LikeCount,
		&video.CommentCount,
		&video.ShareCount,
		&video.Public,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}
