package sqldb

import (
	"context"
	"database/sql"

	"github.com/clipdeck/internal/core/domain"
)

type CommentRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewCommentRepository(db *sql.DB, dialect Dialect) *CommentRepository {
	return &CommentRepository{db: db, dialect: dialect}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := r.dialect.rebind(`
		INSERT INTO comments (id, user_id, video_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		comment.ID,
		comment.UserID,
		comment.VideoID,
		comment.Body,
		comment.CreatedAt,
	)
	return err
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*domain.Comment, error) {
	query := r.dialect.rebind(`
		SELECT id, user_id, video_id, body, created_at
		FROM comments
		WHERE video_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`)

	rows, err := r.db.QueryContext(ctx, query, videoID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var comment domain.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.UserID,
			&comment.VideoID,
			&comment.Body,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}
