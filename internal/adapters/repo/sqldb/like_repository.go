package sqldb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/clipdeck/internal/core/domain"
)

type LikeRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewLikeRepository(db *sql.DB, dialect Dialect) *LikeRepository {
	return &LikeRepository{db: db, dialect: dialect}
}

func (r *LikeRepository) Create(ctx context.Context, like *domain.Like) error {
	query := r.dialect.rebind(`
		INSERT INTO likes (id, user_id, video_id, created_at)
		VALUES (?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		like.ID,
		like.UserID,
		like.VideoID,
		like.CreatedAt,
	)
	return err
}

func (r *LikeRepository) Delete(ctx context.Context, userID, videoID string) error {
	query := r.dialect.rebind(`DELETE FROM likes WHERE user_id = ? AND video_id = ?`)
	_, err := r.db.ExecContext(ctx, query, userID, videoID)
	return err
}

func (r *LikeRepository) Find(ctx context.Context, userID, videoID string) (*domain.Like, error) {
	query := r.dialect.rebind(`
		SELECT id, user_id, video_id, created_at
		FROM likes
		WHERE user_id = ? AND video_id = ?
	`)

	var like domain.Like
	err := r.db.QueryRowContext(ctx, query, userID, videoID).Scan(
		&like.ID,
		&like.UserID,
		&like.VideoID,
		&like.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *LikeRepository) ListVideoIDs(ctx context.Context, userID string, videoIDs []string) ([]string, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(videoIDs)), ", ")
	query := r.dialect.rebind(`
		SELECT video_id
		FROM likes
		WHERE user_id = ? AND video_id IN (` + placeholders + `)
	`)

	args := make([]any, 0, len(videoIDs)+1)
	args = append(args, userID)
	for _, id := range videoIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var liked []string
	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return nil, err
		}
		liked = append(liked, videoID)
	}
	return liked, rows.Err()
}
