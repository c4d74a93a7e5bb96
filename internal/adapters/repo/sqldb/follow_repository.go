package sqldb

import (
	"context"
	"database/sql"

	"github.com/clipdeck/internal/core/domain"
)

type FollowRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewFollowRepository(db *sql.DB, dialect Dialect) *FollowRepository {
	return &FollowRepository{db: db, dialect: dialect}
}

func (r *FollowRepository) Create(ctx context.Context, follow *domain.Follow) error {
	query := r.dialect.rebind(`
		INSERT INTO follows (id, follower_id, followee_id, created_at)
		VALUES (?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		follow.ID,
		follow.FollowerID,
		follow.FolloweeID,
		follow.CreatedAt,
	)
	return err
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	query := r.dialect.rebind(`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`)
	_, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	return err
}

func (r *FollowRepository) Find(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	query := r.dialect.rebind(`
		SELECT id, follower_id, followee_id, created_at
		FROM follows
		WHERE follower_id = ? AND followee_id = ?
	`)

	var follow domain.Follow
	err := r.db.QueryRowContext(ctx, query, followerID, followeeID).Scan(
		&follow.ID,
		&follow.FollowerID,
		&follow.FolloweeID,
		&follow.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE followee_id = ?`, userID)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID)
}

func (r *FollowRepository) count(ctx context.Context, query, userID string) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, r.dialect.rebind(query), userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
