package services

import (
	"context"

	"github.com/clipdeck/internal/core/domain"
)

type FollowRepository interface {
	Create(ctx context.Context, follow *domain.Follow) error
	Delete(ctx context.Context, followerID, followeeID string) error
	Find(ctx context.Context, followerID, followeeID string) (*domain.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}
