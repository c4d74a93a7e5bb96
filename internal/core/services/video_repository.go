package services

import (
	"context"

	"github.com/clipdeck/internal/core/domain"
)

type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	FindByID(ctx context.Context, id string) (*domain.Video, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*domain.Video, error)
	ListByUser(ctx context.Context, userID string, includePrivate bool, limit, offset int) ([]*domain.Video, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	IncrementViewCount(ctx context.Context, id string) error
	IncrementShareCount(ctx context.Context, id string) error
	IncrementCommentCount(ctx context.Context, id string) error
	AdjustLikeCount(ctx context.Context, id string, delta int64) error
}
