package services

import (
	"context"

	"github.com/clipdeck/internal/core/domain"
)

type LikeRepository interface {
	Create(ctx context.Context, like *domain.Like) error
	Delete(ctx context.Context, userID, videoID string) error
	Find(ctx context.Context, userID, videoID string) (*domain.Like, error)
	ListVideoIDs(ctx context.Context, userID string, videoIDs []string) ([]string, error)
}
