package services

import (
	"context"

	"github.com/clipdeck/internal/core/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*domain.Comment, error)
}
