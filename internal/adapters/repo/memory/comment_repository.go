package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/clipdeck/internal/core/domain"
)

type CommentRepository struct {
	mu       sync.RWMutex
	comments map[string]*domain.Comment
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[string]*domain.Comment),
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Comment
	for _, comment := range r.comments {
		if comment.VideoID == videoID {
			copied := *comment
			matched = append(matched, &copied)
		}
	}
	// oldest first
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}
