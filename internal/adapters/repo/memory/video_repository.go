package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/clipdeck/internal/core/domain"
)

type VideoRepository struct {
	mu     sync.RWMutex
	videos map[string]*domain.Video
}

func NewVideoRepository() *VideoRepository {
	return &VideoRepository{
		videos: make(map[string]*domain.Video),
	}
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *video
	r.videos[video.ID] = &copied
	return nil
}

func (r *VideoRepository) FindByID(ctx context.Context, id string) (*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	video, exists := r.videos[id]
	if !exists {
		return nil, nil
	}
	copied := *video
	return &copied, nil
}

func (r *VideoRepository) ListPublic(ctx context.Context, limit, offset int) ([]*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.page(func(video *domain.Video) bool {
		return video.Public
	}, limit, offset), nil
}

func (r *VideoRepository) ListByUser(ctx context.Context, userID string, includePrivate bool, limit, offset int) ([]*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.page(func(video *domain.Video) bool {
		if video.UserID != userID {
			return false
		}
		return includePrivate || video.Public
	}, limit, offset), nil
}

func (r *VideoRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, video := range r.videos {
		if video.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *VideoRepository) IncrementViewCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if video, exists := r.videos[id]; exists {
		video.ViewCount++
	}
	return nil
}

func (r *VideoRepository) IncrementShareCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if video, exists := r.videos[id]; exists {
		video.ShareCount++
	}
	return nil
}

func (r *VideoRepository) IncrementCommentCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if video, exists := r.videos[id]; exists {
		video.CommentCount++
	}
	return nil
}

func (r *VideoRepository) AdjustLikeCount(ctx context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if video, exists := r.videos[id]; exists {
		video.LikeCount += delta
	}
	return nil
}

// page filters, orders newest first and slices. Callers hold the lock.
func (r *VideoRepository) page(match func(*domain.Video) bool, limit, offset int) []*domain.Video {
	var matched []*domain.Video
	for _, video := range r.videos {
		if match(video) {
			copied := *video
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched
}
