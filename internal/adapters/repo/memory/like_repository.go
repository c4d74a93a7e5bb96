package memory

import (
	"context"
	"sync"

	"github.com/clipdeck/internal/core/domain"
)

type LikeRepository struct {
	mu    sync.RWMutex
	likes map[string]*domain.Like
}

func NewLikeRepository() *LikeRepository {
	return &LikeRepository{
		likes: make(map[string]*domain.Like),
	}
}

func (r *LikeRepository) makeKey(userID, videoID string) string {
	return userID + "|" + videoID
}

func (r *LikeRepository) Create(ctx context.Context, like *domain.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *like
	r.likes[r.makeKey(like.UserID, like.VideoID)] = &copied
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.likes, r.makeKey(userID, videoID))
	return nil
}

func (r *LikeRepository) Find(ctx context.Context, userID, videoID string) (*domain.Like, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	like, exists := r.likes[r.makeKey(userID, videoID)]
	if !exists {
		return nil, nil
	}
	copied := *like
	return &copied, nil
}

func (r *LikeRepository) ListVideoIDs(ctx context.Context, userID string, videoIDs []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var liked []string
	for _, videoID := range videoIDs {
		if _, exists := r.likes[r.makeKey(userID, videoID)]; exists {
			liked = append(liked, videoID)
		}
	}
	return liked, nil
}
