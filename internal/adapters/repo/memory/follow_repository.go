package memory

import (
	"context"
	"sync"

	"github.com/clipdeck/internal/core/domain"
)

type FollowRepository struct {
	mu      sync.RWMutex
	follows map[string]*domain.Follow
}

func NewFollowRepository() *FollowRepository {
	return &FollowRepository{
		follows: make(map[string]*domain.Follow),
	}
}

func (r *FollowRepository) makeKey(followerID, followeeID string) string {
	return followerID + "|" + followeeID
}

func (r *FollowRepository) Create(ctx context.Context, follow *domain.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *follow
	r.follows[r.makeKey(follow.FollowerID, follow.FolloweeID)] = &copied
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.follows, r.makeKey(followerID, followeeID))
	return nil
}

func (r *FollowRepository) Find(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	follow, exists := r.follows[r.makeKey(followerID, followeeID)]
	if !exists {
		return nil, nil
	}
	copied := *follow
	return &copied, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, follow := range r.follows {
		if follow.FolloweeID == userID {
			count++
		}
	}
	return count, nil
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, follow := range r.follows {
		if follow.FollowerID == userID {
			count++
		}
	}
	return count, nil
}
