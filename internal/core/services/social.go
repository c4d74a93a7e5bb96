package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/clipdeck/internal/core/domain"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

type FollowResult struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"followerCount"`
}

type Profile struct {
	User           *domain.User
	FollowerCount  int64
	FollowingCount int64
	VideoCount     int64
	FollowedByMe   bool
}

type SocialService struct {
	userRepo   UserRepository
	videoRepo  VideoRepository
	followRepo FollowRepository
	clock      Clock
}

func NewSocialService(
	userRepo UserRepository,
	videoRepo VideoRepository,
	followRepo FollowRepository,
	clock Clock,
) *SocialService {
	return &SocialService{
		userRepo:   userRepo,
		videoRepo:  videoRepo,
		followRepo: followRepo,
		clock:      clock,
	}
}

func (s *SocialService) ToggleFollow(ctx context.Context, followerID, followeeID string) (*FollowResult, error) {
	if followerID == followeeID {
		return nil, ErrSelfFollow
	}

	followee, err := s.userRepo.FindByID(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	if followee == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.followRepo.Find(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}

	following := existing == nil
	if existing == nil {
		follow := &domain.Follow{
			ID:         uuid.NewString(),
			FollowerID: followerID,
			FolloweeID: followeeID,
			CreatedAt:  s.clock.Now(),
		}
		if err := s.followRepo.Create(ctx, follow); err != nil {
			return nil, err
		}
	} else {
		if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
			return nil, err
		}
	}

	count, err := s.followRepo.CountFollowers(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	return &FollowResult{Following: following, FollowerCount: count}, nil
}

func (s *SocialService) Profile(ctx context.Context, viewerID, userID string) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	videos, err := s.videoRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		User:           user,
		FollowerCount:  followers,
		FollowingCount: following,
		VideoCount:     videos,
	}
	if viewerID != "" && viewerID != userID {
		follow, err := s.followRepo.Find(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		profile.FollowedByMe = follow != nil
	}
	return profile, nil
}
