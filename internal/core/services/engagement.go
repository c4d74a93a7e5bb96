package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/clipdeck/internal/core/domain"
)

var ErrEmptyComment = errors.New("comment body is empty")

type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

type EngagementService struct {
	videoRepo   VideoRepository
	likeRepo    LikeRepository
	commentRepo CommentRepository
	clock       Clock
}

func NewEngagementService(
	videoRepo VideoRepository,
	likeRepo LikeRepository,
	commentRepo CommentRepository,
	clock Clock,
) *EngagementService {
	return &EngagementService{
		videoRepo:   videoRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		clock:       clock,
	}
}

func (s *EngagementService) ToggleLike(ctx context.Context, userID, videoID string) (*LikeResult, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	existing, err := s.likeRepo.Find(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}

	liked := existing == nil
	if existing == nil {
		like := &domain.Like{
			ID:        uuid.NewString(),
			UserID:    userID,
			VideoID:   videoID,
			CreatedAt: s.clock.Now(),
		}
		if err := s.likeRepo.Create(ctx, like); err != nil {
			return nil, err
		}
		if err := s.videoRepo.AdjustLikeCount(ctx, videoID, 1); err != nil {
			return nil, err
		}
	} else {
		if err := s.likeRepo.Delete(ctx, userID, videoID); err != nil {
			return nil, err
		}
		if err := s.videoRepo.AdjustLikeCount(ctx, videoID, -1); err != nil {
			return nil, err
		}
	}

	// reread so the response carries the stored counter
	updated, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrVideoNotFound
	}
	return &LikeResult{Liked: liked, LikeCount: updated.LikeCount}, nil
}

func (s *EngagementService) AddComment(ctx context.Context, userID, videoID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyComment
	}

	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	comment := &domain.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		VideoID:   videoID,
		Body:      body,
		CreatedAt: s.clock.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.videoRepo.IncrementCommentCount(ctx, videoID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *EngagementService) Comments(ctx context.Context, videoID string, limit, offset int) ([]*domain.Comment, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	return s.commentRepo.ListByVideo(ctx, videoID, clampLimit(limit), clampOffset(offset))
}

func (s *EngagementService) RecordView(ctx context.Context, videoID string) error {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video == nil {
		return ErrVideoNotFound
	}
	return s.videoRepo.IncrementViewCount(ctx, videoID)
}

func (s *EngagementService) RecordShare(ctx context.Context, videoID string) error {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video == nil {
		return ErrVideoNotFound
	}
	return s.videoRepo.IncrementShareCount(ctx, videoID)
}
