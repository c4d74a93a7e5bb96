package services

import (
	"context"

	"github.com/clipdeck/internal/core/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

type FeedItem struct {
	Video     *domain.Video
	MediaURL  string
	LikedByMe bool
}

type FeedService struct {
	videoRepo VideoRepository
	likeRepo  LikeRepository
	media     MediaStorage
}

func NewFeedService(videoRepo VideoRepository, likeRepo LikeRepository, media MediaStorage) *FeedService {
	return &FeedService{
		videoRepo: videoRepo,
		likeRepo:  likeRepo,
		media:     media,
	}
}

func (s *FeedService) Feed(ctx context.Context, viewerID string, limit, offset int) ([]*FeedItem, error) {
	videos, err := s.videoRepo.ListPublic(ctx, clampLimit(limit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, viewerID, videos)
}

func (s *FeedService) UserVideos(ctx context.Context, viewerID, ownerID string, limit, offset int) ([]*FeedItem, error) {
	includePrivate := viewerID != "" && viewerID == ownerID
	videos, err := s.videoRepo.ListByUser(ctx, ownerID, includePrivate, clampLimit(limit), clampOffset(offset))
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, viewerID, videos)
}

func (s *FeedService) Get(ctx context.Context, viewerID, videoID string) (*FeedItem, error) {
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	if !video.Public && video.UserID != viewerID {
		// private videos are indistinguishable from missing ones
		return nil, ErrVideoNotFound
	}
	items, err := s.decorate(ctx, viewerID, []*domain.Video{video})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *FeedService) decorate(ctx context.Context, viewerID string, videos []*domain.Video) ([]*FeedItem, error) {
	liked := map[string]bool{}
	if viewerID != "" && len(videos) > 0 {
		ids := make([]string, 0, len(videos))
		for _, video := range videos {
			ids = append(ids, video.ID)
		}
		likedIDs, err := s.likeRepo.ListVideoIDs(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	items := make([]*FeedItem, 0, len(videos))
	for _, video := range videos {
		url, err := s.media.PublicURL(ctx, video.StorageKey)
		if err != nil {
			return nil, err
		}
		items = append(items, &FeedItem{
			Video:     video,
			MediaURL:  url,
			LikedByMe: liked[video.ID],
		})
	}
	return items, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
