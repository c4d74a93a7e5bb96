package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/clipdeck/internal/adapters/repo/memory"
	"github.com/clipdeck/internal/adapters/storage/fs"
	"github.com/clipdeck/internal/core/services"
)

func TestFeed_PaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	videoRepo := memory.NewVideoRepository()
	media := fs.NewMediaStorage(t.TempDir(), "", 15*time.Minute, clock)

	for i := 1; i <= 5; i++ {
		seedVideo(t, videoRepo, fmt.Sprintf("v%d", i), "owner", true, clock.Now())
		clock.Advance(time.Minute)
	}
	seedVideo(t, videoRepo, "hidden", "owner", false, clock.Now())

	svc := services.NewFeedService(videoRepo, memory.NewLikeRepository(), media)

	items, err := svc.Feed(ctx, "", 3, 0)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("first page: expected 3 items, got %d", len(items))
	}
	if items[0].Video.ID != "v5" || items[2].Video.ID != "v3" {
		t.Errorf("first page order: got %s..%s, want v5..v3", items[0].Video.ID, items[2].Video.ID)
	}

	items, err = svc.Feed(ctx, "", 3, 3)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("second page: expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.Video.ID == "hidden" {
			t.Error("private videos must not appear in the feed")
		}
	}

	items, err = svc.Feed(ctx, "", 3, 50)
	if err != nil {
		t.Fatalf("past the end: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("past the end: expected empty page, got %d items", len(items))
	}
}

func TestFeed_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	videoRepo := memory.NewVideoRepository()
	media := fs.NewMediaStorage(t.TempDir(), "", 15*time.Minute, clock)

	for i := 0; i < 60; i++ {
		seedVideo(t, videoRepo, fmt.Sprintf("v%02d", i), "owner", true, clock.Now())
		clock.Advance(time.Second)
	}

	svc := services.NewFeedService(videoRepo, memory.NewLikeRepository(), media)

	items, err := svc.Feed(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("default limit: %v", err)
	}
	if len(items) != 20 {
		t.Errorf("default limit: expected 20 items, got %d", len(items))
	}

	items, err = svc.Feed(ctx, "", 500, 0)
	if err != nil {
		t.Fatalf("capped limit: %v", err)
	}
	if len(items) != 50 {
		t.Errorf("capped limit: expected 50 items, got %d", len(items))
	}

	items, err = svc.Feed(ctx, "", 3, -10)
	if err != nil {
		t.Fatalf("negative offset: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("negative offset should read from the start, got %d items", len(items))
	}
}

func TestFeed_MarksLikedByMe(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	videoRepo := memory.NewVideoRepository()
	likeRepo := memory.NewLikeRepository()
	media := fs.NewMediaStorage(t.TempDir(), "", 15*time.Minute, clock)

	seedVideo(t, videoRepo, "v1", "owner", true, clock.Now())
	clock.Advance(time.Minute)
	seedVideo(t, videoRepo, "v2", "owner", true, clock.Now())

	engagement := services.NewEngagementService(videoRepo, likeRepo, memory.NewCommentRepository(), clock)
	if _, err := engagement.ToggleLike(ctx, "viewer", "v1"); err != nil {
		t.Fatalf("liking v1: %v", err)
	}

	svc := services.NewFeedService(videoRepo, likeRepo, media)

	items, err := svc.Feed(ctx, "viewer", 10, 0)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	byID := map[string]bool{}
	for _, item := range items {
		byID[item.Video.ID] = item.LikedByMe
	}
	if !byID["v1"] {
		t.Error("v1 should be marked likedByMe")
	}
	if byID["v2"] {
		t.Error("v2 should not be marked likedByMe")
	}

	items, err = svc.Feed(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("anonymous feed: %v", err)
	}
	for _, item := range items {
		if item.LikedByMe {
			t.Error("anonymous viewers never see likedByMe")
		}
	}
}

func TestGet_HidesPrivateVideosFromStrangers(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	videoRepo := memory.NewVideoRepository()
	media := fs.NewMediaStorage(t.TempDir(), "", 15*time.Minute, clock)
	seedVideo(t, videoRepo, "v1", "owner", false, clock.Now())

	svc := services.NewFeedService(videoRepo, memory.NewLikeRepository(), media)

	if _, err := svc.Get(ctx, "stranger", "v1"); !errors.Is(err, services.ErrVideoNotFound) {
		t.Errorf("stranger: expected ErrVideoNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, "", "v1"); !errors.Is(err, services.ErrVideoNotFound) {
		t.Errorf("anonymous: expected ErrVideoNotFound, got %v", err)
	}

	item, err := svc.Get(ctx, "owner", "v1")
	if err != nil {
		t.Fatalf("owner should see the private video: %v", err)
	}
	if item.MediaURL == "" {
		t.Error("item should carry a media URL")
	}

	if _, err := svc.Get(ctx, "owner", "missing"); !errors.Is(err, services.ErrVideoNotFound) {
		t.Errorf("missing video: expected ErrVideoNotFound, got %v", err)
	}
}

func TestUserVideos_OwnerSeesPrivate(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	videoRepo := memory.NewVideoRepository()
	media := fs.NewMediaStorage(t.TempDir(), "", 15*time.Minute, clock)

	seedVideo(t, videoRepo, "pub", "owner", true, clock.Now())
	clock.Advance(time.Minute)
	seedVideo(t, videoRepo, "priv", "owner", false, clock.Now())

	svc := services.NewFeedService(videoRepo, memory.NewLikeRepository(), media)

	items, err := svc.UserVideos(ctx, "stranger", "owner", 10, 0)
	if err != nil {
		t.Fatalf("stranger listing: %v", err)
	}
	if len(items) != 1 || items[0].Video.ID != "pub" {
		t.Errorf("stranger should see only public videos, got %d items", len(items))
	}

	items, err = svc.UserVideos(ctx, "owner", "owner", 10, 0)
	if err != nil {
		t.Fatalf("owner listing: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("owner should see private videos too, got %d items", len(items))
	}
	if items[0].Video.ID != "priv" {
		t.Errorf("owner listing should be newest first, got %s", items[0].Video.ID)
	}
}
