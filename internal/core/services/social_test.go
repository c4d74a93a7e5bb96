package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clipdeck/internal/adapters/repo/memory"
	"github.com/clipdeck/internal/core/domain"
	"github.com/clipdeck/internal/core/services"
)

func seedUser(t *testing.T, repo *memory.UserRepository, id, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:       id,
		Email:    email,
		Name:     "user " + id,
		Provider: "dev",
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", id, err)
	}
	return user
}

func TestToggleFollow_FlipsPairAndCount(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	userRepo := memory.NewUserRepository()
	followRepo := memory.NewFollowRepository()
	seedUser(t, userRepo, "u1", "u1@example.com")
	seedUser(t, userRepo, "u2", "u2@example.com")

	svc := services.NewSocialService(userRepo, memory.NewVideoRepository(), followRepo, clock)

	result, err := svc.ToggleFollow(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !result.Following || result.FollowerCount != 1 {
		t.Errorf("first toggle: expected following with 1 follower, got %+v", result)
	}

	result, err = svc.ToggleFollow(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if result.Following || result.FollowerCount != 0 {
		t.Errorf("second toggle: expected unfollowed with 0 followers, got %+v", result)
	}

	if _, err := svc.ToggleFollow(ctx, "u1", "u1"); !errors.Is(err, services.ErrSelfFollow) {
		t.Errorf("self follow: expected ErrSelfFollow, got %v", err)
	}
	if _, err := svc.ToggleFollow(ctx, "u1", "missing"); !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("missing followee: expected ErrUserNotFound, got %v", err)
	}
}

func TestProfile_CountsAndFollowedByMe(t *testing.T) {
	ctx := context.Background()
	clock := services.NewFakeClock(time.Now())
	userRepo := memory.NewUserRepository()
	videoRepo := memory.NewVideoRepository()
	followRepo := memory.NewFollowRepository()
	seedUser(t, userRepo, "u1", "u1@example.com")
	seedUser(t, userRepo, "u2", "u2@example.com")
	seedUser(t, userRepo, "u3", "u3@example.com")
	seedVideo(t, videoRepo, "v1", "u2", true, clock.Now())
	seedVideo(t, videoRepo, "v2", "u2", false, clock.Now())

	svc := services.NewSocialService(userRepo, videoRepo, followRepo, clock)

	if _, err := svc.ToggleFollow(ctx, "u1", "u2"); err != nil {
		t.Fatalf("u1 follows u2: %v", err)
	}
	if _, err := svc.ToggleFollow(ctx, "u3", "u2"); err != nil {
		t.Fatalf("u3 follows u2: %v", err)
	}
	if _, err := svc.ToggleFollow(ctx, "u2", "u3"); err != nil {
		t.Fatalf("u2 follows u3: %v", err)
	}

	profile, err := svc.Profile(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("loading profile: %v", err)
	}
	if profile.FollowerCount != 2 {
		t.Errorf("follower count: expected 2, got %d", profile.FollowerCount)
	}
	if profile.FollowingCount != 1 {
		t.Errorf("following count: expected 1, got %d", profile.FollowingCount)
	}
	if profile.VideoCount != 2 {
		t.Errorf("video count: expected 2, got %d", profile.VideoCount)
	}
	if !profile.FollowedByMe {
		t.Error("u1 follows u2, FollowedByMe should be true")
	}

	profile, err = svc.Profile(ctx, "u3", "u3")
	if err != nil {
		t.Fatalf("own profile: %v", err)
	}
	if profile.FollowedByMe {
		t.Error("own profile should not report FollowedByMe")
	}

	if _, err := svc.Profile(ctx, "", "missing"); !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("missing user: expected ErrUserNotFound, got %v", err)
	}
}
