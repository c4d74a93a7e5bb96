package dynamo_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/clipdeck/internal/adapters/repo/dynamo"
	"github.com/clipdeck/internal/core/domain"
)

// Needs a local DynamoDB, e.g.
// docker run -p 8000:8000 amazon/dynamodb-local
// DYNAMO_ENDPOINT=http://localhost:8000 go test ./...
func openStore(t *testing.T) *dynamo.Store {
	t.Helper()

	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint == "" {
		t.Skip("DYNAMO_ENDPOINT not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := dynamo.NewClient(ctx, "us-east-1", endpoint)
	if err != nil {
		t.Fatalf("building dynamo client: %v", err)
	}

	table := fmt.Sprintf("clipdeck_test_%d", time.Now().UnixNano())
	store := dynamo.NewStore(client, table)
	if err := store.EnsureTable(ctx); err != nil {
		t.Fatalf("creating table: %v", err)
	}
	return store
}

func TestDynamo_UserRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	repo := dynamo.NewUserRepository(store)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	user := &domain.User{
		ID:              "u1",
		Email:           "ada@example.com",
		Name:            "Ada",
		ProfileImageURL: "https://img.example/ada.png",
		Provider:        "google",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("creating user: %v", err)
	}

	byID, err := repo.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("finding by id: %v", err)
	}
	if byID == nil || byID.Email != "ada@example.com" {
		t.Fatalf("expected ada by id, got %+v", byID)
	}
	if !byID.CreatedAt.Equal(now) {
		t.Errorf("timestamps should round-trip, got %v", byID.CreatedAt)
	}

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("finding by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != "u1" {
		t.Fatalf("expected u1 by email, got %+v", byEmail)
	}

	missing, _ := repo.FindByID(ctx, "nope")
	if missing != nil {
		t.Error("missing users resolve to nil")
	}
}

func TestDynamo_VideoListingAndCounters(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	repo := dynamo.NewVideoRepository(store)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seed := func(id string, public bool, offset time.Duration) {
		t.Helper()
		err := repo.Create(ctx, &domain.Video{
			ID:         id,
			UserID:     "owner",
			Title:      "video " + id,
			StorageKey: "videos/owner/" + id + ".mp4",
			Public:     public,
			CreatedAt:  base.Add(offset),
			UpdatedAt:  base.Add(offset),
		})
		if err != nil {
			t.Fatalf("seeding %s: %v", id, err)
		}
	}
	seed("v1", true, 0)
	seed("v2", true, time.Minute)
	seed("hidden", false, 2*time.Minute)

	feed, err := repo.ListPublic(ctx, 10, 0)
	if err != nil {
		t.Fatalf("listing feed: %v", err)
	}
	if len(feed) != 2 || feed[0].ID != "v2" || feed[1].ID != "v1" {
		t.Errorf("feed should be public only, newest first; got %+v", feed)
	}

	all, _ := repo.ListByUser(ctx, "owner", true, 10, 0)
	if len(all) != 3 {
		t.Errorf("owner listing should include private, got %d", len(all))
	}

	count, _ := repo.CountByUser(ctx, "owner")
	if count != 3 {
		t.Errorf("count by user: expected 3, got %d", count)
	}

	if err := repo.IncrementViewCount(ctx, "v1"); err != nil {
		t.Fatalf("view increment: %v", err)
	}
	if err := repo.AdjustLikeCount(ctx, "v1", 1); err != nil {
		t.Fatalf("like increment: %v", err)
	}
	if err := repo.AdjustLikeCount(ctx, "v1", -1); err != nil {
		t.Fatalf("like decrement: %v", err)
	}

	v1, _ := repo.FindByID(ctx, "v1")
	if v1.ViewCount != 1 || v1.LikeCount != 0 {
		t.Errorf("counters wrong after ADD updates: %+v", v1)
	}

	if err := repo.IncrementViewCount(ctx, "missing"); err == nil {
		t.Error("counter update on a missing video should fail its condition")
	}
}

func TestDynamo_LikePairConditionalPut(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	repo := dynamo.NewLikeRepository(store)

	now := time.Now()
	like := &domain.Like{ID: "l1", UserID: "u1", VideoID: "v1", CreatedAt: now}
	if err := repo.Create(ctx, like); err != nil {
		t.Fatalf("creating like: %v", err)
	}

	dup := &domain.Like{ID: "l2", UserID: "u1", VideoID: "v1", CreatedAt: now}
	if err := repo.Create(ctx, dup); err == nil {
		t.Error("duplicate pair should fail the conditional put")
	}

	if err := repo.Create(ctx, &domain.Like{ID: "l3", UserID: "u1", VideoID: "v2", CreatedAt: now}); err != nil {
		t.Fatalf("creating second like: %v", err)
	}

	liked, err := repo.ListVideoIDs(ctx, "u1", []string{"v1", "v2", "v3"})
	if err != nil {
		t.Fatalf("listing liked: %v", err)
	}
	if len(liked) != 2 {
		t.Errorf("expected 2 liked videos, got %v", liked)
	}

	if err := repo.Delete(ctx, "u1", "v1"); err != nil {
		t.Fatalf("deleting like: %v", err)
	}
	gone, _ := repo.Find(ctx, "u1", "v1")
	if gone != nil {
		t.Error("deleted like should be gone")
	}
}

func TestDynamo_CommentsOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	repo := dynamo.NewCommentRepository(store)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second", "third"} {
		err := repo.Create(ctx, &domain.Comment{
			ID:        fmt.Sprintf("c%d", i),
			UserID:    "u1",
			VideoID:   "v1",
			Body:      body,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("creating comment %q: %v", body, err)
		}
	}

	comments, err := repo.ListByVideo(ctx, "v1", 2, 0)
	if err != nil {
		t.Fatalf("listing comments: %v", err)
	}
	if len(comments) != 2 || comments[0].Body != "first" {
		t.Errorf("comments should page oldest first, got %+v", comments)
	}

	tail, _ := repo.ListByVideo(ctx, "v1", 2, 2)
	if len(tail) != 1 || tail[0].Body != "third" {
		t.Errorf("offset page wrong: %+v", tail)
	}
}

func TestDynamo_FollowEdgesBothDirections(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	repo := dynamo.NewFollowRepository(store)

	now := time.Now()
	pairs := [][2]string{{"u1", "star"}, {"u2", "star"}, {"star", "u1"}}
	for i, pair := range pairs {
		err := repo.Create(ctx, &domain.Follow{
			ID:         fmt.Sprintf("f%d", i),
			FollowerID: pair[0],
			FolloweeID: pair[1],
			CreatedAt:  now,
		})
		if err != nil {
			t.Fatalf("creating follow %v: %v", pair, err)
		}
	}

	followers, _ := repo.CountFollowers(ctx, "star")
	if followers != 2 {
		t.Errorf("follower count: expected 2, got %d", followers)
	}
	following, _ := repo.CountFollowing(ctx, "star")
	if following != 1 {
		t.Errorf("following count: expected 1, got %d", following)
	}

	if err := repo.Delete(ctx, "u1", "star"); err != nil {
		t.Fatalf("deleting follow: %v", err)
	}
	followers, _ = repo.CountFollowers(ctx, "star")
	if followers != 1 {
		t.Errorf("both edge directions should be removed, follower count %d", followers)
	}
	found, _ := repo.Find(ctx, "u1", "star")
	if found != nil {
		t.Error("deleted follow should be gone")
	}
}

func TestDynamo_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	repo := dynamo.NewSessionRepository(store)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	session := &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("creating session: %v", err)
	}

	found, err := repo.Find(ctx, "s1")
	if err != nil {
		t.Fatalf("finding session: %v", err)
	}
	if found == nil || found.UserID != "u1" || !found.ExpiresAt.Equal(session.ExpiresAt) {
		t.Fatalf("session should round-trip, got %+v", found)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("deleting session: %v", err)
	}
	gone, _ := repo.Find(ctx, "s1")
	if gone != nil {
		t.Error("deleted session should be gone")
	}
}
