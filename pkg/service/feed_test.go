package service

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/config"
)

func fixtureUser(id string, status api.UserStatus) api.User {
	return api.User{
		ID:       id,
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(4),
		Status:   status,
	}
}

func fixturePost(id, userID string, status api.PostStatus, at time.Time) api.Post {
	return api.Post{
		ID:        id,
		UserID:    userID,
		Content:   gofakeit.Sentence(6),
		Status:    status,
		CreatedAt: at,
	}
}

func TestRefreshExcludesBlockedConnections(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	alice := fixtureUser("alice", api.UserStatusActive)
	bob := fixtureUser("bob", api.UserStatusBlocked)
	backend.addUser(alice)
	backend.addUser(bob)
	backend.follow("me", "alice")
	backend.follow("me", "bob")

	now := time.Now()
	backend.addPost(fixturePost("p-alice", "alice", api.PostStatusApproved, now))
	backend.addPost(fixturePost("p-bob", "bob", api.PostStatusApproved, now))

	fs := NewFeedService()
	posts, err := fs.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].ID != "p-alice" {
		t.Errorf("expected alice's post, got %s", posts[0].ID)
	}
}

func TestRefreshExcludesUnapprovedPosts(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	alice := fixtureUser("alice", api.UserStatusActive)
	backend.addUser(alice)
	backend.follow("me", "alice")

	now := time.Now()
	backend.addPost(fixturePost("p1", "alice", api.PostStatusApproved, now))
	backend.addPost(fixturePost("p2", "alice", api.PostStatusPending, now))
	backend.addPost(fixturePost("p3", "alice", api.PostStatusRejected, now))

	fs := NewFeedService()
	posts, err := fs.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected only the approved post, got %d posts", len(posts))
	}
	if posts[0].ID != "p1" {
		t.Errorf("expected p1, got %s", posts[0].ID)
	}
}

func TestRefreshSortsNewestFirst(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	alice := fixtureUser("alice", api.UserStatusActive)
	backend.addUser(alice)
	backend.follow("me", "alice")

	base := time.Now()
	backend.addPost(fixturePost("old", "alice", api.PostStatusApproved, base.Add(-2*time.Hour)))
	backend.addPost(fixturePost("new", "alice", api.PostStatusApproved, base))
	backend.addPost(fixturePost("mid", "alice", api.PostStatusApproved, base.Add(-time.Hour)))

	fs := NewFeedService()
	posts, err := fs.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	want := []string{"new", "mid", "old"}
	if len(posts) != len(want) {
		t.Fatalf("expected %d posts, got %d", len(want), len(posts))
	}
	for i, id := range want {
		if posts[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, posts[i].ID)
		}
	}
}

func TestRefreshSkipsConnectionOnStatusCheckFailure(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	alice := fixtureUser("alice", api.UserStatusActive)
	backend.addUser(alice)
	backend.follow("me", "alice")
	backend.addPost(fixturePost("p1", "alice", api.PostStatusApproved, time.Now()))
	backend.failUsers["alice"] = true

	fs := NewFeedService()
	posts, err := fs.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh should degrade, not fail: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("expected empty feed when the author check fails, got %d posts", len(posts))
	}
}

func TestToggleLike(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	alice := fixtureUser("alice", api.UserStatusActive)
	backend.addUser(alice)
	backend.follow("me", "alice")
	backend.addPost(fixturePost("p1", "alice", api.PostStatusApproved, time.Now()))

	fs := NewFeedService()
	ctx := context.Background()
	if _, err := fs.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	liked, err := fs.ToggleLike(ctx, "p1")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !liked {
		t.Fatal("first toggle should like the post")
	}
	if got := backend.reactionCount("p1"); got != 1 {
		t.Errorf("backend should hold 1 reaction, got %d", got)
	}
	post := fs.Posts()[0]
	if post.LikeCount != 1 || !post.LikedByMe {
		t.Errorf("expected like count 1 and liked-by-me, got %d %v", post.LikeCount, post.LikedByMe)
	}

	liked, err = fs.ToggleLike(ctx, "p1")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if liked {
		t.Fatal("second toggle should remove the like")
	}
	if got := backend.reactionCount("p1"); got != 0 {
		t.Errorf("backend should hold 0 reactions, got %d", got)
	}
	post = fs.Posts()[0]
	if post.LikeCount != 0 || post.LikedByMe {
		t.Errorf("expected like count 0 and not liked, got %d %v", post.LikeCount, post.LikedByMe)
	}
}

func TestToggleLikeLeavesSnapshotsIntact(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	alice := fixtureUser("alice", api.UserStatusActive)
	backend.addUser(alice)
	backend.follow("me", "alice")
	backend.addPost(fixturePost("p1", "alice", api.PostStatusApproved, time.Now()))
	backend.addReaction(api.Reaction{
		ID:     "r-me",
		PostID: "p1",
		UserID: "me",
		Emoji:  api.LikeEmoji,
	})

	fs := NewFeedService()
	ctx := context.Background()
	if _, err := fs.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	snapshot := fs.Posts()[0]
	if len(snapshot.Reactions) != 1 || !snapshot.LikedByMe {
		t.Fatalf("unexpected starting state %+v", snapshot)
	}

	// Removing the like must not shuffle slices an earlier snapshot
	// still holds.
	if _, err := fs.ToggleLike(ctx, "p1"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if len(snapshot.Reactions) != 1 || snapshot.Reactions[0].UserID != "me" {
		t.Errorf("snapshot reactions mutated: %+v", snapshot.Reactions)
	}
	if len(snapshot.Likers) != 1 || snapshot.Likers[0].ID != "me" {
		t.Errorf("snapshot likers mutated: %+v", snapshot.Likers)
	}
}

func TestToggleLikeUnknownPost(t *testing.T) {
	backend := newFakeBackend()
	setupService(t, backend, fixtureUser("me", api.UserStatusActive))

	fs := NewFeedService()
	if _, err := fs.ToggleLike(context.Background(), "nope"); err == nil {
		t.Fatal("expected an error for a post outside the feed")
	}
}

func TestBlockedReactorAnonymized(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	alice := fixtureUser("alice", api.UserStatusActive)
	mallory := fixtureUser("mallory", api.UserStatusBlocked)
	backend.addUser(alice)
	backend.addUser(mallory)
	backend.follow("me", "alice")
	backend.addPost(fixturePost("p1", "alice", api.PostStatusApproved, time.Now()))
	backend.addReaction(api.Reaction{
		ID:     "r1",
		PostID: "p1",
		UserID: "mallory",
		Emoji:  api.LikeEmoji,
	})
	backend.addComment(api.Comment{
		ID:      "c1",
		PostID:  "p1",
		UserID:  "mallory",
		Content: gofakeit.Sentence(5),
	})

	fs := NewFeedService()
	posts, err := fs.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	post := posts[0]
	if len(post.Likers) != 1 || post.Likers[0].Name != BlockedActorName {
		t.Errorf("blocked liker should render as %q, got %+v", BlockedActorName, post.Likers)
	}
	if len(post.Comments) != 1 || post.Comments[0].Author.Name != BlockedActorName {
		t.Errorf("blocked commenter should render as %q, got %+v", BlockedActorName, post.Comments)
	}
}

func TestAddCommentPatchesCachedPost(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	alice := fixtureUser("alice", api.UserStatusActive)
	backend.addUser(alice)
	backend.follow("me", "alice")
	backend.addPost(fixturePost("p1", "alice", api.PostStatusApproved, time.Now()))

	fs := NewFeedService()
	ctx := context.Background()
	if _, err := fs.Refresh(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	comment, err := fs.AddComment(ctx, "p1", "nice shot")
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if comment.UserID != "me" {
		t.Errorf("comment should be attributed to the session user, got %s", comment.UserID)
	}

	post := fs.Posts()[0]
	if len(post.Comments) != 1 {
		t.Fatalf("expected the comment in the cached post, got %d", len(post.Comments))
	}
	if post.Comments[0].Content != "nice shot" {
		t.Errorf("unexpected comment content %q", post.Comments[0].Content)
	}
	if got := len(backend.comments["p1"]); got != 1 {
		t.Errorf("backend should hold the comment, got %d", got)
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)
	config.Set("sync.feed_interval", 1)

	fs := NewFeedService()
	ctx, cancel := context.WithCancel(context.Background())

	updates := make(chan int, 8)
	done := make(chan struct{})
	go func() {
		fs.Watch(ctx, func(posts []EnrichedPost) {
			select {
			case updates <- len(posts):
			default:
			}
		})
		close(done)
	}()

	select {
	case <-updates:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never delivered an update")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
