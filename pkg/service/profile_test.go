package service

import (
	"context"
	"testing"
	"time"

	"github.com/filxconnect/cli/pkg/api"
)

func TestViewOwnProfileIncludesPendingPosts(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	now := time.Now()
	backend.addPost(fixturePost("p1", "me", api.PostStatusApproved, now))
	backend.addPost(fixturePost("p2", "me", api.PostStatusPending, now))

	ps := NewProfileService()
	profile, err := ps.View(context.Background(), "")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if !profile.IsSelf {
		t.Error("empty user id should resolve to the signed-in user")
	}
	if len(profile.Posts) != 2 {
		t.Errorf("owner should see pending posts, got %d", len(profile.Posts))
	}
}

func TestViewVisitorSeesOnlyApprovedPosts(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	alice := fixtureUser("alice", api.UserStatusActive)
	backend.addUser(alice)
	now := time.Now()
	backend.addPost(fixturePost("p1", "alice", api.PostStatusApproved, now))
	backend.addPost(fixturePost("p2", "alice", api.PostStatusPending, now))
	backend.addPost(fixturePost("p3", "alice", api.PostStatusRejected, now))

	ps := NewProfileService()
	profile, err := ps.View(context.Background(), "alice")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if profile.IsSelf {
		t.Error("alice's profile should not be self")
	}
	if len(profile.Posts) != 1 || profile.Posts[0].ID != "p1" {
		t.Errorf("visitor should only see approved posts, got %+v", profile.Posts)
	}
}

func TestEditRefreshesSessionIdentity(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	ps := NewProfileService()
	user, err := ps.Edit(context.Background(), "newname", "new bio")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if user.Username != "newname" || user.Bio != "new bio" {
		t.Errorf("unexpected updated profile %+v", user)
	}

	name, _ := currentIdentity()
	if name != "newname" {
		t.Errorf("session identity should refresh, got %q", name)
	}
}

func TestCreatePostDefaultsToPending(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	ps := NewProfileService()
	post, err := ps.CreatePost(context.Background(), "sunset", "over the bay", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.Status != api.PostStatusPending {
		t.Errorf("new posts await moderation, got status %q", post.Status)
	}
	if post.UserID != "me" {
		t.Errorf("post should belong to the session user, got %s", post.UserID)
	}
}

func TestCreatePostRequiresContent(t *testing.T) {
	backend := newFakeBackend()
	setupService(t, backend, fixtureUser("me", api.UserStatusActive))

	ps := NewProfileService()
	if _, err := ps.CreatePost(context.Background(), "", "", nil); err == nil {
		t.Fatal("expected an error for an empty post")
	}
}

func TestDeletePostRejectsForeignPost(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)

	backend.addUser(fixtureUser("alice", api.UserStatusActive))
	backend.addPost(fixturePost("p1", "alice", api.PostStatusApproved, time.Now()))

	ps := NewProfileService()
	if err := ps.DeletePost(context.Background(), "p1"); err == nil {
		t.Fatal("expected an ownership error")
	}
	if len(backend.posts["alice"]) != 1 {
		t.Error("foreign post must not be deleted")
	}
}

func TestDeleteOwnPost(t *testing.T) {
	backend := newFakeBackend()
	me := fixtureUser("me", api.UserStatusActive)
	setupService(t, backend, me)
	backend.addPost(fixturePost("p1", "me", api.PostStatusApproved, time.Now()))

	ps := NewProfileService()
	if err := ps.DeletePost(context.Background(), "p1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(backend.posts["me"]) != 0 {
		t.Error("post should be removed from the backend")
	}
}

func TestReportValidation(t *testing.T) {
	backend := newFakeBackend()
	setupService(t, backend, fixtureUser("me", api.UserStatusActive))
	backend.addUser(fixtureUser("alice", api.UserStatusActive))

	ps := NewProfileService()
	ctx := context.Background()

	if err := ps.Report(ctx, "me", "spam"); err == nil {
		t.Fatal("expected an error reporting yourself")
	}
	if err := ps.Report(ctx, "alice", ""); err == nil {
		t.Fatal("expected an error for an empty reason")
	}
	if err := ps.Report(ctx, "alice", "spam"); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(backend.reports) != 1 || backend.reports[0].ReportedID != "alice" {
		t.Errorf("expected the report on the backend, got %+v", backend.reports)
	}
}
