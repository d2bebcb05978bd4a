package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/session"
)

// BlockedActorName replaces the display name of blocked accounts
// wherever they appear in an enriched feed.
const BlockedActorName = "Blocked User"

// Actor is the resolved display identity of a user referenced by a
// reaction or comment.
type Actor struct {
	ID     string
	Name   string
	Avatar string
}

// EnrichedComment is a comment joined with its author's identity.
type EnrichedComment struct {
	api.Comment
	Author Actor
}

// EnrichedPost is a post joined with everything the feed renders:
// author identity, reactions, comments and media attachments.
type EnrichedPost struct {
	api.Post
	Author    Actor
	Reactions []api.Reaction
	Likers    []Actor
	Comments  []EnrichedComment
	MediaURLs []string
	LikeCount int
	LikedByMe bool
}

// FeedService assembles the home feed from connection posts and keeps
// it fresh via polling. All mutation paths apply optimistic local
// updates after the backend accepts the write.
type FeedService struct {
	mu    sync.Mutex
	posts []EnrichedPost
}

// NewFeedService creates a new feed service
func NewFeedService() *FeedService {
	return &FeedService{}
}

// Posts returns the most recently assembled feed.
func (fs *FeedService) Posts() []EnrichedPost {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]EnrichedPost, len(fs.posts))
	copy(out, fs.posts)
	return out
}

// Refresh rebuilds the feed from scratch: connections are fetched,
// their moderation state re-checked, approved posts collected and
// enriched concurrently. Posts whose enrichment fails are dropped
// rather than rendered half-empty.
func (fs *FeedService) Refresh(ctx context.Context) ([]EnrichedPost, error) {
	userID := session.CurrentUserID()
	logger.Debug("Refreshing feed", "user_id", userID)

	connections, err := api.GetConnections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connections: %w", err)
	}

	// Collect approved posts from every non-blocked connection.
	// Connection status can go stale between the list fetch and the
	// post fetch, so each author is re-checked first.
	type authorPosts struct {
		author api.User
		posts  []api.Post
	}
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		gather []authorPosts
	)
	for _, conn := range connections {
		if conn.IsBlocked() {
			continue
		}
		wg.Add(1)
		go func(conn api.User) {
			defer wg.Done()
			fresh, err := api.GetUser(ctx, conn.ID)
			if err != nil {
				logger.Warn("Skipping connection, status re-check failed", "user_id", conn.ID, "error", err)
				return
			}
			if fresh.IsBlocked() {
				logger.Debug("Skipping blocked connection", "user_id", conn.ID)
				return
			}
			posts, err := api.GetUserPosts(ctx, conn.ID)
			if err != nil {
				logger.Warn("Skipping connection, post fetch failed", "user_id", conn.ID, "error", err)
				return
			}
			approved := make([]api.Post, 0, len(posts))
			for _, p := range posts {
				if p.Status == api.PostStatusApproved {
					approved = append(approved, p)
				}
			}
			mu.Lock()
			gather = append(gather, authorPosts{author: *fresh, posts: approved})
			mu.Unlock()
		}(conn)
	}
	wg.Wait()

	var (
		enrichWG sync.WaitGroup
		enriched []EnrichedPost
	)
	for _, ap := range gather {
		for _, post := range ap.posts {
			enrichWG.Add(1)
			go func(author api.User, post api.Post) {
				defer enrichWG.Done()
				ep, err := fs.enrichPost(ctx, author, post)
				if err != nil {
					logger.Warn("Dropping post, enrichment failed", "post_id", post.ID, "error", err)
					return
				}
				mu.Lock()
				enriched = append(enriched, *ep)
				mu.Unlock()
			}(ap.author, post)
		}
	}
	enrichWG.Wait()

	sort.Slice(enriched, func(i, j int) bool {
		return enriched[i].CreatedAt.After(enriched[j].CreatedAt)
	})

	fs.mu.Lock()
	fs.posts = enriched
	fs.mu.Unlock()

	logger.Debug("Feed refreshed", "posts", len(enriched))
	return fs.Posts(), nil
}

// enrichPost joins a post with its author, reactions, comments and
// media. The four lookups run in parallel; only an author failure is
// fatal, the rest degrade to empty slices.
func (fs *FeedService) enrichPost(ctx context.Context, author api.User, post api.Post) (*EnrichedPost, error) {
	me := session.CurrentUserID()

	var (
		wg        sync.WaitGroup
		reactions []api.Reaction
		comments  []api.Comment
		media     []api.Media
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		r, err := api.GetPostReactions(ctx, post.ID)
		if err != nil {
			logger.Debug("Reaction fetch failed", "post_id", post.ID, "error", err)
			return
		}
		reactions = r
	}()
	go func() {
		defer wg.Done()
		c, err := api.GetPostComments(ctx, post.ID)
		if err != nil {
			logger.Debug("Comment fetch failed", "post_id", post.ID, "error", err)
			return
		}
		comments = c
	}()
	go func() {
		defer wg.Done()
		m, err := api.GetPostMedia(ctx, post.ID)
		if err != nil {
			logger.Debug("Media fetch failed", "post_id", post.ID, "error", err)
			return
		}
		media = m
	}()
	wg.Wait()

	if author.ID == "" {
		return nil, fmt.Errorf("post %s has no resolvable author", post.ID)
	}

	ep := &EnrichedPost{
		Post:      post,
		Author:    actorFor(&author),
		Reactions: reactions,
	}

	actors := map[string]Actor{author.ID: ep.Author}
	resolve := func(userID string) Actor {
		if a, ok := actors[userID]; ok {
			return a
		}
		a := resolveActor(ctx, userID)
		actors[userID] = a
		return a
	}

	for _, r := range reactions {
		if r.Emoji != api.LikeEmoji {
			continue
		}
		ep.LikeCount++
		ep.Likers = append(ep.Likers, resolve(r.UserID))
		if r.UserID == me {
			ep.LikedByMe = true
		}
	}
	for _, c := range comments {
		ep.Comments = append(ep.Comments, EnrichedComment{
			Comment: c,
			Author:  resolve(c.UserID),
		})
	}
	for _, m := range media {
		ep.MediaURLs = append(ep.MediaURLs, api.FullImageURL(m.URL))
	}
	for _, u := range post.MediaUrls {
		ep.MediaURLs = append(ep.MediaURLs, api.FullImageURL(u))
	}
	return ep, nil
}

// actorFor maps a user to its rendered identity. Blocked accounts are
// anonymized.
func actorFor(u *api.User) Actor {
	if u.IsBlocked() {
		return Actor{ID: u.ID, Name: BlockedActorName, Avatar: api.FullImageURL("")}
	}
	return Actor{ID: u.ID, Name: u.Username, Avatar: api.FullImageURL(u.ProfilePicture)}
}

func resolveActor(ctx context.Context, userID string) Actor {
	u, err := api.GetUser(ctx, userID)
	if err != nil {
		logger.Debug("Actor lookup failed", "user_id", userID, "error", err)
		return Actor{ID: userID, Name: "Unknown", Avatar: api.FullImageURL("")}
	}
	return actorFor(u)
}

// ToggleLike likes the post if the current user has not reacted to it
// yet, and removes the reaction otherwise. Membership is keyed by the
// reacting user's id. The cached feed is patched optimistically after
// the backend accepts the write.
func (fs *FeedService) ToggleLike(ctx context.Context, postID string) (liked bool, err error) {
	userID := session.CurrentUserID()
	logger.Debug("Toggling like", "post_id", postID, "user_id", userID)

	fs.mu.Lock()
	idx := fs.indexOf(postID)
	if idx < 0 {
		fs.mu.Unlock()
		return false, fmt.Errorf("post %s is not in the current feed", postID)
	}
	alreadyLiked := fs.posts[idx].LikedByMe
	fs.mu.Unlock()

	if alreadyLiked {
		if err := api.RemoveReaction(ctx, postID, userID); err != nil {
			return true, fmt.Errorf("failed to remove reaction: %w", err)
		}
	} else {
		if _, err := api.AddReaction(ctx, postID, userID, api.LikeEmoji); err != nil {
			return false, fmt.Errorf("failed to add reaction: %w", err)
		}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	idx = fs.indexOf(postID)
	if idx < 0 {
		return !alreadyLiked, nil
	}
	post := &fs.posts[idx]
	if alreadyLiked {
		post.LikeCount--
		post.LikedByMe = false
		post.Reactions = removeUserReaction(post.Reactions, userID)
		post.Likers = removeActor(post.Likers, userID)
		return false, nil
	}
	post.LikeCount++
	post.LikedByMe = true
	post.Reactions = append(post.Reactions, api.Reaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		PostID:    postID,
		Emoji:     api.LikeEmoji,
		CreatedAt: time.Now(),
	})
	name, avatar := currentIdentity()
	post.Likers = append(post.Likers, Actor{ID: userID, Name: name, Avatar: avatar})
	return true, nil
}

// AddComment posts a comment and appends it to the cached post once
// the backend accepts it.
func (fs *FeedService) AddComment(ctx context.Context, postID, content string) (*EnrichedComment, error) {
	userID := session.CurrentUserID()
	logger.Debug("Adding comment", "post_id", postID, "user_id", userID)

	created, err := api.AddComment(ctx, postID, userID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}

	name, avatar := currentIdentity()
	ec := EnrichedComment{
		Comment: *created,
		Author:  Actor{ID: userID, Name: name, Avatar: avatar},
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if idx := fs.indexOf(postID); idx >= 0 {
		fs.posts[idx].Comments = append(fs.posts[idx].Comments, ec)
	}
	return &ec, nil
}

// Watch refreshes the feed on the configured interval until ctx is
// cancelled. A tick is skipped while the previous refresh is still in
// flight. onUpdate receives the feed after every successful refresh.
func (fs *FeedService) Watch(ctx context.Context, onUpdate func([]EnrichedPost)) {
	interval := config.GetInterval("sync.feed_interval")
	logger.Debug("Starting feed watcher", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	running := false
	var runMu sync.Mutex
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Feed watcher stopped")
			return
		case <-ticker.C:
			runMu.Lock()
			if running {
				runMu.Unlock()
				logger.Debug("Skipping feed tick, previous refresh still running")
				continue
			}
			running = true
			runMu.Unlock()

			posts, err := fs.Refresh(ctx)
			if err != nil {
				logger.Warn("Feed refresh failed", "error", err)
			} else if onUpdate != nil {
				onUpdate(posts)
			}

			runMu.Lock()
			running = false
			runMu.Unlock()
		}
	}
}

func (fs *FeedService) indexOf(postID string) int {
	for i := range fs.posts {
		if fs.posts[i].ID == postID {
			return i
		}
	}
	return -1
}

// removeUserReaction and removeActor allocate fresh slices because
// snapshots returned by Posts still alias the old backing arrays.
func removeUserReaction(reactions []api.Reaction, userID string) []api.Reaction {
	out := make([]api.Reaction, 0, len(reactions))
	for _, r := range reactions {
		if r.UserID == userID && r.Emoji == api.LikeEmoji {
			continue
		}
		out = append(out, r)
	}
	return out
}

func removeActor(actors []Actor, userID string) []Actor {
	out := make([]Actor, 0, len(actors))
	for _, a := range actors {
		if a.ID == userID {
			continue
		}
		out = append(out, a)
	}
	return out
}

// currentIdentity reads the signed-in user's display name and avatar
// from the session, falling back to the default identity.
func currentIdentity() (name, avatar string) {
	s, err := session.Load()
	if err != nil || s == nil {
		return "Unknown", api.FullImageURL("")
	}
	name = s.Username
	if name == "" {
		name = "Unknown"
	}
	return name, api.FullImageURL(s.ProfilePicture)
}
