package service

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/errors"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/session"
)

// Profile is a user joined with their post grid and connection counts.
type Profile struct {
	User      api.User
	AvatarURL string
	Posts     []api.Post
	Followers int
	Following int
	IsSelf    bool
}

// ProfileService reads and mutates user profiles and their posts.
type ProfileService struct {
	connections *ConnectionService
}

// NewProfileService creates a new profile service
func NewProfileService() *ProfileService {
	return &ProfileService{connections: NewConnectionService()}
}

// View loads a profile with its post grid. The owner sees all their
// posts including pending ones; visitors only see approved posts.
func (ps *ProfileService) View(ctx context.Context, userID string) (*Profile, error) {
	me := session.CurrentUserID()
	if userID == "" {
		userID = me
	}
	logger.Debug("Viewing profile", "user_id", userID)

	user, err := api.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	posts, err := api.GetUserPosts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	isSelf := userID == me
	visible := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		if !isSelf && p.Status != api.PostStatusApproved {
			continue
		}
		visible = append(visible, p)
	}

	followers, following, err := ps.connections.Counts(ctx, userID)
	if err != nil {
		logger.Warn("Connection counts unavailable", "user_id", userID, "error", err)
	}

	return &Profile{
		User:      *user,
		AvatarURL: api.FullImageURL(user.ProfilePicture),
		Posts:     visible,
		Followers: followers,
		Following: following,
		IsSelf:    isSelf,
	}, nil
}

// Edit updates the signed-in user's username and bio, and refreshes
// the cached session identity.
func (ps *ProfileService) Edit(ctx context.Context, username, bio string) (*api.User, error) {
	me := session.CurrentUserID()
	logger.Debug("Editing profile", "user_id", me)

	user, err := api.UpdateUser(ctx, me, api.UpdateUserRequest{Username: username, Bio: bio})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if sess, err := session.Load(); err == nil && sess != nil {
		sess.Username = user.Username
		if err := session.Save(sess); err != nil {
			logger.Warn("Failed to refresh session identity", "error", err)
		}
	}
	return user, nil
}

// SetAvatar uploads an image to the media host and persists its
// filename on the account. The full URL is cached in the session.
func (ps *ProfileService) SetAvatar(ctx context.Context, filePath string) (string, error) {
	me := session.CurrentUserID()
	logger.Debug("Setting avatar", "user_id", me, "file", filePath)

	upload, err := api.UploadImage(ctx, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	filename := upload.Filename()
	if filename == "" {
		return "", errors.ParseError(fmt.Errorf("upload response missing file reference"))
	}
	if err := api.UpdateProfilePicture(ctx, me, filename); err != nil {
		return "", fmt.Errorf("failed to persist profile picture: %w", err)
	}

	avatarURL := api.FullImageURL(filename)
	if sess, err := session.Load(); err == nil && sess != nil {
		sess.ProfilePicture = avatarURL
		if err := session.Save(sess); err != nil {
			logger.Warn("Failed to cache avatar in session", "error", err)
		}
	}
	return avatarURL, nil
}

// CreatePost uploads any attached images, then creates the post in
// pending state for moderation.
func (ps *ProfileService) CreatePost(ctx context.Context, title, content string, imagePaths []string) (*api.Post, error) {
	me := session.CurrentUserID()
	logger.Debug("Creating post", "user_id", me, "images", len(imagePaths))

	if title == "" && content == "" && len(imagePaths) == 0 {
		return nil, errors.ValidationError("post", "must have a title, content or media")
	}

	mediaURLs := make([]string, 0, len(imagePaths))
	for _, path := range imagePaths {
		upload, err := api.UploadImage(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to upload media: %w", err)
		}
		mediaURLs = append(mediaURLs, upload.SecureURL)
	}

	post, err := api.CreatePost(ctx, api.CreatePostRequest{
		UserID:    me,
		Title:     title,
		Content:   content,
		Status:    string(api.PostStatusPending),
		MediaUrls: mediaURLs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// DeletePost removes one of the signed-in user's posts.
func (ps *ProfileService) DeletePost(ctx context.Context, postID string) error {
	me := session.CurrentUserID()
	logger.Debug("Deleting post", "user_id", me, "post_id", postID)

	post, err := api.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to fetch post: %w", err)
	}
	if post.UserID != me {
		return fmt.Errorf("post %s does not belong to you", postID)
	}
	if err := api.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// Report files a report against another user.
func (ps *ProfileService) Report(ctx context.Context, targetID, reason string) error {
	me := session.CurrentUserID()
	logger.Debug("Reporting user", "user_id", me, "target_id", targetID)

	if targetID == me {
		return fmt.Errorf("cannot report yourself")
	}
	if reason == "" {
		return errors.ValidationError("reason", "cannot be empty")
	}
	if err := api.ReportUser(ctx, api.ReportUserRequest{
		ReporterID: me,
		ReportedID: targetID,
		Reason:     reason,
	}); err != nil {
		return fmt.Errorf("failed to report user: %w", err)
	}
	return nil
}
