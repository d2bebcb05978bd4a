package api

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/logger"
)

// GetUserPosts retrieves all posts authored by a user, every status included
func GetUserPosts(ctx context.Context, userID string) ([]Post, error) {
	logger.Debug("Fetching user posts", "user_id", userID)

	var posts []Post
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&posts).
		Get(fmt.Sprintf("/posts/user/%s", userID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	return posts, nil
}

// GetPost retrieves a single post
func GetPost(ctx context.Context, postID string) (*Post, error) {
	logger.Debug("Fetching post", "post_id", postID)

	var post Post
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&post).
		Get(fmt.Sprintf("/posts/%s", postID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}

	return &post, nil
}

// CreatePost creates a new post owned by the author
func CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	logger.Debug("Creating post", "user_id", req.UserID)

	var post Post
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&post).
		Post("/posts")

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &post, nil
}

// DeletePost removes a post authored by the current user
func DeletePost(ctx context.Context, postID string) error {
	logger.Debug("Deleting post", "post_id", postID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/posts/%s", postID))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}
