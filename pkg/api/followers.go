package api

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/logger"
)

// GetConnections retrieves the users the given user follows, with each
// followed user's current moderation status for filtering.
func GetConnections(ctx context.Context, userID string) ([]User, error) {
	logger.Debug("Fetching connections", "user_id", userID)

	var users []User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&users).
		Get(fmt.Sprintf("/followers/%s/followed", userID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch connections: %w", err)
	}

	return users, nil
}

// GetSuggestedUsers retrieves users the given user does not follow yet
func GetSuggestedUsers(ctx context.Context, userID string) ([]User, error) {
	logger.Debug("Fetching suggested users", "user_id", userID)

	var users []User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&users).
		Get(fmt.Sprintf("/followers/%s/notfollowed", userID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch suggested users: %w", err)
	}

	return users, nil
}

// GetFollowerCount returns how many users follow the given user
func GetFollowerCount(ctx context.Context, userID string) (int, error) {
	logger.Debug("Fetching follower count", "user_id", userID)

	var count int
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&count).
		Get(fmt.Sprintf("/followers/%s/followers/count", userID))

	if err := CheckResponse(resp, err); err != nil {
		return 0, fmt.Errorf("failed to fetch follower count: %w", err)
	}

	return count, nil
}

// GetFollowingCount returns how many users the given user follows
func GetFollowingCount(ctx context.Context, userID string) (int, error) {
	logger.Debug("Fetching following count", "user_id", userID)

	var count int
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&count).
		Get(fmt.Sprintf("/followers/%s/following/count", userID))

	if err := CheckResponse(resp, err); err != nil {
		return 0, fmt.Errorf("failed to fetch following count: %w", err)
	}

	return count, nil
}

// Follow creates a follow edge from follower to following
func Follow(ctx context.Context, followerID, followingID string) error {
	logger.Debug("Following user", "follower_id", followerID, "following_id", followingID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"followerId":  followerID,
			"followingId": followingID,
		}).
		Post("/followers/follow")

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}

	return nil
}

// Unfollow removes the follow edge from follower to following
func Unfollow(ctx context.Context, followerID, followingID string) error {
	logger.Debug("Unfollowing user", "follower_id", followerID, "following_id", followingID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"followerId":  followerID,
			"followingId": followingID,
		}).
		Post("/followers/unfollow")

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}

	return nil
}
