package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/logger"
)

// LikeEmoji is the reaction tag the client writes for a like
const LikeEmoji = "👍"

// GetPostReactions retrieves all reactions on a post
func GetPostReactions(ctx context.Context, postID string) ([]Reaction, error) {
	logger.Debug("Fetching reactions", "post_id", postID)

	var reactions []Reaction
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&reactions).
		Get(fmt.Sprintf("/reactions/posts/%s", postID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch reactions: %w", err)
	}

	return reactions, nil
}

// AddReaction records an emoji reaction from a user on a post
func AddReaction(ctx context.Context, postID, userID, emoji string) (*Reaction, error) {
	logger.Debug("Adding reaction", "post_id", postID, "user_id", userID)

	var reaction Reaction
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&reaction).
		Post(fmt.Sprintf("/reactions/%s/%s/%s", postID, userID, url.PathEscape(emoji)))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to add reaction: %w", err)
	}

	return &reaction, nil
}

// RemoveReaction deletes a user's reaction from a post
func RemoveReaction(ctx context.Context, postID, userID string) error {
	logger.Debug("Removing reaction", "post_id", postID, "user_id", userID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/reactions/%s/%s", postID, userID))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
	}

	return nil
}
