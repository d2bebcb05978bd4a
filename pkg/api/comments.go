package api

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/logger"
)

// GetPostComments retrieves all comments on a post
func GetPostComments(ctx context.Context, postID string) ([]Comment, error) {
	logger.Debug("Fetching comments", "post_id", postID)

	var comments []Comment
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&comments).
		Get(fmt.Sprintf("/comments/%s", postID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	return comments, nil
}

// AddComment posts a comment. The backend takes the fields as query
// parameters rather than a JSON body.
func AddComment(ctx context.Context, postID, userID, content string) (*Comment, error) {
	logger.Debug("Adding comment", "post_id", postID, "user_id", userID)

	var comment Comment
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"postId":  postID,
			"userId":  userID,
			"content": content,
		}).
		SetResult(&comment).
		Post("/comments")

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return &comment, nil
}
