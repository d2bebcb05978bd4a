package service

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/session"
)

// ConnectionService manages the user's follow graph.
type ConnectionService struct{}

// NewConnectionService creates a new connection service
func NewConnectionService() *ConnectionService {
	return &ConnectionService{}
}

// List returns accepted connections with blocked accounts filtered
// out.
func (cs *ConnectionService) List(ctx context.Context) ([]api.User, error) {
	userID := session.CurrentUserID()
	logger.Debug("Listing connections", "user_id", userID)

	connections, err := api.GetConnections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connections: %w", err)
	}

	out := make([]api.User, 0, len(connections))
	for _, c := range connections {
		if c.IsBlocked() {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Suggested returns accounts the user does not follow yet. Existing
// connections never appear in the result, even if the backend returns
// a stale overlap.
func (cs *ConnectionService) Suggested(ctx context.Context) ([]api.User, error) {
	userID := session.CurrentUserID()
	logger.Debug("Listing suggested users", "user_id", userID)

	suggested, err := api.GetSuggestedUsers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggested users: %w", err)
	}
	connections, err := api.GetConnections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connections: %w", err)
	}

	connected := make(map[string]bool, len(connections))
	for _, c := range connections {
		connected[c.ID] = true
	}

	out := make([]api.User, 0, len(suggested))
	for _, u := range suggested {
		if u.ID == userID || connected[u.ID] || u.IsBlocked() {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// Follow adds a connection.
func (cs *ConnectionService) Follow(ctx context.Context, targetID string) error {
	userID := session.CurrentUserID()
	logger.Debug("Following user", "user_id", userID, "target_id", targetID)

	if targetID == userID {
		return fmt.Errorf("cannot follow yourself")
	}
	if err := api.Follow(ctx, userID, targetID); err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

// Unfollow removes a connection.
func (cs *ConnectionService) Unfollow(ctx context.Context, targetID string) error {
	userID := session.CurrentUserID()
	logger.Debug("Unfollowing user", "user_id", userID, "target_id", targetID)

	if err := api.Unfollow(ctx, userID, targetID); err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

// Counts returns follower and following totals for a user.
func (cs *ConnectionService) Counts(ctx context.Context, userID string) (followers, following int, err error) {
	logger.Debug("Fetching connection counts", "user_id", userID)

	followers, err = api.GetFollowerCount(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch follower count: %w", err)
	}
	following, err = api.GetFollowingCount(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch following count: %w", err)
	}
	return followers, following, nil
}
