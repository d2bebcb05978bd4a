package api

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/logger"
)

// GetUser retrieves a user by id
func GetUser(ctx context.Context, userID string) (*User, error) {
	logger.Debug("Fetching user", "user_id", userID)

	var user User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&user).
		Get(fmt.Sprintf("/users/%s", userID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail resolves a backend user from an email address
func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	logger.Debug("Fetching user by email", "email", email)

	var user User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&user).
		Get(fmt.Sprintf("/users/getByEmail/%s", email))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	return &user, nil
}

// CreateUser mirrors a newly signed-up account into the backend store
func CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	logger.Debug("Creating user", "email", req.Email)

	var user User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&user).
		Post("/users")

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// UpdateUser applies profile edits
func UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*User, error) {
	logger.Debug("Updating user", "user_id", userID)

	var user User
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&user).
		Put(fmt.Sprintf("/users/%s", userID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

// UpdateProfilePicture persists the media-host filename for a user's avatar.
// The backend stores only the filename suffix; the full URL is
// reconstructed client-side against the media host prefix.
func UpdateProfilePicture(ctx context.Context, userID, filename string) error {
	logger.Debug("Updating profile picture", "user_id", userID, "filename", filename)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Put(fmt.Sprintf("/users/%s/updatePic/%s", userID, filename))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}

	return nil
}
