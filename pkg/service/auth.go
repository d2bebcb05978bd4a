package service

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/auth"
	"github.com/filxconnect/cli/pkg/errors"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/session"
)

// AuthService ties the external auth provider to the backend user
// store and the local session.
type AuthService struct{}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	return &AuthService{}
}

// SignUp registers the account with the auth provider, mirrors it into
// the backend user store as pending, and opens a local session. New
// accounts wait for moderation approval before the feed unlocks.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (*api.User, error) {
	if username == "" {
		return nil, errors.ValidationError("username", "cannot be empty")
	}
	if email == "" {
		return nil, errors.ValidationError("email", "cannot be empty")
	}
	if len(password) < 6 {
		return nil, errors.ValidationError("password", "must be at least 6 characters")
	}

	logger.Debug("Signing up", "email", email)

	providerUser, err := auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to register with auth provider: %w", err)
	}

	user, err := api.CreateUser(ctx, api.CreateUserRequest{
		ID:       providerUser.UID,
		Username: username,
		Email:    email,
		Status:   api.UserStatusPending,
		Reports:  0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account record: %w", err)
	}

	if err := s.openSession(user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn authenticates against the provider, resolves the backend
// account by email and routes on its moderation status. Blocked and
// pending accounts get a session too, so the status watcher can track
// them, but the caller receives a typed error to redirect on.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*api.User, error) {
	if email == "" {
		return nil, errors.ValidationError("email", "cannot be empty")
	}
	if password == "" {
		return nil, errors.ValidationError("password", "cannot be empty")
	}

	logger.Debug("Signing in", "email", email)

	if _, err := auth.SignIn(ctx, email, password); err != nil {
		return nil, errors.AuthError("invalid email or password").WithSuggestion("Check your credentials and try again")
	}

	user, err := api.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	if err := s.openSession(user); err != nil {
		return nil, err
	}

	switch user.Status {
	case api.UserStatusBlocked:
		return user, errors.AccountBlockedError()
	case api.UserStatusPending:
		return user, errors.AccountPendingError()
	}
	return user, nil
}

// SignOut drops the provider session and clears the local one.
func (s *AuthService) SignOut() error {
	logger.Debug("Signing out")
	auth.SignOut()
	if err := session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *AuthService) openSession(user *api.User) error {
	sess, err := session.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		sess = &session.Session{}
	}
	sess.UserID = user.ID
	sess.Username = user.Username
	sess.Email = user.Email
	sess.ProfilePicture = api.FullImageURL(user.ProfilePicture)
	if err := session.Save(sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
