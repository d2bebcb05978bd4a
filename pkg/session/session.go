package session

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/filxconnect/cli/pkg/config"
)

// FallbackUserID is the sentinel the client uses when no session exists,
// matching the backend's expectation for unauthenticated lookups.
const FallbackUserID = "404"

// ErrConflict is returned when another process wrote the session file
// between this process's load and save.
var ErrConflict = errors.New("session: concurrent modification detected")

// Session is the locally persisted sign-in state plus the short-lived
// navigation hints the pages pass to each other.
type Session struct {
	Version        int    `json:"version"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`

	// One-shot cross-page navigation hints
	ViewUserID          string `json:"viewUserId,omitempty"`
	ViewPostID          string `json:"viewPostId,omitempty"`
	MessageTargetID     string `json:"messageUserId,omitempty"`
	MessageTargetName   string `json:"messageUserName,omitempty"`
	MessageTargetAvatar string `json:"messageUserAvatar,omitempty"`
}

// Load reads the session from disk. A missing file yields (nil, nil).
func Load() (*Session, error) {
	data, err := os.ReadFile(config.GetSessionPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Save persists the session with a versioned write: if the file on disk
// carries a different version than the one this session was loaded at,
// the write fails with ErrConflict instead of silently clobbering the
// other writer.
func Save(s *Session) error {
	current, err := Load()
	if err != nil {
		return err
	}
	if current != nil && current.Version != s.Version {
		return ErrConflict
	}

	s.Version++

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(config.GetSessionPath(), data, 0600)
}

// Clear removes the session from disk
func Clear() error {
	err := os.Remove(config.GetSessionPath())
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// CurrentUserID returns the signed-in user's id, or the fallback
// sentinel when no session exists.
func CurrentUserID() string {
	s, err := Load()
	if err != nil || s == nil || s.UserID == "" {
		return FallbackUserID
	}
	return s.UserID
}

// IsSignedIn reports whether a usable session exists
func IsSignedIn() bool {
	s, err := Load()
	return err == nil && s != nil && s.UserID != ""
}

// SetMessageTarget stores the "open a conversation with X" hint
func SetMessageTarget(id, name, avatar string) error {
	s, err := Load()
	if err != nil {
		return err
	}
	if s == nil {
		s = &Session{}
	}
	s.MessageTargetID = id
	s.MessageTargetName = name
	s.MessageTargetAvatar = avatar
	return Save(s)
}

// TakeMessageTarget returns the message-target hint and clears it, so
// the hint fires at most once.
func TakeMessageTarget() (id, name, avatar string, err error) {
	s, err := Load()
	if err != nil || s == nil || s.MessageTargetID == "" {
		return "", "", "", err
	}

	id, name, avatar = s.MessageTargetID, s.MessageTargetName, s.MessageTargetAvatar
	s.MessageTargetID, s.MessageTargetName, s.MessageTargetAvatar = "", "", ""
	if saveErr := Save(s); saveErr != nil {
		return "", "", "", saveErr
	}
	return id, name, avatar, nil
}

// SetViewUser stores the "view user X" navigation hint
func SetViewUser(userID string) error {
	s, err := Load()
	if err != nil {
		return err
	}
	if s == nil {
		s = &Session{}
	}
	s.ViewUserID = userID
	return Save(s)
}

// TakeViewUser returns and clears the view-user hint
func TakeViewUser() (string, error) {
	s, err := Load()
	if err != nil || s == nil || s.ViewUserID == "" {
		return "", err
	}

	id := s.ViewUserID
	s.ViewUserID = ""
	if saveErr := Save(s); saveErr != nil {
		return "", saveErr
	}
	return id, nil
}

// SetViewPost stores the "view post X" navigation hint
func SetViewPost(postID string) error {
	s, err := Load()
	if err != nil {
		return err
	}
	if s == nil {
		s = &Session{}
	}
	s.ViewPostID = postID
	return Save(s)
}

// TakeViewPost returns and clears the view-post hint
func TakeViewPost() (string, error) {
	s, err := Load()
	if err != nil || s == nil || s.ViewPostID == "" {
		return "", err
	}

	id := s.ViewPostID
	s.ViewPostID = ""
	if saveErr := Save(s); saveErr != nil {
		return "", saveErr
	}
	return id, nil
}
