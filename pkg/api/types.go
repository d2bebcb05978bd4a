package api

import "time"

// UserStatus is the moderation state of an account, set by the review process
type UserStatus int

const (
	UserStatusBlocked UserStatus = 0
	UserStatusActive  UserStatus = 1
	UserStatusPending UserStatus = 2
)

// PostStatus is the moderation state of a post. The backend encodes it
// as a string on the wire.
type PostStatus string

const (
	PostStatusApproved PostStatus = "1"
	PostStatusRejected PostStatus = "2"
	PostStatusPending  PostStatus = "3"
)

// User is a FilxConnect account
type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	ProfilePicture string     `json:"profilePicture"`
	Bio            string     `json:"bio"`
	Status         UserStatus `json:"status"`
	Reports        int        `json:"reports"`
	CreatedAt      time.Time  `json:"createdAt,omitempty"`
}

// IsBlocked reports whether the account is blocked by moderation
func (u *User) IsBlocked() bool {
	return u.Status == UserStatusBlocked
}

// Post is a user's post, before enrichment
type Post struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Status    PostStatus `json:"status"`
	MediaUrls []string   `json:"mediaUrls"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Reaction is a single emoji reaction on a post
type Reaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PostID    string    `json:"postId"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a comment on a post
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PostID    string    `json:"postId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Media is an attachment belonging to a post. URL may be relative to
// the media host prefix.
type Media struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	URL       string `json:"url"`
	MediaType string `json:"mediaType"`
}

// Message is a direct message between two users
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Notification is a backend-generated notification for a user
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Sender    string    `json:"sender"`
	SenderPic string    `json:"senderPic"`
	PostID    string    `json:"postId,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUserRequest mirrors a new account into the backend store
type CreateUserRequest struct {
	ID             string     `json:"id,omitempty"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	Status         UserStatus `json:"status"`
	Reports        int        `json:"reports"`
}

// UpdateUserRequest carries profile edits
type UpdateUserRequest struct {
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// CreatePostRequest creates a new post
type CreatePostRequest struct {
	UserID    string   `json:"userId"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Status    string   `json:"status"`
	MediaUrls []string `json:"mediaUrls"`
}

// SendMessageRequest sends a direct message
type SendMessageRequest struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// ReportUserRequest files a report against a user
type ReportUserRequest struct {
	ReporterID string `json:"reporterId"`
	ReportedID string `json:"reportedId"`
	Reason     string `json:"reason"`
}

// ErrorResponse is the backend's error body shape
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
