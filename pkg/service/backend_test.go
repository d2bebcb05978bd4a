package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/session"
)

// fakeBackend is an in-memory stand-in for the REST backend, covering
// the routes the services touch.
type fakeBackend struct {
	mu            sync.Mutex
	users         map[string]api.User
	follows       map[string][]string
	posts         map[string][]api.Post
	reactions     map[string][]api.Reaction
	comments      map[string][]api.Comment
	media         map[string][]api.Media
	messages      []api.Message
	notifications map[string][]api.Notification
	reports       []api.ReportUserRequest

	failUsers map[string]bool
	dropSends bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:         make(map[string]api.User),
		follows:       make(map[string][]string),
		posts:         make(map[string][]api.Post),
		reactions:     make(map[string][]api.Reaction),
		comments:      make(map[string][]api.Comment),
		media:         make(map[string][]api.Media),
		notifications: make(map[string][]api.Notification),
		failUsers:     make(map[string]bool),
	}
}

func (b *fakeBackend) addUser(u api.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[u.ID] = u
}

func (b *fakeBackend) setStatus(userID string, status api.UserStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[userID]
	u.Status = status
	b.users[userID] = u
}

func (b *fakeBackend) follow(follower, following string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.follows[follower] = append(b.follows[follower], following)
}

func (b *fakeBackend) addPost(p api.Post) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posts[p.UserID] = append(b.posts[p.UserID], p)
}

func (b *fakeBackend) addReaction(r api.Reaction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reactions[r.PostID] = append(b.reactions[r.PostID], r)
}

func (b *fakeBackend) addComment(c api.Comment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.comments[c.PostID] = append(b.comments[c.PostID], c)
}

func (b *fakeBackend) addMessage(m api.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, m)
}

func (b *fakeBackend) addNotification(n api.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifications[n.UserID] = append(b.notifications[n.UserID], n)
}

func (b *fakeBackend) reactionCount(postID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.reactions[postID])
}

func (b *fakeBackend) setMessageRead(id string, read bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.messages {
		if b.messages[i].ID == id {
			b.messages[i].IsRead = read
		}
	}
}

func (b *fakeBackend) messageByID(id string) (api.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.messages {
		if m.ID == id {
			return m, true
		}
	}
	return api.Message{}, false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case parts[0] == "users" && len(parts) == 2 && r.Method == http.MethodGet:
			if b.failUsers[parts[1]] {
				http.Error(w, `{"code":"boom","message":"user lookup failed"}`, http.StatusInternalServerError)
				return
			}
			u, ok := b.users[parts[1]]
			if !ok {
				http.Error(w, `{"code":"user_not_found","message":"no such user"}`, http.StatusNotFound)
				return
			}
			writeJSON(w, u)

		case parts[0] == "users" && len(parts) == 3 && parts[1] == "getByEmail":
			for _, u := range b.users {
				if u.Email == parts[2] {
					writeJSON(w, u)
					return
				}
			}
			http.Error(w, `{"code":"user_not_found","message":"no such user"}`, http.StatusNotFound)

		case parts[0] == "users" && len(parts) == 1 && r.Method == http.MethodPost:
			var req api.CreateUserRequest
			json.NewDecoder(r.Body).Decode(&req)
			u := api.User{
				ID:       req.ID,
				Username: req.Username,
				Email:    req.Email,
				Status:   req.Status,
				Reports:  req.Reports,
			}
			if u.ID == "" {
				u.ID = uuid.NewString()
			}
			b.users[u.ID] = u
			writeJSON(w, u)

		case parts[0] == "users" && len(parts) == 2 && r.Method == http.MethodPut:
			var req api.UpdateUserRequest
			json.NewDecoder(r.Body).Decode(&req)
			u := b.users[parts[1]]
			if req.Username != "" {
				u.Username = req.Username
			}
			if req.Bio != "" {
				u.Bio = req.Bio
			}
			b.users[parts[1]] = u
			writeJSON(w, u)

		case parts[0] == "users" && len(parts) == 4 && parts[2] == "updatePic":
			u := b.users[parts[1]]
			u.ProfilePicture = parts[3]
			b.users[parts[1]] = u
			w.WriteHeader(http.StatusOK)

		case parts[0] == "posts" && len(parts) == 1 && r.Method == http.MethodPost:
			var req api.CreatePostRequest
			json.NewDecoder(r.Body).Decode(&req)
			p := api.Post{
				ID:        uuid.NewString(),
				UserID:    req.UserID,
				Title:     req.Title,
				Content:   req.Content,
				Status:    api.PostStatus(req.Status),
				MediaUrls: req.MediaUrls,
				CreatedAt: time.Now(),
			}
			b.posts[p.UserID] = append(b.posts[p.UserID], p)
			writeJSON(w, p)

		case parts[0] == "posts" && len(parts) == 2 && r.Method == http.MethodDelete:
			for userID, posts := range b.posts {
				kept := posts[:0]
				for _, p := range posts {
					if p.ID != parts[1] {
						kept = append(kept, p)
					}
				}
				b.posts[userID] = kept
			}
			w.WriteHeader(http.StatusOK)

		case parts[0] == "reports" && len(parts) == 2 && parts[1] == "user":
			var req api.ReportUserRequest
			json.NewDecoder(r.Body).Decode(&req)
			b.reports = append(b.reports, req)
			w.WriteHeader(http.StatusOK)

		case parts[0] == "posts" && len(parts) == 3 && parts[1] == "user":
			writeJSON(w, b.posts[parts[2]])

		case parts[0] == "posts" && len(parts) == 2 && r.Method == http.MethodGet:
			for _, posts := range b.posts {
				for _, p := range posts {
					if p.ID == parts[1] {
						writeJSON(w, p)
						return
					}
				}
			}
			http.Error(w, `{"code":"post_not_found","message":"no such post"}`, http.StatusNotFound)

		case parts[0] == "followers" && len(parts) == 3 && parts[2] == "followed":
			out := []api.User{}
			for _, id := range b.follows[parts[1]] {
				out = append(out, b.users[id])
			}
			writeJSON(w, out)

		case parts[0] == "followers" && len(parts) == 3 && parts[2] == "notfollowed":
			followed := map[string]bool{parts[1]: true}
			for _, id := range b.follows[parts[1]] {
				followed[id] = true
			}
			out := []api.User{}
			for id, u := range b.users {
				if !followed[id] {
					out = append(out, u)
				}
			}
			writeJSON(w, out)

		case parts[0] == "followers" && len(parts) == 4 && parts[3] == "count":
			count := 0
			if parts[2] == "followers" {
				for _, ids := range b.follows {
					for _, id := range ids {
						if id == parts[1] {
							count++
						}
					}
				}
			} else {
				count = len(b.follows[parts[1]])
			}
			writeJSON(w, count)

		case parts[0] == "followers" && len(parts) == 2 && parts[1] == "follow":
			q := r.URL.Query()
			b.follows[q.Get("followerId")] = append(b.follows[q.Get("followerId")], q.Get("followingId"))
			w.WriteHeader(http.StatusOK)

		case parts[0] == "followers" && len(parts) == 2 && parts[1] == "unfollow":
			q := r.URL.Query()
			kept := b.follows[q.Get("followerId")][:0]
			for _, id := range b.follows[q.Get("followerId")] {
				if id != q.Get("followingId") {
					kept = append(kept, id)
				}
			}
			b.follows[q.Get("followerId")] = kept
			w.WriteHeader(http.StatusOK)

		case parts[0] == "reactions" && len(parts) == 3 && parts[1] == "posts":
			writeJSON(w, b.reactions[parts[2]])

		case parts[0] == "reactions" && len(parts) == 4 && r.Method == http.MethodPost:
			reaction := api.Reaction{
				ID:        uuid.NewString(),
				PostID:    parts[1],
				UserID:    parts[2],
				Emoji:     parts[3],
				CreatedAt: time.Now(),
			}
			b.reactions[parts[1]] = append(b.reactions[parts[1]], reaction)
			writeJSON(w, reaction)

		case parts[0] == "reactions" && len(parts) == 3 && r.Method == http.MethodDelete:
			kept := b.reactions[parts[1]][:0]
			for _, reaction := range b.reactions[parts[1]] {
				if reaction.UserID != parts[2] {
					kept = append(kept, reaction)
				}
			}
			b.reactions[parts[1]] = kept
			w.WriteHeader(http.StatusOK)

		case parts[0] == "comments" && len(parts) == 2 && r.Method == http.MethodGet:
			writeJSON(w, b.comments[parts[1]])

		case parts[0] == "comments" && len(parts) == 1 && r.Method == http.MethodPost:
			q := r.URL.Query()
			comment := api.Comment{
				ID:        uuid.NewString(),
				PostID:    q.Get("postId"),
				UserID:    q.Get("userId"),
				Content:   q.Get("content"),
				CreatedAt: time.Now(),
			}
			b.comments[comment.PostID] = append(b.comments[comment.PostID], comment)
			writeJSON(w, comment)

		case parts[0] == "media" && len(parts) == 2:
			writeJSON(w, b.media[parts[1]])

		case parts[0] == "messages" && len(parts) == 3 && parts[1] == "user":
			out := []api.Message{}
			for _, m := range b.messages {
				if m.SenderID == parts[2] || m.ReceiverID == parts[2] {
					out = append(out, m)
				}
			}
			writeJSON(w, out)

		case parts[0] == "messages" && len(parts) == 2 && parts[1] == "conversation":
			q := r.URL.Query()
			out := []api.Message{}
			for _, m := range b.messages {
				if m.SenderID == q.Get("senderId") && m.ReceiverID == q.Get("receiverId") {
					out = append(out, m)
				}
			}
			writeJSON(w, out)

		case parts[0] == "messages" && len(parts) == 2 && parts[1] == "send":
			var req api.SendMessageRequest
			json.NewDecoder(r.Body).Decode(&req)
			m := api.Message{
				ID:         uuid.NewString(),
				SenderID:   req.SenderID,
				ReceiverID: req.ReceiverID,
				Content:    req.Content,
				IsRead:     false,
				CreatedAt:  time.Now(),
			}
			if !b.dropSends {
				b.messages = append(b.messages, m)
			}
			writeJSON(w, m)

		case parts[0] == "messages" && len(parts) == 3 && parts[1] == "mark":
			for i := range b.messages {
				if b.messages[i].ID == parts[2] {
					b.messages[i].IsRead = true
				}
			}
			w.WriteHeader(http.StatusOK)

		case parts[0] == "notifications" && len(parts) == 3 && parts[1] == "mark-all":
			list := b.notifications[parts[2]]
			for i := range list {
				list[i].Read = true
			}
			b.notifications[parts[2]] = list
			w.WriteHeader(http.StatusOK)

		case parts[0] == "notifications" && len(parts) == 2 && r.Method == http.MethodGet:
			writeJSON(w, b.notifications[parts[1]])

		case parts[0] == "notifications" && len(parts) == 2 && r.Method == http.MethodPut:
			for userID, list := range b.notifications {
				for i := range list {
					if list[i].ID == parts[1] {
						list[i].Read = true
					}
				}
				b.notifications[userID] = list
			}
			w.WriteHeader(http.StatusOK)

		default:
			http.Error(w, fmt.Sprintf(`{"code":"no_route","message":"unhandled %s %s"}`, r.Method, r.URL.Path), http.StatusNotFound)
		}
	})
}

// setupService wires config, session and the HTTP client against the
// fake backend, signed in as the given user.
func setupService(t *testing.T, b *fakeBackend, me api.User) {
	t.Helper()
	if err := config.Init(filepath.Join(t.TempDir(), "config.toml")); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	ts := httptest.NewServer(b.handler())
	t.Cleanup(ts.Close)
	client.Reset()
	client.SetBaseURL(ts.URL)

	b.addUser(me)
	if err := session.Save(&session.Session{
		UserID:   me.ID,
		Username: me.Username,
		Email:    me.Email,
	}); err != nil {
		t.Fatalf("session save failed: %v", err)
	}
}
