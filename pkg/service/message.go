package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/session"
)

// Contact is a conversation partner with a summary of the exchange so
// far.
type Contact struct {
	ID          string
	Name        string
	Avatar      string
	Bio         string
	LastMessage string
	LastTime    time.Time
	Unread      int
}

// MessageService maintains the contact list and the active
// conversation over a poll-based message feed. Outgoing messages are
// appended locally after a successful POST and survive refreshes
// until the backend echoes them back.
type MessageService struct {
	mu           sync.Mutex
	index        map[string]*Contact
	activeID     string
	conversation []api.Message
	pending      []api.Message
}

// NewMessageService creates a new message service
func NewMessageService() *MessageService {
	return &MessageService{index: make(map[string]*Contact)}
}

// Contacts derives the contact list from the full message history:
// one entry per distinct counterparty, enriched with profile identity,
// the latest message preview and the count of unread incoming
// messages. Sorted most-recent-first.
func (ms *MessageService) Contacts(ctx context.Context) ([]Contact, error) {
	me := session.CurrentUserID()
	logger.Debug("Loading contacts", "user_id", me)

	messages, err := api.GetUserMessages(ctx, me)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message history: %w", err)
	}

	ms.mu.Lock()
	ms.ingest(me, messages)
	fresh := make([]string, 0, len(ms.index))
	for id, contact := range ms.index {
		if contact.Name == "" {
			fresh = append(fresh, id)
		}
	}
	ms.mu.Unlock()

	// Resolve profiles only for counterparties the index has not seen
	// before.
	for _, id := range fresh {
		user, err := api.GetUser(ctx, id)
		if err != nil {
			logger.Warn("Contact profile lookup failed", "user_id", id, "error", err)
			continue
		}
		actor := actorFor(user)
		ms.mu.Lock()
		if contact, ok := ms.index[id]; ok {
			contact.Name = actor.Name
			contact.Avatar = actor.Avatar
			contact.Bio = user.Bio
		}
		ms.mu.Unlock()
	}

	return ms.contactList(), nil
}

// ingest folds the fetched history into the contact index. Unread
// counts are recomputed from the messages' current read flags on every
// pass, so a message read elsewhere stops counting on the next poll.
// Callers hold ms.mu.
func (ms *MessageService) ingest(me string, messages []api.Message) {
	unread := make(map[string]int)
	for _, m := range messages {
		counterparty := m.SenderID
		if counterparty == me {
			counterparty = m.ReceiverID
		}
		if counterparty == "" || counterparty == me {
			continue
		}
		contact, ok := ms.index[counterparty]
		if !ok {
			contact = &Contact{ID: counterparty}
			ms.index[counterparty] = contact
		}
		if m.CreatedAt.After(contact.LastTime) {
			contact.LastTime = m.CreatedAt
			contact.LastMessage = m.Content
		}
		if m.ReceiverID == me && !m.IsRead {
			unread[counterparty]++
		}
	}
	for id, contact := range ms.index {
		contact.Unread = unread[id]
	}
}

func (ms *MessageService) contactList() []Contact {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]Contact, 0, len(ms.index))
	for _, contact := range ms.index {
		out = append(out, *contact)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastTime.After(out[j].LastTime)
	})
	return out
}

// SelectContact opens the conversation with a contact: both message
// directions are fetched and merged in ascending order, and every
// unread incoming message is marked read on the backend.
func (ms *MessageService) SelectContact(ctx context.Context, contactID string) (*Contact, []api.Message, error) {
	me := session.CurrentUserID()
	logger.Debug("Selecting contact", "contact_id", contactID)

	user, err := api.GetUser(ctx, contactID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch contact profile: %w", err)
	}

	conversation, err := fetchConversation(ctx, me, contactID)
	if err != nil {
		return nil, nil, err
	}
	markIncomingRead(ctx, me, conversation)

	actor := actorFor(user)
	contact := Contact{
		ID:     contactID,
		Name:   actor.Name,
		Avatar: actor.Avatar,
		Bio:    user.Bio,
	}

	ms.mu.Lock()
	ms.activeID = contactID
	ms.conversation = conversation
	ms.pending = nil
	if cached, ok := ms.index[contactID]; ok {
		cached.Name = contact.Name
		cached.Avatar = contact.Avatar
		cached.Bio = contact.Bio
		cached.Unread = 0
	}
	ms.mu.Unlock()

	return &contact, ms.Conversation(), nil
}

// markIncomingRead flags unread incoming messages as read, one PUT
// each, mirroring the flags locally. Failures leave the message
// unread for the next pass.
func markIncomingRead(ctx context.Context, me string, conversation []api.Message) {
	for i := range conversation {
		m := &conversation[i]
		if m.ReceiverID != me || m.IsRead {
			continue
		}
		if err := api.MarkMessageRead(ctx, m.ID); err != nil {
			logger.Warn("Failed to mark message read", "message_id", m.ID, "error", err)
			continue
		}
		m.IsRead = true
	}
}

// Conversation returns the active conversation, oldest first, with
// locally pending sends appended.
func (ms *MessageService) Conversation() []api.Message {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]api.Message, 0, len(ms.conversation)+len(ms.pending))
	out = append(out, ms.conversation...)
	out = append(out, ms.pending...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SendMessage posts a message to the active contact and appends it
// locally with the client clock. The local copy is replaced once a
// poll returns the server's echo.
func (ms *MessageService) SendMessage(ctx context.Context, content string) (*api.Message, error) {
	me := session.CurrentUserID()

	ms.mu.Lock()
	contactID := ms.activeID
	ms.mu.Unlock()
	if contactID == "" {
		return nil, fmt.Errorf("no conversation selected")
	}
	logger.Debug("Sending message", "contact_id", contactID)

	req := api.SendMessageRequest{SenderID: me, ReceiverID: contactID, Content: content}
	if _, err := api.SendMessage(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	local := api.Message{
		ID:         uuid.NewString(),
		SenderID:   me,
		ReceiverID: contactID,
		Content:    content,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}

	ms.mu.Lock()
	ms.pending = append(ms.pending, local)
	contact, ok := ms.index[contactID]
	if !ok {
		contact = &Contact{ID: contactID}
		ms.index[contactID] = contact
	}
	contact.LastTime = local.CreatedAt
	contact.LastMessage = local.Content
	ms.mu.Unlock()

	return &local, nil
}

// Refresh re-fetches the active conversation and folds the full
// history through the contact index. Pending sends the server has not
// echoed yet are kept.
func (ms *MessageService) Refresh(ctx context.Context) error {
	me := session.CurrentUserID()

	ms.mu.Lock()
	contactID := ms.activeID
	ms.mu.Unlock()

	history, err := api.GetUserMessages(ctx, me)
	if err != nil {
		return fmt.Errorf("failed to fetch message history: %w", err)
	}
	ms.mu.Lock()
	ms.ingest(me, history)
	ms.mu.Unlock()

	if contactID == "" {
		return nil
	}
	conversation, err := fetchConversation(ctx, me, contactID)
	if err != nil {
		return err
	}
	// The conversation is on screen, so whatever just arrived counts
	// as read.
	markIncomingRead(ctx, me, conversation)

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.activeID != contactID {
		return nil
	}
	if cached, ok := ms.index[contactID]; ok {
		cached.Unread = 0
	}
	ms.conversation = conversation
	kept := ms.pending[:0]
	for _, p := range ms.pending {
		if !echoed(conversation, p) {
			kept = append(kept, p)
		}
	}
	ms.pending = kept
	return nil
}

// Watch refreshes contacts and the active conversation on the
// configured interval until ctx is cancelled. Overlapping ticks are
// skipped.
func (ms *MessageService) Watch(ctx context.Context, onUpdate func([]Contact, []api.Message)) {
	interval := config.GetInterval("sync.message_interval")
	logger.Debug("Starting message watcher", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	running := false
	var runMu sync.Mutex
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Message watcher stopped")
			return
		case <-ticker.C:
			runMu.Lock()
			if running {
				runMu.Unlock()
				continue
			}
			running = true
			runMu.Unlock()

			if err := ms.Refresh(ctx); err != nil {
				logger.Warn("Message refresh failed", "error", err)
			} else if onUpdate != nil {
				onUpdate(ms.contactList(), ms.Conversation())
			}

			runMu.Lock()
			running = false
			runMu.Unlock()
		}
	}
}

// fetchConversation merges both directions of a two-party exchange
// into one ascending timeline.
func fetchConversation(ctx context.Context, me, contactID string) ([]api.Message, error) {
	sent, err := api.GetConversation(ctx, me, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	received, err := api.GetConversation(ctx, contactID, me)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}

	merged := make([]api.Message, 0, len(sent)+len(received))
	merged = append(merged, sent...)
	merged = append(merged, received...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged, nil
}

// echoed reports whether the server conversation already contains the
// locally pending message.
func echoed(conversation []api.Message, pending api.Message) bool {
	for _, m := range conversation {
		if m.ID == pending.ID {
			return true
		}
		if m.SenderID == pending.SenderID && m.Content == pending.Content &&
			!m.CreatedAt.Before(pending.CreatedAt.Add(-time.Minute)) {
			return true
		}
	}
	return false
}
