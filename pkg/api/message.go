package api

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/logger"
)

// GetUserMessages retrieves the full message history for a user, both
// directions included.
func GetUserMessages(ctx context.Context, userID string) ([]Message, error) {
	logger.Debug("Fetching messages", "user_id", userID)

	var messages []Message
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&messages).
		Get(fmt.Sprintf("/messages/user/%s", userID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return messages, nil
}

// GetConversation retrieves the messages sent from senderID to
// receiverID. A full conversation is the merge of both directions.
func GetConversation(ctx context.Context, senderID, receiverID string) ([]Message, error) {
	logger.Debug("Fetching conversation", "sender_id", senderID, "receiver_id", receiverID)

	var messages []Message
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"senderId":   senderID,
			"receiverId": receiverID,
		}).
		SetResult(&messages).
		Get("/messages/conversation")

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}

	return messages, nil
}

// SendMessage sends a direct message
func SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	logger.Debug("Sending message", "receiver_id", req.ReceiverID)

	var message Message
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&message).
		Post("/messages/send")

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	return &message, nil
}

// MarkMessageRead flips one message's read flag on the backend
func MarkMessageRead(ctx context.Context, messageID string) error {
	logger.Debug("Marking message read", "message_id", messageID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Put(fmt.Sprintf("/messages/mark/%s", messageID))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}

	return nil
}
