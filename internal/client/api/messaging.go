package api

import (
	"context"
	"fmt"

	"doomscrollr/internal/client/domain/entities"
)

// Conversations возвращает диалоги текущего пользователя.
func (c *Client) Conversations(ctx context.Context) ([]entities.Conversation, error) {
	var convs []entities.Conversation
	if err := c.get(ctx, "conversations/", nil, &convs); err != nil {
		return nil, fmt.Errorf("conversations: %w", err)
	}
	return convs, nil
}

// Messages возвращает сообщения диалога.
func (c *Client) Messages(ctx context.Context, conversationID int64) ([]entities.Message, error) {
	if err := c.checkID("conversation id", conversationID); err != nil {
		return nil, err
	}

	var msgs []entities.Message
	if err := c.get(ctx, idPath("conversations/%s/messages/", conversationID), nil, &msgs); err != nil {
		return nil, fmt.Errorf("messages of conversation %d: %w", conversationID, err)
	}
	return msgs, nil
}

// SendMessage отправляет сообщение в диалог.
func (c *Client) SendMessage(ctx context.Context, conversationID int64, text string) (*entities.Message, error) {
	if err := c.checkID("conversation id", conversationID); err != nil {
		return nil, err
	}
	req := MessageRequest{Text: text}
	if err := c.check(req); err != nil {
		return nil, err
	}

	var msg entities.Message
	if err := c.session.Post(ctx, idPath("conversations/%s/messages/", conversationID), req, &msg); err != nil {
		return nil, fmt.Errorf("send message to conversation %d: %w", conversationID, err)
	}
	return &msg, nil
}

// StartConversation открывает диалог с пользователем или возвращает существующий.
func (c *Client) StartConversation(ctx context.Context, userID int64) (*entities.Conversation, error) {
	req := ConversationRequest{User: userID}
	if err := c.check(req); err != nil {
		return nil, err
	}

	var conv entities.Conversation
	if err := c.session.Post(ctx, "conversations/", req, &conv); err != nil {
		return nil, fmt.Errorf("start conversation with user %d: %w", userID, err)
	}
	return &conv, nil
}
