package repository

import (
	"context"

	"helperhive/internal/domain/entity"
)

type MessageRepository interface {
	// Create stores the message and updates its conversation summary in the
	// same write.
	Create(ctx context.Context, message *entity.Message) error
	// ListConversation returns the messages of one conversation, oldest first.
	ListConversation(ctx context.Context, conversationKey string, limit int) ([]*entity.Message, error)
	// ListConversations returns every conversation userID takes part in,
	// most recent first.
	ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error)
	SubscribeConversations(ctx context.Context, userID string) (Subscription[*entity.Conversation], error)
}
