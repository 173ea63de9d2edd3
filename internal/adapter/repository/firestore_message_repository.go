package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	messageRef := r.client.Collection(messagesCollection).Doc(message.ID)
	conversationRef := r.client.Collection(conversationsCollection).Doc(message.ConversationKey)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		conversation := &entity.Conversation{}
		doc, err := tx.Get(conversationRef)
		switch {
		case err == nil:
			if conversation, err = decode[entity.Conversation](doc); err != nil {
				return err
			}
		case status.Code(err) != codes.NotFound:
			return err
		}

		if err := tx.Create(messageRef, message); err != nil {
			return err
		}
		if !conversation.Record(message) {
			return nil
		}
		return tx.Set(conversationRef, conversation)
	})
	return translateError("message", err)
}

func (r *firestoreMessageRepository) ListConversation(ctx context.Context, conversationKey string, limit int) ([]*entity.Message, error) {
	// Newest window first, then flipped so callers read oldest to newest.
	query := r.client.Collection(messagesCollection).
		Where("conversationKey", "==", conversationKey).
		OrderBy("sentAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	messages, err := readAll[entity.Message](query.Documents(ctx))
	if err != nil {
		return nil, translateError("message", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *firestoreMessageRepository) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	conversations, err := readAll[entity.Conversation](r.conversationsFor(userID).Documents(ctx))
	return conversations, translateError("conversation", err)
}

func (r *firestoreMessageRepository) SubscribeConversations(ctx context.Context, userID string) (repository.Subscription[*entity.Conversation], error) {
	return subscribe[entity.Conversation](ctx, "conversation", r.conversationsFor(userID)), nil
}

func (r *firestoreMessageRepository) conversationsFor(userID string) firestore.Query {
	return r.client.Collection(conversationsCollection).
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc)
}
