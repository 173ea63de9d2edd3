package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	_, err := r.client.Collection(notificationsCollection).Doc(notification.ID).Set(ctx, notification)
	return translateError("notification", err)
}

func (r *firestoreNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error) {
	query := r.client.Collection(notificationsCollection).
		Where("recipientId", "==", recipientID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	notifications, err := readAll[entity.Notification](query.Documents(ctx))
	return notifications, translateError("notification", err)
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	_, err := mutate(ctx, r.client, "notification", r.client.Collection(notificationsCollection).Doc(id), func(n *entity.Notification) error {
		if n.RecipientID != recipientID {
			return errors.NotFound("notification", nil)
		}
		n.Read = true
		return nil
	})
	return err
}
