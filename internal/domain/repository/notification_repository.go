package repository

import (
	"context"

	"helperhive/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}
