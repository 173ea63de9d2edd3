package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/internal/infrastructure/metrics"
	"helperhive/pkg/logger"
)

const notificationSubjectPrefix = "helperhive.notifications."

// NotificationUseCase persists notifications and fans them out to live
// connections and the message bus. Delivery failures never reach the caller.
type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	pusher           LivePusher
	publisher        Publisher
	clock            Clock
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	pusher LivePusher,
	publisher Publisher,
	clock Clock,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		pusher:           pusher,
		publisher:        publisher,
		clock:            clock,
	}
}

type liveEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (uc *NotificationUseCase) Notify(ctx context.Context, n *entity.Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = uc.clock.Now()
	}

	log := logger.With("recipient", n.RecipientID, "notification", n.ID)

	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		log.Warnw("notification channel failed", "channel", "store", "error", err)
		metrics.NotificationsDispatched.WithLabelValues("store", "error").Inc()
	} else {
		metrics.NotificationsDispatched.WithLabelValues("store", "ok").Inc()
	}

	payload, err := json.Marshal(liveEnvelope{Type: "notification", Data: n})
	if err != nil {
		log.Errorw("notification encode failed", "error", err)
		return
	}

	if uc.pusher != nil {
		uc.pusher.SendToUser(n.RecipientID, payload)
		metrics.NotificationsDispatched.WithLabelValues("websocket", "ok").Inc()
	}

	if uc.publisher != nil {
		err := uc.publisher.Publish(notificationSubjectPrefix+n.RecipientID, payload)
		if err != nil {
			log.Warnw("notification channel failed", "channel", "nats", "error", err)
		}
		metrics.NotificationsDispatched.WithLabelValues("nats", metrics.Outcome(err)).Inc()
	}
}

func (uc *NotificationUseCase) ListMine(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	return uc.notificationRepo.ListByRecipient(ctx, userID, limit)
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	return uc.notificationRepo.MarkRead(ctx, userID, notificationID)
}
