package handler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"helperhive/internal/domain/entity"
	"helperhive/internal/infrastructure/metrics"
	ws "helperhive/internal/infrastructure/websocket"
	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

const (
	TopicBookings      = "bookings"
	TopicConversations = "conversations"
	TopicListings      = "listings"
	TopicDashboard     = "dashboard"

	presenceTimeout = 5 * time.Second
)

type liveFeed[U any] interface {
	Updates() <-chan U
	Err() error
	Cancel()
}

// forward pushes every update of f until the returned stop func is called.
func forward[U any](topic, userID string, f liveFeed[U], push func(interface{})) func() {
	metrics.ActiveSubscriptions.Inc()
	go func() {
		for update := range f.Updates() {
			push(update)
		}
		if err := f.Err(); err != nil {
			logger.Warn("Live %s feed for %s ended: %v", topic, userID, err)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.Cancel()
			metrics.ActiveSubscriptions.Dec()
		})
	}
}

type bookingTopicParams struct {
	Role   entity.ActorRole     `json:"role"`
	Status entity.BookingStatus `json:"status"`
}

type listingTopicParams struct {
	Category entity.Category `json:"category"`
	City     string          `json:"city"`
}

type liveMessageParams struct {
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
}

func decodeParams(raw json.RawMessage, into interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return errors.InvalidInput("invalid subscription parameters", err)
	}
	return nil
}

// NewLiveHooks connects websocket sessions to presence, live queries and
// messaging.
func NewLiveHooks(uc UseCases) ws.Hooks {
	setPresence := func(userID string, online bool) {
		ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
		defer cancel()
		if err := uc.User.SetPresence(ctx, userID, online); err != nil {
			logger.LogSideEffectError(userID, "set_presence", err)
		}
	}

	return ws.Hooks{
		OnConnect:    func(userID string) { setPresence(userID, true) },
		OnDisconnect: func(userID string) { setPresence(userID, false) },

		Subscribe: func(ctx context.Context, userID, topic string, raw json.RawMessage, push func(interface{})) (func(), error) {
			switch topic {
			case TopicBookings:
				var params bookingTopicParams
				if err := decodeParams(raw, &params); err != nil {
					return nil, err
				}
				sub, err := uc.Booking.SubscribeBookings(ctx, userID, params.Role, params.Status)
				if err != nil {
					return nil, err
				}
				return forward[[]*usecase.BookingView](topic, userID, sub, push), nil

			case TopicConversations:
				sub, err := uc.Chat.SubscribeConversations(ctx, userID)
				if err != nil {
					return nil, err
				}
				return forward[[]*usecase.ConversationSummary](topic, userID, sub, push), nil

			case TopicListings:
				var params listingTopicParams
				if err := decodeParams(raw, &params); err != nil {
					return nil, err
				}
				sub, err := uc.Service.SubscribeApproved(ctx, params.Category, params.City)
				if err != nil {
					return nil, err
				}
				return forward[[]*entity.Service](topic, userID, sub, push), nil

			case TopicDashboard:
				feed, err := uc.Moderation.SubscribeDashboard(ctx, userID)
				if err != nil {
					return nil, err
				}
				return forward[*usecase.DashboardSnapshot](topic, userID, feed, push), nil
			}
			return nil, errors.InvalidInput("unknown topic", nil)
		},

		SendMessage: func(ctx context.Context, userID string, raw json.RawMessage) (interface{}, error) {
			var params liveMessageParams
			if err := decodeParams(raw, &params); err != nil {
				return nil, err
			}
			if params.RecipientID == "" {
				return nil, errors.InvalidInput("recipient_id is required", nil)
			}
			return uc.Chat.SendMessage(ctx, userID, params.RecipientID, params.Body)
		},
	}
}
