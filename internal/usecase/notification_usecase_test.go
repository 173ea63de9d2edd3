package usecase_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"helperhive/internal/domain/entity"
	"helperhive/internal/mocks"
	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

func TestNotify_StoresPushesAndPublishes(t *testing.T) {
	f := newFixture(t)
	pusher := mocks.NewMockPusher()
	publisher := &mocks.MockPublisher{}
	uc := usecase.NewNotificationUseCase(f.store.Notifications(), pusher, publisher, f.clock)

	uc.Notify(f.ctx, &entity.Notification{
		RecipientID: "provider",
		Kind:        entity.NotifyBookingRequested,
		Message:     "New booking request",
		BookingID:   "b-1",
	})

	stored, err := uc.ListMine(f.ctx, "provider", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].Read)
	assert.Equal(t, testNow, stored[0].CreatedAt)

	require.Len(t, pusher.Pushed["provider"], 1)
	var envelope struct {
		Type string              `json:"type"`
		Data entity.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(pusher.Pushed["provider"][0], &envelope))
	assert.Equal(t, "notification", envelope.Type)
	assert.Equal(t, "b-1", envelope.Data.BookingID)

	require.Len(t, publisher.Published, 1)
	assert.Equal(t, "helperhive.notifications.provider", publisher.Published[0].Subject)

	require.NoError(t, uc.MarkRead(f.ctx, "provider", stored[0].ID))
	stored, err = uc.ListMine(f.ctx, "provider", 10)
	require.NoError(t, err)
	assert.True(t, stored[0].Read)

	err = uc.MarkRead(f.ctx, "someone-else", stored[0].ID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestNotify_ChannelFailuresAreSwallowed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	previous := logger.L()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(previous) })

	f := newFixture(t)
	publisher := &mocks.MockPublisher{Err: assert.AnError}
	uc := usecase.NewNotificationUseCase(f.store.Notifications(), nil, publisher, f.clock)

	f.store.FailNext(errors.Unavailable("document store did not respond", nil))
	assert.NotPanics(t, func() {
		uc.Notify(f.ctx, &entity.Notification{RecipientID: "customer", Kind: entity.NotifyBookingAccepted})
	})

	stored, err := uc.ListMine(f.ctx, "customer", 10)
	require.NoError(t, err)
	assert.Empty(t, stored)

	failures := logs.FilterMessage("notification channel failed").FilterField(zap.String("recipient", "customer"))
	require.Equal(t, 2, failures.Len())
	assert.Equal(t, "store", failures.All()[0].ContextMap()["channel"])
	assert.Equal(t, "nats", failures.All()[1].ContextMap()["channel"])
}

func TestBookingFlow_WithRealDispatcher(t *testing.T) {
	f := newFixture(t)
	pusher := mocks.NewMockPusher()
	notifications := usecase.NewNotificationUseCase(f.store.Notifications(), pusher, nil, f.clock)
	bookings := usecase.NewBookingUseCase(f.store.Bookings(), f.store.Services(), f.store.Users(), notifications, f.clock)
	booking := f.seedBooking(t, "customer", "provider", entity.BookingPending)

	_, err := bookings.Transition(f.ctx, booking.ID, "provider", entity.ActionReject)
	require.NoError(t, err)

	inbox, err := notifications.ListMine(f.ctx, "customer", 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, entity.NotifyBookingRejected, inbox[0].Kind)
	assert.Len(t, pusher.Pushed["customer"], 1)
}
