package usecase_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhive/internal/domain/entity"
	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
)

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "customer")
	f.seedUser(t, "provider", asProvider)
	service := f.seedService(t, "provider", entity.ServiceApproved)

	booking, err := f.bookings.CreateBooking(f.ctx, "customer", usecase.CreateBookingInput{
		ServiceID:     service.ID,
		ScheduledAt:   testNow.Add(24 * time.Hour),
		DurationHours: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BookingPending, booking.Status)
	assert.Equal(t, "customer", booking.CustomerID)
	assert.Equal(t, "provider", booking.ProviderID)
	assert.Equal(t, service.Name, booking.ServiceName)
	assert.ElementsMatch(t, []string{"customer", "provider"}, booking.Participants)
	assert.False(t, booking.HasReviewed)

	stored, err := f.store.Bookings().GetByID(f.ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingPending, stored.Status)

	sent := f.notifier.For("provider")
	require.Len(t, sent, 1)
	assert.Equal(t, entity.NotifyBookingRequested, sent[0].Kind)
	assert.Equal(t, booking.ID, sent[0].BookingID)
}

func TestCreateBooking_Rejections(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "customer")
	f.seedUser(t, "provider", asProvider)
	approved := f.seedService(t, "provider", entity.ServiceApproved)
	pending := f.seedService(t, "provider", entity.ServicePending)

	tests := []struct {
		name       string
		customerID string
		input      usecase.CreateBookingInput
		code       string
	}{
		{
			name:       "schedule in the past",
			customerID: "customer",
			input:      usecase.CreateBookingInput{ServiceID: approved.ID, ScheduledAt: testNow.Add(-time.Hour), DurationHours: 1},
			code:       errors.CodeInvalidInput,
		},
		{
			name:       "schedule exactly now",
			customerID: "customer",
			input:      usecase.CreateBookingInput{ServiceID: approved.ID, ScheduledAt: testNow, DurationHours: 1},
			code:       errors.CodeInvalidInput,
		},
		{
			name:       "zero duration",
			customerID: "customer",
			input:      usecase.CreateBookingInput{ServiceID: approved.ID, ScheduledAt: testNow.Add(time.Hour), DurationHours: 0},
			code:       errors.CodeInvalidInput,
		},
		{
			name:       "listing not approved",
			customerID: "customer",
			input:      usecase.CreateBookingInput{ServiceID: pending.ID, ScheduledAt: testNow.Add(time.Hour), DurationHours: 1},
			code:       errors.CodeInvalidInput,
		},
		{
			name:       "own listing",
			customerID: "provider",
			input:      usecase.CreateBookingInput{ServiceID: approved.ID, ScheduledAt: testNow.Add(time.Hour), DurationHours: 1},
			code:       errors.CodeInvalidInput,
		},
		{
			name:       "missing listing",
			customerID: "customer",
			input:      usecase.CreateBookingInput{ServiceID: "nope", ScheduledAt: testNow.Add(time.Hour), DurationHours: 1},
			code:       errors.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking, err := f.bookings.CreateBooking(f.ctx, tt.customerID, tt.input)
			assert.Nil(t, booking)
			assert.True(t, errors.Is(err, tt.code), "expected %s, got %v", tt.code, err)
		})
	}
	assert.Empty(t, f.notifier.Sent)
}

// expectedOutcome derives the result of every (status, action, actor) triple
// from the four legal edges.
func expectedOutcome(status entity.BookingStatus, action entity.BookingAction, actor string) (entity.BookingStatus, string) {
	legal := map[string]entity.BookingStatus{
		"Pending/Accept/provider":     entity.BookingConfirmed,
		"Pending/Reject/provider":     entity.BookingRejected,
		"Pending/Cancel/customer":     entity.BookingCanceled,
		"Confirmed/Complete/provider": entity.BookingCompleted,
	}
	if to, ok := legal[fmt.Sprintf("%s/%s/%s", status, action, actor)]; ok {
		return to, ""
	}

	requiredActor := map[entity.BookingAction]string{
		entity.ActionAccept:   "provider",
		entity.ActionReject:   "provider",
		entity.ActionCancel:   "customer",
		entity.ActionComplete: "provider",
	}[action]
	if actor != requiredActor {
		return status, errors.CodeForbidden
	}
	return status, errors.CodeInvalidTransition
}

func TestTransition_EveryTriple(t *testing.T) {
	statuses := []entity.BookingStatus{
		entity.BookingPending, entity.BookingConfirmed, entity.BookingRejected,
		entity.BookingCanceled, entity.BookingCompleted,
	}
	actions := []entity.BookingAction{
		entity.ActionAccept, entity.ActionReject, entity.ActionCancel, entity.ActionComplete,
	}
	actors := []string{"customer", "provider", "stranger"}

	successes := 0
	for _, status := range statuses {
		for _, action := range actions {
			for _, actor := range actors {
				name := fmt.Sprintf("%s_%s_by_%s", status, action, actor)
				t.Run(name, func(t *testing.T) {
					f := newFixture(t)
					booking := f.seedBooking(t, "customer", "provider", status)

					wantStatus, wantCode := expectedOutcome(status, action, actor)
					updated, err := f.bookings.Transition(f.ctx, booking.ID, actor, action)

					stored, getErr := f.store.Bookings().GetByID(f.ctx, booking.ID)
					require.NoError(t, getErr)
					assert.Equal(t, wantStatus, stored.Status)

					if wantCode == "" {
						require.NoError(t, err)
						assert.Equal(t, wantStatus, updated.Status)
						assert.Equal(t, booking.Version+1, updated.Version)
						successes++
						return
					}
					assert.Nil(t, updated)
					assert.True(t, errors.Is(err, wantCode), "expected %s, got %v", wantCode, err)
					assert.Equal(t, booking.Version, stored.Version)
				})
			}
		}
	}
	assert.Equal(t, 4, successes)
}

func TestTransition_TerminalStatesAreFinal(t *testing.T) {
	for _, status := range []entity.BookingStatus{entity.BookingRejected, entity.BookingCanceled, entity.BookingCompleted} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			booking := f.seedBooking(t, "customer", "provider", status)

			for _, action := range []entity.BookingAction{entity.ActionAccept, entity.ActionReject, entity.ActionCancel, entity.ActionComplete} {
				for _, actor := range []string{"customer", "provider"} {
					_, err := f.bookings.Transition(f.ctx, booking.ID, actor, action)
					assert.Error(t, err)
				}
			}

			stored, err := f.store.Bookings().GetByID(f.ctx, booking.ID)
			require.NoError(t, err)
			assert.Equal(t, status, stored.Status)
		})
	}
}

func TestTransition_StampsAndNotifiesCounterpart(t *testing.T) {
	f := newFixture(t)
	booking := f.seedBooking(t, "customer", "provider", entity.BookingPending)

	confirmed, err := f.bookings.Transition(f.ctx, booking.ID, "provider", entity.ActionAccept)
	require.NoError(t, err)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, testNow, *confirmed.ConfirmedAt)

	completed, err := f.bookings.Transition(f.ctx, booking.ID, "provider", entity.ActionComplete)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	sent := f.notifier.For("customer")
	require.Len(t, sent, 2)
	assert.Equal(t, entity.NotifyBookingAccepted, sent[0].Kind)
	assert.Equal(t, entity.NotifyBookingCompleted, sent[1].Kind)
	assert.Empty(t, f.notifier.For("provider"))
}

func TestTransition_CancelNotifiesProvider(t *testing.T) {
	f := newFixture(t)
	booking := f.seedBooking(t, "customer", "provider", entity.BookingPending)

	_, err := f.bookings.Transition(f.ctx, booking.ID, "customer", entity.ActionCancel)
	require.NoError(t, err)

	sent := f.notifier.For("provider")
	require.Len(t, sent, 1)
	assert.Equal(t, entity.NotifyBookingCanceled, sent[0].Kind)
}

func TestTransition_UnknownActionAndMissingBooking(t *testing.T) {
	f := newFixture(t)
	booking := f.seedBooking(t, "customer", "provider", entity.BookingPending)

	_, err := f.bookings.Transition(f.ctx, booking.ID, "provider", entity.BookingAction("Reopen"))
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = f.bookings.Transition(f.ctx, "missing", "provider", entity.ActionAccept)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestTransition_StoreUnavailableLeavesBookingUntouched(t *testing.T) {
	f := newFixture(t)
	booking := f.seedBooking(t, "customer", "provider", entity.BookingPending)

	f.store.FailNext(errors.Unavailable("document store did not respond", nil))
	_, err := f.bookings.Transition(f.ctx, booking.ID, "provider", entity.ActionAccept)
	assert.True(t, errors.Is(err, errors.CodeUnavailable))

	stored, err := f.store.Bookings().GetByID(f.ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingPending, stored.Status)
	assert.Empty(t, f.notifier.Sent)
}

func TestTransition_ConcurrentAcceptAndCancel(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 50; i++ {
		booking := f.seedBooking(t, "customer", "provider", entity.BookingPending)

		var wg sync.WaitGroup
		results := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, results[0] = f.bookings.Transition(f.ctx, booking.ID, "provider", entity.ActionAccept)
		}()
		go func() {
			defer wg.Done()
			_, results[1] = f.bookings.Transition(f.ctx, booking.ID, "customer", entity.ActionCancel)
		}()
		wg.Wait()

		succeeded := 0
		for _, err := range results {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, errors.Is(err, errors.CodeInvalidTransition) || errors.Is(err, errors.CodeConflict), "unexpected error %v", err)
		}
		require.Equal(t, 1, succeeded)

		stored, err := f.store.Bookings().GetByID(f.ctx, booking.ID)
		require.NoError(t, err)
		if results[0] == nil {
			assert.Equal(t, entity.BookingConfirmed, stored.Status)
		} else {
			assert.Equal(t, entity.BookingCanceled, stored.Status)
		}
	}
}

func TestIsReviewEligible(t *testing.T) {
	f := newFixture(t)
	completed := f.seedBooking(t, "customer", "provider", entity.BookingCompleted)
	confirmed := f.seedBooking(t, "customer", "provider", entity.BookingConfirmed)

	ok, err := f.bookings.IsReviewEligible(f.ctx, completed.ID, "customer")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.bookings.IsReviewEligible(f.ctx, completed.ID, "provider")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.bookings.IsReviewEligible(f.ctx, confirmed.ID, "customer")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.bookings.IsReviewEligible(f.ctx, "missing", "customer")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestGetBooking_AccessAndFlags(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "stranger")
	f.seedUser(t, "admin", asAdmin)
	booking := f.seedBooking(t, "customer", "provider", entity.BookingPending)

	view, err := f.bookings.GetBooking(f.ctx, "provider", booking.ID)
	require.NoError(t, err)
	assert.True(t, view.Flags.CanAccept)
	assert.True(t, view.Flags.CanReject)
	assert.False(t, view.Flags.CanCancel)
	assert.True(t, view.Flags.CanMessage)

	view, err = f.bookings.GetBooking(f.ctx, "customer", booking.ID)
	require.NoError(t, err)
	assert.True(t, view.Flags.CanCancel)
	assert.False(t, view.Flags.CanAccept)
	assert.False(t, view.Flags.CanReview)

	_, err = f.bookings.GetBooking(f.ctx, "stranger", booking.ID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	view, err = f.bookings.GetBooking(f.ctx, "admin", booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingFlags{}, view.Flags)
}

func TestListBookings_StatusAndRoleFilters(t *testing.T) {
	f := newFixture(t)
	f.seedBooking(t, "alice", "bob", entity.BookingPending)
	f.seedBooking(t, "alice", "bob", entity.BookingCompleted)
	f.seedBooking(t, "carol", "alice", entity.BookingPending)

	all, err := f.bookings.ListBookings(f.ctx, "alice", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	asCustomer, err := f.bookings.ListBookings(f.ctx, "alice", entity.ActorCustomer, "")
	require.NoError(t, err)
	assert.Len(t, asCustomer, 2)

	pendingAsProvider, err := f.bookings.ListBookings(f.ctx, "alice", entity.ActorProvider, entity.BookingPending)
	require.NoError(t, err)
	require.Len(t, pendingAsProvider, 1)
	assert.True(t, pendingAsProvider[0].Flags.CanAccept)

	completed, err := f.bookings.ListBookings(f.ctx, "alice", "", entity.BookingCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.True(t, completed[0].Flags.CanReview)

	_, err = f.bookings.ListBookings(f.ctx, "alice", "", entity.BookingStatus("Archived"))
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = f.bookings.ListBookings(f.ctx, "alice", entity.ActorRole("admin"), "")
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestSubscribeBookings_DeliversTransitions(t *testing.T) {
	f := newFixture(t)
	booking := f.seedBooking(t, "customer", "provider", entity.BookingPending)

	sub, err := f.bookings.SubscribeBookings(f.ctx, "customer", "", "")
	require.NoError(t, err)
	defer sub.Cancel()

	initial := receive(t, sub.Updates())
	require.Len(t, initial, 1)
	assert.Equal(t, entity.BookingPending, initial[0].Status)
	assert.True(t, initial[0].Flags.CanCancel)

	_, err = f.bookings.Transition(f.ctx, booking.ID, "provider", entity.ActionAccept)
	require.NoError(t, err)

	next := receive(t, sub.Updates())
	require.Len(t, next, 1)
	assert.Equal(t, entity.BookingConfirmed, next[0].Status)
	assert.False(t, next[0].Flags.CanCancel)

	sub.Cancel()
	for range sub.Updates() {
	}
	assert.NoError(t, sub.Err())
}

func TestTransition_WithoutNotifier(t *testing.T) {
	f := newFixture(t)
	bookings := usecase.NewBookingUseCase(f.store.Bookings(), f.store.Services(), f.store.Users(), nil, f.clock)
	booking := f.seedBooking(t, "customer", "provider", entity.BookingPending)

	updated, err := bookings.Transition(f.ctx, booking.ID, "provider", entity.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingConfirmed, updated.Status)
}
