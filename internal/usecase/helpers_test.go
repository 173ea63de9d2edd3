package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"helperhive/internal/domain/entity"
	"helperhive/internal/mocks"
	"helperhive/internal/usecase"
	"helperhive/pkg/utils"
)

var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	store    *mocks.Store
	notifier *mocks.MockNotifier
	cache    *mocks.MockCache
	limiter  *mocks.MockRateLimiter
	clock    utils.FixedClock

	bookings   *usecase.BookingUseCase
	chat       *usecase.ChatUseCase
	reviews    *usecase.ReviewUseCase
	moderation *usecase.ModerationUseCase
	services   *usecase.ServiceUseCase
	users      *usecase.UserUseCase
	tickets    *usecase.TicketUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:      context.Background(),
		store:    mocks.NewStore(),
		notifier: &mocks.MockNotifier{},
		cache:    mocks.NewMockCache(),
		limiter:  &mocks.MockRateLimiter{},
		clock:    utils.FixedClock{T: testNow},
	}

	f.bookings = usecase.NewBookingUseCase(f.store.Bookings(), f.store.Services(), f.store.Users(), f.notifier, f.clock)
	f.chat = usecase.NewChatUseCase(f.store.Messages(), f.store.Users(), f.cache, f.limiter,
		utils.NewMonotonicClock(f.clock.Now), usecase.ChatConfig{})
	f.reviews = usecase.NewReviewUseCase(f.store.Reviews(), f.clock)
	f.moderation = usecase.NewModerationUseCase(f.store.Users(), f.store.Services(), f.store.Tickets(), f.notifier, f.clock)
	f.services = usecase.NewServiceUseCase(f.store.Services(), f.store.Users(), f.clock)
	f.users = usecase.NewUserUseCase(f.store.Users(), mocks.NewMockBlobStore(), f.cache, f.clock)
	f.tickets = usecase.NewTicketUseCase(f.store.Tickets(), f.store.Users(), f.clock)
	return f
}

func (f *fixture) seedUser(t *testing.T, id string, opts ...func(*entity.User)) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:            id,
		Name:          "User " + id,
		Email:         id + "@example.test",
		RequestStatus: entity.OnboardingNone,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
	for _, opt := range opts {
		opt(user)
	}
	require.NoError(t, f.store.Users().Create(f.ctx, user))
	return user
}

func asAdmin(u *entity.User) { u.IsAdmin = true }

func asProvider(u *entity.User) {
	u.IsServiceProvider = true
	u.RequestStatus = entity.OnboardingApproved
}

func withIDDocuments(u *entity.User) {
	u.IDFrontURL = "https://blobs.example.test/front.jpg"
	u.IDBackURL = "https://blobs.example.test/back.jpg"
}

func (f *fixture) seedService(t *testing.T, ownerID string, status entity.ServiceStatus) *entity.Service {
	t.Helper()

	service := &entity.Service{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        "Deep Cleaning",
		Category:    entity.CategoryCleaning,
		Description: "Whole apartment cleaning",
		PriceRange:  "50-80",
		City:        "Lahore",
		Status:      status,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	require.NoError(t, f.store.Services().Create(f.ctx, service))
	return service
}

func (f *fixture) seedBooking(t *testing.T, customerID, providerID string, status entity.BookingStatus) *entity.Booking {
	t.Helper()

	booking := &entity.Booking{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		ProviderID:    providerID,
		ServiceID:     "svc-" + providerID,
		ServiceName:   "Deep Cleaning",
		ScheduledAt:   testNow.Add(48 * time.Hour),
		DurationHours: 2,
		Status:        status,
		Participants:  []string{customerID, providerID},
		Version:       1,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
	require.NoError(t, f.store.Bookings().Create(f.ctx, booking))
	return booking
}

// receive waits for the next subscription update.
func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v, ok := <-ch:
		require.True(t, ok, "subscription closed unexpectedly")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscription update")
	}
	var zero T
	return zero
}
