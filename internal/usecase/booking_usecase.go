package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/internal/infrastructure/metrics"
	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

// BookingUseCase owns the booking state machine. Every status change goes
// through Transition.
type BookingUseCase struct {
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	clock       Clock
}

func NewBookingUseCase(
	bookingRepo repository.BookingRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	clock Clock,
) *BookingUseCase {
	return &BookingUseCase{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		clock:       clock,
	}
}

type CreateBookingInput struct {
	ServiceID     string
	ScheduledAt   time.Time
	DurationHours int
}

// BookingView is a booking plus the actions the viewer may take on it.
type BookingView struct {
	*entity.Booking
	Flags entity.BookingFlags `json:"flags"`
}

func newBookingView(b *entity.Booking, viewerID string) *BookingView {
	return &BookingView{Booking: b, Flags: b.FlagsFor(viewerID)}
}

func (uc *BookingUseCase) CreateBooking(ctx context.Context, customerID string, input CreateBookingInput) (*entity.Booking, error) {
	if strings.TrimSpace(input.ServiceID) == "" {
		return nil, errors.InvalidInput("service id is required", nil)
	}
	if input.DurationHours < 1 {
		return nil, errors.InvalidInput("duration must be at least one hour", nil)
	}

	now := uc.clock.Now()
	if !input.ScheduledAt.After(now) {
		return nil, errors.InvalidInput("booking must be scheduled in the future", nil)
	}

	service, err := uc.serviceRepo.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.IsPublic() {
		return nil, errors.InvalidInput("service is not available for booking", nil)
	}
	if service.OwnerID == customerID {
		return nil, errors.InvalidInput("you cannot book your own service", nil)
	}

	booking := &entity.Booking{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		ProviderID:    service.OwnerID,
		ServiceID:     service.ID,
		ServiceName:   service.Name,
		ScheduledAt:   input.ScheduledAt.UTC(),
		DurationHours: input.DurationHours,
		Status:        entity.BookingPending,
		Participants:  []string{customerID, service.OwnerID},
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}
	metrics.BookingsCreated.Inc()

	uc.notify(ctx, booking, booking.ProviderID, entity.NotifyBookingRequested,
		fmt.Sprintf("New booking request for %s on %s", booking.ServiceName, booking.ScheduledAt.Format("2006-01-02 15:04")))

	return booking, nil
}

// Transition applies action on behalf of actorID. The existence, actor and
// source state checks run in that order inside one store transaction.
func (uc *BookingUseCase) Transition(ctx context.Context, bookingID, actorID string, action entity.BookingAction) (*entity.Booking, error) {
	rule, ok := action.Transition()
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown booking action %q", action), nil)
	}

	now := uc.clock.Now()
	booking, err := uc.bookingRepo.Mutate(ctx, bookingID, func(b *entity.Booking) error {
		if b.RoleOf(actorID) != rule.Actor {
			return errors.Forbidden(fmt.Sprintf("only the %s can %s this booking", rule.Actor, strings.ToLower(string(action))), nil)
		}
		if b.Status != rule.From {
			return errors.InvalidTransition(fmt.Sprintf("cannot %s a booking that is %s", strings.ToLower(string(action)), b.Status))
		}

		b.Status = rule.To
		b.Stamp(rule.To, now)
		b.UpdatedAt = now
		return nil
	})
	metrics.BookingTransitions.WithLabelValues(string(action), metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	counterpart := booking.CustomerID
	if rule.Actor == entity.ActorCustomer {
		counterpart = booking.ProviderID
	}
	kind, message := transitionNotice(booking)
	uc.notify(ctx, booking, counterpart, kind, message)

	return booking, nil
}

func transitionNotice(b *entity.Booking) (entity.NotificationKind, string) {
	switch b.Status {
	case entity.BookingConfirmed:
		return entity.NotifyBookingAccepted, fmt.Sprintf("Your booking for %s was accepted", b.ServiceName)
	case entity.BookingRejected:
		return entity.NotifyBookingRejected, fmt.Sprintf("Your booking for %s was declined", b.ServiceName)
	case entity.BookingCanceled:
		return entity.NotifyBookingCanceled, fmt.Sprintf("The booking for %s was canceled by the customer", b.ServiceName)
	default:
		return entity.NotifyBookingCompleted, fmt.Sprintf("Your booking for %s is complete. Leave a review!", b.ServiceName)
	}
}

func (uc *BookingUseCase) notify(ctx context.Context, b *entity.Booking, recipientID string, kind entity.NotificationKind, message string) {
	if uc.notifier == nil {
		logger.Debug("No notifier configured, dropping %s notification for booking %s", kind, b.ID)
		return
	}
	uc.notifier.Notify(ctx, &entity.Notification{
		RecipientID: recipientID,
		Kind:        kind,
		Message:     message,
		BookingID:   b.ID,
	})
}

func (uc *BookingUseCase) IsReviewEligible(ctx context.Context, bookingID, reviewerID string) (bool, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return false, err
	}
	return booking.ReviewableBy(reviewerID), nil
}

func (uc *BookingUseCase) GetBooking(ctx context.Context, userID, bookingID string) (*BookingView, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.IsParticipant(userID) {
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil || !user.IsAdmin {
			return nil, errors.Forbidden("you are not part of this booking", nil)
		}
	}

	return newBookingView(booking, userID), nil
}

func bookingFilter(userID string, role entity.ActorRole, status entity.BookingStatus) (repository.BookingFilter, error) {
	if role != "" && role != entity.ActorCustomer && role != entity.ActorProvider {
		return repository.BookingFilter{}, errors.InvalidInput(fmt.Sprintf("unknown role %q", role), nil)
	}
	if status != "" && !status.Valid() {
		return repository.BookingFilter{}, errors.InvalidInput(fmt.Sprintf("unknown booking status %q", status), nil)
	}
	return repository.BookingFilter{UserID: userID, Role: role, Status: status}, nil
}

// ListBookings returns the user's bookings, newest first, optionally narrowed
// to one side of the booking and one status.
func (uc *BookingUseCase) ListBookings(ctx context.Context, userID string, role entity.ActorRole, status entity.BookingStatus) ([]*BookingView, error) {
	filter, err := bookingFilter(userID, role, status)
	if err != nil {
		return nil, err
	}

	bookings, err := uc.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, newBookingView(b, userID))
	}
	return views, nil
}

func (uc *BookingUseCase) SubscribeBookings(ctx context.Context, userID string, role entity.ActorRole, status entity.BookingStatus) (repository.Subscription[*BookingView], error) {
	filter, err := bookingFilter(userID, role, status)
	if err != nil {
		return nil, err
	}

	sub, err := uc.bookingRepo.Subscribe(ctx, filter)
	if err != nil {
		return nil, err
	}

	return repository.Map(sub, func(bookings []*entity.Booking) []*BookingView {
		views := make([]*BookingView, 0, len(bookings))
		for _, b := range bookings {
			views = append(views, newBookingView(b, userID))
		}
		return views
	}), nil
}
