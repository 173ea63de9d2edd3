package repository

import (
	"context"

	"helperhive/internal/domain/entity"
)

// BookingFilter selects bookings by participant. Role "" matches either side.
type BookingFilter struct {
	UserID string
	Role   entity.ActorRole
	Status entity.BookingStatus
}

func (f BookingFilter) Matches(b *entity.Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	switch f.Role {
	case entity.ActorCustomer:
		return b.CustomerID == f.UserID
	case entity.ActorProvider:
		return b.ProviderID == f.UserID
	}
	return b.IsParticipant(f.UserID)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	// Mutate reads the booking, applies fn and writes the result in one
	// transaction. When fn returns an error nothing is written.
	Mutate(ctx context.Context, id string, fn func(booking *entity.Booking) error) (*entity.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error)
	Subscribe(ctx context.Context, filter BookingFilter) (Subscription[*entity.Booking], error)
}
