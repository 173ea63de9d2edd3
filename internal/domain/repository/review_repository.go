package repository

import (
	"context"

	"helperhive/internal/domain/entity"
)

type ReviewRepository interface {
	// CreateForBooking runs check against the freshly read booking, then
	// writes the review, marks the booking reviewed and folds the rating into
	// the listing aggregate. All of it happens in one transaction.
	CreateForBooking(ctx context.Context, review *entity.Review, check func(booking *entity.Booking) error) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	ListByService(ctx context.Context, serviceID string) ([]*entity.Review, error)
}
