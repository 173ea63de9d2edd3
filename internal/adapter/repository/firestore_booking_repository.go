package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
)

type firestoreBookingRepository struct {
	client *firestore.Client
}

func NewFirestoreBookingRepository(client *firestore.Client) repository.BookingRepository {
	return &firestoreBookingRepository{
		client: client,
	}
}

func (r *firestoreBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	_, err := r.client.Collection(bookingsCollection).Doc(booking.ID).Create(ctx, booking)
	return translateError("booking", err)
}

func (r *firestoreBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	doc, err := r.client.Collection(bookingsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translateError("booking", err)
	}
	return decode[entity.Booking](doc)
}

func (r *firestoreBookingRepository) Mutate(ctx context.Context, id string, fn func(*entity.Booking) error) (*entity.Booking, error) {
	return mutate(ctx, r.client, "booking", r.client.Collection(bookingsCollection).Doc(id), func(b *entity.Booking) error {
		if err := fn(b); err != nil {
			return err
		}
		b.Version++
		return nil
	})
}

func (r *firestoreBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*entity.Booking, error) {
	bookings, err := readAll[entity.Booking](r.query(filter).Documents(ctx))
	return bookings, translateError("booking", err)
}

func (r *firestoreBookingRepository) Subscribe(ctx context.Context, filter repository.BookingFilter) (repository.Subscription[*entity.Booking], error) {
	return subscribe[entity.Booking](ctx, "booking", r.query(filter)), nil
}

func (r *firestoreBookingRepository) query(filter repository.BookingFilter) firestore.Query {
	query := r.client.Collection(bookingsCollection).Query
	switch filter.Role {
	case entity.ActorCustomer:
		query = query.Where("customerId", "==", filter.UserID)
	case entity.ActorProvider:
		query = query.Where("providerId", "==", filter.UserID)
	default:
		query = query.Where("participants", "array-contains", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}
	return query.OrderBy("createdAt", firestore.Desc)
}
