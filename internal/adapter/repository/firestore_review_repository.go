package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) CreateForBooking(ctx context.Context, review *entity.Review, check func(*entity.Booking) error) error {
	bookingRef := r.client.Collection(bookingsCollection).Doc(review.BookingID)
	reviewRef := r.client.Collection(reviewsCollection).Doc(review.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Firestore requires every read before the first write.
		bookingDoc, err := tx.Get(bookingRef)
		if err != nil {
			return err
		}
		booking, err := decode[entity.Booking](bookingDoc)
		if err != nil {
			return err
		}

		if err := check(booking); err != nil {
			return err
		}

		existing, err := tx.Get(reviewRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if existing != nil && existing.Exists() {
			return errors.NotEligible("booking has already been reviewed")
		}

		serviceRef := r.client.Collection(servicesCollection).Doc(booking.ServiceID)
		var service *entity.Service
		serviceDoc, err := tx.Get(serviceRef)
		switch {
		case err == nil:
			if service, err = decode[entity.Service](serviceDoc); err != nil {
				return err
			}
		case status.Code(err) != codes.NotFound:
			return err
		}

		if err := tx.Create(reviewRef, review); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Update(bookingRef, []firestore.Update{
			{Path: "hasReviewed", Value: true},
			{Path: "version", Value: firestore.Increment(1)},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		// A deleted listing keeps no aggregate.
		if service == nil {
			return nil
		}
		service.AddRating(review.Rating)
		return tx.Update(serviceRef, []firestore.Update{
			{Path: "ratingAverage", Value: service.RatingAverage},
			{Path: "reviewCount", Value: service.ReviewCount},
			{Path: "updatedAt", Value: now},
		})
	})
	if status.Code(err) == codes.AlreadyExists {
		return errors.NotEligible("booking has already been reviewed")
	}
	return translateError("booking", err)
}

func (r *firestoreReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	doc, err := r.client.Collection(reviewsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translateError("review", err)
	}
	return decode[entity.Review](doc)
}

func (r *firestoreReviewRepository) ListByService(ctx context.Context, serviceID string) ([]*entity.Review, error) {
	query := r.client.Collection(reviewsCollection).
		Where("serviceId", "==", serviceID).
		OrderBy("submittedAt", firestore.Desc)

	reviews, err := readAll[entity.Review](query.Documents(ctx))
	return reviews, translateError("review", err)
}
