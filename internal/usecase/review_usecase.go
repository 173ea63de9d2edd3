package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/internal/infrastructure/metrics"
	"helperhive/pkg/errors"
)

const MaxReviewLength = 300

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	clock      Clock
}

func NewReviewUseCase(reviewRepo repository.ReviewRepository, clock Clock) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		clock:      clock,
	}
}

type SubmitReviewInput struct {
	BookingID string
	Rating    int
	Text      string
}

// SubmitReview records the customer's single review of a completed booking.
// The eligibility check, the review write and the booking's hasReviewed flag
// commit together or not at all.
func (uc *ReviewUseCase) SubmitReview(ctx context.Context, reviewerID string, input SubmitReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.InvalidInput("rating must be between 1 and 5", nil)
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.InvalidInput("review text is required", nil)
	}
	if utf8.RuneCountInString(text) > MaxReviewLength {
		return nil, errors.InvalidInput(fmt.Sprintf("review text cannot exceed %d characters", MaxReviewLength), nil)
	}

	review := &entity.Review{
		ID:          entity.ReviewID(input.BookingID, reviewerID),
		BookingID:   input.BookingID,
		ReviewerID:  reviewerID,
		Rating:      input.Rating,
		Text:        text,
		SubmittedAt: uc.clock.Now(),
	}

	err := uc.reviewRepo.CreateForBooking(ctx, review, func(b *entity.Booking) error {
		switch {
		case b.CustomerID != reviewerID:
			return errors.NotEligible("only the customer of this booking can review it")
		case b.Status != entity.BookingCompleted:
			return errors.NotEligible("only completed bookings can be reviewed")
		case b.HasReviewed:
			return errors.NotEligible("booking has already been reviewed")
		}
		review.ServiceID = b.ServiceID
		review.ProviderID = b.ProviderID
		return nil
	})
	metrics.ReviewsSubmitted.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	return review, nil
}

func (uc *ReviewUseCase) ListServiceReviews(ctx context.Context, serviceID string) ([]*entity.Review, error) {
	return uc.reviewRepo.ListByService(ctx, serviceID)
}
