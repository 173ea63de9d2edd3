package entity

import (
	"time"
)

// Review is immutable once written. Its ID is derived from the booking and
// reviewer so a second write for the same pair collides.
type Review struct {
	ID          string    `json:"id" firestore:"id"`
	BookingID   string    `json:"booking_id" firestore:"bookingId"`
	ServiceID   string    `json:"service_id" firestore:"serviceId"`
	ProviderID  string    `json:"provider_id" firestore:"providerId"`
	ReviewerID  string    `json:"reviewer_id" firestore:"reviewerId"`
	Rating      int       `json:"rating" firestore:"rating"`
	Text        string    `json:"text" firestore:"text"`
	SubmittedAt time.Time `json:"submitted_at" firestore:"submittedAt"`
}

func ReviewID(bookingID, reviewerID string) string {
	return bookingID + "_" + reviewerID
}
