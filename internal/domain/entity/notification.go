package entity

import "time"

type NotificationKind string

const (
	NotifyBookingRequested   NotificationKind = "booking_requested"
	NotifyBookingAccepted    NotificationKind = "booking_accepted"
	NotifyBookingRejected    NotificationKind = "booking_rejected"
	NotifyBookingCanceled    NotificationKind = "booking_canceled"
	NotifyBookingCompleted   NotificationKind = "booking_completed"
	NotifyOnboardingApproved NotificationKind = "onboarding_approved"
	NotifyOnboardingRejected NotificationKind = "onboarding_rejected"
	NotifyTicketResolved     NotificationKind = "ticket_resolved"
)

type Notification struct {
	ID          string           `json:"id" firestore:"id"`
	RecipientID string           `json:"recipient_id" firestore:"recipientId"`
	Kind        NotificationKind `json:"kind" firestore:"kind"`
	Message     string           `json:"message" firestore:"message"`
	BookingID   string           `json:"booking_id,omitempty" firestore:"bookingId,omitempty"`
	TicketID    string           `json:"ticket_id,omitempty" firestore:"ticketId,omitempty"`
	Read        bool             `json:"read" firestore:"read"`
	CreatedAt   time.Time        `json:"created_at" firestore:"createdAt"`
}
