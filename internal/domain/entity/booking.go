package entity

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingRejected  BookingStatus = "Rejected"
	BookingCanceled  BookingStatus = "Canceled"
	BookingCompleted BookingStatus = "Completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCanceled, BookingCompleted:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingRejected || s == BookingCanceled || s == BookingCompleted
}

type BookingAction string

const (
	ActionAccept   BookingAction = "Accept"
	ActionReject   BookingAction = "Reject"
	ActionCancel   BookingAction = "Cancel"
	ActionComplete BookingAction = "Complete"
)

type ActorRole string

const (
	ActorCustomer ActorRole = "customer"
	ActorProvider ActorRole = "provider"
)

// BookingTransition is one edge of the booking state machine.
type BookingTransition struct {
	From  BookingStatus
	Actor ActorRole
	To    BookingStatus
}

// bookingTransitions is the complete state table. No other edges exist.
var bookingTransitions = map[BookingAction]BookingTransition{
	ActionAccept:   {From: BookingPending, Actor: ActorProvider, To: BookingConfirmed},
	ActionReject:   {From: BookingPending, Actor: ActorProvider, To: BookingRejected},
	ActionCancel:   {From: BookingPending, Actor: ActorCustomer, To: BookingCanceled},
	ActionComplete: {From: BookingConfirmed, Actor: ActorProvider, To: BookingCompleted},
}

func (a BookingAction) Transition() (BookingTransition, bool) {
	t, ok := bookingTransitions[a]
	return t, ok
}

type Booking struct {
	ID            string        `json:"id" firestore:"id"`
	CustomerID    string        `json:"customer_id" firestore:"customerId"`
	ProviderID    string        `json:"provider_id" firestore:"providerId"`
	ServiceID     string        `json:"service_id" firestore:"serviceId"`
	ServiceName   string        `json:"service_name" firestore:"serviceName"`
	ScheduledAt   time.Time     `json:"scheduled_at" firestore:"scheduledAt"`
	DurationHours int           `json:"duration_hours" firestore:"durationHours"`
	Status        BookingStatus `json:"status" firestore:"status"`
	HasReviewed   bool          `json:"has_reviewed" firestore:"hasReviewed"`
	Participants  []string      `json:"participants" firestore:"participants"`
	Version       int64         `json:"version" firestore:"version"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" firestore:"confirmedAt,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty" firestore:"rejectedAt,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty" firestore:"canceledAt,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// RoleOf returns the role userID plays in the booking, or "" for outsiders.
func (b *Booking) RoleOf(userID string) ActorRole {
	switch userID {
	case b.CustomerID:
		return ActorCustomer
	case b.ProviderID:
		return ActorProvider
	}
	return ""
}

func (b *Booking) IsParticipant(userID string) bool {
	return b.RoleOf(userID) != ""
}

// Permits reports whether userID may perform action from the current state.
func (b *Booking) Permits(action BookingAction, userID string) bool {
	t, ok := action.Transition()
	return ok && b.Status == t.From && b.RoleOf(userID) == t.Actor
}

// ReviewableBy is the single definition of review eligibility.
func (b *Booking) ReviewableBy(reviewerID string) bool {
	return b.Status == BookingCompleted && b.CustomerID == reviewerID && !b.HasReviewed
}

// Stamp records the time a transition into status happened.
func (b *Booking) Stamp(status BookingStatus, at time.Time) {
	switch status {
	case BookingConfirmed:
		b.ConfirmedAt = &at
	case BookingRejected:
		b.RejectedAt = &at
	case BookingCanceled:
		b.CanceledAt = &at
	case BookingCompleted:
		b.CompletedAt = &at
	}
}

// BookingFlags are derived, read-only UI hints. They are never persisted.
type BookingFlags struct {
	CanAccept   bool `json:"can_accept"`
	CanReject   bool `json:"can_reject"`
	CanCancel   bool `json:"can_cancel"`
	CanComplete bool `json:"can_complete"`
	CanReview   bool `json:"can_review"`
	CanMessage  bool `json:"can_message"`
}

func (b *Booking) FlagsFor(userID string) BookingFlags {
	return BookingFlags{
		CanAccept:   b.Permits(ActionAccept, userID),
		CanReject:   b.Permits(ActionReject, userID),
		CanCancel:   b.Permits(ActionCancel, userID),
		CanComplete: b.Permits(ActionComplete, userID),
		CanReview:   b.ReviewableBy(userID),
		CanMessage:  b.IsParticipant(userID) && (b.Status == BookingPending || b.Status == BookingConfirmed || b.Status == BookingCompleted),
	}
}
