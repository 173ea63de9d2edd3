package entity

import (
	"time"
)

type OnboardingStatus string

const (
	OnboardingNone     OnboardingStatus = "None"
	OnboardingPending  OnboardingStatus = "Pending"
	OnboardingApproved OnboardingStatus = "Approved"
	OnboardingRejected OnboardingStatus = "Rejected"
)

type User struct {
	ID          string    `json:"id" firestore:"id"`
	Name        string    `json:"name" firestore:"name"`
	Email       string    `json:"email" firestore:"email"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Address     string    `json:"address,omitempty" firestore:"address,omitempty"`
	City        string    `json:"city,omitempty" firestore:"city,omitempty"`
	DateOfBirth time.Time `json:"date_of_birth,omitempty" firestore:"dateOfBirth,omitempty"`

	IsServiceProvider bool `json:"is_service_provider" firestore:"isServiceProvider"`
	IsAdmin           bool `json:"is_admin" firestore:"isAdmin"`

	// Onboarding
	RequestStatus   OnboardingStatus `json:"request_status" firestore:"requestStatus"`
	RejectionReason string           `json:"rejection_reason,omitempty" firestore:"rejectionReason,omitempty"`
	RequestedAt     *time.Time       `json:"requested_at,omitempty" firestore:"requestedAt,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty" firestore:"reviewedAt,omitempty"`
	ReviewedBy      string           `json:"reviewed_by,omitempty" firestore:"reviewedBy,omitempty"`

	// Verification artifacts, opaque blob references
	AvatarURL  string `json:"avatar_url,omitempty" firestore:"avatarUrl,omitempty"`
	IDFrontURL string `json:"id_front_url,omitempty" firestore:"idFrontUrl,omitempty"`
	IDBackURL  string `json:"id_back_url,omitempty" firestore:"idBackUrl,omitempty"`

	// Presence
	IsOnline bool       `json:"is_online" firestore:"isOnline"`
	LastSeen *time.Time `json:"last_seen,omitempty" firestore:"lastSeen,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// CanSubmitOnboarding reports whether a new onboarding request is accepted.
// A rejected request may be resubmitted.
func (u *User) CanSubmitOnboarding() bool {
	return u.RequestStatus == OnboardingNone || u.RequestStatus == OnboardingRejected || u.RequestStatus == ""
}
