package entity

import "time"

type TicketStatus string

const (
	TicketOpen     TicketStatus = "Open"
	TicketResolved TicketStatus = "Resolved"
)

// Ticket is a dispute or support request raised by one user against another.
type Ticket struct {
	ID            string       `json:"id" firestore:"id"`
	FromID        string       `json:"from_id" firestore:"fromId"`
	AgainstID     string       `json:"against_id" firestore:"againstId"`
	ServiceID     string       `json:"service_id,omitempty" firestore:"serviceId,omitempty"`
	Subject       string       `json:"subject" firestore:"subject"`
	Description   string       `json:"description" firestore:"description"`
	Status        TicketStatus `json:"status" firestore:"status"`
	AdminResponse string       `json:"admin_response,omitempty" firestore:"adminResponse,omitempty"`
	ResolvedBy    string       `json:"resolved_by,omitempty" firestore:"resolvedBy,omitempty"`
	ResolvedAt    *time.Time   `json:"resolved_at,omitempty" firestore:"resolvedAt,omitempty"`
	CreatedAt     time.Time    `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time    `json:"updated_at" firestore:"updatedAt"`
}
