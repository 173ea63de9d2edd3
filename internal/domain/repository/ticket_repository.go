package repository

import (
	"context"

	"helperhive/internal/domain/entity"
)

type TicketFilter struct {
	FromID    string
	AgainstID string
	Status    entity.TicketStatus
}

func (f TicketFilter) Matches(t *entity.Ticket) bool {
	return (f.FromID == "" || t.FromID == f.FromID) &&
		(f.AgainstID == "" || t.AgainstID == f.AgainstID) &&
		(f.Status == "" || t.Status == f.Status)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	Mutate(ctx context.Context, id string, fn func(ticket *entity.Ticket) error) (*entity.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*entity.Ticket, error)
}
