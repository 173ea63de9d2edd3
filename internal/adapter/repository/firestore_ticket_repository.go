package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
)

type firestoreTicketRepository struct {
	client *firestore.Client
}

func NewFirestoreTicketRepository(client *firestore.Client) repository.TicketRepository {
	return &firestoreTicketRepository{
		client: client,
	}
}

func (r *firestoreTicketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	_, err := r.client.Collection(ticketsCollection).Doc(ticket.ID).Create(ctx, ticket)
	return translateError("ticket", err)
}

func (r *firestoreTicketRepository) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	doc, err := r.client.Collection(ticketsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translateError("ticket", err)
	}
	return decode[entity.Ticket](doc)
}

func (r *firestoreTicketRepository) Mutate(ctx context.Context, id string, fn func(*entity.Ticket) error) (*entity.Ticket, error) {
	return mutate(ctx, r.client, "ticket", r.client.Collection(ticketsCollection).Doc(id), fn)
}

func (r *firestoreTicketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]*entity.Ticket, error) {
	query := r.client.Collection(ticketsCollection).Query
	if filter.FromID != "" {
		query = query.Where("fromId", "==", filter.FromID)
	}
	if filter.AgainstID != "" {
		query = query.Where("againstId", "==", filter.AgainstID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	tickets, err := readAll[entity.Ticket](query.Documents(ctx))
	return tickets, translateError("ticket", err)
}
