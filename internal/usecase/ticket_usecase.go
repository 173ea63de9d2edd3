package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
)

type TicketUseCase struct {
	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository
	clock      Clock
}

func NewTicketUseCase(ticketRepo repository.TicketRepository, userRepo repository.UserRepository, clock Clock) *TicketUseCase {
	return &TicketUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		clock:      clock,
	}
}

type CreateTicketInput struct {
	AgainstID   string
	ServiceID   string
	Subject     string
	Description string
}

func (uc *TicketUseCase) CreateTicket(ctx context.Context, fromID string, input CreateTicketInput) (*entity.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if input.AgainstID == "" || subject == "" || description == "" {
		return nil, errors.InvalidInput("against, subject and description are required", nil)
	}
	if input.AgainstID == fromID {
		return nil, errors.InvalidInput("you cannot raise a ticket against yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.AgainstID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	ticket := &entity.Ticket{
		ID:          uuid.New().String(),
		FromID:      fromID,
		AgainstID:   input.AgainstID,
		ServiceID:   input.ServiceID,
		Subject:     subject,
		Description: description,
		Status:      entity.TicketOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (uc *TicketUseCase) ListMyTickets(ctx context.Context, userID string) ([]*entity.Ticket, error) {
	return uc.ticketRepo.List(ctx, repository.TicketFilter{FromID: userID})
}
