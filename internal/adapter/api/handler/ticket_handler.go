package handler

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/usecase"
	"helperhive/pkg/response"
)

type TicketHandler struct {
	ticketUseCase *usecase.TicketUseCase
}

func NewTicketHandler(ticketUseCase *usecase.TicketUseCase) *TicketHandler {
	return &TicketHandler{
		ticketUseCase: ticketUseCase,
	}
}

type createTicketRequest struct {
	AgainstID   string `json:"against_id" validate:"required"`
	ServiceID   string `json:"service_id"`
	Subject     string `json:"subject" validate:"required,max=120"`
	Description string `json:"description" validate:"required,max=2000"`
}

func (h *TicketHandler) CreateTicket(c echo.Context) error {
	var req createTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	ticket, err := h.ticketUseCase.CreateTicket(c.Request().Context(), currentUserID(c), usecase.CreateTicketInput{
		AgainstID:   req.AgainstID,
		ServiceID:   req.ServiceID,
		Subject:     req.Subject,
		Description: req.Description,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, ticket)
}

func (h *TicketHandler) ListMine(c echo.Context) error {
	tickets, err := h.ticketUseCase.ListMyTickets(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, tickets, len(tickets))
}
