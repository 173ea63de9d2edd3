package handler

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/domain/entity"
	"helperhive/internal/usecase"
	"helperhive/pkg/response"
)

// AdminHandler serves the moderation queues. Every use case call re-checks
// the caller's admin flag.
type AdminHandler struct {
	moderationUseCase *usecase.ModerationUseCase
}

func NewAdminHandler(moderationUseCase *usecase.ModerationUseCase) *AdminHandler {
	return &AdminHandler{
		moderationUseCase: moderationUseCase,
	}
}

type rejectOnboardingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type resolveTicketRequest struct {
	Response string `json:"response" validate:"max=2000"`
}

func (h *AdminHandler) PendingOnboarding(c echo.Context) error {
	users, err := h.moderationUseCase.PendingOnboarding(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, users, len(users))
}

func (h *AdminHandler) ApproveOnboarding(c echo.Context) error {
	user, err := h.moderationUseCase.ApproveOnboarding(c.Request().Context(), currentUserID(c), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *AdminHandler) RejectOnboarding(c echo.Context) error {
	var req rejectOnboardingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.moderationUseCase.RejectOnboarding(c.Request().Context(), currentUserID(c), c.Param("userId"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *AdminHandler) Providers(c echo.Context) error {
	users, err := h.moderationUseCase.Providers(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, users, len(users))
}

func (h *AdminHandler) RemoveProvider(c echo.Context) error {
	removed, err := h.moderationUseCase.RemoveProvider(c.Request().Context(), currentUserID(c), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"listings_removed": removed})
}

// Listings defaults to the pending queue.
func (h *AdminHandler) Listings(c echo.Context) error {
	status := entity.ServiceStatus(c.QueryParam("status"))
	if status == "" {
		status = entity.ServicePending
	}

	services, err := h.moderationUseCase.ListingsByStatus(c.Request().Context(), currentUserID(c), status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, services, len(services))
}

func (h *AdminHandler) ApproveListing(c echo.Context) error {
	service, err := h.moderationUseCase.ApproveListing(c.Request().Context(), currentUserID(c), c.Param("serviceId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, service)
}

func (h *AdminHandler) SuspendListing(c echo.Context) error {
	service, err := h.moderationUseCase.SuspendListing(c.Request().Context(), currentUserID(c), c.Param("serviceId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, service)
}

func (h *AdminHandler) DeleteListing(c echo.Context) error {
	if err := h.moderationUseCase.DeleteListing(c.Request().Context(), currentUserID(c), c.Param("serviceId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Listing deleted"})
}

func (h *AdminHandler) OpenTickets(c echo.Context) error {
	tickets, err := h.moderationUseCase.OpenTickets(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, tickets, len(tickets))
}

func (h *AdminHandler) ResolveTicket(c echo.Context) error {
	var req resolveTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	ticket, err := h.moderationUseCase.ResolveTicket(c.Request().Context(), currentUserID(c), c.Param("ticketId"), req.Response)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ticket)
}
