package handler

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"helperhive/internal/domain/entity"
	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
	"helperhive/pkg/response"
)

type BookingHandler struct {
	bookingUseCase *usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase *usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

type createBookingRequest struct {
	ServiceID     string    `json:"service_id" validate:"required"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	DurationHours int       `json:"duration_hours" validate:"required,min=1,max=24"`
}

var bookingActions = map[string]entity.BookingAction{
	"accept":   entity.ActionAccept,
	"reject":   entity.ActionReject,
	"cancel":   entity.ActionCancel,
	"complete": entity.ActionComplete,
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	booking, err := h.bookingUseCase.CreateBooking(c.Request().Context(), currentUserID(c), usecase.CreateBookingInput{
		ServiceID:     req.ServiceID,
		ScheduledAt:   req.ScheduledAt,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, booking)
}

// Transition applies /bookings/:bookingId/:action for the caller.
func (h *BookingHandler) Transition(c echo.Context) error {
	action, ok := bookingActions[strings.ToLower(c.Param("action"))]
	if !ok {
		return response.Error(c, errors.InvalidInput("action must be one of: accept reject cancel complete", nil))
	}

	booking, err := h.bookingUseCase.Transition(c.Request().Context(), c.Param("bookingId"), currentUserID(c), action)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, booking)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	view, err := h.bookingUseCase.GetBooking(c.Request().Context(), currentUserID(c), c.Param("bookingId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

// ListBookings takes ?role=customer|provider and an optional ?status=.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	views, err := h.bookingUseCase.ListBookings(
		c.Request().Context(),
		currentUserID(c),
		entity.ActorRole(c.QueryParam("role")),
		entity.BookingStatus(c.QueryParam("status")),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, views, len(views))
}

func (h *BookingHandler) ReviewEligibility(c echo.Context) error {
	eligible, err := h.bookingUseCase.IsReviewEligible(c.Request().Context(), c.Param("bookingId"), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"eligible": eligible})
}
