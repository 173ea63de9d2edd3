package handler

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/usecase"
	"helperhive/pkg/response"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type submitReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text"`
}

func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	var req submitReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.SubmitReview(c.Request().Context(), currentUserID(c), usecase.SubmitReviewInput{
		BookingID: c.Param("bookingId"),
		Rating:    req.Rating,
		Text:      req.Text,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}
