package handler

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/domain/entity"
	"helperhive/internal/usecase"
	"helperhive/pkg/response"
)

type ServiceHandler struct {
	serviceUseCase *usecase.ServiceUseCase
	reviewUseCase  *usecase.ReviewUseCase
}

func NewServiceHandler(serviceUseCase *usecase.ServiceUseCase, reviewUseCase *usecase.ReviewUseCase) *ServiceHandler {
	return &ServiceHandler{
		serviceUseCase: serviceUseCase,
		reviewUseCase:  reviewUseCase,
	}
}

type createListingRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=100"`
	Category     string `json:"category" validate:"required"`
	Description  string `json:"description" validate:"required,max=1000"`
	PriceRange   string `json:"price_range" validate:"required,max=50"`
	Availability string `json:"availability" validate:"omitempty,max=200"`
	City         string `json:"city" validate:"required,max=60"`
}

func (h *ServiceHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	service, err := h.serviceUseCase.CreateListing(c.Request().Context(), currentUserID(c), usecase.CreateListingInput{
		Name:         req.Name,
		Category:     entity.Category(req.Category),
		Description:  req.Description,
		PriceRange:   req.PriceRange,
		Availability: req.Availability,
		City:         req.City,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, service)
}

// ListApproved is the public catalog, optionally narrowed by ?category= and ?city=.
func (h *ServiceHandler) ListApproved(c echo.Context) error {
	services, err := h.serviceUseCase.ListApproved(
		c.Request().Context(),
		entity.Category(c.QueryParam("category")),
		c.QueryParam("city"),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, services, len(services))
}

func (h *ServiceHandler) ListMine(c echo.Context) error {
	services, err := h.serviceUseCase.ListByOwner(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, services, len(services))
}

func (h *ServiceHandler) GetListing(c echo.Context) error {
	service, err := h.serviceUseCase.GetListing(c.Request().Context(), currentUserID(c), c.Param("serviceId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, service)
}

func (h *ServiceHandler) DeleteListing(c echo.Context) error {
	if err := h.serviceUseCase.DeleteOwnListing(c.Request().Context(), currentUserID(c), c.Param("serviceId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Listing deleted"})
}

func (h *ServiceHandler) ListReviews(c echo.Context) error {
	reviews, err := h.reviewUseCase.ListServiceReviews(c.Request().Context(), c.Param("serviceId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, reviews, len(reviews))
}
