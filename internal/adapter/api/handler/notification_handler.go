package handler

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/usecase"
	"helperhive/pkg/response"
	"helperhive/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) ListMine(c echo.Context) error {
	notifications, err := h.notificationUseCase.ListMine(c.Request().Context(), currentUserID(c), utils.GetLimit(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, notifications, len(notifications))
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	if err := h.notificationUseCase.MarkRead(c.Request().Context(), currentUserID(c), c.Param("notificationId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"read": true})
}
