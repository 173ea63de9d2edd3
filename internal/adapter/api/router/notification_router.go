package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
)

func SetupNotificationRouter(e *echo.Echo, mw Middlewares) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := authenticated(e, "/v1/notifications", mw)
	notifications.GET("", notificationHandler.ListMine)
	notifications.POST("/:notificationId/read", notificationHandler.MarkRead)
}
