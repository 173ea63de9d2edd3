package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
)

func SetupUserRouter(e *echo.Echo, mw Middlewares) {
	userHandler := handler.GetUserHandler()

	users := authenticated(e, "/v1/users", mw)
	users.GET("/me", userHandler.GetProfile)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.POST("/me/documents/:kind", userHandler.UploadDocument)
	users.POST("/me/onboarding", userHandler.SubmitOnboarding)
	users.PUT("/me/presence", userHandler.SetPresence)
}
