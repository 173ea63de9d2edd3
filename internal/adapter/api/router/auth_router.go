package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
)

func SetupAuthRouter(e *echo.Echo, mw Middlewares) {
	authHandler := handler.GetAuthHandler()

	public := e.Group("/v1/auth", mw.RateLimit)
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.POST("/forgot-password", authHandler.ForgotPassword)

	protected := authenticated(e, "/v1/auth", mw)
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
}
