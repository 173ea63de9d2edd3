package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"helperhive/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo) {
	healthHandler := handler.GetHealthHandler()
	e.GET("/health", healthHandler.CheckHealth)
	e.GET("/health/ready", healthHandler.CheckReadiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
