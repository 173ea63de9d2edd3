package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
)

func SetupServiceRouter(e *echo.Echo, mw Middlewares) {
	serviceHandler := handler.GetServiceHandler()

	public := e.Group("/v1/services", mw.Auth.OptionalAuthenticate, mw.RateLimit)
	public.GET("", serviceHandler.ListApproved)
	public.GET("/:serviceId", serviceHandler.GetListing)
	public.GET("/:serviceId/reviews", serviceHandler.ListReviews)

	owner := authenticated(e, "/v1/provider/services", mw)
	owner.POST("", serviceHandler.CreateListing)
	owner.GET("", serviceHandler.ListMine)
	owner.DELETE("/:serviceId", serviceHandler.DeleteListing)
}
