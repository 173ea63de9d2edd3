package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
)

func SetupAdminRouter(e *echo.Echo, mw Middlewares) {
	adminHandler := handler.GetAdminHandler()

	admin := authenticated(e, "/v1/admin", mw)
	admin.Use(mw.Admin.AdminOnly)

	admin.GET("/onboarding", adminHandler.PendingOnboarding)
	admin.POST("/onboarding/:userId/approve", adminHandler.ApproveOnboarding)
	admin.POST("/onboarding/:userId/reject", adminHandler.RejectOnboarding)

	admin.GET("/providers", adminHandler.Providers)
	admin.DELETE("/providers/:userId", adminHandler.RemoveProvider)

	admin.GET("/services", adminHandler.Listings)
	admin.POST("/services/:serviceId/approve", adminHandler.ApproveListing)
	admin.POST("/services/:serviceId/suspend", adminHandler.SuspendListing)
	admin.DELETE("/services/:serviceId", adminHandler.DeleteListing)

	admin.GET("/tickets", adminHandler.OpenTickets)
	admin.POST("/tickets/:ticketId/resolve", adminHandler.ResolveTicket)
}
