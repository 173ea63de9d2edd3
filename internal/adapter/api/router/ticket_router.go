package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
)

func SetupTicketRouter(e *echo.Echo, mw Middlewares) {
	ticketHandler := handler.GetTicketHandler()

	tickets := authenticated(e, "/v1/tickets", mw)
	tickets.POST("", ticketHandler.CreateTicket)
	tickets.GET("/mine", ticketHandler.ListMine)
}
