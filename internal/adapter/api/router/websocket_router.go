package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
)

func SetupWebSocketRouter(e *echo.Echo, mw Middlewares, wsHandler *handler.WebSocketHandler) {
	e.GET("/v1/ws", wsHandler.HandleWebSocket, mw.Auth.AuthenticateWebSocket)
}
