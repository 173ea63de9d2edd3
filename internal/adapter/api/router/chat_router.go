package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
)

func SetupChatRouter(e *echo.Echo, mw Middlewares) {
	chatHandler := handler.GetChatHandler()

	chat := authenticated(e, "/v1", mw)
	chat.POST("/messages", chatHandler.SendMessage)
	chat.GET("/conversations", chatHandler.ListConversations)
	chat.GET("/conversations/:userId", chatHandler.GetConversation)
}
