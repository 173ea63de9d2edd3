package handler

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/usecase"
	"helperhive/pkg/response"
	"helperhive/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), currentUserID(c), req.RecipientID, req.Body)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	summaries, err := h.chatUseCase.ListConversations(c.Request().Context(), currentUserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, summaries, len(summaries))
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	messages, err := h.chatUseCase.GetConversation(
		c.Request().Context(),
		currentUserID(c),
		c.Param("userId"),
		utils.GetLimit(c),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, messages, len(messages))
}
