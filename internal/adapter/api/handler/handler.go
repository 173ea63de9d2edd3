package handler

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/middleware"
	"helperhive/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	serviceHandler      *ServiceHandler
	bookingHandler      *BookingHandler
	reviewHandler       *ReviewHandler
	chatHandler         *ChatHandler
	ticketHandler       *TicketHandler
	notificationHandler *NotificationHandler
	adminHandler        *AdminHandler
)

type UseCases struct {
	Auth         *usecase.AuthUseCase
	User         *usecase.UserUseCase
	Service      *usecase.ServiceUseCase
	Booking      *usecase.BookingUseCase
	Review       *usecase.ReviewUseCase
	Chat         *usecase.ChatUseCase
	Ticket       *usecase.TicketUseCase
	Notification *usecase.NotificationUseCase
	Moderation   *usecase.ModerationUseCase
}

func Setup(uc UseCases) {
	authHandler = NewAuthHandler(uc.Auth)
	userHandler = NewUserHandler(uc.User)
	serviceHandler = NewServiceHandler(uc.Service, uc.Review)
	bookingHandler = NewBookingHandler(uc.Booking)
	reviewHandler = NewReviewHandler(uc.Review)
	chatHandler = NewChatHandler(uc.Chat)
	ticketHandler = NewTicketHandler(uc.Ticket)
	notificationHandler = NewNotificationHandler(uc.Notification)
	adminHandler = NewAdminHandler(uc.Moderation)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetServiceHandler() *ServiceHandler {
	return serviceHandler
}

func GetBookingHandler() *BookingHandler {
	return bookingHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetTicketHandler() *TicketHandler {
	return ticketHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func currentUserID(c echo.Context) string {
	return middleware.UserID(c)
}

// bindAndValidate binds the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
