package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
	"helperhive/internal/adapter/api/middleware"
	"helperhive/internal/infrastructure/ratelimit"
	"helperhive/internal/usecase"
)

type Middlewares struct {
	Auth      *middleware.AuthMiddleware
	Admin     *middleware.AdminMiddleware
	RateLimit echo.MiddlewareFunc
}

func NewMiddlewares(auth *middleware.AuthMiddleware, admin *middleware.AdminMiddleware, limiter usecase.RateLimiter) Middlewares {
	return Middlewares{
		Auth:      auth,
		Admin:     admin,
		RateLimit: middleware.RateLimit(limiter, ratelimit.ActionAPI),
	}
}

// Setup registers every route. handler.Setup must have run first.
func Setup(e *echo.Echo, mw Middlewares, wsHandler *handler.WebSocketHandler) {
	SetupAuthRouter(e, mw)
	SetupUserRouter(e, mw)
	SetupServiceRouter(e, mw)
	SetupBookingRouter(e, mw)
	SetupChatRouter(e, mw)
	SetupTicketRouter(e, mw)
	SetupNotificationRouter(e, mw)
	SetupAdminRouter(e, mw)
	SetupHealthRouter(e)
	SetupWebSocketRouter(e, mw, wsHandler)
}

// authenticated is a group that requires a verified token and is rate limited
// per user.
func authenticated(e *echo.Echo, prefix string, mw Middlewares) *echo.Group {
	return e.Group(prefix, mw.Auth.Authenticate, mw.RateLimit)
}
