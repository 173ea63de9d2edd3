package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"helperhive/pkg/errors"
	"helperhive/pkg/response"
)

const ContextUserID = "uid"

type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return response.Error(c, errors.Unauthorized("authorization header is required", nil))
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, errors.Unauthorized("invalid or expired token", err))
		}

		c.Set(ContextUserID, uid)
		return next(c)
	}
}

// AuthenticateWebSocket also accepts the token as a query parameter, since
// browsers cannot set headers on an upgrade request.
func (m *AuthMiddleware) AuthenticateWebSocket(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			idToken = c.QueryParam("token")
		}
		if idToken == "" {
			return response.Error(c, errors.Unauthorized("token is required", nil))
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, errors.Unauthorized("invalid or expired token", err))
		}

		c.Set(ContextUserID, uid)
		return next(c)
	}
}

// OptionalAuthenticate sets the user when a valid token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return next(c)
		}

		if uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken); err == nil {
			c.Set(ContextUserID, uid)
		}
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// UserID returns the authenticated user, or "" outside Authenticate.
func UserID(c echo.Context) string {
	uid, _ := c.Get(ContextUserID).(string)
	return uid
}
