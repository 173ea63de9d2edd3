package middleware

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
	"helperhive/pkg/response"
)

type AdminMiddleware struct {
	userRepo repository.UserRepository
}

func NewAdminMiddleware(userRepo repository.UserRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

// AdminOnly must run after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := UserID(c)
		if uid == "" {
			return response.Error(c, errors.Unauthorized("authentication required", nil))
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				return response.Error(c, errors.Forbidden("admin privileges required", nil))
			}
			return response.Error(c, err)
		}

		if !user.IsAdmin {
			return response.Error(c, errors.Forbidden("admin privileges required", nil))
		}

		return next(c)
	}
}
