package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
	"helperhive/pkg/response"
)

// RateLimit throttles requests per authenticated user, or per client IP
// before authentication.
func RateLimit(limiter usecase.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := UserID(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			allowed, wait := limiter.Allow(key, action)
			if !allowed {
				logger.Debug("Rate limit hit for %s on %s", key, action)
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("too many requests, please slow down"))
			}

			return next(c)
		}
	}
}
