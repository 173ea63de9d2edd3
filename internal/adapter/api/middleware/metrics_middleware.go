package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"helperhive/internal/infrastructure/metrics"
)

// Metrics records request latency by route template.
func Metrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}
