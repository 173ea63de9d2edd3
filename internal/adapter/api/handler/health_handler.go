package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck checks one backing dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
}

var healthHandler *HealthHandler

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
	}
}

func SetupHealthHandler(checks map[string]HealthCheck) {
	healthHandler = NewHealthHandler(checks)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// CheckReadiness reports 503 when any dependency check fails.
func (h *HealthHandler) CheckReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	return c.JSON(status, map[string]interface{}{
		"ready":  status == http.StatusOK,
		"checks": results,
	})
}
