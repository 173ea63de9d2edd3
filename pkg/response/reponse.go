package response

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "helperhive/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

func List(c echo.Context, items interface{}, total int) error {
	return c.JSON(http.StatusOK, Response{
		Success:   true,
		Timestamp: now(),
		Data: ListResponse{
			Items: items,
			Total: total,
		},
	})
}

func Error(c echo.Context, err error) error {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return handleValidationError(c, validationErr)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, Response{
			Success:   false,
			Timestamp: now(),
			Error: &ErrorInfo{
				Code:    appErr.Code,
				Message: appErr.Message,
			},
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return c.JSON(httpErr.Code, Response{
			Success:   false,
			Timestamp: now(),
			Error: &ErrorInfo{
				Code:    apperrors.CodeInvalidInput,
				Message: http.StatusText(httpErr.Code),
			},
		})
	}

	return c.JSON(http.StatusInternalServerError, Response{
		Success:   false,
		Timestamp: now(),
		Error: &ErrorInfo{
			Code:    apperrors.CodeInternal,
			Message: "An unexpected error occurred",
		},
	})
}

func handleValidationError(c echo.Context, validationErr validator.ValidationErrors) error {
	message := "Invalid input data"
	if len(validationErr) > 0 {
		err := validationErr[0]
		field := strings.ToLower(err.Field())
		param := err.Param()

		switch err.Tag() {
		case "required":
			message = field + " is required"
		case "min":
			message = field + " must be at least " + param
		case "max":
			message = field + " must be at most " + param
		case "oneof":
			message = field + " must be one of: " + param
		case "email":
			message = field + " must be a valid email address"
		default:
			message = field + " is invalid"
		}
	}

	return c.JSON(http.StatusBadRequest, Response{
		Success:   false,
		Timestamp: now(),
		Error: &ErrorInfo{
			Code:    apperrors.CodeInvalidInput,
			Message: message,
		},
	})
}
