package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotEligible       = "NOT_ELIGIBLE"
	CodeConflict          = "CONFLICT"
	CodeUnavailable       = "UNAVAILABLE"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
	CodeInternal          = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func InvalidInput(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// InvalidTransition reports a state machine violation: the document exists and
// the actor is allowed, but the current state does not permit the action.
func InvalidTransition(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func NotEligible(message string) *AppError {
	return &AppError{
		Code:    CodeNotEligible,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

func Unavailable(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnavailable,
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:    CodeTooManyRequests,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As is a thin re-export so callers importing this package under the name
// "errors" do not also need the standard library package.
func As(err error, target any) bool {
	return errors.As(err, target)
}
