package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedAppError(t *testing.T) {
	err := fmt.Errorf("context: %w", NotEligible("already reviewed"))

	assert.True(t, Is(err, CodeNotEligible))
	assert.False(t, Is(err, CodeConflict))
	assert.False(t, Is(fmt.Errorf("plain"), CodeNotEligible))
}

func TestConstructorsCarryHTTPStatus(t *testing.T) {
	cases := map[*AppError]int{
		NotFound("Booking", nil):          http.StatusNotFound,
		Forbidden("nope", nil):            http.StatusForbidden,
		InvalidInput("bad", nil):          http.StatusBadRequest,
		InvalidTransition("wrong state"):  http.StatusConflict,
		NotEligible("no"):                 http.StatusUnprocessableEntity,
		Conflict("raced", nil):            http.StatusConflict,
		Unavailable("store down", nil):    http.StatusServiceUnavailable,
		TooManyRequests("slow down"):      http.StatusTooManyRequests,
	}
	for appErr, status := range cases {
		assert.Equal(t, status, appErr.Status, appErr.Code)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("deadline")
	err := Unavailable("store unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "UNAVAILABLE: store unavailable", err.Error())
}
