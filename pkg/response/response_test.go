package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "helperhive/pkg/errors"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestErrorMapsAppErrorStatusAndCode(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, Error(c, apperrors.NotEligible("booking already reviewed")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, apperrors.CodeNotEligible, body.Error.Code)
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, Error(c, assert.AnError))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestCreatedWrapsData(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, Created(c, map[string]string{"id": "b1"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"b1"`)
}
