package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetLimit(t *testing.T) {
	cases := map[string]int{
		"":            DefaultLimit,
		"?limit=x":    DefaultLimit,
		"?limit=0":    DefaultLimit,
		"?limit=25":   25,
		"?limit=1000": MaxLimit,
	}

	e := echo.New()
	for query, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/"+query, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		assert.Equal(t, want, GetLimit(c), query)
	}
}
