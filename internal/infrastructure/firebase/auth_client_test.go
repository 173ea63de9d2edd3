package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhive/pkg/errors"
)

func newTestClient(endpoint string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: time.Second},
		breaker:    newSignInBreaker(),
		endpoint:   endpoint,
	}
}

func TestSignInWithEmailPassword_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req signInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sara@example.test", req.Email)
		assert.True(t, req.ReturnSecureToken)

		_ = json.NewEncoder(w).Encode(signInResponse{LocalID: "uid-1", IDToken: "id", RefreshToken: "refresh", ExpiresIn: "3600"})
	}))
	defer server.Close()

	session, err := newTestClient(server.URL).SignInWithEmailPassword(context.Background(), "sara@example.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", session.UserID)
	assert.Equal(t, 3600, session.ExpiresIn)
}

func TestSignInWithEmailPassword_WrongPasswordDoesNotTripBreaker(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"INVALID_PASSWORD"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for i := 0; i < 10; i++ {
		_, err := client.SignInWithEmailPassword(context.Background(), "sara@example.test", "bad")
		assert.True(t, errors.Is(err, errors.CodeUnauthorized))
	}
	assert.Equal(t, int32(10), atomic.LoadInt32(&calls))
}

func TestSignInWithEmailPassword_BreakerOpensOnProviderFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for i := 0; i < 10; i++ {
		_, err := client.SignInWithEmailPassword(context.Background(), "sara@example.test", "pw")
		assert.True(t, errors.Is(err, errors.CodeUnavailable))
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}
