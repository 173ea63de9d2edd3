package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/sony/gobreaker"

	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

type FirebaseAuthClient struct {
	client     *auth.Client
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	endpoint   string
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    newSignInBreaker(),
		endpoint:   signInEndpoint,
	}
}

func newSignInBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "identity-sign-in",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		// Wrong credentials are the caller's problem, not the provider's.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errors.CodeUnauthorized) || errors.Is(err, errors.CodeInvalidInput)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker %s changed from %s to %s", name, from, to)
		},
	})
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		switch {
		case auth.IsEmailAlreadyExists(err):
			return "", errors.Conflict("email already in use", err)
		case auth.IsInvalidEmail(err):
			return "", errors.InvalidInput("invalid email address", err)
		}
		return "", errors.Internal("failed to create account", err)
	}

	return user.UID, nil
}

// VerifyToken accepts only unrevoked ID tokens.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, idToken string) (string, error) {
	result, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return "", errors.Unauthorized("invalid or revoked token", err)
	}

	return result.UID, nil
}

func (f *FirebaseAuthClient) GetIdentity(ctx context.Context, uid string) (*usecase.Identity, error) {
	record, err := f.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, errors.NotFound("account", err)
		}
		return nil, errors.Unavailable("identity provider unavailable", err)
	}

	return &usecase.Identity{
		UserID:        record.UID,
		Email:         record.Email,
		EmailVerified: record.EmailVerified,
	}, nil
}

func (f *FirebaseAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	if err := f.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return errors.Unavailable("failed to revoke sessions", err)
	}
	return nil
}

func (f *FirebaseAuthClient) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := f.client.PasswordResetLink(ctx, email)
	if err != nil {
		if auth.IsEmailNotFound(err) || auth.IsUserNotFound(err) {
			return "", errors.NotFound("account", err)
		}
		return "", errors.Unavailable("failed to create password reset link", err)
	}
	return link, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type signInError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithEmailPassword exchanges credentials for an ID token through the
// identity toolkit REST API. The Admin SDK has no password sign-in.
func (f *FirebaseAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (*usecase.Session, error) {
	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.signIn(ctx, email, password)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, errors.Unavailable("identity provider temporarily unavailable", err)
		}
		return nil, err
	}
	return result.(*usecase.Session), nil
}

func (f *FirebaseAuthClient) signIn(ctx context.Context, email, password string) (*usecase.Session, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, errors.Internal("failed to encode sign-in request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint+"?key="+f.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Internal("failed to build sign-in request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Unavailable("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr signInError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if resp.StatusCode == http.StatusBadRequest {
			return nil, errors.Unauthorized("invalid email or password", fmt.Errorf("sign-in rejected: %s", apiErr.Error.Message))
		}
		return nil, errors.Unavailable("identity provider error", fmt.Errorf("sign-in status %d: %s", resp.StatusCode, apiErr.Error.Message))
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Unavailable("malformed identity provider response", err)
	}

	expiresIn, _ := strconv.Atoi(out.ExpiresIn)
	return &usecase.Session{
		UserID:       out.LocalID,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}
