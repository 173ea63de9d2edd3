package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhive/internal/domain/entity"
	"helperhive/internal/mocks"
	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
)

func newAuthFixture(t *testing.T) (*fixture, *mocks.MockAuthClient, *mocks.MockMailer, *usecase.AuthUseCase) {
	t.Helper()
	f := newFixture(t)
	auth := mocks.NewMockAuthClient()
	mailer := &mocks.MockMailer{}
	return f, auth, mailer, usecase.NewAuthUseCase(f.store.Users(), auth, mailer, f.clock)
}

func TestRegisterAndLogin(t *testing.T) {
	f, auth, _, uc := newAuthFixture(t)

	result, err := uc.Register(f.ctx, usecase.RegisterInput{
		Name:     "Sara",
		Email:    " Sara@Example.test ",
		Password: "secret123",
		City:     "Lahore",
	})
	require.NoError(t, err)
	assert.Equal(t, "sara@example.test", result.User.Email)
	assert.Equal(t, entity.OnboardingNone, result.User.RequestStatus)
	assert.False(t, result.User.IsServiceProvider)
	require.NotNil(t, result.Session)

	uid, err := auth.VerifyToken(f.ctx, result.Session.IDToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, uid)

	_, err = uc.Register(f.ctx, usecase.RegisterInput{Name: "Dup", Email: "sara@example.test", Password: "x"})
	assert.True(t, errors.Is(err, errors.CodeConflict))

	login, err := uc.Login(f.ctx, "sara@example.test", "secret123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	_, err = uc.Login(f.ctx, "sara@example.test", "wrong")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}

func TestLogoutRevokesTokens(t *testing.T) {
	f, auth, _, uc := newAuthFixture(t)

	result, err := uc.Register(f.ctx, usecase.RegisterInput{Name: "Omar", Email: "omar@example.test", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(f.ctx, result.User.ID))

	_, err = auth.VerifyToken(f.ctx, result.Session.IDToken)
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}

func TestForgotPassword(t *testing.T) {
	f, _, mailer, uc := newAuthFixture(t)

	_, err := uc.Register(f.ctx, usecase.RegisterInput{Name: "Omar", Email: "omar@example.test", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, uc.ForgotPassword(f.ctx, "omar@example.test"))
	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, "omar@example.test", mailer.Sent[0].To)
	assert.Contains(t, mailer.Sent[0].Body, "https://auth.example.test/reset")

	require.NoError(t, uc.ForgotPassword(f.ctx, "nobody@example.test"))
	assert.Len(t, mailer.Sent, 1)

	mailer.Err = assert.AnError
	err = uc.ForgotPassword(f.ctx, "omar@example.test")
	assert.True(t, errors.Is(err, errors.CodeUnavailable))

	noMail := usecase.NewAuthUseCase(f.store.Users(), mocks.NewMockAuthClient(), nil, f.clock)
	err = noMail.ForgotPassword(context.Background(), "omar@example.test")
	assert.True(t, errors.Is(err, errors.CodeUnavailable))
}

func TestMe(t *testing.T) {
	f, auth, _, uc := newAuthFixture(t)

	result, err := uc.Register(f.ctx, usecase.RegisterInput{Name: "Omar", Email: "omar@example.test", Password: "pw"})
	require.NoError(t, err)

	me, err := uc.Me(f.ctx, result.User.ID)
	require.NoError(t, err)
	assert.False(t, me.Identity.EmailVerified)
	assert.Equal(t, "Omar", me.User.Name)

	auth.MarkVerified(result.User.ID)
	me, err = uc.Me(f.ctx, result.User.ID)
	require.NoError(t, err)
	assert.True(t, me.Identity.EmailVerified)
}
