package usecase_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhive/internal/domain/entity"
	"helperhive/internal/mocks"
	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
)

func TestUpdateProfile_MergesNonEmptyFields(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice", func(u *entity.User) { u.Phone = "0300-1111111" })

	dob := time.Date(1990, 3, 4, 0, 0, 0, 0, time.UTC)
	user, err := f.users.UpdateProfile(f.ctx, "alice", usecase.UpdateProfileInput{
		Name:        "Alice Khan",
		City:        "Islamabad",
		DateOfBirth: &dob,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Khan", user.Name)
	assert.Equal(t, "Islamabad", user.City)
	assert.Equal(t, "0300-1111111", user.Phone)
	assert.Equal(t, dob, user.DateOfBirth)

	future := testNow.Add(24 * time.Hour)
	_, err = f.users.UpdateProfile(f.ctx, "alice", usecase.UpdateProfileInput{DateOfBirth: &future})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = f.users.UpdateProfile(f.ctx, "ghost", usecase.UpdateProfileInput{Name: "x"})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestUploadDocument(t *testing.T) {
	f := newFixture(t)
	blobs := mocks.NewMockBlobStore()
	users := usecase.NewUserUseCase(f.store.Users(), blobs, f.cache, f.clock)
	f.seedUser(t, "alice")

	user, err := users.UploadDocument(f.ctx, "alice", usecase.DocumentIDFront, "image/jpeg", strings.NewReader("front-bytes"))
	require.NoError(t, err)
	assert.Contains(t, user.IDFrontURL, "users/alice/id_front/")
	assert.Empty(t, user.IDBackURL)
	require.Len(t, blobs.Objects, 1)

	_, err = users.UploadDocument(f.ctx, "alice", usecase.DocumentKind("passport"), "image/jpeg", strings.NewReader("x"))
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = users.UploadDocument(f.ctx, "alice", usecase.DocumentAvatar, "text/plain", strings.NewReader("x"))
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	blobs.Err = assert.AnError
	_, err = users.UploadDocument(f.ctx, "alice", usecase.DocumentIDBack, "image/png", strings.NewReader("x"))
	assert.True(t, errors.Is(err, errors.CodeUnavailable))
}

func TestSubmitOnboarding_RequiresBothIDSides(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice", func(u *entity.User) { u.IDFrontURL = "front" })

	_, err := f.users.SubmitOnboarding(f.ctx, "alice")
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	stored, err := f.store.Users().GetByID(f.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, entity.OnboardingNone, stored.RequestStatus)
}

func TestSetPresence_OfflineStampsLastSeen(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")

	require.NoError(t, f.users.SetPresence(f.ctx, "alice", true))
	user, err := f.users.GetProfile(f.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, user.IsOnline)
	assert.Nil(t, user.LastSeen)

	require.NoError(t, f.users.SetPresence(f.ctx, "alice", false))
	user, err = f.users.GetProfile(f.ctx, "alice")
	require.NoError(t, err)
	assert.False(t, user.IsOnline)
	require.NotNil(t, user.LastSeen)
	assert.Equal(t, testNow, *user.LastSeen)

	err = f.users.SetPresence(f.ctx, "ghost", true)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
