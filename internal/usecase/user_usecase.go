package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

type DocumentKind string

const (
	DocumentAvatar  DocumentKind = "avatar"
	DocumentIDFront DocumentKind = "id_front"
	DocumentIDBack  DocumentKind = "id_back"
)

var allowedDocumentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

type UserUseCase struct {
	userRepo  repository.UserRepository
	blobStore BlobStore
	cache     Cache
	clock     Clock
}

func NewUserUseCase(userRepo repository.UserRepository, blobStore BlobStore, cache Cache, clock Clock) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		blobStore: blobStore,
		cache:     cache,
		clock:     clock,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name        string
	Phone       string
	Address     string
	City        string
	DateOfBirth *time.Time
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	update := &entity.User{
		ID:      userID,
		Name:    strings.TrimSpace(input.Name),
		Phone:   strings.TrimSpace(input.Phone),
		Address: strings.TrimSpace(input.Address),
		City:    strings.TrimSpace(input.City),
	}
	if input.DateOfBirth != nil {
		if input.DateOfBirth.After(uc.clock.Now()) {
			return nil, errors.InvalidInput("date of birth cannot be in the future", nil)
		}
		update.DateOfBirth = *input.DateOfBirth
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := uc.userRepo.Update(ctx, update); err != nil {
		return nil, err
	}
	InvalidateCounterpart(ctx, uc.cache, userID)

	return uc.userRepo.GetByID(ctx, userID)
}

// UploadDocument stores a verification artifact or avatar and records its
// reference on the profile.
func (uc *UserUseCase) UploadDocument(ctx context.Context, userID string, kind DocumentKind, contentType string, r io.Reader) (*entity.User, error) {
	if kind != DocumentAvatar && kind != DocumentIDFront && kind != DocumentIDBack {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown document kind %q", kind), nil)
	}
	ext, ok := allowedDocumentTypes[contentType]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type %q", contentType), nil)
	}
	if uc.blobStore == nil {
		return nil, errors.Unavailable("file storage is not configured", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	objectPath := path.Join("users", userID, string(kind), uuid.New().String()+ext)
	url, err := uc.blobStore.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, errors.Unavailable("failed to store file", err)
	}

	update := &entity.User{ID: userID}
	switch kind {
	case DocumentAvatar:
		update.AvatarURL = url
	case DocumentIDFront:
		update.IDFrontURL = url
	case DocumentIDBack:
		update.IDBackURL = url
	}
	if err := uc.userRepo.Update(ctx, update); err != nil {
		return nil, err
	}
	if kind == DocumentAvatar {
		InvalidateCounterpart(ctx, uc.cache, userID)
	}

	return uc.userRepo.GetByID(ctx, userID)
}

// SubmitOnboarding asks to become a service provider. Allowed from None and
// from Rejected; resubmitting clears the previous rejection reason.
func (uc *UserUseCase) SubmitOnboarding(ctx context.Context, userID string) (*entity.User, error) {
	now := uc.clock.Now()
	return uc.userRepo.Mutate(ctx, userID, func(u *entity.User) error {
		if u.IsServiceProvider || !u.CanSubmitOnboarding() {
			return errors.InvalidTransition(fmt.Sprintf("onboarding request is already %s", requestStatusOf(u)))
		}
		if u.IDFrontURL == "" || u.IDBackURL == "" {
			return errors.InvalidInput("upload both sides of your ID before applying", nil)
		}
		u.RequestStatus = entity.OnboardingPending
		u.RejectionReason = ""
		u.RequestedAt = &now
		u.ReviewedAt = nil
		u.ReviewedBy = ""
		u.UpdatedAt = now
		return nil
	})
}

// SetPresence records foreground and background transitions. Going offline
// stamps lastSeen.
func (uc *UserUseCase) SetPresence(ctx context.Context, userID string, online bool) error {
	if err := uc.userRepo.SetPresence(ctx, userID, online, uc.clock.Now()); err != nil {
		return err
	}
	InvalidateCounterpart(ctx, uc.cache, userID)
	logger.Debug("Presence for %s set to online=%t", userID, online)
	return nil
}
