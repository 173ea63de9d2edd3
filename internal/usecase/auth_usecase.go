package usecase

import (
	"context"
	"fmt"
	"strings"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
	mailer       Mailer
	clock        Clock
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient, mailer Mailer, clock Clock) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
		mailer:       mailer,
		clock:        clock,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	City     string
}

type AuthResult struct {
	User    *entity.User `json:"user"`
	Session *Session     `json:"session"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	uid, err := uc.firebaseAuth.CreateUser(ctx, email, input.Password, input.Name)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	user := &entity.User{
		ID:            uid,
		Name:          strings.TrimSpace(input.Name),
		Email:         email,
		Phone:         strings.TrimSpace(input.Phone),
		City:          strings.TrimSpace(input.City),
		RequestStatus: entity.OnboardingNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("failed to create user record", err)
	}

	session, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, email, input.Password)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Session: session}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	session, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Session: session}, nil
}

// Logout revokes every refresh token of the user. Outstanding ID tokens
// fail the revocation check on their next use.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	return uc.firebaseAuth.RevokeSessions(ctx, userID)
}

// ForgotPassword mails a reset link. Unknown addresses succeed silently.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	if uc.mailer == nil {
		return errors.Unavailable("password reset mail is not configured", nil)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	link, err := uc.firebaseAuth.PasswordResetLink(ctx, email)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			logger.Info("Password reset requested for unknown address")
			return nil
		}
		return err
	}

	plain := fmt.Sprintf("Reset your HelperHive password using this link: %s\n\nIf you did not ask for this, ignore this email.", link)
	html := fmt.Sprintf(`<p>Reset your HelperHive password using <a href="%s">this link</a>.</p><p>If you did not ask for this, ignore this email.</p>`, link)
	if err := uc.mailer.Send(ctx, email, "Reset your HelperHive password", plain, html); err != nil {
		return errors.Unavailable("failed to send reset email", err)
	}
	return nil
}

type MeResult struct {
	Identity *Identity    `json:"identity"`
	User     *entity.User `json:"user"`
}

func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*MeResult, error) {
	identity, err := uc.firebaseAuth.GetIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MeResult{Identity: identity, User: user}, nil
}
