package usecase

import (
	"context"
	"io"
	"time"

	"helperhive/internal/domain/entity"
)

// FirebaseAuthClient is the identity provider.
type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	SignInWithEmailPassword(ctx context.Context, email, password string) (*Session, error)
	VerifyToken(ctx context.Context, idToken string) (string, error)
	GetIdentity(ctx context.Context, uid string) (*Identity, error)
	RevokeSessions(ctx context.Context, uid string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

type Session struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type Identity struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// BlobStore keeps uploaded files and returns an opaque public reference.
type BlobStore interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, plainText, html string) error
}

// Cache is a best-effort byte cache. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Publisher interface {
	Publish(subject string, data []byte) error
}

// LivePusher delivers a payload to a user's open realtime connection, if any.
type LivePusher interface {
	SendToUser(userID string, message []byte)
}

type Notifier interface {
	Notify(ctx context.Context, notification *entity.Notification)
}

type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

type Clock interface {
	Now() time.Time
}
