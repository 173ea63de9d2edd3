package repository

import (
	"context"
	"time"

	"helperhive/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// Mutate applies fn to the current document inside a single transaction.
	Mutate(ctx context.Context, id string, fn func(user *entity.User) error) (*entity.User, error)
	Delete(ctx context.Context, id string) error
	ListByRequestStatus(ctx context.Context, status entity.OnboardingStatus) ([]*entity.User, error)
	ListProviders(ctx context.Context) ([]*entity.User, error)
	SetPresence(ctx context.Context, id string, online bool, at time.Time) error
	SubscribeByRequestStatus(ctx context.Context, status entity.OnboardingStatus) (Subscription[*entity.User], error)
}
