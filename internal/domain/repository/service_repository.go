package repository

import (
	"context"

	"helperhive/internal/domain/entity"
)

// ServiceFilter narrows listing queries. Empty fields match everything.
type ServiceFilter struct {
	OwnerID  string
	Status   entity.ServiceStatus
	Category entity.Category
	City     string
}

func (f ServiceFilter) Matches(s *entity.Service) bool {
	return (f.OwnerID == "" || s.OwnerID == f.OwnerID) &&
		(f.Status == "" || s.Status == f.Status) &&
		(f.Category == "" || s.Category == f.Category) &&
		(f.City == "" || s.City == f.City)
}

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	Mutate(ctx context.Context, id string, fn func(service *entity.Service) error) (*entity.Service, error)
	// MutateWithOwner is Mutate with the owner read in the same transaction.
	// owner is nil when the owner document no longer exists.
	MutateWithOwner(ctx context.Context, id string, fn func(service *entity.Service, owner *entity.User) error) (*entity.Service, error)
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int, error)
	List(ctx context.Context, filter ServiceFilter) ([]*entity.Service, error)
	Subscribe(ctx context.Context, filter ServiceFilter) (Subscription[*entity.Service], error)
}
