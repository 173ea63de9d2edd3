package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
)

// ServiceUseCase manages provider listings from the owner's and the
// customer's side. Moderation transitions live in ModerationUseCase.
type ServiceUseCase struct {
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	clock       Clock
}

func NewServiceUseCase(serviceRepo repository.ServiceRepository, userRepo repository.UserRepository, clock Clock) *ServiceUseCase {
	return &ServiceUseCase{
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		clock:       clock,
	}
}

type CreateListingInput struct {
	Name         string
	Category     entity.Category
	Description  string
	PriceRange   string
	Availability string
	City         string
}

func (uc *ServiceUseCase) CreateListing(ctx context.Context, ownerID string, input CreateListingInput) (*entity.Service, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" || description == "" {
		return nil, errors.InvalidInput("name and description are required", nil)
	}
	if !input.Category.Valid() {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown category %q", input.Category), nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	service := &entity.Service{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Name:         name,
		Category:     input.Category,
		Description:  description,
		PriceRange:   strings.TrimSpace(input.PriceRange),
		Availability: strings.TrimSpace(input.Availability),
		City:         strings.TrimSpace(input.City),
		Status:       entity.ServicePending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.serviceRepo.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func approvedFilter(category entity.Category, city string) (repository.ServiceFilter, error) {
	if category != "" && !category.Valid() {
		return repository.ServiceFilter{}, errors.InvalidInput(fmt.Sprintf("unknown category %q", category), nil)
	}
	return repository.ServiceFilter{
		Status:   entity.ServiceApproved,
		Category: category,
		City:     city,
	}, nil
}

// ListApproved is the customer catalogue. Pending listings never appear.
func (uc *ServiceUseCase) ListApproved(ctx context.Context, category entity.Category, city string) ([]*entity.Service, error) {
	filter, err := approvedFilter(category, city)
	if err != nil {
		return nil, err
	}
	return uc.serviceRepo.List(ctx, filter)
}

func (uc *ServiceUseCase) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Service, error) {
	return uc.serviceRepo.List(ctx, repository.ServiceFilter{OwnerID: ownerID})
}

// GetListing hides unapproved listings from everyone but the owner and admins.
func (uc *ServiceUseCase) GetListing(ctx context.Context, viewerID, serviceID string) (*entity.Service, error) {
	service, err := uc.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service.IsPublic() || service.OwnerID == viewerID {
		return service, nil
	}

	viewer, err := uc.userRepo.GetByID(ctx, viewerID)
	if err == nil && viewer.IsAdmin {
		return service, nil
	}
	return nil, errors.NotFound("service", nil)
}

func (uc *ServiceUseCase) DeleteOwnListing(ctx context.Context, ownerID, serviceID string) error {
	service, err := uc.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return err
	}
	if service.OwnerID != ownerID {
		return errors.Forbidden("you can only delete your own listings", nil)
	}
	return uc.serviceRepo.Delete(ctx, serviceID)
}

func (uc *ServiceUseCase) SubscribeApproved(ctx context.Context, category entity.Category, city string) (repository.Subscription[*entity.Service], error) {
	filter, err := approvedFilter(category, city)
	if err != nil {
		return nil, err
	}
	return uc.serviceRepo.Subscribe(ctx, filter)
}
