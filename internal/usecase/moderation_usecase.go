package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/internal/infrastructure/metrics"
	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

// ModerationUseCase holds every admin-only transition. Each operation checks
// the acting user's admin flag itself.
type ModerationUseCase struct {
	userRepo    repository.UserRepository
	serviceRepo repository.ServiceRepository
	ticketRepo  repository.TicketRepository
	notifier    Notifier
	clock       Clock
}

func NewModerationUseCase(
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	ticketRepo repository.TicketRepository,
	notifier Notifier,
	clock Clock,
) *ModerationUseCase {
	return &ModerationUseCase{
		userRepo:    userRepo,
		serviceRepo: serviceRepo,
		ticketRepo:  ticketRepo,
		notifier:    notifier,
		clock:       clock,
	}
}

func (uc *ModerationUseCase) requireAdmin(ctx context.Context, adminID string) error {
	admin, err := uc.userRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return errors.Forbidden("admin access required", err)
		}
		return err
	}
	if !admin.IsAdmin {
		return errors.Forbidden("admin access required", nil)
	}
	return nil
}

func (uc *ModerationUseCase) notify(ctx context.Context, n *entity.Notification) {
	if uc.notifier != nil {
		uc.notifier.Notify(ctx, n)
	}
}

func (uc *ModerationUseCase) ApproveOnboarding(ctx context.Context, adminID, userID string) (*entity.User, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	user, err := uc.userRepo.Mutate(ctx, userID, func(u *entity.User) error {
		if u.RequestStatus != entity.OnboardingPending {
			return errors.InvalidTransition(fmt.Sprintf("onboarding request is %s, not Pending", requestStatusOf(u)))
		}
		u.RequestStatus = entity.OnboardingApproved
		u.IsServiceProvider = true
		u.RejectionReason = ""
		u.ReviewedAt = &now
		u.ReviewedBy = adminID
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ModerationActions.WithLabelValues("approve_onboarding").Inc()

	uc.notify(ctx, &entity.Notification{
		RecipientID: user.ID,
		Kind:        entity.NotifyOnboardingApproved,
		Message:     "Your provider application was approved. You can now publish services.",
	})
	return user, nil
}

func (uc *ModerationUseCase) RejectOnboarding(ctx context.Context, adminID, userID, reason string) (*entity.User, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.InvalidInput("a rejection reason is required", nil)
	}

	now := uc.clock.Now()
	user, err := uc.userRepo.Mutate(ctx, userID, func(u *entity.User) error {
		if u.RequestStatus != entity.OnboardingPending {
			return errors.InvalidTransition(fmt.Sprintf("onboarding request is %s, not Pending", requestStatusOf(u)))
		}
		u.RequestStatus = entity.OnboardingRejected
		u.RejectionReason = reason
		u.ReviewedAt = &now
		u.ReviewedBy = adminID
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ModerationActions.WithLabelValues("reject_onboarding").Inc()

	uc.notify(ctx, &entity.Notification{
		RecipientID: user.ID,
		Kind:        entity.NotifyOnboardingRejected,
		Message:     "Your provider application was rejected: " + reason,
	})
	return user, nil
}

func requestStatusOf(u *entity.User) entity.OnboardingStatus {
	if u.RequestStatus == "" {
		return entity.OnboardingNone
	}
	return u.RequestStatus
}

// ApproveListing publishes a pending listing. Its owner must already be an
// approved provider.
func (uc *ModerationUseCase) ApproveListing(ctx context.Context, adminID, serviceID string) (*entity.Service, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	service, err := uc.serviceRepo.MutateWithOwner(ctx, serviceID, func(s *entity.Service, owner *entity.User) error {
		if owner == nil || !owner.IsServiceProvider {
			return errors.InvalidTransition("listing owner is not an approved service provider")
		}
		if s.Status != entity.ServicePending {
			return errors.InvalidTransition(fmt.Sprintf("listing is %s, not Pending", s.Status))
		}
		s.Status = entity.ServiceApproved
		s.UpdatedAt = uc.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ModerationActions.WithLabelValues("approve_listing").Inc()
	return service, nil
}

// SuspendListing takes an approved listing back to Pending.
func (uc *ModerationUseCase) SuspendListing(ctx context.Context, adminID, serviceID string) (*entity.Service, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	service, err := uc.serviceRepo.Mutate(ctx, serviceID, func(s *entity.Service) error {
		if s.Status != entity.ServiceApproved {
			return errors.InvalidTransition(fmt.Sprintf("listing is %s, not Approved", s.Status))
		}
		s.Status = entity.ServicePending
		s.UpdatedAt = uc.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ModerationActions.WithLabelValues("suspend_listing").Inc()
	return service, nil
}

func (uc *ModerationUseCase) DeleteListing(ctx context.Context, adminID, serviceID string) error {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := uc.serviceRepo.Delete(ctx, serviceID); err != nil {
		return err
	}
	metrics.ModerationActions.WithLabelValues("delete_listing").Inc()
	return nil
}

func (uc *ModerationUseCase) ResolveTicket(ctx context.Context, adminID, ticketID, response string) (*entity.Ticket, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	response = strings.TrimSpace(response)

	now := uc.clock.Now()
	ticket, err := uc.ticketRepo.Mutate(ctx, ticketID, func(t *entity.Ticket) error {
		if t.Status != entity.TicketOpen {
			return errors.InvalidTransition("ticket is already resolved")
		}
		t.Status = entity.TicketResolved
		if response != "" {
			t.AdminResponse = response
		}
		t.ResolvedBy = adminID
		t.ResolvedAt = &now
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ModerationActions.WithLabelValues("resolve_ticket").Inc()

	uc.notify(ctx, &entity.Notification{
		RecipientID: ticket.FromID,
		Kind:        entity.NotifyTicketResolved,
		Message:     fmt.Sprintf("Your ticket %q was resolved", ticket.Subject),
		TicketID:    ticket.ID,
	})
	return ticket, nil
}

// RemoveProvider hard-deletes a provider and every listing they own.
// Bookings stay untouched.
func (uc *ModerationUseCase) RemoveProvider(ctx context.Context, adminID, userID string) (int, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return 0, err
	}
	if adminID == userID {
		return 0, errors.InvalidInput("admins cannot remove themselves", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !user.IsServiceProvider {
		return 0, errors.InvalidInput("user is not a service provider", nil)
	}

	deleted, err := uc.serviceRepo.DeleteByOwner(ctx, userID)
	if err != nil {
		return deleted, err
	}
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return deleted, err
	}

	metrics.ModerationActions.WithLabelValues("remove_provider").Inc()
	logger.Info("Provider %s removed by %s along with %d listings", userID, adminID, deleted)
	return deleted, nil
}

func (uc *ModerationUseCase) PendingOnboarding(ctx context.Context, adminID string) ([]*entity.User, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return uc.userRepo.ListByRequestStatus(ctx, entity.OnboardingPending)
}

func (uc *ModerationUseCase) Providers(ctx context.Context, adminID string) ([]*entity.User, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return uc.userRepo.ListProviders(ctx)
}

func (uc *ModerationUseCase) ListingsByStatus(ctx context.Context, adminID string, status entity.ServiceStatus) ([]*entity.Service, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if status != entity.ServicePending && status != entity.ServiceApproved {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown listing status %q", status), nil)
	}
	return uc.serviceRepo.List(ctx, repository.ServiceFilter{Status: status})
}

func (uc *ModerationUseCase) OpenTickets(ctx context.Context, adminID string) ([]*entity.Ticket, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return uc.ticketRepo.List(ctx, repository.TicketFilter{Status: entity.TicketOpen})
}

// DashboardSnapshot is the admin work queue at one point in time.
type DashboardSnapshot struct {
	PendingOnboarding []*entity.User    `json:"pending_onboarding"`
	PendingListings   []*entity.Service `json:"pending_listings"`
}

// DashboardFeed merges the pending-onboarding and pending-listing live
// queries. A snapshot is emitted once both have reported.
type DashboardFeed struct {
	users    repository.Subscription[*entity.User]
	services repository.Subscription[*entity.Service]
	updates  chan *DashboardSnapshot
	done     chan struct{}
	once     sync.Once
}

func (uc *ModerationUseCase) SubscribeDashboard(ctx context.Context, adminID string) (*DashboardFeed, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	users, err := uc.userRepo.SubscribeByRequestStatus(ctx, entity.OnboardingPending)
	if err != nil {
		return nil, err
	}
	services, err := uc.serviceRepo.Subscribe(ctx, repository.ServiceFilter{Status: entity.ServicePending})
	if err != nil {
		users.Cancel()
		return nil, err
	}

	feed := &DashboardFeed{
		users:    users,
		services: services,
		updates:  make(chan *DashboardSnapshot),
		done:     make(chan struct{}),
	}
	go feed.run()
	return feed, nil
}

func (f *DashboardFeed) run() {
	defer close(f.updates)

	var (
		pendingUsers    []*entity.User
		pendingServices []*entity.Service
		haveUsers       bool
		haveServices    bool
	)
	userUpdates := f.users.Updates()
	serviceUpdates := f.services.Updates()

	for userUpdates != nil || serviceUpdates != nil {
		select {
		case batch, ok := <-userUpdates:
			if !ok {
				userUpdates = nil
				continue
			}
			pendingUsers, haveUsers = batch, true
		case batch, ok := <-serviceUpdates:
			if !ok {
				serviceUpdates = nil
				continue
			}
			pendingServices, haveServices = batch, true
		case <-f.done:
			return
		}

		if !haveUsers || !haveServices {
			continue
		}
		snapshot := &DashboardSnapshot{PendingOnboarding: pendingUsers, PendingListings: pendingServices}
		select {
		case f.updates <- snapshot:
		case <-f.done:
			return
		}
	}
}

func (f *DashboardFeed) Updates() <-chan *DashboardSnapshot { return f.updates }

func (f *DashboardFeed) Err() error {
	if err := f.users.Err(); err != nil {
		return err
	}
	return f.services.Err()
}

func (f *DashboardFeed) Cancel() {
	f.once.Do(func() {
		close(f.done)
		f.users.Cancel()
		f.services.Cancel()
	})
}
