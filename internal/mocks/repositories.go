package mocks

import (
	"context"
	"time"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
)

func (s *Store) Users() repository.UserRepository                 { return &userRepository{s} }
func (s *Store) Services() repository.ServiceRepository           { return &serviceRepository{s} }
func (s *Store) Bookings() repository.BookingRepository           { return &bookingRepository{s} }
func (s *Store) Messages() repository.MessageRepository           { return &messageRepository{s} }
func (s *Store) Reviews() repository.ReviewRepository             { return &reviewRepository{s} }
func (s *Store) Tickets() repository.TicketRepository             { return &ticketRepository{s} }
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepository{s} }

// Users

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	if _, ok := r.s.users[user.ID]; ok {
		return errors.Conflict("user already exists", nil)
	}
	cp := *user
	r.s.users[user.ID] = &cp
	r.s.userFeed.notify()
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("user", nil)
	}
	cp := *u
	return &cp, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	u, ok := r.s.users[user.ID]
	if !ok {
		return errors.NotFound("user", nil)
	}
	merge := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	merge(&u.Name, user.Name)
	merge(&u.Phone, user.Phone)
	merge(&u.Address, user.Address)
	merge(&u.City, user.City)
	merge(&u.AvatarURL, user.AvatarURL)
	merge(&u.IDFrontURL, user.IDFrontURL)
	merge(&u.IDBackURL, user.IDBackURL)
	if !user.DateOfBirth.IsZero() {
		u.DateOfBirth = user.DateOfBirth
	}
	u.UpdatedAt = time.Now()
	r.s.userFeed.notify()
	return nil
}

func (r *userRepository) Mutate(ctx context.Context, id string, fn func(*entity.User) error) (*entity.User, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("user", nil)
	}
	cp := *u
	if err := fn(&cp); err != nil {
		return nil, err
	}
	stored := cp
	r.s.users[id] = &stored
	r.s.userFeed.notify()
	return &cp, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	if _, ok := r.s.users[id]; !ok {
		return errors.NotFound("user", nil)
	}
	delete(r.s.users, id)
	r.s.userFeed.notify()
	return nil
}

func byRequestedAt(a, b *entity.User) bool {
	if a.RequestedAt == nil || b.RequestedAt == nil {
		return a.RequestedAt != nil
	}
	return a.RequestedAt.Before(*b.RequestedAt)
}

func (r *userRepository) ListByRequestStatus(ctx context.Context, status entity.OnboardingStatus) ([]*entity.User, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return collect(r.s.users, func(u *entity.User) bool { return u.RequestStatus == status }, byRequestedAt), nil
}

func (r *userRepository) ListProviders(ctx context.Context) ([]*entity.User, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return collect(r.s.users, func(u *entity.User) bool { return u.IsServiceProvider }, func(a, b *entity.User) bool {
		return a.Name < b.Name
	}), nil
}

func (r *userRepository) SetPresence(ctx context.Context, id string, online bool, at time.Time) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	u, ok := r.s.users[id]
	if !ok {
		return errors.NotFound("user", nil)
	}
	u.IsOnline = online
	if !online {
		seen := at
		u.LastSeen = &seen
	}
	r.s.userFeed.notify()
	return nil
}

func (r *userRepository) SubscribeByRequestStatus(ctx context.Context, status entity.OnboardingStatus) (repository.Subscription[*entity.User], error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return r.s.userFeed.open(func() []*entity.User {
		return collect(r.s.users, func(u *entity.User) bool { return u.RequestStatus == status }, byRequestedAt)
	}), nil
}

// Services

type serviceRepository struct{ s *Store }

func newestService(a, b *entity.Service) bool { return a.CreatedAt.After(b.CreatedAt) }

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	if _, ok := r.s.services[service.ID]; ok {
		return errors.Conflict("service already exists", nil)
	}
	cp := *service
	r.s.services[service.ID] = &cp
	r.s.serviceFeed.notify()
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	svc, ok := r.s.services[id]
	if !ok {
		return nil, errors.NotFound("service", nil)
	}
	cp := *svc
	return &cp, nil
}

func (r *serviceRepository) Mutate(ctx context.Context, id string, fn func(*entity.Service) error) (*entity.Service, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	svc, ok := r.s.services[id]
	if !ok {
		return nil, errors.NotFound("service", nil)
	}
	cp := *svc
	if err := fn(&cp); err != nil {
		return nil, err
	}
	stored := cp
	r.s.services[id] = &stored
	r.s.serviceFeed.notify()
	return &cp, nil
}

func (r *serviceRepository) MutateWithOwner(ctx context.Context, id string, fn func(*entity.Service, *entity.User) error) (*entity.Service, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	svc, ok := r.s.services[id]
	if !ok {
		return nil, errors.NotFound("service", nil)
	}
	var owner *entity.User
	if u, ok := r.s.users[svc.OwnerID]; ok {
		cp := *u
		owner = &cp
	}

	cp := *svc
	if err := fn(&cp, owner); err != nil {
		return nil, err
	}
	stored := cp
	r.s.services[id] = &stored
	r.s.serviceFeed.notify()
	return &cp, nil
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	if _, ok := r.s.services[id]; !ok {
		return errors.NotFound("service", nil)
	}
	delete(r.s.services, id)
	r.s.serviceFeed.notify()
	return nil
}

func (r *serviceRepository) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	if err := r.s.begin(ctx); err != nil {
		return 0, err
	}
	defer r.s.end()

	deleted := 0
	for id, svc := range r.s.services {
		if svc.OwnerID == ownerID {
			delete(r.s.services, id)
			deleted++
		}
	}
	if deleted > 0 {
		r.s.serviceFeed.notify()
	}
	return deleted, nil
}

func (r *serviceRepository) List(ctx context.Context, filter repository.ServiceFilter) ([]*entity.Service, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return collect(r.s.services, filter.Matches, newestService), nil
}

func (r *serviceRepository) Subscribe(ctx context.Context, filter repository.ServiceFilter) (repository.Subscription[*entity.Service], error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return r.s.serviceFeed.open(func() []*entity.Service {
		return collect(r.s.services, filter.Matches, newestService)
	}), nil
}

// Bookings

type bookingRepository struct{ s *Store }

func newestBooking(a, b *entity.Booking) bool { return a.CreatedAt.After(b.CreatedAt) }

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	if _, ok := r.s.bookings[booking.ID]; ok {
		return errors.Conflict("booking already exists", nil)
	}
	cp := *booking
	r.s.bookings[booking.ID] = &cp
	r.s.bookingFeed.notify()
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, errors.NotFound("booking", nil)
	}
	cp := *b
	return &cp, nil
}

func (r *bookingRepository) Mutate(ctx context.Context, id string, fn func(*entity.Booking) error) (*entity.Booking, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, errors.NotFound("booking", nil)
	}
	cp := *b
	if err := fn(&cp); err != nil {
		return nil, err
	}
	cp.Version++
	stored := cp
	r.s.bookings[id] = &stored
	r.s.bookingFeed.notify()
	return &cp, nil
}

func (r *bookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*entity.Booking, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return collect(r.s.bookings, filter.Matches, newestBooking), nil
}

func (r *bookingRepository) Subscribe(ctx context.Context, filter repository.BookingFilter) (repository.Subscription[*entity.Booking], error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return r.s.bookingFeed.open(func() []*entity.Booking {
		return collect(r.s.bookings, filter.Matches, newestBooking)
	}), nil
}

// Messages

type messageRepository struct{ s *Store }

func newestMessage(a, b *entity.Message) bool { return a.SentAt.After(b.SentAt) }

func newestConversation(a, b *entity.Conversation) bool { return a.LastMessageAt.After(b.LastMessageAt) }

func participant(userID string) func(*entity.Conversation) bool {
	return func(c *entity.Conversation) bool {
		for _, p := range c.Participants {
			if p == userID {
				return true
			}
		}
		return false
	}
}

func limitTo[T any](items []*T, limit int) []*T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	if _, exists := r.s.messages[message.ID]; exists {
		return errors.Conflict("message already exists", nil)
	}
	cp := *message
	r.s.messages[message.ID] = &cp

	conversation, ok := r.s.conversations[message.ConversationKey]
	if !ok {
		conversation = &entity.Conversation{}
		r.s.conversations[message.ConversationKey] = conversation
	}
	if conversation.Record(&cp) {
		r.s.messageFeed.notify()
	}
	return nil
}

func (r *messageRepository) ListConversation(ctx context.Context, conversationKey string, limit int) ([]*entity.Message, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	newest := limitTo(collect(r.s.messages, func(m *entity.Message) bool {
		return m.ConversationKey == conversationKey
	}, newestMessage), limit)

	for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
		newest[i], newest[j] = newest[j], newest[i]
	}
	return newest, nil
}

func (r *messageRepository) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return collect(r.s.conversations, participant(userID), newestConversation), nil
}

func (r *messageRepository) SubscribeConversations(ctx context.Context, userID string) (repository.Subscription[*entity.Conversation], error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return r.s.messageFeed.open(func() []*entity.Conversation {
		return collect(r.s.conversations, participant(userID), newestConversation)
	}), nil
}

// Reviews

type reviewRepository struct{ s *Store }

func (r *reviewRepository) CreateForBooking(ctx context.Context, review *entity.Review, check func(*entity.Booking) error) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	b, ok := r.s.bookings[review.BookingID]
	if !ok {
		return errors.NotFound("booking", nil)
	}
	booking := *b
	if err := check(&booking); err != nil {
		return err
	}
	if _, exists := r.s.reviews[review.ID]; exists {
		return errors.NotEligible("booking has already been reviewed")
	}

	cp := *review
	r.s.reviews[review.ID] = &cp

	booking.HasReviewed = true
	booking.Version++
	booking.UpdatedAt = time.Now()
	r.s.bookings[booking.ID] = &booking

	if svc, ok := r.s.services[booking.ServiceID]; ok {
		svc.AddRating(review.Rating)
		r.s.serviceFeed.notify()
	}
	r.s.bookingFeed.notify()
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, errors.NotFound("review", nil)
	}
	cp := *rv
	return &cp, nil
}

func (r *reviewRepository) ListByService(ctx context.Context, serviceID string) ([]*entity.Review, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return collect(r.s.reviews, func(rv *entity.Review) bool { return rv.ServiceID == serviceID }, func(a, b *entity.Review) bool {
		return a.SubmittedAt.After(b.SubmittedAt)
	}), nil
}

// Tickets

type ticketRepository struct{ s *Store }

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	cp := *ticket
	r.s.tickets[ticket.ID] = &cp
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, errors.NotFound("ticket", nil)
	}
	cp := *t
	return &cp, nil
}

func (r *ticketRepository) Mutate(ctx context.Context, id string, fn func(*entity.Ticket) error) (*entity.Ticket, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, errors.NotFound("ticket", nil)
	}
	cp := *t
	if err := fn(&cp); err != nil {
		return nil, err
	}
	stored := cp
	r.s.tickets[id] = &stored
	return &cp, nil
}

func (r *ticketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]*entity.Ticket, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return collect(r.s.tickets, filter.Matches, func(a, b *entity.Ticket) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

// Notifications

type notificationRepository struct{ s *Store }

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	cp := *notification
	r.s.notifications[notification.ID] = &cp
	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*entity.Notification, error) {
	if err := r.s.begin(ctx); err != nil {
		return nil, err
	}
	defer r.s.end()

	return limitTo(collect(r.s.notifications, func(n *entity.Notification) bool {
		return n.RecipientID == recipientID
	}, func(a, b *entity.Notification) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), limit), nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	if err := r.s.begin(ctx); err != nil {
		return err
	}
	defer r.s.end()

	n, ok := r.s.notifications[id]
	if !ok || n.RecipientID != recipientID {
		return errors.NotFound("notification", nil)
	}
	n.Read = true
	return nil
}
