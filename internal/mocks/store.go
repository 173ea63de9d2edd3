package mocks

import (
	"context"
	"sort"
	"sync"

	"helperhive/internal/domain/entity"
	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
)

// Store is an in-memory document store backing every repository fake.
// One mutex linearizes all operations, so Mutate behaves like a
// serializable transaction.
type Store struct {
	mu sync.Mutex

	users         map[string]*entity.User
	services      map[string]*entity.Service
	bookings      map[string]*entity.Booking
	messages      map[string]*entity.Message
	conversations map[string]*entity.Conversation
	reviews       map[string]*entity.Review
	tickets       map[string]*entity.Ticket
	notifications map[string]*entity.Notification

	userFeed    *feed[entity.User]
	serviceFeed *feed[entity.Service]
	bookingFeed *feed[entity.Booking]
	messageFeed *feed[entity.Conversation]

	failNext error
}

func NewStore() *Store {
	s := &Store{
		users:         make(map[string]*entity.User),
		services:      make(map[string]*entity.Service),
		bookings:      make(map[string]*entity.Booking),
		messages:      make(map[string]*entity.Message),
		conversations: make(map[string]*entity.Conversation),
		reviews:       make(map[string]*entity.Review),
		tickets:       make(map[string]*entity.Ticket),
		notifications: make(map[string]*entity.Notification),
	}
	s.userFeed = newFeed[entity.User](s)
	s.serviceFeed = newFeed[entity.Service](s)
	s.bookingFeed = newFeed[entity.Booking](s)
	s.messageFeed = newFeed[entity.Conversation](s)
	return s
}

// FailNext makes the next store operation return err without touching data.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

// begin locks the store and consumes a pending injected failure. On error
// the lock is already released.
func (s *Store) begin(ctx context.Context) error {
	s.mu.Lock()
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return errors.Unavailable("document store did not respond", err)
	}
	if err := s.failNext; err != nil {
		s.failNext = nil
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) end() { s.mu.Unlock() }

type feed[D any] struct {
	store *Store
	subs  map[*memorySubscription[D]]struct{}
}

func newFeed[D any](s *Store) *feed[D] {
	return &feed[D]{store: s, subs: make(map[*memorySubscription[D]]struct{})}
}

type memorySubscription[D any] struct {
	feed    *feed[D]
	query   func() []*D
	updates chan []*D
	closed  bool
}

// open registers a subscription and delivers the initial result set.
// Callers hold the store lock.
func (f *feed[D]) open(query func() []*D) *memorySubscription[D] {
	sub := &memorySubscription[D]{
		feed:    f,
		query:   query,
		updates: make(chan []*D, 64),
	}
	f.subs[sub] = struct{}{}
	sub.push()
	return sub
}

// notify re-runs every subscription query. Callers hold the store lock.
func (f *feed[D]) notify() {
	for sub := range f.subs {
		sub.push()
	}
}

func (m *memorySubscription[D]) push() {
	items := m.query()
	select {
	case m.updates <- items:
	default:
		// Slow reader: drop the oldest pending update, keep the newest.
		select {
		case <-m.updates:
		default:
		}
		m.updates <- items
	}
}

func (m *memorySubscription[D]) Updates() <-chan []*D { return m.updates }

func (m *memorySubscription[D]) Err() error { return nil }

func (m *memorySubscription[D]) Cancel() {
	m.feed.store.mu.Lock()
	defer m.feed.store.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	delete(m.feed.subs, m)
	close(m.updates)
}

var _ repository.Subscription[*entity.User] = (*memorySubscription[entity.User])(nil)

func collect[D any](docs map[string]*D, match func(*D) bool, less func(a, b *D) bool) []*D {
	out := []*D{}
	for _, d := range docs {
		if match == nil || match(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}
