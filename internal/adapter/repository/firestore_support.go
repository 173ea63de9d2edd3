package repository

import (
	"context"
	stderrors "errors"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"helperhive/internal/domain/repository"
	"helperhive/pkg/errors"
)

const (
	usersCollection         = "users"
	servicesCollection      = "services"
	bookingsCollection      = "bookings"
	messagesCollection      = "messages"
	conversationsCollection = "conversations"
	reviewsCollection       = "reviews"
	ticketsCollection       = "tickets"
	notificationsCollection = "notifications"
)

// Ping performs a single cheap read to confirm the store is reachable.
func Ping(ctx context.Context, client *firestore.Client) error {
	iter := client.Collection(usersCollection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return translateError("store", err)
	}
	return nil
}

// translateError maps Firestore and context failures onto application errors.
// AppErrors raised inside transaction callbacks pass through untouched.
func translateError(resource string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.Unavailable("document store did not respond", err)
	}

	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound(resource, err)
	case codes.AlreadyExists:
		return errors.Conflict(resource+" already exists", err)
	case codes.Aborted:
		return errors.Conflict(resource+" was modified concurrently", err)
	case codes.DeadlineExceeded, codes.Canceled, codes.Unavailable:
		return errors.Unavailable("document store did not respond", err)
	case codes.PermissionDenied:
		return errors.Forbidden("document store denied access", err)
	}

	return errors.Internal("document store error", err)
}

func decode[T any](doc *firestore.DocumentSnapshot) (*T, error) {
	var item T
	if err := doc.DataTo(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func readAll[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	items := []*T{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		item, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type snapshotSubscription[T any] struct {
	updates chan []*T
	cancel  context.CancelFunc

	mu  sync.Mutex
	err error
}

// subscribe streams query snapshots on a dedicated goroutine until the
// subscription is cancelled or the listener fails.
func subscribe[T any](ctx context.Context, resource string, query firestore.Query) repository.Subscription[*T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &snapshotSubscription[T]{
		updates: make(chan []*T),
		cancel:  cancel,
	}

	go func() {
		defer close(s.updates)

		snapshots := query.Snapshots(ctx)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if ctx.Err() == nil && err != iterator.Done {
					s.fail(translateError(resource, err))
				}
				return
			}

			items, err := readAll[T](snap.Documents)
			if err != nil {
				s.fail(translateError(resource, err))
				return
			}

			select {
			case s.updates <- items:
			case <-ctx.Done():
				return
			}
		}
	}()

	return s
}

func (s *snapshotSubscription[T]) Updates() <-chan []*T { return s.updates }

func (s *snapshotSubscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *snapshotSubscription[T]) Cancel() { s.cancel() }

func (s *snapshotSubscription[T]) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// mutate reads ref, hands the decoded document to fn and writes the result
// back, all inside one transaction. Firestore retries the callback on
// contention, so fn must be free of side effects.
func mutate[T any](ctx context.Context, client *firestore.Client, resource string, ref *firestore.DocumentRef, fn func(*T) error) (*T, error) {
	var out *T
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}

		item, err := decode[T](doc)
		if err != nil {
			return err
		}

		if err := fn(item); err != nil {
			return err
		}

		out = item
		return tx.Set(ref, item)
	})
	if err != nil {
		return nil, translateError(resource, err)
	}
	return out, nil
}
