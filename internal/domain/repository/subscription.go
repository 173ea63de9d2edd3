package repository

import "sync"

// Subscription is a live query handle. Every update carries the full current
// result set, delivered in write order. Updates is closed after Cancel or a
// terminal error; Err reports that error, if any.
type Subscription[T any] interface {
	Updates() <-chan []T
	Err() error
	Cancel()
}

type mappedSubscription[S, T any] struct {
	src     Subscription[S]
	updates chan []T
	done    chan struct{}
	once    sync.Once
}

// Map derives a subscription whose updates are fn applied to each update of src.
func Map[S, T any](src Subscription[S], fn func([]S) []T) Subscription[T] {
	m := &mappedSubscription[S, T]{
		src:     src,
		updates: make(chan []T),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(m.updates)
		for batch := range src.Updates() {
			out := fn(batch)
			select {
			case m.updates <- out:
			case <-m.done:
				return
			}
		}
	}()

	return m
}

func (m *mappedSubscription[S, T]) Updates() <-chan []T { return m.updates }

func (m *mappedSubscription[S, T]) Err() error { return m.src.Err() }

func (m *mappedSubscription[S, T]) Cancel() {
	m.once.Do(func() {
		close(m.done)
		m.src.Cancel()
	})
}
