// Package events provides a small publish/subscribe broker used for change
// notifications from the progress store and the round engine to the
// presentation layer.
package events

import "sync"

// DefaultBuffer is the subscription buffer used when a caller passes < 1.
const DefaultBuffer = 64

// Subscription receives events published after it was created.
// Delivery never blocks the publisher: when the buffer is full the oldest
// pending event is dropped.
type Subscription[T any] struct {
	events    chan T
	done      chan struct{}
	closeOnce sync.Once
	broker    *Broker[T]
	id        uint64
}

// Events returns the channel to receive events from.
func (s *Subscription[T]) Events() <-chan T {
	return s.events
}

// Done returns a channel that closes when the subscription ends.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Close detaches the subscription from its broker.
// Safe to call multiple times.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() {
		if s.broker != nil {
			s.broker.remove(s.id)
		}
		close(s.done)
	})
}

// send delivers evt, dropping the oldest buffered event if needed.
func (s *Subscription[T]) send(evt T) {
	select {
	case <-s.done:
		// Subscription is closed, don't send
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-s.events:
		default:
		}
		// Try again (best effort)
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Broker fans events out to subscriptions.
// Thread-safe for concurrent access.
type Broker[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*Subscription[T]
}

// NewBroker creates an empty broker.
func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs: make(map[uint64]*Subscription[T]),
	}
}

// Subscribe registers a new subscription with the given buffer size.
func (b *Broker[T]) Subscribe(buffer int) *Subscription[T] {
	if buffer < 1 {
		buffer = DefaultBuffer
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription[T]{
		events: make(chan T, buffer),
		done:   make(chan struct{}),
		broker: b,
		id:     b.nextID,
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish sends evt to every current subscription without blocking.
func (b *Broker[T]) Publish(evt T) {
	b.mu.RLock()
	subs := make([]*Subscription[T], 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	// Send WITHOUT holding the lock
	for _, s := range subs {
		s.send(evt)
	}
}

// Count returns the number of active subscriptions.
func (b *Broker[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[uint64]*Subscription[T])
	b.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}

func (b *Broker[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}
