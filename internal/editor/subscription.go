package editor

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriptionState represents the state of a listener registration.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the listener receives events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStateCancelled means the listener has been permanently
	// removed.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription is a handle to a registered listener. Cancelling it detaches
// the listener permanently; a binding cancels all of its subscriptions when
// it is destroyed.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// State returns the current subscription state.
	State() SubscriptionState

	// IsActive returns true if the listener still receives events.
	IsActive() bool

	// Cancel permanently detaches the listener. Cancel is idempotent.
	Cancel()
}

// subscription is the internal implementation of Subscription.
type subscription struct {
	id    string
	state atomic.Int32
}

func newSubscription() *subscription {
	s := &subscription{id: uuid.NewString()}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

// ID returns the subscription ID.
func (s *subscription) ID() string {
	return s.id
}

// State returns the current subscription state.
func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive returns true if the subscription is active.
func (s *subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// Cancel permanently cancels the subscription.
func (s *subscription) Cancel() {
	s.state.Store(int32(SubscriptionStateCancelled))
}

// eventKind names the session's listener lists.
type eventKind int

const (
	eventChange eventKind = iota
	eventSelection
	eventFocus
	eventBlur
)

// handlerEntry pairs a subscription handle with its listener.
type handlerEntry struct {
	sub *subscription
	fn  func()
}

// registry holds the per-kind listener lists. Emission snapshots the list
// under the lock and calls listeners outside it, so listeners may register,
// cancel, or mutate the session reentrantly.
type registry struct {
	mu      sync.Mutex
	entries map[eventKind][]handlerEntry
}

func newRegistry() *registry {
	return &registry{entries: make(map[eventKind][]handlerEntry)}
}

func (r *registry) subscribe(kind eventKind, fn func()) Subscription {
	sub := newSubscription()
	r.mu.Lock()
	r.entries[kind] = append(r.entries[kind], handlerEntry{sub: sub, fn: fn})
	r.mu.Unlock()
	return sub
}

func (r *registry) emit(kind eventKind) {
	r.mu.Lock()
	list := r.entries[kind]
	live := list[:0:0]
	for _, e := range list {
		if e.sub.IsActive() {
			live = append(live, e)
		}
	}
	r.entries[kind] = live
	r.mu.Unlock()

	for _, e := range live {
		// Re-check per call: an earlier listener may have cancelled a
		// later one.
		if e.sub.IsActive() {
			e.fn()
		}
	}
}
