package event

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving events.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStatePaused means the subscription is temporarily not receiving events.
	SubscriptionStatePaused

	// SubscriptionStateCancelled means the subscription has been permanently cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStatePaused:
		return "paused"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription is a handler registered on a Bus.
type Subscription struct {
	id             string
	name           string
	filter         Filter
	handler        Handler
	priority       Priority
	receiveHandled bool
	once           bool

	// seq orders subscriptions of equal priority
	seq   uint64
	state atomic.Int32
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*Subscription)

// WithPriority sets the execution priority. Lower values run first.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *Subscription) {
		s.priority = p
	}
}

// WithName sets a name used in logs and errors. Defaults to the ID.
func WithName(name string) SubscriptionOption {
	return func(s *Subscription) {
		s.name = name
	}
}

// ReceiveHandled delivers events to the subscription even after another
// listener has marked them handled.
func ReceiveHandled() SubscriptionOption {
	return func(s *Subscription) {
		s.receiveHandled = true
	}
}

// Once cancels the subscription after its first delivery.
func Once() SubscriptionOption {
	return func(s *Subscription) {
		s.once = true
	}
}

func newSubscription(f Filter, h Handler, opts ...SubscriptionOption) *Subscription {
	s := &Subscription{
		id:       uuid.NewString(),
		filter:   f,
		handler:  h,
		priority: PriorityNormal,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = s.id
	}
	return s
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Name returns the subscription name.
func (s *Subscription) Name() string { return s.name }

// Filter returns the subscription filter.
func (s *Subscription) Filter() Filter { return s.filter }

// Priority returns the execution priority.
func (s *Subscription) Priority() Priority { return s.priority }

// State returns the current subscription state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive returns true if the subscription can receive events.
func (s *Subscription) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// Pause temporarily stops event delivery to this subscription.
func (s *Subscription) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStatePaused))
}

// Resume restarts event delivery after a pause.
func (s *Subscription) Resume() {
	s.state.CompareAndSwap(int32(SubscriptionStatePaused), int32(SubscriptionStateActive))
}

// Cancel permanently stops delivery. The bus drops cancelled subscriptions
// on the next publish.
func (s *Subscription) Cancel() {
	s.state.Store(int32(SubscriptionStateCancelled))
}

// accepts reports whether env should be delivered to the subscription.
func (s *Subscription) accepts(env *Envelope) bool {
	if !s.IsActive() {
		return false
	}
	if env.Handled && !s.receiveHandled {
		return false
	}
	return s.filter.Match(env.Event)
}
